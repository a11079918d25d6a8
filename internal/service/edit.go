package service

import (
	"context"
	"fmt"

	"github.com/paiban/roster/internal/events"
	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/validator"
)

// EditRequest 单次班次修改请求
type EditRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Code       string `json:"code"` // 1-4 / D,E,N,O / DAY,EVENING,NIGHT,OFF
}

// ValidateAndApplyEdit 校验单次修改，通过时只写入这一格
//
// 构成禁止模式时返回 Accepted=false 的决定而不是错误，存储不变。
func (s *ScheduleService) ValidateAndApplyEdit(ctx context.Context, req EditRequest) (*validator.Decision, error) {
	if req.EmployeeID <= 0 {
		return nil, apperrors.InvalidInput("employee_id", "员工ID无效")
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("date", "日期格式应为 YYYY-MM-DD")
	}
	code, err := model.ParseShiftCode(req.Code)
	if err != nil {
		return nil, apperrors.InvalidInput("code", err.Error())
	}
	if err := s.checkEmployees(ctx, []int64{req.EmployeeID}); err != nil {
		return nil, err
	}

	decision, err := s.edits.Validate(ctx, req.EmployeeID, date, code)
	if err != nil {
		return nil, apperrors.Database(err, "查询历史班次")
	}

	if !decision.Accepted {
		s.log.EditRejected(req.EmployeeID, req.Date, decision.Pattern.Label())
		if s.metrics != nil {
			s.metrics.RecordEdit(false, string(decision.Pattern))
		}
		return decision, nil
	}

	if _, err := s.shifts.UpsertShift(ctx, req.EmployeeID, date, code); err != nil {
		return nil, apperrors.Database(err, fmt.Sprintf("写入员工 %d 的班次", req.EmployeeID))
	}
	if s.metrics != nil {
		s.metrics.RecordEdit(true, "")
	}
	s.publish(ctx, events.RosterEdited, events.Edited{
		EmployeeID: req.EmployeeID,
		Date:       model.FormatDate(date),
		Code:       code.String(),
	})
	return decision, nil
}
