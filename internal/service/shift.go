package service

import (
	"context"
	"fmt"

	"github.com/paiban/roster/internal/repository"
	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/optimizer"
	"github.com/paiban/roster/pkg/scheduler/solver"
)

// AddShiftRequest 新增班次记录请求
type AddShiftRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"work_date"`
	Code       string `json:"shift_type_id"`
}

// ListShifts 查询全部班次记录
func (s *ScheduleService) ListShifts(ctx context.Context) ([]*model.Shift, error) {
	shifts, err := s.shifts.List(ctx, repository.ShiftFilter{})
	if err != nil {
		return nil, apperrors.Database(err, "查询班次")
	}
	return shifts, nil
}

// ListEmployeeShifts 查询员工的全部班次记录
func (s *ScheduleService) ListEmployeeShifts(ctx context.Context, employeeID int64) ([]*model.Shift, error) {
	shifts, err := s.shifts.List(ctx, repository.ShiftFilter{}.WithEmployee(employeeID))
	if err != nil {
		return nil, apperrors.Database(err, "查询班次")
	}
	return shifts, nil
}

// ListMonthShifts 查询某月的班次记录
func (s *ScheduleService) ListMonthShifts(ctx context.Context, year, month int) ([]*model.Shift, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.InvalidInput("month", "月份必须在 1-12 之间")
	}
	first := fmt.Sprintf("%04d-%02d-01", year, month)
	start, err := model.ParseDate(first)
	if err != nil {
		return nil, apperrors.InvalidInput("year", err.Error())
	}
	last := model.FormatDate(start.AddDate(0, 1, -1))

	shifts, err := s.shifts.List(ctx, repository.ShiftFilter{}.WithDateRange(first, last))
	if err != nil {
		return nil, apperrors.Database(err, "查询班次")
	}
	return shifts, nil
}

// AddShift 新增一条班次记录，同一员工同一天已有记录时返回 ALREADY_EXISTS，
// 与前两天构成禁止模式时返回 HARD_PATTERN
func (s *ScheduleService) AddShift(ctx context.Context, req AddShiftRequest) (*model.Shift, error) {
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("work_date", "日期格式应为 YYYY-MM-DD")
	}
	code, err := model.ParseShiftCode(req.Code)
	if err != nil {
		return nil, apperrors.InvalidInput("shift_type_id", err.Error())
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
		return nil, apperrors.HardPattern(req.EmployeeID, model.FormatDate(date), decision.Pattern.Label())
	}

	shift := &model.Shift{EmployeeID: req.EmployeeID, ShiftTypeID: code, WorkDate: model.FormatDate(date)}
	if err := s.shifts.Add(ctx, shift); err != nil {
		return nil, mapStoreError(err, "班次记录", fmt.Sprintf("%d@%s", req.EmployeeID, shift.WorkDate), "新增班次")
	}
	shift.ShiftTypeName = code.Name()
	return shift, nil
}

// DeleteShift 删除班次记录
func (s *ScheduleService) DeleteShift(ctx context.Context, id int64) error {
	if err := s.shifts.Delete(ctx, id); err != nil {
		return mapStoreError(err, "班次记录", fmt.Sprint(id), "删除班次")
	}
	return nil
}

// AutoAssignRequest 轮换排班请求
type AutoAssignRequest struct {
	EmployeeIDs []int64 `json:"employee_ids"`
	StartDate   string  `json:"start_date"`
	Days        int     `json:"days"`
}

// AutoAssignResult 轮换排班结果
type AutoAssignResult struct {
	StartDate string        `json:"start_date"`
	Days      int           `json:"days"`
	Repaired  int           `json:"repaired"` // 为消除禁止模式改为休息的格子数
	Rows      []EmployeeRow `json:"rows"`
}

// AutoAssign 按 白班→大夜班→休息 的固定轮换为员工排班，起点按员工序号错开
//
// 轮换本身会产生 N-O-D，写入前先执行禁止模式修复。
func (s *ScheduleService) AutoAssign(ctx context.Context, req AutoAssignRequest) (*AutoAssignResult, error) {
	if len(req.EmployeeIDs) == 0 {
		return nil, apperrors.InvalidInput("employee_ids", "员工列表不能为空")
	}
	if req.Days <= 0 {
		return nil, apperrors.InvalidInput("days", "天数必须大于 0")
	}
	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.InvalidInput("start_date", "日期格式应为 YYYY-MM-DD")
	}
	if err := s.checkEmployees(ctx, req.EmployeeIDs); err != nil {
		return nil, err
	}

	grid, repaired := optimizer.RepairGrid(solver.NewRotationAssigner(solver.DefaultRotation).Assign(len(req.EmployeeIDs), req.Days))
	s.log.Repaired(repaired)

	for e, id := range req.EmployeeIDs {
		for d := 1; d <= req.Days; d++ {
			date := start.AddDate(0, 0, d-1)
			if _, err := s.shifts.UpsertShift(ctx, id, date, grid.At(e, d)); err != nil {
				return nil, apperrors.Database(err, "写入轮换排班")
			}
		}
	}

	rows := make([]EmployeeRow, len(req.EmployeeIDs))
	for e, id := range req.EmployeeIDs {
		codes := make([]byte, req.Days)
		for d := 1; d <= req.Days; d++ {
			codes[d-1] = grid.At(e, d).String()[0]
		}
		rows[e] = EmployeeRow{EmployeeID: id, Codes: string(codes)}
	}

	return &AutoAssignResult{
		StartDate: model.FormatDate(start),
		Days:      req.Days,
		Repaired:  repaired,
		Rows:      rows,
	}, nil
}
