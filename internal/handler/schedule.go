package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/paiban/roster/internal/service"
	apperrors "github.com/paiban/roster/pkg/errors"
)

// shiftCode 班次代码，兼容数字 1-4 与字符串 D/E/N/O、DAY/EVENING/NIGHT/OFF
type shiftCode string

// UnmarshalJSON 接受数字或字符串
func (c *shiftCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = shiftCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("班次代码应为数字或字符串: %w", err)
	}
	*c = shiftCode(n.String())
	return nil
}

// generateRequest 月度排班生成请求
type generateRequest struct {
	Year        int      `json:"year" validate:"required,min=1,max=9999"`
	Month       int      `json:"month" validate:"required,min=1,max=12"`
	EmployeeIDs []int64  `json:"employee_ids" validate:"required,min=1,unique,dive,gt=0"`
	Holidays    []string `json:"holidays" validate:"omitempty,dive,datetime=2006-01-02"`
}

// GenerateMonthly 生成月度排班并替换该月已有记录
func (h *Handler) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := h.readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	res, err := h.schedules.GenerateMonthlySchedule(r.Context(), service.GenerateRequest{
		Year:        req.Year,
		Month:       req.Month,
		EmployeeIDs: req.EmployeeIDs,
		Holidays:    req.Holidays,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// editRequest 单次修改请求
type editRequest struct {
	EmployeeID  int64     `json:"employee_id" validate:"required,gt=0"`
	Date        string    `json:"date" validate:"required,datetime=2006-01-02"`
	ShiftTypeID shiftCode `json:"shift_type_id" validate:"required"`
}

// EditShift 校验并应用单次修改
// 构成禁止模式时返回 200 与 success=false，不修改存储
func (h *Handler) EditShift(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := h.readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	decision, err := h.schedules.ValidateAndApplyEdit(r.Context(), service.EditRequest{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Code:       string(req.ShiftTypeID),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decision)
}

// monthParams 读取 {year}/{month}
func monthParams(r *http.Request) (int, int, error) {
	year, err := pathInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := pathInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	if month < 1 || month > 12 {
		return 0, 0, apperrors.InvalidInput("month", "月份必须在 1-12 之间")
	}
	return year, month, nil
}

// GetMonth 查询某月已存储的排班
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	shifts, err := h.schedules.ListMonthShifts(r.Context(), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, shifts)
}

// GetConflicts 审计某月已存储的排班
func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	conflicts, err := h.schedules.AuditMonth(r.Context(), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":      year,
		"month":     month,
		"valid":     len(conflicts) == 0,
		"conflicts": conflicts,
	})
}
