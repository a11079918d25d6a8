package handler

import (
	"net/http"

	"github.com/paiban/roster/internal/service"
)

// ListShifts 查询全部班次记录
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.schedules.ListShifts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, shifts)
}

// ListEmployeeShifts 查询员工的班次记录
func (h *Handler) ListEmployeeShifts(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "employeeId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	shifts, err := h.schedules.ListEmployeeShifts(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, shifts)
}

type addShiftRequest struct {
	EmployeeID  int64     `json:"employee_id" validate:"required,gt=0"`
	WorkDate    string    `json:"work_date" validate:"required,datetime=2006-01-02"`
	ShiftTypeID shiftCode `json:"shift_type_id" validate:"required"`
}

// AddShift 新增班次记录，不做禁止模式校验
func (h *Handler) AddShift(w http.ResponseWriter, r *http.Request) {
	var req addShiftRequest
	if err := h.readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	shift, err := h.schedules.AddShift(r.Context(), service.AddShiftRequest{
		EmployeeID: req.EmployeeID,
		Date:       req.WorkDate,
		Code:       string(req.ShiftTypeID),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, shift)
}

// DeleteShift 删除班次记录
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.schedules.DeleteShift(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type autoAssignRequest struct {
	EmployeeIDs []int64 `json:"employee_ids" validate:"required,min=1,unique,dive,gt=0"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	Days        int     `json:"days" validate:"required,min=1,max=366"`
}

// AutoAssign 轮换排班
func (h *Handler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req autoAssignRequest
	if err := h.readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	res, err := h.schedules.AutoAssign(r.Context(), service.AutoAssignRequest{
		EmployeeIDs: req.EmployeeIDs,
		StartDate:   req.StartDate,
		Days:        req.Days,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
