package handler

import (
	"net/http"

	"github.com/paiban/roster/internal/service"
)

type employeeRequest struct {
	Name                string `json:"name" validate:"required,max=100"`
	Role                string `json:"role" validate:"required,max=50"`
	NightShiftAvailable *bool  `json:"night_shift_available"`
	MaxWeeklyHours      int    `json:"max_weekly_hours" validate:"omitempty,gt=0,max=168"`
}

func (req employeeRequest) input() service.EmployeeInput {
	return service.EmployeeInput{
		Name:                req.Name,
		Role:                req.Role,
		NightShiftAvailable: req.NightShiftAvailable,
		MaxWeeklyHours:      req.MaxWeeklyHours,
	}
}

// ListEmployees 查询全部员工
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	emps, err := h.employees.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, emps)
}

// CreateEmployee 创建员工
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := h.readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	emp, err := h.employees.Create(r.Context(), req.input())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, emp)
}

// GetEmployee 查询员工
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	emp, err := h.employees.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

// UpdateEmployee 更新员工
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req employeeRequest
	if err := h.readJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	emp, err := h.employees.Update(r.Context(), id, req.input())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

// DeleteEmployee 删除员工及其班次记录
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.employees.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
