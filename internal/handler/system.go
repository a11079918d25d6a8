package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/paiban/roster/internal/constraints"
	"github.com/paiban/roster/pkg/model"
)

// Health 健康检查，数据库不可用时返回 503
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	checks := map[string]string{}

	if h.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.Health.Health(ctx); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}
	}

	respondJSON(w, code, map[string]interface{}{
		"status":  status,
		"service": h.cfg.App.Name,
		"checks":  checks,
	})
}

// Version 版本信息
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.opts.Build)
}

// GetRules 返回当前生效的规则目录
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, constraints.LibraryResponse{
		Library: constraints.GetLibrary(h.cfg.Scheduler),
	})
}

// GetShiftTypes 返回四种班次的名称与时间
func (h *Handler) GetShiftTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, model.DefaultShiftTypes())
}
