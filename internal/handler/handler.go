// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/internal/metrics"
	"github.com/paiban/roster/internal/middleware"
	"github.com/paiban/roster/internal/service"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// HealthChecker 依赖健康检查，例如数据库连接
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options 可选依赖
type Options struct {
	Metrics     *metrics.Collector
	Health      HealthChecker
	RateLimiter *middleware.RateLimiter
	Build       BuildInfo
}

// Handler HTTP 处理器
type Handler struct {
	cfg        *config.Config
	schedules  *service.ScheduleService
	employees  *service.EmployeeService
	opts       Options
	validate   *validator.Validate
	translator ut.Translator

	Mux *chi.Mux
}

// NewHandler 创建处理器并注册中文校验提示
func NewHandler(cfg *config.Config, schedules *service.ScheduleService, employees *service.EmployeeService, opts Options) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 校验提示使用 JSON 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		cfg:        cfg,
		schedules:  schedules,
		employees:  employees,
		opts:       opts,
		validate:   validate,
		translator: trans,
		Mux:        chi.NewRouter(),
	}, nil
}

// RegisterRoutes 注册中间件与路由
// 中间件执行顺序：requestID -> recoverer -> logging -> cors -> rateLimit -> handler
func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RequestID)
	h.Mux.Use(middleware.Recoverer)
	h.Mux.Use(middleware.Logging(h.opts.Metrics))
	if h.cfg.API.CORS.Enabled {
		h.Mux.Use(middleware.CORS(h.cfg.API.CORS.Origins))
	}
	if h.opts.RateLimiter != nil {
		h.Mux.Use(middleware.RateLimit(h.opts.RateLimiter))
	}

	// 系统端点
	h.Mux.Get("/health", h.Health)
	h.Mux.Get("/version", h.Version)
	if h.cfg.Metrics.Enabled && h.opts.Metrics != nil {
		h.Mux.Handle(h.cfg.Metrics.Path, h.opts.Metrics.Handler())
	}

	h.Mux.Route("/api", func(r chi.Router) {
		if h.cfg.API.Timeout > 0 {
			r.Use(chimw.Timeout(h.cfg.API.Timeout))
		}

		r.Get("/rules", h.GetRules)
		r.Get("/shift-types", h.GetShiftTypes)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Put("/", h.UpdateEmployee)
				r.Delete("/", h.DeleteEmployee)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.AddShift)
			r.Get("/employee/{employeeId}", h.ListEmployeeShifts)
			r.Delete("/{id}", h.DeleteShift)
			r.Post("/auto", h.AutoAssign)
			r.Post("/auto/monthly", h.GenerateMonthly)
			r.Patch("/update", h.EditShift)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/generate", h.GenerateMonthly)
			r.Route("/{year}/{month}", func(r chi.Router) {
				r.Get("/", h.GetMonth)
				r.Get("/conflicts", h.GetConflicts)
			})
		})
	})
}

// ServeHTTP 实现 http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Mux.ServeHTTP(w, r)
}
