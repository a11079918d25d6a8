// Package service 实现排班业务流程：月度生成、单次修改、轮换排班与审计
package service

import (
	"context"
	"errors"
	"time"

	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/internal/events"
	"github.com/paiban/roster/internal/lock"
	"github.com/paiban/roster/internal/metrics"
	"github.com/paiban/roster/internal/repository"
	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/validator"
)

// ShiftStore 班次记录存储
type ShiftStore interface {
	validator.HistoryLookup
	ReplaceMonth(ctx context.Context, rng model.DateRange, shifts []*model.Shift) error
	UpsertShift(ctx context.Context, employeeID int64, date time.Time, code model.ShiftCode) (*model.Shift, error)
	Add(ctx context.Context, shift *model.Shift) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repository.ShiftFilter) ([]*model.Shift, error)
}

// EmployeeStore 员工存储
type EmployeeStore interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Employee, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*model.Employee, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// ScheduleService 排班服务
type ScheduleService struct {
	cfg       config.SchedulerConfig
	params    *config.Params
	shifts    ShiftStore
	employees EmployeeStore
	locker    lock.Locker
	publisher events.Publisher
	metrics   *metrics.Collector
	log       *logger.SchedulerLogger
	edits     *validator.EditValidator
	detector  *validator.ConflictDetector
	now       func() time.Time
}

// Option 服务选项
type Option func(*ScheduleService)

// WithLocker 设置月份锁
func WithLocker(l lock.Locker) Option {
	return func(s *ScheduleService) { s.locker = l }
}

// WithPublisher 设置事件发布者
func WithPublisher(p events.Publisher) Option {
	return func(s *ScheduleService) { s.publisher = p }
}

// WithMetrics 设置指标集合
func WithMetrics(c *metrics.Collector) Option {
	return func(s *ScheduleService) { s.metrics = c }
}

// WithLogger 设置引擎日志器
func WithLogger(l *logger.SchedulerLogger) Option {
	return func(s *ScheduleService) { s.log = l }
}

// NewScheduleService 创建排班服务
func NewScheduleService(cfg config.SchedulerConfig, shifts ShiftStore, employees EmployeeStore, opts ...Option) (*ScheduleService, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "排班引擎配置无效")
	}

	s := &ScheduleService{
		cfg:       cfg,
		params:    params,
		shifts:    shifts,
		employees: employees,
		locker:    lock.NewLocalLocker(),
		publisher: events.Noop{},
		edits:     validator.NewEditValidator(shifts),
		detector: validator.NewConflictDetector(&validator.DetectorConfig{
			MaxConsecutiveDays: cfg.MaxConsecutive,
			HoursPerShift:      validator.DefaultDetectorConfig().HoursPerShift,
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewSchedulerLogger()
	}
	return s, nil
}

// publish 发布事件，失败只记录日志
func (s *ScheduleService) publish(ctx context.Context, routingKey string, payload any) {
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("event", routingKey).Msg("事件发布失败")
	}
}

// mapContextError 将取消与超时转换为应用错误
func mapContextError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(err, "排班生成")
	case errors.Is(err, context.Canceled):
		return apperrors.Cancelled(err, "排班生成")
	default:
		return apperrors.Wrap(err, apperrors.CodeInternal, "排班生成失败")
	}
}

// mapStoreError 将仓储错误转换为应用错误
func mapStoreError(err error, resource, id, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource, id)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.AlreadyExists(resource, id)
	default:
		return apperrors.Database(err, op)
	}
}
