// Package logger 提供统一的日志框架
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

type ctxKey string

// RequestIDKey 请求ID在 context 中的键
const RequestIDKey ctxKey = "request_id"

// Config 日志配置
type Config struct {
	Level      string `env:"LEVEL" envDefault:"info" json:"level"`
	Format     string `env:"FORMAT" envDefault:"console" json:"format"` // json/console
	Output     string `env:"OUTPUT" envDefault:"stdout" json:"output"`  // stdout/stderr/file
	FilePath   string `env:"FILE_PATH" json:"file_path,omitempty"`
	TimeFormat string `env:"TIME_FORMAT" envDefault:"2006-01-02T15:04:05Z07:00" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			output = os.Stdout
			if cfg.FilePath != "" {
				if f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
					output = f
				}
			}
		case "discard":
			output = io.Discard
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器
func Get() *zerolog.Logger {
	if logger.GetLevel() == zerolog.Disabled {
		Init(DefaultConfig())
	}
	return &logger
}

// ContextWithRequestID 将请求ID写入上下文
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID 从上下文读取请求ID
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// WithContext 从上下文创建日志器
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Get().With().Logger()

	if reqID := RequestID(ctx); reqID != "" {
		l = l.With().Str("request_id", reqID).Logger()
	}

	return &l
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// SchedulerLogger 排班引擎专用日志器
type SchedulerLogger struct {
	base *zerolog.Logger
}

// NewSchedulerLogger 创建排班引擎日志器
func NewSchedulerLogger() *SchedulerLogger {
	l := Get().With().Str("component", "scheduler").Logger()
	return &SchedulerLogger{base: &l}
}

// ForRun 绑定一次排班运行的ID
func (l *SchedulerLogger) ForRun(runID string) *SchedulerLogger {
	child := l.base.With().Str("run_id", runID).Logger()
	return &SchedulerLogger{base: &child}
}

// StartSchedule 记录排班开始
func (l *SchedulerLogger) StartSchedule(employees, days int, seed int64) {
	l.base.Info().
		Int("employees", employees).
		Int("days", days).
		Int64("seed", seed).
		Msg("开始生成排班")
}

// StaffingWarning 员工数不足以满足每日覆盖需求
func (l *SchedulerLogger) StaffingWarning(employees, recommended int) {
	l.base.Warn().
		Int("employees", employees).
		Int("recommended", recommended).
		Msg("员工数不足，覆盖需求可能无法满足")
}

// InitialSolution 记录初始解
func (l *SchedulerLogger) InitialSolution(cost float64, forced int) {
	l.base.Info().
		Float64("cost", cost).
		Int("forced_assignments", forced).
		Msg("初始解构造完成")
}

// Improved 记录发现更优解
func (l *SchedulerLogger) Improved(iteration int, cost float64) {
	l.base.Debug().
		Int("iteration", iteration).
		Float64("best_cost", cost).
		Msg("发现更优解")
}

// Reheat 记录重新升温
func (l *SchedulerLogger) Reheat(iteration int, temperature, bestCost float64) {
	l.base.Debug().
		Int("iteration", iteration).
		Float64("temperature", temperature).
		Float64("best_cost", bestCost).
		Msg("长时间无改进，重新升温")
}

// Repaired 记录禁止模式修复
func (l *SchedulerLogger) Repaired(cells int) {
	if cells == 0 {
		return
	}
	l.base.Info().
		Int("cells", cells).
		Msg("已修复禁止模式")
}

// ScheduleComplete 记录排班完成
func (l *SchedulerLogger) ScheduleComplete(duration time.Duration, cost float64, iterations int, fingerprint uint64) {
	l.base.Info().
		Dur("duration", duration).
		Float64("cost", cost).
		Int("iterations", iterations).
		Uint64("fingerprint", fingerprint).
		Msg("排班生成完成")
}

// ScheduleFailed 记录排班失败，已存储的排班保持不变
func (l *SchedulerLogger) ScheduleFailed(code string, err error) {
	l.base.Warn().
		Str("code", code).
		Err(err).
		Msg("排班生成失败")
}

// EditRejected 记录被拒绝的单次修改
func (l *SchedulerLogger) EditRejected(employeeID int64, date, pattern string) {
	l.base.Info().
		Int64("employee_id", employeeID).
		Str("date", date).
		Str("pattern", pattern).
		Msg("班次修改被拒绝")
}
