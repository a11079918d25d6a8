// Package config 提供配置管理
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/scheduler/optimizer"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Log       logger.Config   `envPrefix:"LOG_"`
	Database  DatabaseConfig  `envPrefix:"DB_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	AMQP      AMQPConfig      `envPrefix:"AMQP_"`
	API       APIConfig       `envPrefix:"API_"`
	Scheduler SchedulerConfig `envPrefix:"SCHEDULER_"`
	Metrics   MetricsConfig   `envPrefix:"METRICS_"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"roster"`
	Env             string        `env:"ENV" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"7012"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"postgres"` // postgres(lib/pq) / pgx
	DSN             string        `env:"DSN"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	Name            string        `env:"NAME" envDefault:"roster"`
	User            string        `env:"USER" envDefault:"roster"`
	Password        string        `env:"PASSWORD"`
	SSLMode         string        `env:"SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	SlowQuery       time.Duration `env:"SLOW_QUERY" envDefault:"100ms"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"false"`
}

// ConnString 返回数据库连接字符串，显式配置的 DSN 优先
func (c *DatabaseConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SQLDriverName 返回 database/sql 注册的驱动名
func (c *DatabaseConfig) SQLDriverName() string {
	if c.Driver == "pgx" {
		return "pgx"
	}
	return "postgres"
}

// RedisConfig Redis配置，Host 为空时使用进程内锁
type RedisConfig struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	PoolSize int           `env:"POOL_SIZE" envDefault:"10"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"2m"`
}

// Enabled 是否配置了 Redis
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr 返回Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AMQPConfig 消息队列配置，URL 为空时不发布事件
type AMQPConfig struct {
	URL            string        `env:"URL"`
	Exchange       string        `env:"EXCHANGE" envDefault:"roster.events"`
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"5s"`
}

// APIConfig API配置
type APIConfig struct {
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"60s"`
	RateLimit  int           `env:"RATE_LIMIT" envDefault:"120"` // 每个客户端在窗口内的请求上限，0 表示不限
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	CORS       CORSConfig    `envPrefix:"CORS_"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"true"`
	Origins []string `env:"ORIGINS" envDefault:"*" envSeparator:","`
}

// SchedulerConfig 排班引擎配置
type SchedulerConfig struct {
	// 模拟退火
	InitialTemp     float64       `env:"INITIAL_TEMP" envDefault:"120"`
	CoolingRate     float64       `env:"COOLING_RATE" envDefault:"0.985"`
	MinTemp         float64       `env:"MIN_TEMP" envDefault:"0.1"`
	MaxIterations   int           `env:"MAX_ITERATIONS" envDefault:"10000"`
	StagnationLimit int           `env:"STAGNATION_LIMIT" envDefault:"1200"`
	MaxDuration     time.Duration `env:"MAX_DURATION" envDefault:"0s"`
	Workers         int           `env:"WORKERS" envDefault:"1"`
	Seed            int64         `env:"SEED" envDefault:"0"` // 0 表示按当前时间生成

	// 邻域
	NeighborAttempts int     `env:"NEIGHBOR_ATTEMPTS" envDefault:"30"`
	SwapProbability  float64 `env:"SWAP_PROBABILITY" envDefault:"0.6"`

	// 软约束
	MaxConsecutive    int     `env:"MAX_CONSECUTIVE" envDefault:"4"`
	OffRatio          float64 `env:"OFF_RATIO" envDefault:"0.3333333333333333"`
	WeightCoverage    float64 `env:"WEIGHT_COVERAGE" envDefault:"500"`
	WeightConsecutive float64 `env:"WEIGHT_CONSECUTIVE" envDefault:"250"`
	WeightOffCount    float64 `env:"WEIGHT_OFF_COUNT" envDefault:"60"`
	WeightOffStd      float64 `env:"WEIGHT_OFF_STD" envDefault:"20"`
	WeightBalance     float64 `env:"WEIGHT_BALANCE" envDefault:"10"`

	// 每日覆盖需求
	WeekdayDay     int `env:"WEEKDAY_DAY" envDefault:"3"`
	WeekdayEvening int `env:"WEEKDAY_EVENING" envDefault:"2"`
	WeekdayNight   int `env:"WEEKDAY_NIGHT" envDefault:"2"`
	WeekendDay     int `env:"WEEKEND_DAY" envDefault:"2"`
	WeekendEvening int `env:"WEEKEND_EVENING" envDefault:"2"`
	WeekendNight   int `env:"WEEKEND_NIGHT" envDefault:"2"`

	RecommendedMinStaff int `env:"RECOMMENDED_MIN_STAFF" envDefault:"7"`
}

// Params 引擎参数
type Params struct {
	Evaluator optimizer.EvaluatorConfig
	Annealing *optimizer.AnnealingConfig
	Neighbor  optimizer.NeighborConfig
}

// Coverage 每日覆盖需求
func (c *SchedulerConfig) Coverage() roster.Coverage {
	return roster.Coverage{
		Weekday:        roster.Requirement{Day: c.WeekdayDay, Evening: c.WeekdayEvening, Night: c.WeekdayNight},
		WeekendHoliday: roster.Requirement{Day: c.WeekendDay, Evening: c.WeekendEvening, Night: c.WeekendNight},
	}
}

// Params 转换为引擎参数并校验
func (c *SchedulerConfig) Params() (*Params, error) {
	p := &Params{
		Evaluator: optimizer.EvaluatorConfig{
			Weights: optimizer.Weights{
				Coverage:    c.WeightCoverage,
				Consecutive: c.WeightConsecutive,
				OffCount:    c.WeightOffCount,
				OffStd:      c.WeightOffStd,
				Balance:     c.WeightBalance,
			},
			Coverage:       c.Coverage(),
			MaxConsecutive: c.MaxConsecutive,
			OffRatio:       c.OffRatio,
		},
		Annealing: &optimizer.AnnealingConfig{
			InitialTemp:     c.InitialTemp,
			CoolingRate:     c.CoolingRate,
			MinTemp:         c.MinTemp,
			MaxIterations:   c.MaxIterations,
			StagnationLimit: c.StagnationLimit,
			MaxTime:         c.MaxDuration,
			Workers:         c.Workers,
			Seed:            c.Seed,
		},
		Neighbor: optimizer.NeighborConfig{
			MaxAttempts:     c.NeighborAttempts,
			SwapProbability: c.SwapProbability,
		},
	}

	if err := p.Evaluator.Weights.Validate(); err != nil {
		return nil, err
	}
	if err := p.Evaluator.Coverage.Validate(); err != nil {
		return nil, err
	}
	if err := p.Annealing.Validate(); err != nil {
		return nil, err
	}
	if p.Neighbor.MaxAttempts <= 0 {
		return nil, fmt.Errorf("邻域尝试次数必须为正数: %d", p.Neighbor.MaxAttempts)
	}
	if p.Neighbor.SwapProbability < 0 || p.Neighbor.SwapProbability > 1 {
		return nil, fmt.Errorf("交换概率必须在 [0,1] 区间: %v", p.Neighbor.SwapProbability)
	}
	return p, nil
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	return Parse(env.Options{})
}

// Parse 按给定选项解析配置，测试中通过 Environment 注入变量
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if _, err := cfg.Scheduler.Params(); err != nil {
		return nil, fmt.Errorf("排班引擎配置无效: %w", err)
	}
	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
