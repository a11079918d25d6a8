// 医院月度排班服务
// 主程序入口

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/internal/database"
	"github.com/paiban/roster/internal/events"
	"github.com/paiban/roster/internal/handler"
	"github.com/paiban/roster/internal/lock"
	"github.com/paiban/roster/internal/metrics"
	"github.com/paiban/roster/internal/middleware"
	"github.com/paiban/roster/internal/repository"
	"github.com/paiban/roster/internal/service"
	"github.com/paiban/roster/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("服务异常退出")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger.Init(cfg.Log)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.App.Env).
		Msg("排班服务启动中")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			return fmt.Errorf("初始化数据库结构失败: %w", err)
		}
		logger.Info().Msg("数据库结构已就绪")
	}

	collector := metrics.Default()

	opts := []service.Option{
		service.WithMetrics(collector),
	}

	// 月份锁：配置了 Redis 时跨实例互斥，否则进程内互斥
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("Redis 连接失败: %w", err)
		}
		opts = append(opts, service.WithLocker(lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)))
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("使用 Redis 月份锁")
	}

	// 排班事件
	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.PublishTimeout)
		if err != nil {
			return fmt.Errorf("AMQP 连接失败: %w", err)
		}
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
		logger.Info().Str("exchange", cfg.AMQP.Exchange).Msg("排班事件发布已启用")
	}

	shifts := repository.NewShiftRepository(db)
	employees := repository.NewEmployeeRepository(db)

	schedules, err := service.NewScheduleService(cfg.Scheduler, shifts, employees, opts...)
	if err != nil {
		return err
	}

	hopts := handler.Options{
		Metrics: collector,
		Health:  db,
		Build:   handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
	}
	if cfg.API.RateLimit > 0 {
		rl := middleware.NewRateLimiter(cfg.API.RateLimit, cfg.API.RateWindow)
		go rl.Run(ctx)
		hopts.RateLimiter = rl
	}

	h, err := handler.NewHandler(cfg, schedules, service.NewEmployeeService(employees), hopts)
	if err != nil {
		return fmt.Errorf("创建处理器失败: %w", err)
	}
	h.RegisterRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.API.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 优雅关闭
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}

	logger.Info().Msg("服务器已关闭")
	return nil
}
