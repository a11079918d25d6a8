package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.App.Port != 7012 {
		t.Errorf("App.Port = %d, expected 7012", cfg.App.Port)
	}
	if cfg.Database.SQLDriverName() != "postgres" {
		t.Errorf("SQLDriverName() = %s, expected postgres", cfg.Database.SQLDriverName())
	}
	if cfg.Redis.Enabled() {
		t.Error("未配置 REDIS_HOST 时不应启用 Redis")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, expected info", cfg.Log.Level)
	}

	p, err := cfg.Scheduler.Params()
	if err != nil {
		t.Fatalf("Params() error = %v", err)
	}
	if p.Annealing.InitialTemp != 120 || p.Annealing.CoolingRate != 0.985 || p.Annealing.StagnationLimit != 1200 {
		t.Errorf("Annealing = %+v", p.Annealing)
	}
	if p.Neighbor.MaxAttempts != 30 || p.Neighbor.SwapProbability != 0.6 {
		t.Errorf("Neighbor = %+v", p.Neighbor)
	}
	if p.Evaluator.Weights.Coverage != 500 || p.Evaluator.MaxConsecutive != 4 {
		t.Errorf("Evaluator = %+v", p.Evaluator)
	}
	if p.Evaluator.Coverage.Weekday.Day != 3 || p.Evaluator.Coverage.WeekendHoliday.Day != 2 {
		t.Errorf("Coverage = %+v", p.Evaluator.Coverage)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"APP_PORT":               "8080",
		"DB_DRIVER":              "pgx",
		"DB_DSN":                 "postgres://u:p@db/roster",
		"REDIS_HOST":             "redis",
		"SCHEDULER_WORKERS":      "4",
		"SCHEDULER_MAX_DURATION": "3s",
		"API_CORS_ORIGINS":       "http://a.test,http://b.test",
	}})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.App.Port != 8080 {
		t.Errorf("App.Port = %d, expected 8080", cfg.App.Port)
	}
	if cfg.Database.SQLDriverName() != "pgx" || cfg.Database.ConnString() != "postgres://u:p@db/roster" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.Addr() != "redis:6379" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Scheduler.Workers != 4 || cfg.Scheduler.MaxDuration != 3*time.Second {
		t.Errorf("Scheduler = %+v", cfg.Scheduler)
	}
	if len(cfg.API.CORS.Origins) != 2 {
		t.Errorf("CORS.Origins = %v, expected 2 entries", cfg.API.CORS.Origins)
	}
}

func TestParse_InvalidScheduler(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"负权重", map[string]string{"SCHEDULER_WEIGHT_BALANCE": "-1"}},
		{"降温系数越界", map[string]string{"SCHEDULER_COOLING_RATE": "1.5"}},
		{"交换概率越界", map[string]string{"SCHEDULER_SWAP_PROBABILITY": "2"}},
		{"类型错误", map[string]string{"SCHEDULER_WORKERS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(env.Options{Environment: tt.env}); err == nil {
				t.Error("Parse() 应返回错误")
			}
		})
	}
}

func TestDatabaseConfig_ConnString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "roster", SSLMode: "disable"}
	expected := "host=db port=5432 user=u password=p dbname=roster sslmode=disable"
	if got := c.ConnString(); got != expected {
		t.Errorf("ConnString() = %s, expected %s", got, expected)
	}
}
