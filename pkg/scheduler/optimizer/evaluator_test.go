package optimizer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

func mustCalendar(t *testing.T, holidays ...time.Time) *roster.Calendar {
	t.Helper()
	cal, err := roster.NewCalendar(2025, time.September, holidays)
	if err != nil {
		t.Fatal(err)
	}
	return cal
}

func mustGrid(t *testing.T, rows ...string) *roster.Grid {
	t.Helper()
	g, err := roster.FromRows(rows...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"默认权重", DefaultWeights(), false},
		{"覆盖不是最大", Weights{Coverage: 100, Consecutive: 250, OffCount: 60, OffStd: 20, Balance: 10}, true},
		{"均衡项高于休息天数", Weights{Coverage: 500, Consecutive: 250, OffCount: 60, OffStd: 80, Balance: 10}, true},
		{"负权重", Weights{Coverage: 500, Consecutive: 250, OffCount: 60, OffStd: 20, Balance: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewEvaluator_InvalidConfig(t *testing.T) {
	cal := mustCalendar(t)

	cfg := DefaultEvaluatorConfig()
	cfg.OffRatio = 1.5
	if _, err := NewEvaluator(cal, cfg); err == nil {
		t.Error("休息比例超出范围应报错")
	}

	cfg = DefaultEvaluatorConfig()
	cfg.MaxConsecutive = 0
	if _, err := NewEvaluator(cal, cfg); err == nil {
		t.Error("最大连续天数为0应报错")
	}

	if _, err := NewEvaluator(nil, DefaultEvaluatorConfig()); err == nil {
		t.Error("日历为空应报错")
	}
}

func TestEvaluator_Consecutive(t *testing.T) {
	ev, err := NewEvaluator(mustCalendar(t), EvaluatorConfig{
		Weights:        DefaultWeights(),
		MaxConsecutive: 4,
	})
	if err != nil {
		t.Fatal(err)
	}

	// 连续 6 天：第5天 +1，第6天 +2
	b := ev.Evaluate(mustGrid(t, "DDDDDD"))
	if b.Consecutive != 750 {
		t.Errorf("Consecutive = %v, expected 750", b.Consecutive)
	}
	if b.Total != 750 {
		t.Errorf("Total = %v, expected 750", b.Total)
	}

	// 休息打断连续计数
	b = ev.Evaluate(mustGrid(t, "DDDDODDDD"))
	if b.Consecutive != 0 {
		t.Errorf("Consecutive = %v, expected 0", b.Consecutive)
	}
}

func TestEvaluator_OffAndBalance(t *testing.T) {
	ev, err := NewEvaluator(mustCalendar(t), EvaluatorConfig{
		Weights:        DefaultWeights(),
		MaxConsecutive: 4,
		OffRatio:       0.5,
	})
	if err != nil {
		t.Fatal(err)
	}

	b := ev.Evaluate(mustGrid(t, "OOOO", "DDDD"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"目标休息天数", b.OffTarget, 2},
		{"休息天数偏离", b.OffCount, 240}, // (2+2)*60
		{"休息标准差", b.OffStd, 40},     // std(4,0)=2
		{"班次均衡", b.Balance, 20},       // std(0,4)=2
		{"总成本", b.Total, 300},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, expected %v", tt.name, tt.got, tt.want)
		}
	}
}

// 按 8 人构造：0-2 白班，3-4 小夜，5-6 大夜，7 全休；员工 2 在第 10 天休息
func coverageGrid(t *testing.T) *roster.Grid {
	t.Helper()
	rows := []string{
		strings.Repeat("D", 30),
		strings.Repeat("D", 30),
		strings.Repeat("D", 9) + "O" + strings.Repeat("D", 20),
		strings.Repeat("E", 30),
		strings.Repeat("E", 30),
		strings.Repeat("N", 30),
		strings.Repeat("N", 30),
		strings.Repeat("O", 30),
	}
	return mustGrid(t, rows...)
}

func TestEvaluator_CoverageMonotonicity(t *testing.T) {
	grid := coverageGrid(t)

	// 第 10 天为节假日时只需 2 名白班，即满足覆盖
	covered, err := NewEvaluator(mustCalendar(t, time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)), DefaultEvaluatorConfig())
	if err != nil {
		t.Fatal(err)
	}
	short, err := NewEvaluator(mustCalendar(t), DefaultEvaluatorConfig())
	if err != nil {
		t.Fatal(err)
	}

	full := covered.Evaluate(grid)
	missing := short.Evaluate(grid)

	if full.Shortfall != 0 {
		t.Fatalf("节假日日历下不应有缺口: %d", full.Shortfall)
	}
	if missing.Shortfall != 1 {
		t.Fatalf("平日日历下应缺 1 名白班: %d", missing.Shortfall)
	}
	if missing.Coverage-full.Coverage != DefaultWeights().Coverage {
		t.Errorf("覆盖成本差 = %v, expected %v", missing.Coverage-full.Coverage, DefaultWeights().Coverage)
	}
	if diff := missing.Total - full.Total; math.Abs(diff-DefaultWeights().Coverage) > 1e-6 {
		t.Errorf("总成本差 = %v, expected %v", diff, DefaultWeights().Coverage)
	}
}

func TestEvaluator_ShortfallMatchesGrid(t *testing.T) {
	cal := mustCalendar(t)
	ev, _ := NewEvaluator(cal, DefaultEvaluatorConfig())
	grid := coverageGrid(t)

	expected := 0
	cov := roster.DefaultCoverage()
	for day := 1; day <= grid.Days(); day++ {
		req := cov.ForDay(cal, day)
		for _, code := range model.WorkCodes {
			if d := req.For(code) - grid.CountOnDay(day, code); d > 0 {
				expected += d
			}
		}
	}
	if b := ev.Evaluate(grid); b.Shortfall != expected {
		t.Errorf("Shortfall = %d, expected %d", b.Shortfall, expected)
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{5}, 0},
		{[]float64{2, 4, 4, 4, 5, 5, 7, 9}, 2},
	}
	for _, tt := range tests {
		if got := stdDev(tt.values); got != tt.want {
			t.Errorf("stdDev(%v) = %v, expected %v", tt.values, got, tt.want)
		}
	}
}
