// Package optimizer 提供排班优化算法（模拟退火）
package optimizer

import (
	"fmt"
	"math"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// Weights 软约束权重
type Weights struct {
	Coverage    float64 `json:"coverage"`    // 每缺 1 人·班次
	Consecutive float64 `json:"consecutive"` // 连续工作超出上限，每天按超出天数计
	OffCount    float64 `json:"off_count"`   // 休息天数偏离目标，每天
	OffStd      float64 `json:"off_std"`     // 休息天数标准差
	Balance     float64 `json:"balance"`     // 各班次数量标准差之和
}

// DefaultWeights 默认权重
func DefaultWeights() Weights {
	return Weights{
		Coverage:    500,
		Consecutive: 250,
		OffCount:    60,
		OffStd:      20,
		Balance:     10,
	}
}

// Validate 校验权重次序：覆盖 > 连续工作 > 休息天数 > 均衡项
func (w Weights) Validate() error {
	if w.Balance < 0 || w.OffStd < 0 {
		return fmt.Errorf("均衡权重不能为负: balance=%.2f, off_std=%.2f", w.Balance, w.OffStd)
	}
	if !(w.Coverage > w.Consecutive && w.Consecutive > w.OffCount &&
		w.OffCount > w.OffStd && w.OffCount > w.Balance) {
		return fmt.Errorf("权重次序无效: coverage=%.2f, consecutive=%.2f, off_count=%.2f, off_std=%.2f, balance=%.2f",
			w.Coverage, w.Consecutive, w.OffCount, w.OffStd, w.Balance)
	}
	return nil
}

// DefaultOffRatio 默认休息比例（30 天休 10 天）
const DefaultOffRatio = 10.0 / 30.0

// DefaultMaxConsecutive 默认最大连续工作天数
const DefaultMaxConsecutive = 4

// EvaluatorConfig 评估器配置
type EvaluatorConfig struct {
	Weights        Weights         `json:"weights"`
	Coverage       roster.Coverage `json:"coverage"`
	MaxConsecutive int             `json:"max_consecutive"`
	OffRatio       float64         `json:"off_ratio"`
}

// DefaultEvaluatorConfig 默认评估器配置
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		Weights:        DefaultWeights(),
		Coverage:       roster.DefaultCoverage(),
		MaxConsecutive: DefaultMaxConsecutive,
		OffRatio:       DefaultOffRatio,
	}
}

// Breakdown 成本分项
type Breakdown struct {
	Coverage    float64 `json:"coverage"`
	Consecutive float64 `json:"consecutive"`
	OffCount    float64 `json:"off_count"`
	OffStd      float64 `json:"off_std"`
	Balance     float64 `json:"balance"`

	Shortfall int     `json:"shortfall"`  // 覆盖缺口（人·班次）
	OffTarget float64 `json:"off_target"` // 每人目标休息天数
	Total     float64 `json:"total"`
}

// Evaluator 成本评估器（越低越好），构造后只读，可并发使用
type Evaluator struct {
	cfg EvaluatorConfig
	cal *roster.Calendar
}

// NewEvaluator 创建评估器
func NewEvaluator(cal *roster.Calendar, cfg EvaluatorConfig) (*Evaluator, error) {
	if cal == nil {
		return nil, fmt.Errorf("日历不能为空")
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Coverage.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxConsecutive <= 0 {
		return nil, fmt.Errorf("最大连续工作天数必须为正: %d", cfg.MaxConsecutive)
	}
	if cfg.OffRatio < 0 || cfg.OffRatio > 1 {
		return nil, fmt.Errorf("休息比例必须在 [0,1] 内: %.4f", cfg.OffRatio)
	}
	return &Evaluator{cfg: cfg, cal: cal}, nil
}

// Config 返回评估器配置
func (ev *Evaluator) Config() EvaluatorConfig {
	return ev.cfg
}

// Calendar 返回日历
func (ev *Evaluator) Calendar() *roster.Calendar {
	return ev.cal
}

// Cost 计算总成本
func (ev *Evaluator) Cost(g *roster.Grid) float64 {
	return ev.Evaluate(g).Total
}

// Evaluate 计算各分项成本
func (ev *Evaluator) Evaluate(g *roster.Grid) Breakdown {
	w := ev.cfg.Weights
	days := g.Days()
	employees := g.Employees()

	var b Breakdown

	// 覆盖缺口
	for day := 1; day <= days; day++ {
		req := ev.cfg.Coverage.ForDay(ev.cal, day)
		for _, code := range model.WorkCodes {
			if short := req.For(code) - g.CountOnDay(day, code); short > 0 {
				b.Shortfall += short
			}
		}
	}
	b.Coverage = float64(b.Shortfall) * w.Coverage

	// 连续工作与休息天数
	b.OffTarget = float64(days) * ev.cfg.OffRatio
	offCounts := make([]float64, employees)
	for e := 0; e < employees; e++ {
		streak := 0
		off := 0
		for _, c := range g.Row(e) {
			if c == model.Off {
				off++
				streak = 0
				continue
			}
			streak++
			if streak > ev.cfg.MaxConsecutive {
				b.Consecutive += float64(streak-ev.cfg.MaxConsecutive) * w.Consecutive
			}
		}
		offCounts[e] = float64(off)
		b.OffCount += math.Abs(float64(off)-b.OffTarget) * w.OffCount
	}
	b.OffStd = stdDev(offCounts) * w.OffStd

	// 班次均衡
	var balance float64
	perType := make([]float64, employees)
	for _, code := range model.WorkCodes {
		for e := 0; e < employees; e++ {
			perType[e] = float64(g.CountForEmployee(e, code))
		}
		balance += stdDev(perType)
	}
	b.Balance = balance * w.Balance

	b.Total = b.Coverage + b.Consecutive + b.OffCount + b.OffStd + b.Balance
	return b
}

// stdDev 总体标准差
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
