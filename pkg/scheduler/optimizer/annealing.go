// Package optimizer 提供排班优化算法（模拟退火）
package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// AnnealingConfig 模拟退火配置
type AnnealingConfig struct {
	InitialTemp     float64       `json:"initial_temp"`     // 初始温度
	CoolingRate     float64       `json:"cooling_rate"`     // 每次迭代的降温系数
	MinTemp         float64       `json:"min_temp"`         // 温度不高于该值时停止
	MaxIterations   int           `json:"max_iterations"`   // 最大迭代次数
	StagnationLimit int           `json:"stagnation_limit"` // 无改进次数超过该值时重新升温
	MaxTime         time.Duration `json:"max_time"`         // 最大运行时间，0 表示不限制
	Workers         int           `json:"workers"`          // 多起点并行数
	Seed            int64         `json:"seed"`             // 随机种子
}

// DefaultAnnealingConfig 默认退火配置
func DefaultAnnealingConfig() *AnnealingConfig {
	return &AnnealingConfig{
		InitialTemp:     120.0,
		CoolingRate:     0.985,
		MinTemp:         0.1,
		MaxIterations:   10000,
		StagnationLimit: 1200,
		Workers:         1,
	}
}

// Validate 校验配置
func (c *AnnealingConfig) Validate() error {
	if c.InitialTemp <= c.MinTemp {
		return fmt.Errorf("初始温度 %.3f 必须高于最低温度 %.3f", c.InitialTemp, c.MinTemp)
	}
	if c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		return fmt.Errorf("降温系数必须在 (0,1) 内: %.4f", c.CoolingRate)
	}
	if c.MaxIterations < 0 || c.StagnationLimit < 0 || c.MaxTime < 0 {
		return fmt.Errorf("迭代次数、停滞阈值和运行时间不能为负")
	}
	return nil
}

// State 退火控制器状态
type State int

const (
	StateRunning State = iota
	StateConverged
	StateRepairing
	StateDone
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateRepairing:
		return "repairing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// StopReason 搜索结束原因
type StopReason string

const (
	StopMaxIterations StopReason = "max_iterations"
	StopTemperature   StopReason = "temperature"
	StopTimeBudget    StopReason = "time_budget"
)

// Solution 排班方案快照
type Solution struct {
	Grid *roster.Grid
	Cost float64
}

// Clone 深拷贝
func (s *Solution) Clone() *Solution {
	return &Solution{Grid: s.Grid.Clone(), Cost: s.Cost}
}

// Result 一次运行的结果
type Result struct {
	Grid        *roster.Grid  `json:"-"`
	Cost        float64       `json:"cost"`
	Breakdown   Breakdown     `json:"breakdown"`
	InitialCost float64       `json:"initial_cost"`
	Forced      int           `json:"forced"`
	Iterations  int           `json:"iterations"`
	Accepted    int           `json:"accepted"`
	Improved    int           `json:"improved"`
	Skipped     int           `json:"skipped"` // 邻域生成失败而跳过的迭代
	Reheats     int           `json:"reheats"`
	Repaired    int           `json:"repaired"`
	StoppedBy   StopReason    `json:"stopped_by"`
	State       State         `json:"-"`
	Worker      int           `json:"worker"`
	Seed        int64         `json:"seed"`
	Duration    time.Duration `json:"duration"`
}

// Annealer 模拟退火控制器
//
// 状态流转：Running → Converged → Repairing → Done。
// 输出始终是搜索过程中的最优解（经修复），而不是最后的当前解。
type Annealer struct {
	config      *AnnealingConfig
	neighborCfg NeighborConfig
	evaluator   *Evaluator
	logger      *logger.SchedulerLogger
	onState     func(State)
}

// AnnealerOption 控制器选项
type AnnealerOption func(*Annealer)

// WithLogger 设置日志器
func WithLogger(l *logger.SchedulerLogger) AnnealerOption {
	return func(a *Annealer) { a.logger = l }
}

// WithStateObserver 设置状态变化回调
func WithStateObserver(fn func(State)) AnnealerOption {
	return func(a *Annealer) { a.onState = fn }
}

// NewAnnealer 创建退火控制器
func NewAnnealer(config *AnnealingConfig, neighborCfg NeighborConfig, evaluator *Evaluator, opts ...AnnealerOption) *Annealer {
	if config == nil {
		config = DefaultAnnealingConfig()
	}
	a := &Annealer{
		config:      config,
		neighborCfg: neighborCfg,
		evaluator:   evaluator,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.NewSchedulerLogger()
	}
	return a
}

func (a *Annealer) enter(res *Result, s State) {
	res.State = s
	if a.onState != nil {
		a.onState(s)
	}
}

// Anneal 从 initial 出发执行模拟退火并修复最优解；initial 不会被修改
func (a *Annealer) Anneal(ctx context.Context, initial *roster.Grid, rng *rand.Rand) (*Result, error) {
	start := time.Now()
	cfg := a.config
	gen := NewNeighborGenerator(a.neighborCfg, rng)

	res := &Result{}
	a.enter(res, StateRunning)

	current := &Solution{Grid: initial.Clone(), Cost: a.evaluator.Cost(initial)}
	best := current.Clone()
	res.InitialCost = current.Cost

	temperature := cfg.InitialTemp
	stagnation := 0
	res.StoppedBy = StopMaxIterations

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if temperature <= cfg.MinTemp {
			res.StoppedBy = StopTemperature
			break
		}
		if cfg.MaxTime > 0 && time.Since(start) > cfg.MaxTime {
			res.StoppedBy = StopTimeBudget
			break
		}
		res.Iterations++

		candidate := current.Grid.Clone()
		if _, ok := gen.Mutate(candidate); !ok {
			// 跳过：不计入停滞，不降温
			res.Skipped++
			continue
		}
		candidateCost := a.evaluator.Cost(candidate)

		accept := candidateCost < current.Cost
		if !accept {
			accept = rng.Float64() < boltzmannProbability(candidateCost-current.Cost, temperature)
		}

		if accept {
			current = &Solution{Grid: candidate, Cost: candidateCost}
			res.Accepted++

			if current.Cost < best.Cost {
				best = current.Clone()
				stagnation = 0
				res.Improved++
				a.logger.Improved(iter, best.Cost)
			} else {
				stagnation++
			}
		} else {
			stagnation++
		}

		temperature *= cfg.CoolingRate

		if stagnation > cfg.StagnationLimit {
			temperature = cfg.InitialTemp
			stagnation = 0
			res.Reheats++
			a.logger.Reheat(iter, temperature, best.Cost)
		}
	}
	if res.StoppedBy == StopMaxIterations && temperature <= cfg.MinTemp {
		res.StoppedBy = StopTemperature
	}
	a.enter(res, StateConverged)

	a.enter(res, StateRepairing)
	res.Repaired = Repair(best.Grid)
	a.logger.Repaired(res.Repaired)

	res.Grid = best.Grid
	res.Breakdown = a.evaluator.Evaluate(best.Grid)
	res.Cost = res.Breakdown.Total
	res.Duration = time.Since(start)
	a.enter(res, StateDone)

	return res, nil
}

// boltzmannProbability 计算模拟退火的接受概率
// delta: 能量差 (new - old)
// temperature: 当前温度
func boltzmannProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0 // 更优解总是接受
	}
	if temperature <= 0 {
		return 0.0 // 温度为0时不接受更差的解
	}
	return math.Exp(-delta / temperature)
}
