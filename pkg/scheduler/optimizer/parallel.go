// Package optimizer 提供排班优化算法（模拟退火）
package optimizer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/scheduler/roster"
	"github.com/paiban/roster/pkg/scheduler/solver"
)

// Engine 月度排班引擎：初始解构造 + 模拟退火 + 修复
//
// Workers > 1 时以种子 seed+i 并行独立运行，取成本最低者，成本相同取序号最小者，
// 因此结果只依赖种子，与协程调度无关。
type Engine struct {
	builder     solver.Builder
	evaluator   *Evaluator
	config      *AnnealingConfig
	neighborCfg NeighborConfig
	logger      *logger.SchedulerLogger

	mu     sync.Mutex
	states []State
}

// NewEngine 创建排班引擎
func NewEngine(builder solver.Builder, evaluator *Evaluator, config *AnnealingConfig, neighborCfg NeighborConfig, l *logger.SchedulerLogger) (*Engine, error) {
	if config == nil {
		config = DefaultAnnealingConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.NewSchedulerLogger()
	}
	return &Engine{
		builder:     builder,
		evaluator:   evaluator,
		config:      config,
		neighborCfg: neighborCfg,
		logger:      l,
	}, nil
}

// Solve 为 employees 名员工生成当月排班
func (e *Engine) Solve(ctx context.Context, employees int) (*Result, error) {
	workers := e.config.Workers
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		return e.run(ctx, employees, 0)
	}

	results := make([]*Result, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			res, err := e.run(gctx, employees, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Cost < best.Cost {
			best = r
		}
	}
	return best, nil
}

// run 以种子 seed+worker 完成一次独立运行
func (e *Engine) run(ctx context.Context, employees, worker int) (*Result, error) {
	start := time.Now()
	seed := e.config.Seed + int64(worker)
	rng := rand.New(rand.NewSource(seed))

	initial, stats := e.builder.Build(e.evaluator.Calendar(), employees, rng)
	if !initial.Complete() {
		return nil, fmt.Errorf("%s 构造的初始解存在未分配的单元格", e.builder.Name())
	}
	e.logger.InitialSolution(e.evaluator.Cost(initial), stats.Forced)

	opts := []AnnealerOption{WithLogger(e.logger)}
	if worker == 0 {
		opts = append(opts, WithStateObserver(e.record))
	}
	res, err := NewAnnealer(e.config, e.neighborCfg, e.evaluator, opts...).Anneal(ctx, initial, rng)
	if err != nil {
		return nil, err
	}

	res.Forced = stats.Forced
	res.Worker = worker
	res.Seed = seed
	res.Duration = time.Since(start)
	return res, nil
}

func (e *Engine) record(s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = append(e.states, s)
}

// States 返回首个起点经历的状态序列
func (e *Engine) States() []State {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]State, len(e.states))
	copy(out, e.states)
	return out
}

// Evaluator 返回评估器
func (e *Engine) Evaluator() *Evaluator {
	return e.evaluator
}

// RepairGrid 对外部构造的排班表（如轮换排班）执行禁止模式修复
func RepairGrid(g *roster.Grid) (*roster.Grid, int) {
	out := g.Clone()
	return out, Repair(out)
}
