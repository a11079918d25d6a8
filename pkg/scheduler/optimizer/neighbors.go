// Package optimizer 提供排班优化算法（模拟退火）
package optimizer

import (
	"math/rand"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// MoveType 邻域移动类型
type MoveType int

const (
	MoveSwap     MoveType = iota // 同一天交换两名员工的班次
	MoveReassign                 // 将某员工某天改为另一个班次
)

// String 返回移动类型名称
func (m MoveType) String() string {
	switch m {
	case MoveSwap:
		return "swap"
	case MoveReassign:
		return "reassign"
	default:
		return "unknown"
	}
}

// Move 邻域移动操作
type Move struct {
	Type      MoveType
	Day       int
	EmployeeA int
	EmployeeB int // 仅交换移动使用
	From      model.ShiftCode
	To        model.ShiftCode
}

// NeighborConfig 邻域生成配置
type NeighborConfig struct {
	MaxAttempts     int     `json:"max_attempts"`
	SwapProbability float64 `json:"swap_probability"`
}

// DefaultNeighborConfig 默认邻域配置：最多尝试 30 次，60% 交换
func DefaultNeighborConfig() NeighborConfig {
	return NeighborConfig{
		MaxAttempts:     30,
		SwapProbability: 0.6,
	}
}

// NeighborGenerator 邻域生成器
//
// 每次移动后重新扫描受影响员工的整行，出现禁止模式则撤销并重试。
type NeighborGenerator struct {
	cfg NeighborConfig
	rng *rand.Rand
}

// NewNeighborGenerator 创建邻域生成器，rng 由本次运行独占
func NewNeighborGenerator(cfg NeighborConfig, rng *rand.Rand) *NeighborGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultNeighborConfig().MaxAttempts
	}
	return &NeighborGenerator{cfg: cfg, rng: rng}
}

// Mutate 在 g 上原地执行一次合法移动；尝试次数用尽时返回 false，g 保持不变
func (n *NeighborGenerator) Mutate(g *roster.Grid) (Move, bool) {
	employees, days := g.Employees(), g.Days()
	if employees == 0 || days == 0 {
		return Move{}, false
	}

	for attempt := 0; attempt < n.cfg.MaxAttempts; attempt++ {
		day := 1 + n.rng.Intn(days)

		if n.rng.Float64() < n.cfg.SwapProbability {
			a := n.rng.Intn(employees)
			b := n.rng.Intn(employees)
			if a == b {
				continue
			}

			g.Swap(a, b, day)
			if !g.RowViolates(a) && !g.RowViolates(b) {
				return Move{
					Type:      MoveSwap,
					Day:       day,
					EmployeeA: a,
					EmployeeB: b,
					From:      g.At(b, day),
					To:        g.At(a, day),
				}, true
			}
			g.Swap(a, b, day)
			continue
		}

		e := n.rng.Intn(employees)
		old := g.At(e, day)
		neo := model.AllCodes[n.rng.Intn(len(model.AllCodes))]
		if neo == old {
			continue
		}

		g.Set(e, day, neo)
		if !g.RowViolates(e) {
			return Move{Type: MoveReassign, Day: day, EmployeeA: e, From: old, To: neo}, true
		}
		g.Set(e, day, old)
	}

	return Move{}, false
}
