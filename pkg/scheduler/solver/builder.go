// Package solver 提供排班初始解构造器
package solver

import (
	"math/rand"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// Builder 初始解构造器接口
type Builder interface {
	// Build 构造一张完整的排班表（所有单元格已分配）
	Build(cal *roster.Calendar, employees int, rng *rand.Rand) (*roster.Grid, BuildStats)

	// Name 返回构造器名称
	Name() string
}

// BuildStats 构造统计
type BuildStats struct {
	Forced    int `json:"forced"`    // 忽略禁止模式强制分配的单元格数
	Shortfall int `json:"shortfall"` // 人手不足导致的缺口（人·班次）
}

// GreedyBuilder 按日贪心构造初始解
//
// 每天先按 D→E→N 的顺序在不违反禁止模式的前提下补足最低人数，
// 不足时再忽略禁止模式强制补齐，剩余员工安排休息。
type GreedyBuilder struct {
	coverage roster.Coverage
}

// NewGreedyBuilder 创建贪心构造器
func NewGreedyBuilder(coverage roster.Coverage) *GreedyBuilder {
	return &GreedyBuilder{coverage: coverage}
}

// Name 返回构造器名称
func (b *GreedyBuilder) Name() string {
	return "GreedyBuilder"
}

// Build 构造初始解
func (b *GreedyBuilder) Build(cal *roster.Calendar, employees int, rng *rand.Rand) (*roster.Grid, BuildStats) {
	days := cal.DaysInMonth()
	grid := roster.NewGrid(employees, days)
	var stats BuildStats

	for day := 1; day <= days; day++ {
		req := b.coverage.ForDay(cal, day)
		order := rng.Perm(employees)

		remaining := make([]int, len(model.WorkCodes))
		for i, code := range model.WorkCodes {
			remaining[i] = req.For(code)
		}

		// 第一阶段：遵守禁止模式
		for i, code := range model.WorkCodes {
			for _, e := range order {
				if remaining[i] == 0 {
					break
				}
				if grid.At(e, day) != model.Unassigned || grid.WouldViolate(e, day, code) {
					continue
				}
				grid.Set(e, day, code)
				remaining[i]--
			}
		}

		// 第二阶段：强制补齐，残留的禁止模式由修复阶段处理
		for i, code := range model.WorkCodes {
			for _, e := range order {
				if remaining[i] == 0 {
					break
				}
				if grid.At(e, day) != model.Unassigned {
					continue
				}
				grid.Set(e, day, code)
				remaining[i]--
				stats.Forced++
			}
			stats.Shortfall += remaining[i]
		}

		for e := 0; e < employees; e++ {
			if grid.At(e, day) == model.Unassigned {
				grid.Set(e, day, model.Off)
			}
		}
	}

	return grid, stats
}
