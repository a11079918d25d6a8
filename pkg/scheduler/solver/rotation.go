package solver

import (
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// DefaultRotation 默认轮换：白班 → 大夜班 → 休息
var DefaultRotation = []model.ShiftCode{model.Day, model.Night, model.Off}

// RotationAssigner 按固定轮换循环排班，每名员工按序号错开起点
//
// 轮换本身可能产生 N-O-D，调用方应在落库前执行禁止模式修复。
type RotationAssigner struct {
	pattern []model.ShiftCode
}

// NewRotationAssigner 创建轮换排班器；pattern 为空时使用默认轮换
func NewRotationAssigner(pattern []model.ShiftCode) *RotationAssigner {
	if len(pattern) == 0 {
		pattern = DefaultRotation
	}
	p := make([]model.ShiftCode, len(pattern))
	copy(p, pattern)
	return &RotationAssigner{pattern: p}
}

// Assign 生成 employees 名员工、days 天的轮换排班
func (r *RotationAssigner) Assign(employees, days int) *roster.Grid {
	grid := roster.NewGrid(employees, days)
	for d := 0; d < days; d++ {
		for e := 0; e < employees; e++ {
			grid.Set(e, d+1, r.pattern[(d+e)%len(r.pattern)])
		}
	}
	return grid
}
