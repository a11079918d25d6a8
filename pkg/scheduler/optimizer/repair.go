package optimizer

import (
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

// Repair 从第 2 天起自左向右单遍扫描，遇到禁止模式即将当天改为 OFF。
// OFF 不是任何禁止模式的前驱，因此单遍即可清除全部违反，再次执行不产生变化。
// 返回被改写的单元格数。
func Repair(g *roster.Grid) int {
	changed := 0
	for e := 0; e < g.Employees(); e++ {
		for day := 2; day <= g.Days(); day++ {
			if g.PatternAt(e, day) != rule.PatternNone {
				g.Set(e, day, model.Off)
				changed++
			}
		}
	}
	return changed
}
