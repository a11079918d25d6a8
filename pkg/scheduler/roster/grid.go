// Package roster 定义月度排班表（员工×日期）及日历上下文
package roster

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

// Grid 月度排班矩阵
// 行为员工序号（0..E-1，对应本次请求的员工顺序），列为日期（1..D）
type Grid struct {
	employees int
	days      int
	cells     []model.ShiftCode
}

// NewGrid 创建空排班表，所有单元格为未分配
func NewGrid(employees, days int) *Grid {
	return &Grid{
		employees: employees,
		days:      days,
		cells:     make([]model.ShiftCode, employees*days),
	}
}

// FromRows 由字母行构造排班表，例如 "DDENO"，用于测试与调试
func FromRows(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}
	days := len(rows[0])
	g := NewGrid(len(rows), days)
	for e, row := range rows {
		if len(row) != days {
			return nil, fmt.Errorf("第 %d 行长度 %d 与首行 %d 不一致", e, len(row), days)
		}
		for i, ch := range row {
			code, err := model.ParseShiftCode(string(ch))
			if err != nil {
				return nil, fmt.Errorf("第 %d 行第 %d 天: %w", e, i+1, err)
			}
			g.Set(e, i+1, code)
		}
	}
	return g, nil
}

// Employees 员工数
func (g *Grid) Employees() int { return g.employees }

// Days 天数
func (g *Grid) Days() int { return g.days }

func (g *Grid) index(emp, day int) int {
	return emp*g.days + day - 1
}

// At 返回员工 emp 在第 day 天的班次
func (g *Grid) At(emp, day int) model.ShiftCode {
	return g.cells[g.index(emp, day)]
}

// Set 设置员工 emp 在第 day 天的班次
func (g *Grid) Set(emp, day int, code model.ShiftCode) {
	g.cells[g.index(emp, day)] = code
}

// Swap 交换两名员工同一天的班次
func (g *Grid) Swap(a, b, day int) {
	ia, ib := g.index(a, day), g.index(b, day)
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
}

// Row 返回员工整行（与排班表共享内存，只读）
func (g *Grid) Row(emp int) rule.Codes {
	start := emp * g.days
	return rule.Codes(g.cells[start : start+g.days : start+g.days])
}

// History 返回第 day 天之前两天的班次，月初之前按 OFF 处理
func (g *Grid) History(emp, day int) (prev2, prev1 model.ShiftCode) {
	prev2, prev1 = model.Off, model.Off
	if day > 1 {
		prev1 = g.At(emp, day-1)
	}
	if day > 2 {
		prev2 = g.At(emp, day-2)
	}
	return prev2, prev1
}

// PatternAt 判定第 day 天当前班次是否构成禁止模式
func (g *Grid) PatternAt(emp, day int) rule.Pattern {
	prev2, prev1 := g.History(emp, day)
	return rule.Check(prev2, prev1, g.At(emp, day))
}

// WouldViolate 判定在第 day 天安排 code 是否构成禁止模式（只看前两天）
func (g *Grid) WouldViolate(emp, day int, code model.ShiftCode) bool {
	prev2, prev1 := g.History(emp, day)
	return rule.Violates(prev2, prev1, code)
}

// RowViolates 员工整行是否存在禁止模式
func (g *Grid) RowViolates(emp int) bool {
	idx, _ := rule.FirstViolation(g.Row(emp))
	return idx >= 0
}

// Violation 禁止模式违反记录
type Violation struct {
	Employee int          `json:"employee"`
	Day      int          `json:"day"`
	Pattern  rule.Pattern `json:"pattern"`
}

// Violations 扫描全表的禁止模式
func (g *Grid) Violations() []Violation {
	var out []Violation
	for e := 0; e < g.employees; e++ {
		for d := 1; d <= g.days; d++ {
			if p := g.PatternAt(e, d); p != rule.PatternNone {
				out = append(out, Violation{Employee: e, Day: d, Pattern: p})
			}
		}
	}
	return out
}

// CountOnDay 统计第 day 天安排 code 的人数
func (g *Grid) CountOnDay(day int, code model.ShiftCode) int {
	n := 0
	for e := 0; e < g.employees; e++ {
		if g.At(e, day) == code {
			n++
		}
	}
	return n
}

// CountForEmployee 统计员工整月 code 的天数
func (g *Grid) CountForEmployee(emp int, code model.ShiftCode) int {
	n := 0
	for _, c := range g.Row(emp) {
		if c == code {
			n++
		}
	}
	return n
}

// Complete 是否所有单元格均已分配
func (g *Grid) Complete() bool {
	for _, c := range g.cells {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// Clone 深拷贝
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		employees: g.employees,
		days:      g.days,
		cells:     make([]model.ShiftCode, len(g.cells)),
	}
	copy(clone.cells, g.cells)
	return clone
}

// Equal 比较两张排班表
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.employees != other.employees || g.days != other.days {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Fingerprint 排班表内容指纹（xxh3），用于日志与结果比对
func (g *Grid) Fingerprint() uint64 {
	buf := make([]byte, 0, len(g.cells)+2*binary.MaxVarintLen64)
	buf = binary.AppendUvarint(buf, uint64(g.employees))
	buf = binary.AppendUvarint(buf, uint64(g.days))
	for _, c := range g.cells {
		buf = append(buf, byte(c))
	}
	return xxh3.Hash(buf)
}

// String 每行一名员工的字母表示
func (g *Grid) String() string {
	var sb strings.Builder
	for e := 0; e < g.employees; e++ {
		for _, c := range g.Row(e) {
			sb.WriteString(c.String())
		}
		if e < g.employees-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
