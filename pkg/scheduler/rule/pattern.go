// Package rule 定义班次衔接的硬约束（禁止模式）
//
// 三种禁止模式：
//   - N→D/E：大夜班后次日不得上白班或小夜班
//   - E→D：小夜班后次日不得上白班
//   - N-O-D：大夜班、休息一天后不得直接上白班
//
// 排班优化器与单次修改校验共用同一个判定函数。
package rule

import (
	"github.com/paiban/roster/pkg/model"
)

// Pattern 禁止模式
type Pattern string

const (
	PatternNone              Pattern = ""
	PatternNightToDayEvening Pattern = "night_to_day_evening" // N→D/E
	PatternEveningToDay      Pattern = "evening_to_day"       // E→D
	PatternNightOffDay       Pattern = "night_off_day"        // N-O-D
)

// Label 返回模式的简写
func (p Pattern) Label() string {
	switch p {
	case PatternNightToDayEvening:
		return "N→D/E"
	case PatternEveningToDay:
		return "E→D"
	case PatternNightOffDay:
		return "N-O-D"
	default:
		return ""
	}
}

// Description 返回模式说明
func (p Pattern) Description() string {
	switch p {
	case PatternNightToDayEvening:
		return "大夜班后次日不得安排白班或小夜班"
	case PatternEveningToDay:
		return "小夜班后次日不得安排白班"
	case PatternNightOffDay:
		return "大夜班-休息-白班 衔接被禁止"
	default:
		return ""
	}
}

// Check 判定在前两天班次为 prev2、prev1 时，今天安排 candidate 是否构成禁止模式。
// 缺失的历史（月初之前或无记录）按 OFF 处理。
func Check(prev2, prev1, candidate model.ShiftCode) Pattern {
	prev2, prev1 = prev2.OrOff(), prev1.OrOff()

	switch {
	case prev1 == model.Night && (candidate == model.Day || candidate == model.Evening):
		return PatternNightToDayEvening
	case prev1 == model.Evening && candidate == model.Day:
		return PatternEveningToDay
	case prev2 == model.Night && prev1 == model.Off && candidate == model.Day:
		return PatternNightOffDay
	}
	return PatternNone
}

// Violates 是否构成任一禁止模式
func Violates(prev2, prev1, candidate model.ShiftCode) bool {
	return Check(prev2, prev1, candidate) != PatternNone
}

// Row 员工按天排列的班次序列（下标0对应第1天）
type Row interface {
	Len() int
	At(i int) model.ShiftCode
}

// FirstViolation 扫描整行，返回第一个违反的位置与模式；无违反时返回 -1
func FirstViolation(row Row) (int, Pattern) {
	var prev2, prev1 model.ShiftCode = model.Off, model.Off
	for i := 0; i < row.Len(); i++ {
		cur := row.At(i)
		if p := Check(prev2, prev1, cur); p != PatternNone {
			return i, p
		}
		prev2, prev1 = prev1, cur
	}
	return -1, PatternNone
}

// Codes 以切片实现 Row
type Codes []model.ShiftCode

// Len 返回长度
func (c Codes) Len() int { return len(c) }

// At 返回第 i 个班次
func (c Codes) At(i int) model.ShiftCode { return c[i] }
