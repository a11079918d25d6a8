// Package roster 定义月度排班表（员工×日期）及日历上下文
package roster

import (
	"fmt"

	"github.com/paiban/roster/pkg/model"
)

// Requirement 单日各班次最少人数
type Requirement struct {
	Day     int `json:"day"`
	Evening int `json:"evening"`
	Night   int `json:"night"`
}

// For 返回某班次的最少人数，OFF 为 0
func (r Requirement) For(code model.ShiftCode) int {
	switch code {
	case model.Day:
		return r.Day
	case model.Evening:
		return r.Evening
	case model.Night:
		return r.Night
	default:
		return 0
	}
}

// Total 单日总需求人数
func (r Requirement) Total() int {
	return r.Day + r.Evening + r.Night
}

// Coverage 覆盖需求：平日与周末/节假日各一套
type Coverage struct {
	Weekday        Requirement `json:"weekday"`
	WeekendHoliday Requirement `json:"weekend_holiday"`
}

// DefaultCoverage 默认覆盖需求：平日 D3/E2/N2，周末及节假日 D2/E2/N2
func DefaultCoverage() Coverage {
	return Coverage{
		Weekday:        Requirement{Day: 3, Evening: 2, Night: 2},
		WeekendHoliday: Requirement{Day: 2, Evening: 2, Night: 2},
	}
}

// ForDay 返回第 day 天适用的需求
func (c Coverage) ForDay(cal *Calendar, day int) Requirement {
	if cal.IsWeekendOrHoliday(day) {
		return c.WeekendHoliday
	}
	return c.Weekday
}

// MaxDaily 单日最大需求人数
func (c Coverage) MaxDaily() int {
	if c.Weekday.Total() > c.WeekendHoliday.Total() {
		return c.Weekday.Total()
	}
	return c.WeekendHoliday.Total()
}

// Validate 校验需求非负
func (c Coverage) Validate() error {
	for _, r := range []Requirement{c.Weekday, c.WeekendHoliday} {
		if r.Day < 0 || r.Evening < 0 || r.Night < 0 {
			return fmt.Errorf("覆盖需求不能为负: %+v", r)
		}
	}
	return nil
}
