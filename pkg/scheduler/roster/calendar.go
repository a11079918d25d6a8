// Package roster 定义月度排班表（员工×日期）及日历上下文
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/paiban/roster/pkg/model"
)

// Calendar 月度日历上下文（构造后只读）
type Calendar struct {
	year     int
	month    time.Month
	days     int
	holidays map[string]struct{}
	offDays  []bool // 下标为日期，true 表示周末或节假日
}

// NewCalendar 创建日历；不在该月内的节假日会被忽略
func NewCalendar(year int, month time.Month, holidays []time.Time) (*Calendar, error) {
	if year < 1 {
		return nil, fmt.Errorf("年份无效: %d", year)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("月份无效: %d", month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	c := &Calendar{
		year:     year,
		month:    month,
		days:     days,
		holidays: make(map[string]struct{}),
		offDays:  make([]bool, days+1),
	}
	for _, h := range holidays {
		if h.Year() == year && h.Month() == month {
			c.holidays[model.FormatDate(h)] = struct{}{}
		}
	}
	for d := 1; d <= days; d++ {
		date := c.Date(d)
		_, holiday := c.holidays[model.FormatDate(date)]
		wd := date.Weekday()
		c.offDays[d] = wd == time.Saturday || wd == time.Sunday || holiday
	}
	return c, nil
}

// Year 年份
func (c *Calendar) Year() int { return c.year }

// Month 月份
func (c *Calendar) Month() time.Month { return c.month }

// DaysInMonth 当月天数
func (c *Calendar) DaysInMonth() int { return c.days }

// Date 返回第 day 天的日期（UTC）
func (c *Calendar) Date(day int) time.Time {
	return time.Date(c.year, c.month, day, 0, 0, 0, 0, time.UTC)
}

// IsWeekendOrHoliday 第 day 天是否为周末或节假日
func (c *Calendar) IsWeekendOrHoliday(day int) bool {
	if day < 1 || day > c.days {
		return false
	}
	return c.offDays[day]
}

// Holidays 返回当月节假日（升序）
func (c *Calendar) Holidays() []string {
	out := make([]string, 0, len(c.holidays))
	for h := range c.holidays {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Range 当月日期范围
func (c *Calendar) Range() model.DateRange {
	return model.DateRange{
		StartDate: model.FormatDate(c.Date(1)),
		EndDate:   model.FormatDate(c.Date(c.days)),
	}
}
