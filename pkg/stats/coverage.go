// Package stats 提供排班统计分析功能
package stats

import (
	"fmt"
	"strings"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	RequiredSlots   int     `json:"required_slots"`   // 需求人·班次总数
	FilledSlots     int     `json:"filled_slots"`     // 已满足的人·班次
	OverallCoverage float64 `json:"overall_coverage"` // 整体覆盖率 (%)

	DailyCoverage []DayCoverage `json:"daily_coverage"`
	Understaffed  []Shortage    `json:"understaffed"` // 人手不足的日期与班次
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date             string `json:"date"`
	WeekendOrHoliday bool   `json:"weekend_or_holiday"`
	Day              int    `json:"day"`
	Evening          int    `json:"evening"`
	Night            int    `json:"night"`
	Off              int    `json:"off"`
	Shortage         int    `json:"shortage"`
}

// Shortage 人手不足记录
type Shortage struct {
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
	Missing  int    `json:"missing"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct {
	coverage roster.Coverage
}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer(coverage roster.Coverage) *CoverageAnalyzer {
	return &CoverageAnalyzer{coverage: coverage}
}

// Analyze 分析覆盖率
func (c *CoverageAnalyzer) Analyze(grid *roster.Grid, cal *roster.Calendar) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage: make([]DayCoverage, 0, grid.Days()),
	}

	for d := 1; d <= grid.Days(); d++ {
		date := model.FormatDate(cal.Date(d))
		req := c.coverage.ForDay(cal, d)

		dc := DayCoverage{
			Date:             date,
			WeekendOrHoliday: cal.IsWeekendOrHoliday(d),
			Day:              grid.CountOnDay(d, model.Day),
			Evening:          grid.CountOnDay(d, model.Evening),
			Night:            grid.CountOnDay(d, model.Night),
			Off:              grid.CountOnDay(d, model.Off),
		}

		for _, code := range model.WorkCodes {
			required := req.For(code)
			assigned := grid.CountOnDay(d, code)
			metrics.RequiredSlots += required
			if assigned >= required {
				metrics.FilledSlots += required
				continue
			}
			metrics.FilledSlots += assigned
			dc.Shortage += required - assigned
			metrics.Understaffed = append(metrics.Understaffed, Shortage{
				Date:     date,
				Shift:    code.Name(),
				Required: required,
				Assigned: assigned,
				Missing:  required - assigned,
			})
		}

		metrics.DailyCoverage = append(metrics.DailyCoverage, dc)
	}

	metrics.OverallCoverage = 100
	if metrics.RequiredSlots > 0 {
		metrics.OverallCoverage = float64(metrics.FilledSlots) / float64(metrics.RequiredSlots) * 100
	}

	return metrics
}

// GenerateCoverageReport 生成覆盖率报告
func (c *CoverageAnalyzer) GenerateCoverageReport(metrics *CoverageMetrics) string {
	var sb strings.Builder
	sb.WriteString("=== 覆盖率分析报告 ===\n\n")

	sb.WriteString("【整体覆盖情况】\n")
	fmt.Fprintf(&sb, "  需求人次: %d\n", metrics.RequiredSlots)
	fmt.Fprintf(&sb, "  已满足人次: %d\n", metrics.FilledSlots)
	fmt.Fprintf(&sb, "  覆盖率: %.1f%%\n\n", metrics.OverallCoverage)

	if len(metrics.Understaffed) > 0 {
		sb.WriteString("【人手不足】\n")
		for _, s := range metrics.Understaffed {
			fmt.Fprintf(&sb, "  - %s %s (需要%d人，仅有%d人，缺%d人)\n", s.Date, s.Shift, s.Required, s.Assigned, s.Missing)
		}
	}

	return sb.String()
}
