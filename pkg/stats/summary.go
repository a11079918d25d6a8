package stats

import (
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// Summary 月度排班统计汇总
type Summary struct {
	Coverage *CoverageMetrics `json:"coverage"`
	Fairness *FairnessMetrics `json:"fairness"`
}

// Summarize 汇总覆盖率与公平性
func Summarize(grid *roster.Grid, cal *roster.Calendar, coverage roster.Coverage, employees []EmployeeInfo) *Summary {
	return &Summary{
		Coverage: NewCoverageAnalyzer(coverage).Analyze(grid, cal),
		Fairness: NewFairnessAnalyzer().Analyze(grid, cal, employees),
	}
}
