// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/roster"
)

// EmployeeInfo 员工信息（用于统计分析），顺序与排班表行一致
type EmployeeInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 工作量
	AvgWorkDays    float64 `json:"avg_work_days"`    // 人均工作天数
	WorkloadStdDev float64 `json:"workload_std_dev"` // 工作天数标准差
	WorkloadGini   float64 `json:"workload_gini"`    // 工作天数基尼系数 (0=完全公平)

	// 班次类型
	NightShiftGini   float64 `json:"night_shift_gini"`   // 夜班分配基尼系数
	WeekendShiftGini float64 `json:"weekend_shift_gini"` // 周末/节假日班分配基尼系数
	OffStdDev        float64 `json:"off_std_dev"`        // 休息天数标准差

	EmployeeStats []EmployeeStat `json:"employee_stats"`

	OverallFairnessScore float64 `json:"overall_fairness_score"` // 综合公平性评分 (0-100)
}

// EmployeeStat 员工统计
type EmployeeStat struct {
	EmployeeID    int64  `json:"employee_id"`
	EmployeeName  string `json:"employee_name,omitempty"`
	DayShifts     int    `json:"day_shifts"`
	EveningShifts int    `json:"evening_shifts"`
	NightShifts   int    `json:"night_shifts"`
	OffDays       int    `json:"off_days"`
	WeekendShifts int    `json:"weekend_shifts"`
	LongestStreak int    `json:"longest_streak"` // 最长连续工作天数
}

// WorkDays 工作天数
func (s EmployeeStat) WorkDays() int {
	return s.DayShifts + s.EveningShifts + s.NightShifts
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析排班公平性
func (f *FairnessAnalyzer) Analyze(grid *roster.Grid, cal *roster.Calendar, employees []EmployeeInfo) *FairnessMetrics {
	metrics := &FairnessMetrics{
		EmployeeStats:        make([]EmployeeStat, 0, grid.Employees()),
		OverallFairnessScore: 100,
	}
	if grid.Employees() == 0 {
		return metrics
	}

	work := make([]float64, grid.Employees())
	nights := make([]float64, grid.Employees())
	weekends := make([]float64, grid.Employees())
	offs := make([]float64, grid.Employees())

	for e := 0; e < grid.Employees(); e++ {
		stat := EmployeeStat{}
		if e < len(employees) {
			stat.EmployeeID = employees[e].ID
			stat.EmployeeName = employees[e].Name
		}

		streak := 0
		for d := 1; d <= grid.Days(); d++ {
			code := grid.At(e, d)
			switch code {
			case model.Day:
				stat.DayShifts++
			case model.Evening:
				stat.EveningShifts++
			case model.Night:
				stat.NightShifts++
			default:
				stat.OffDays++
			}

			if code.IsWork() {
				streak++
				if streak > stat.LongestStreak {
					stat.LongestStreak = streak
				}
				if cal.IsWeekendOrHoliday(d) {
					stat.WeekendShifts++
				}
			} else {
				streak = 0
			}
		}

		work[e] = float64(stat.WorkDays())
		nights[e] = float64(stat.NightShifts)
		weekends[e] = float64(stat.WeekendShifts)
		offs[e] = float64(stat.OffDays)
		metrics.EmployeeStats = append(metrics.EmployeeStats, stat)
	}

	mean := calculateMean(work)
	metrics.AvgWorkDays = mean
	metrics.WorkloadStdDev = math.Sqrt(calculateVariance(work, mean))
	metrics.WorkloadGini = calculateGini(work)
	metrics.NightShiftGini = calculateGini(nights)
	metrics.WeekendShiftGini = calculateGini(weekends)
	metrics.OffStdDev = math.Sqrt(calculateVariance(offs, calculateMean(offs)))
	metrics.OverallFairnessScore = calculateOverallScore(metrics.WorkloadGini, metrics.NightShiftGini, metrics.WeekendShiftGini)

	return metrics
}

// calculateMean 计算平均值
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance 计算总体方差
func calculateVariance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}

// calculateGini 计算基尼系数
func calculateGini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}

	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}

// calculateOverallScore 综合评分：工作量占 50%，夜班与周末班各占 25%
func calculateOverallScore(workloadGini, nightGini, weekendGini float64) float64 {
	score := 100 * (1 - (0.5*workloadGini + 0.25*nightGini + 0.25*weekendGini))
	return math.Max(0, math.Min(100, score))
}
