// Package validator 提供排班验证功能
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictHardPattern ConflictType = "hard_pattern" // 禁止的班次衔接
	ConflictDuplicate   ConflictType = "duplicate"    // 同一天多条记录
	ConflictConsecutive ConflictType = "consecutive"  // 连续天数过多
	ConflictMaxHours    ConflictType = "max_hours"    // 超过每周最大工时
)

// Conflict 冲突信息
type Conflict struct {
	Type       ConflictType `json:"type"`
	Severity   string       `json:"severity"` // error/warning
	EmployeeID int64        `json:"employee_id"`
	Date       string       `json:"date"`
	Pattern    rule.Pattern `json:"pattern,omitempty"`
	Message    string       `json:"message"`
	ShiftIDs   []int64      `json:"shift_ids,omitempty"` // 相关的记录ID
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	MaxConsecutiveDays int // 最大连续工作天数
	HoursPerShift      int // 每个工作班次的工时
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		MaxConsecutiveDays: 4,
		HoursPerShift:      8,
	}
}

// ConflictDetector 已存排班的冲突检测器
type ConflictDetector struct {
	config *DetectorConfig
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &ConflictDetector{config: config}
}

// DetectAll 检测所有冲突，结果按员工ID、日期排序
func (d *ConflictDetector) DetectAll(shifts []*model.Shift, employees map[int64]*model.Employee) []Conflict {
	var conflicts []Conflict

	byEmployee := groupByEmployee(shifts)
	ids := make([]int64, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		empShifts := sortByDate(byEmployee[id])

		conflicts = append(conflicts, d.detectDuplicates(id, empShifts)...)
		conflicts = append(conflicts, d.detectHardPatterns(id, empShifts)...)
		conflicts = append(conflicts, d.detectConsecutiveDays(id, empShifts)...)
		if emp := employees[id]; emp != nil {
			conflicts = append(conflicts, d.detectMaxHours(emp, empShifts)...)
		}
	}

	return conflicts
}

// detectDuplicates 检测同一天多条记录
func (d *ConflictDetector) detectDuplicates(empID int64, shifts []*model.Shift) []Conflict {
	var conflicts []Conflict
	for i := 1; i < len(shifts); i++ {
		if shifts[i].WorkDate == shifts[i-1].WorkDate {
			conflicts = append(conflicts, Conflict{
				Type:       ConflictDuplicate,
				Severity:   "error",
				EmployeeID: empID,
				Date:       shifts[i].WorkDate,
				Message:    fmt.Sprintf("员工 %d 在 %s 存在多条班次记录", empID, shifts[i].WorkDate),
				ShiftIDs:   []int64{shifts[i-1].ID, shifts[i].ID},
			})
		}
	}
	return conflicts
}

// detectHardPatterns 检测禁止的班次衔接，缺失的日期按 OFF 处理
func (d *ConflictDetector) detectHardPatterns(empID int64, shifts []*model.Shift) []Conflict {
	var conflicts []Conflict

	byDate := make(map[string]model.ShiftCode, len(shifts))
	for _, s := range shifts {
		byDate[s.WorkDate] = s.ShiftTypeID
	}

	for _, s := range shifts {
		date, err := model.ParseDate(s.WorkDate)
		if err != nil {
			continue
		}
		prev1 := byDate[model.FormatDate(date.AddDate(0, 0, -1))]
		prev2 := byDate[model.FormatDate(date.AddDate(0, 0, -2))]

		if p := rule.Check(prev2, prev1, s.ShiftTypeID); p != rule.PatternNone {
			conflicts = append(conflicts, Conflict{
				Type:       ConflictHardPattern,
				Severity:   "error",
				EmployeeID: empID,
				Date:       s.WorkDate,
				Pattern:    p,
				Message:    fmt.Sprintf("员工 %d 在 %s 的班次构成 %s", empID, s.WorkDate, p.Label()),
				ShiftIDs:   []int64{s.ID},
			})
		}
	}

	return conflicts
}

// detectConsecutiveDays 检测连续工作天数
func (d *ConflictDetector) detectConsecutiveDays(empID int64, shifts []*model.Shift) []Conflict {
	var conflicts []Conflict

	consecutive := 0
	startDate := ""
	lastDate := ""
	reported := false

	for _, s := range shifts {
		if !s.ShiftTypeID.IsWork() {
			consecutive = 0
			continue
		}
		if s.WorkDate == lastDate {
			continue
		}
		if consecutive > 0 && isConsecutiveDateStr(lastDate, s.WorkDate) {
			consecutive++
		} else {
			consecutive = 1
			startDate = s.WorkDate
			reported = false
		}
		lastDate = s.WorkDate

		if consecutive > d.config.MaxConsecutiveDays && !reported {
			reported = true
			conflicts = append(conflicts, Conflict{
				Type:       ConflictConsecutive,
				Severity:   "warning",
				EmployeeID: empID,
				Date:       startDate,
				Message:    fmt.Sprintf("员工 %d 自 %s 起连续工作超过 %d 天", empID, startDate, d.config.MaxConsecutiveDays),
			})
		}
	}

	return conflicts
}

// detectMaxHours 检测每周工时是否超过员工上限
func (d *ConflictDetector) detectMaxHours(emp *model.Employee, shifts []*model.Shift) []Conflict {
	var conflicts []Conflict

	limit := emp.MaxWeeklyHours
	if limit <= 0 {
		limit = model.DefaultMaxWeeklyHours
	}

	type weekKey struct{ year, week int }
	hours := make(map[weekKey]int)
	firstDay := make(map[weekKey]string)
	var order []weekKey

	for _, s := range shifts {
		if !s.ShiftTypeID.IsWork() {
			continue
		}
		date, err := model.ParseDate(s.WorkDate)
		if err != nil {
			continue
		}
		y, w := date.ISOWeek()
		k := weekKey{y, w}
		if _, ok := hours[k]; !ok {
			order = append(order, k)
			firstDay[k] = s.WorkDate
		}
		hours[k] += d.config.HoursPerShift
	}

	for _, k := range order {
		if hours[k] > limit {
			conflicts = append(conflicts, Conflict{
				Type:       ConflictMaxHours,
				Severity:   "warning",
				EmployeeID: emp.ID,
				Date:       firstDay[k],
				Message:    fmt.Sprintf("员工 %s 第 %d 周工作 %d 小时，超过限制 %d 小时", emp.Name, k.week, hours[k], limit),
			})
		}
	}

	return conflicts
}

// groupByEmployee 按员工分组
func groupByEmployee(shifts []*model.Shift) map[int64][]*model.Shift {
	result := make(map[int64][]*model.Shift)
	for _, s := range shifts {
		result[s.EmployeeID] = append(result[s.EmployeeID], s)
	}
	return result
}

// sortByDate 按日期排序（不修改输入）
func sortByDate(shifts []*model.Shift) []*model.Shift {
	sorted := make([]*model.Shift, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WorkDate < sorted[j].WorkDate
	})
	return sorted
}

// isConsecutiveDateStr 检查两个日期字符串是否连续
func isConsecutiveDateStr(date1, date2 string) bool {
	t1, err1 := time.Parse(model.DateLayout, date1)
	t2, err2 := time.Parse(model.DateLayout, date2)
	if err1 != nil || err2 != nil {
		return false
	}

	diff := t2.Sub(t1).Hours() / 24
	return diff == 1
}
