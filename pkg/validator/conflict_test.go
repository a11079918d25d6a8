package validator

import (
	"testing"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

func shiftsOf(emp int64, start int, codes string) []*model.Shift {
	var out []*model.Shift
	for i, ch := range codes {
		code, _ := model.ParseShiftCode(string(ch))
		d := day(start + i)
		out = append(out, &model.Shift{
			ID:          emp*100 + int64(i),
			EmployeeID:  emp,
			ShiftTypeID: code,
			WorkDate:    model.FormatDate(d),
		})
	}
	return out
}

func TestConflictDetector_DetectAll(t *testing.T) {
	detector := NewConflictDetector(DefaultDetectorConfig())

	employees := map[int64]*model.Employee{
		1: {BaseModel: model.BaseModel{ID: 1}, Name: "员工1", MaxWeeklyHours: 40},
	}

	// 正常排班不应有冲突
	conflicts := detector.DetectAll(shiftsOf(1, 1, "DDOEEONO"), employees)
	if len(conflicts) != 0 {
		t.Errorf("Expected 0 conflicts, got %d", len(conflicts))
		for _, c := range conflicts {
			t.Logf("Conflict: %s", c.Message)
		}
	}
}

func TestConflictDetector_HardPatterns(t *testing.T) {
	detector := NewConflictDetector(nil)

	var shifts []*model.Shift
	shifts = append(shifts, shiftsOf(1, 1, "ND")...)
	shifts = append(shifts, shiftsOf(2, 1, "NOD")...)
	shifts = append(shifts, shiftsOf(3, 1, "ED")...)

	conflicts := detector.DetectAll(shifts, nil)

	want := []struct {
		emp     int64
		date    string
		pattern rule.Pattern
	}{
		{1, "2025-09-02", rule.PatternNightToDayEvening},
		{2, "2025-09-03", rule.PatternNightOffDay},
		{3, "2025-09-02", rule.PatternEveningToDay},
	}
	if len(conflicts) != len(want) {
		t.Fatalf("got %d conflicts, expected %d: %+v", len(conflicts), len(want), conflicts)
	}
	for i, w := range want {
		c := conflicts[i]
		if c.Type != ConflictHardPattern || c.EmployeeID != w.emp || c.Date != w.date || c.Pattern != w.pattern {
			t.Errorf("conflicts[%d] = %+v, expected %+v", i, c, w)
		}
	}
}

func TestConflictDetector_MissingDayCountsAsOff(t *testing.T) {
	detector := NewConflictDetector(nil)

	// 第 1 天夜班，第 2 天无记录，第 3 天白班
	shifts := []*model.Shift{
		{ID: 1, EmployeeID: 5, ShiftTypeID: model.Night, WorkDate: "2025-09-01"},
		{ID: 2, EmployeeID: 5, ShiftTypeID: model.Day, WorkDate: "2025-09-03"},
	}
	conflicts := detector.DetectAll(shifts, nil)
	if len(conflicts) != 1 || conflicts[0].Pattern != rule.PatternNightOffDay {
		t.Errorf("conflicts = %+v, expected one N-O-D", conflicts)
	}
}

func TestConflictDetector_Duplicate(t *testing.T) {
	detector := NewConflictDetector(nil)
	shifts := []*model.Shift{
		{ID: 1, EmployeeID: 1, ShiftTypeID: model.Day, WorkDate: "2025-09-01"},
		{ID: 2, EmployeeID: 1, ShiftTypeID: model.Off, WorkDate: "2025-09-01"},
	}

	conflicts := detector.DetectAll(shifts, nil)
	if len(conflicts) == 0 || conflicts[0].Type != ConflictDuplicate {
		t.Errorf("conflicts = %+v, expected duplicate", conflicts)
	}
}

func TestConflictDetector_Consecutive(t *testing.T) {
	detector := NewConflictDetector(nil)

	conflicts := detector.DetectAll(shiftsOf(1, 1, "DDDDDDO"), nil)
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, expected 1", len(conflicts))
	}
	if conflicts[0].Type != ConflictConsecutive || conflicts[0].Date != "2025-09-01" {
		t.Errorf("conflict = %+v", conflicts[0])
	}

	// 休息打断连续
	if c := detector.DetectAll(shiftsOf(1, 1, "DDDDODDDD"), nil); len(c) != 0 {
		t.Errorf("Expected 0 conflicts, got %+v", c)
	}
}

func TestConflictDetector_MaxHours(t *testing.T) {
	detector := NewConflictDetector(&DetectorConfig{MaxConsecutiveDays: 31, HoursPerShift: 8})
	employees := map[int64]*model.Employee{
		1: {BaseModel: model.BaseModel{ID: 1}, Name: "员工1", MaxWeeklyHours: 24},
	}

	// 2025-09-01 为周一，一周内 4 个白班 = 32 小时
	conflicts := detector.DetectAll(shiftsOf(1, 1, "DDDDOOO"), employees)
	if len(conflicts) != 1 || conflicts[0].Type != ConflictMaxHours {
		t.Errorf("conflicts = %+v, expected max_hours", conflicts)
	}
}
