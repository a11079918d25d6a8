package validator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

// memoryHistory 以 "员工ID/日期" 为键的内存历史
type memoryHistory struct {
	codes map[int64]map[string]model.ShiftCode
	err   error
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{codes: make(map[int64]map[string]model.ShiftCode)}
}

func (m *memoryHistory) set(emp int64, date string, code model.ShiftCode) {
	if m.codes[emp] == nil {
		m.codes[emp] = make(map[string]model.ShiftCode)
	}
	m.codes[emp][date] = code
}

func (m *memoryHistory) FindShift(_ context.Context, employeeID int64, date time.Time) (model.ShiftCode, bool, error) {
	if m.err != nil {
		return model.Unassigned, false, m.err
	}
	code, ok := m.codes[employeeID][model.FormatDate(date)]
	return code, ok, nil
}

func day(d int) time.Time {
	return time.Date(2025, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestEditValidator_Validate(t *testing.T) {
	history := newMemoryHistory()
	history.set(1, "2025-09-05", model.Night)
	history.set(2, "2025-09-05", model.Night)
	history.set(2, "2025-09-06", model.Off)
	history.set(3, "2025-09-05", model.Evening)
	history.set(4, "2025-09-04", model.Night)

	v := NewEditValidator(history)

	tests := []struct {
		name     string
		emp      int64
		date     time.Time
		code     model.ShiftCode
		accepted bool
		pattern  rule.Pattern
	}{
		{"夜班后改白班", 1, day(6), model.Day, false, rule.PatternNightToDayEvening},
		{"夜班后改小夜班", 1, day(6), model.Evening, false, rule.PatternNightToDayEvening},
		{"夜班后休息", 1, day(6), model.Off, true, rule.PatternNone},
		{"夜班后继续夜班", 1, day(6), model.Night, true, rule.PatternNone},
		{"夜-休-白", 2, day(7), model.Day, false, rule.PatternNightOffDay},
		{"夜-休-小夜", 2, day(7), model.Evening, true, rule.PatternNone},
		{"小夜班后白班", 3, day(6), model.Day, false, rule.PatternEveningToDay},
		{"夜-无记录-白 按 N-O-D", 4, day(6), model.Day, false, rule.PatternNightOffDay},
		{"无历史", 99, day(1), model.Day, true, rule.PatternNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := v.Validate(context.Background(), tt.emp, tt.date, tt.code)
			if err != nil {
				t.Fatalf("Validate() err = %v", err)
			}
			if decision.Accepted != tt.accepted || decision.Pattern != tt.pattern {
				t.Errorf("Validate() = %+v, expected accepted=%v pattern=%q", decision, tt.accepted, tt.pattern)
			}
			if decision.Message == "" {
				t.Error("Message 不应为空")
			}
		})
	}
}

func TestEditValidator_LookupError(t *testing.T) {
	history := newMemoryHistory()
	history.err = errors.New("连接断开")

	_, err := NewEditValidator(history).Validate(context.Background(), 1, day(6), model.Day)
	if err == nil || !errors.Is(err, history.err) {
		t.Errorf("err = %v, 应包装查询错误", err)
	}
}

func TestEditValidator_InvalidCode(t *testing.T) {
	_, err := NewEditValidator(newMemoryHistory()).Validate(context.Background(), 1, day(6), model.Unassigned)
	if err == nil {
		t.Error("未分配代码应报错")
	}
}
