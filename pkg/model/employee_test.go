package model

import (
	"testing"
)

func TestNewEmployee(t *testing.T) {
	e := NewEmployee("김간호", "nurse")

	if !e.NightShiftAvailable {
		t.Error("默认应可上夜班")
	}
	if e.MaxWeeklyHours != DefaultMaxWeeklyHours {
		t.Errorf("MaxWeeklyHours = %d, expected %d", e.MaxWeeklyHours, DefaultMaxWeeklyHours)
	}
}

func TestEmployee_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		hours    int
		expected int
	}{
		{"未设置", 0, DefaultMaxWeeklyHours},
		{"负数", -8, DefaultMaxWeeklyHours},
		{"已设置", 36, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Employee{MaxWeeklyHours: tt.hours}
			e.ApplyDefaults()
			if e.MaxWeeklyHours != tt.expected {
				t.Errorf("MaxWeeklyHours = %d, expected %d", e.MaxWeeklyHours, tt.expected)
			}
		})
	}
}
