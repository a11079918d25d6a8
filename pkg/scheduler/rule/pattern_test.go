package rule

import (
	"testing"

	"github.com/paiban/roster/pkg/model"
)

const (
	D = model.Day
	E = model.Evening
	N = model.Night
	O = model.Off
	U = model.Unassigned
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		prev2     model.ShiftCode
		prev1     model.ShiftCode
		candidate model.ShiftCode
		want      Pattern
	}{
		{"夜班后白班", O, N, D, PatternNightToDayEvening},
		{"夜班后小夜班", O, N, E, PatternNightToDayEvening},
		{"夜班后夜班", O, N, N, PatternNone},
		{"夜班后休息", O, N, O, PatternNone},
		{"小夜班后白班", O, E, D, PatternEveningToDay},
		{"小夜班后夜班", O, E, N, PatternNone},
		{"小夜班后小夜班", D, E, E, PatternNone},
		{"夜-休-白", N, O, D, PatternNightOffDay},
		{"夜-休-小夜", N, O, E, PatternNone},
		{"夜-休-休", N, O, O, PatternNone},
		{"白班后任意", O, D, D, PatternNone},
		{"缺失历史按OFF", U, U, D, PatternNone},
		{"夜-缺失-白 视为 N-O-D", N, U, D, PatternNightOffDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.prev2, tt.prev1, tt.candidate)
			if got != tt.want {
				t.Errorf("Check(%s,%s,%s) = %q, expected %q", tt.prev2, tt.prev1, tt.candidate, got, tt.want)
			}
			if Violates(tt.prev2, tt.prev1, tt.candidate) != (tt.want != PatternNone) {
				t.Error("Violates 与 Check 结果不一致")
			}
		})
	}
}

func TestCheck_Exhaustive(t *testing.T) {
	// 只有三种组合会触发，其余一律通过
	violations := 0
	for _, p2 := range model.AllCodes {
		for _, p1 := range model.AllCodes {
			for _, c := range model.AllCodes {
				if Violates(p2, p1, c) {
					violations++
				}
			}
		}
	}
	// N→D/E: 4*2=8, E→D: 4, N-O-D: 1
	if violations != 13 {
		t.Errorf("违反组合数 = %d, expected 13", violations)
	}
}

func TestFirstViolation(t *testing.T) {
	tests := []struct {
		name    string
		row     Codes
		wantIdx int
		wantPat Pattern
	}{
		{"空行", Codes{}, -1, PatternNone},
		{"合法", Codes{D, D, E, E, N, N, O, O, D}, -1, PatternNone},
		{"月初白班", Codes{D}, -1, PatternNone},
		{"中间N→D", Codes{D, N, D}, 2, PatternNightToDayEvening},
		{"N-O-D", Codes{N, O, D, D}, 2, PatternNightOffDay},
		{"E→D", Codes{O, E, D}, 2, PatternEveningToDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, p := FirstViolation(tt.row)
			if idx != tt.wantIdx || p != tt.wantPat {
				t.Errorf("FirstViolation() = (%d, %q), expected (%d, %q)", idx, p, tt.wantIdx, tt.wantPat)
			}
		})
	}
}

func TestPattern_Label(t *testing.T) {
	if PatternNightOffDay.Label() != "N-O-D" {
		t.Errorf("Label() = %s", PatternNightOffDay.Label())
	}
	if PatternNone.Label() != "" || PatternNone.Description() != "" {
		t.Error("PatternNone 不应有标签")
	}
}
