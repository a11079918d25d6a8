package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/paiban/roster/pkg/scheduler/roster"
)

func testCalendar(t *testing.T) *roster.Calendar {
	t.Helper()
	cal, err := roster.NewCalendar(2025, time.September, nil)
	if err != nil {
		t.Fatal(err)
	}
	return cal
}

func testGrid(t *testing.T, rows ...string) *roster.Grid {
	t.Helper()
	g, err := roster.FromRows(rows...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	cal := testCalendar(t)
	// 2025-09-01 周一：需要 D3/E2/N2，只安排 D2/E1/N2
	grid := testGrid(t, "D", "D", "E", "N", "N", "O")

	metrics := NewCoverageAnalyzer(roster.DefaultCoverage()).Analyze(grid, cal)

	if metrics.RequiredSlots != 7 {
		t.Errorf("RequiredSlots = %d, expected 7", metrics.RequiredSlots)
	}
	if metrics.FilledSlots != 5 {
		t.Errorf("FilledSlots = %d, expected 5", metrics.FilledSlots)
	}
	if len(metrics.Understaffed) != 2 {
		t.Fatalf("Understaffed = %+v, expected 2 records", metrics.Understaffed)
	}
	if metrics.Understaffed[0].Shift != "DAY" || metrics.Understaffed[0].Missing != 1 {
		t.Errorf("Understaffed[0] = %+v", metrics.Understaffed[0])
	}

	day := metrics.DailyCoverage[0]
	if day.Date != "2025-09-01" || day.Day != 2 || day.Off != 1 || day.Shortage != 2 {
		t.Errorf("DailyCoverage[0] = %+v", day)
	}
}

func TestCoverageAnalyzer_FullCoverage(t *testing.T) {
	cal := testCalendar(t)
	grid := testGrid(t, "D", "D", "D", "E", "E", "N", "N", "D")

	metrics := NewCoverageAnalyzer(roster.DefaultCoverage()).Analyze(grid, cal)

	// 超出需求不计入覆盖率
	if metrics.OverallCoverage != 100 {
		t.Errorf("OverallCoverage = %.1f, expected 100", metrics.OverallCoverage)
	}
	if len(metrics.Understaffed) != 0 {
		t.Errorf("Understaffed = %+v, expected none", metrics.Understaffed)
	}
}

func TestCoverageAnalyzer_EmptyRequirements(t *testing.T) {
	metrics := NewCoverageAnalyzer(roster.Coverage{}).Analyze(testGrid(t, "OO"), testCalendar(t))
	if metrics.OverallCoverage != 100 {
		t.Errorf("无需求时覆盖率应为 100, got %.1f", metrics.OverallCoverage)
	}
}

func TestCoverageAnalyzer_Report(t *testing.T) {
	analyzer := NewCoverageAnalyzer(roster.DefaultCoverage())
	metrics := analyzer.Analyze(testGrid(t, "D"), testCalendar(t))

	report := analyzer.GenerateCoverageReport(metrics)
	if !strings.Contains(report, "人手不足") || !strings.Contains(report, "2025-09-01 NIGHT") {
		t.Errorf("报告内容不完整:\n%s", report)
	}
}
