package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolve_InsideRange(t *testing.T) {
	cal, err := Load("")
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}

	// FY26 第一周：2025-06-30（周一）至 2025-07-06（周日）
	info := cal.Resolve(time.Date(2025, 7, 2, 10, 30, 0, 0, time.Local))
	if info.Unknown() {
		t.Fatalf("expected a match, got Unknown")
	}
	if info.Month != "Jul" || info.FY != "FY26" {
		t.Fatalf("unexpected month/fy: %s %s", info.Month, info.FY)
	}
	if info.CurrentWeekIndex != 1 {
		t.Fatalf("expected week 1, got %d", info.CurrentWeekIndex)
	}
	if len(info.WeeksInMonth) < 4 {
		t.Fatalf("expected at least 4 weeks in Jul, got %d", len(info.WeeksInMonth))
	}
}

func TestResolve_RangeEndpointsInclusive(t *testing.T) {
	cal, err := Load("")
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}

	start := cal.Resolve(time.Date(2025, 6, 30, 0, 0, 0, 0, time.Local))
	end := cal.Resolve(time.Date(2025, 7, 6, 23, 59, 59, 0, time.Local))

	if start.Unknown() || end.Unknown() {
		t.Fatalf("endpoints should match: start=%v end=%v", start.Month, end.Month)
	}
	if start.CurrentWeekIndex != end.CurrentWeekIndex {
		t.Fatalf("endpoints resolved to different weeks: %d vs %d",
			start.CurrentWeekIndex, end.CurrentWeekIndex)
	}
}

func TestResolve_OutsideAllRanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calendar.toml")
	content := `
[[week]]
fy = "FY26"
month = "Jul"
week = 1
start = "2025-06-30"
end = "2025-07-06"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write calendar: %v", err)
	}

	cal, err := Load(path)
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}

	info := cal.Resolve(time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local))
	if !info.Unknown() {
		t.Fatalf("expected Unknown, got %s %s", info.Month, info.FY)
	}
	if info.FY != "FY?" {
		t.Fatalf("expected FY? sentinel, got %s", info.FY)
	}
	if info.CurrentWeekIndex != 0 || len(info.WeeksInMonth) != 0 {
		t.Fatalf("degraded result should suppress week data: %+v", info)
	}
}

func TestLoad_RejectsNonContiguousWeeks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calendar.toml")
	content := `
[[week]]
fy = "FY26"
month = "Jul"
week = 1
start = "2025-06-30"
end = "2025-07-06"

[[week]]
fy = "FY26"
month = "Jul"
week = 2
start = "2025-07-09"
end = "2025-07-13"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write calendar: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected contiguity error")
	}
}

func TestGenerateFY_CoversWholeYear(t *testing.T) {
	weeks := generateFY(2026)

	if len(weeks) < 52 || len(weeks) > 53 {
		t.Fatalf("unexpected week count: %d", len(weeks))
	}

	// 周归属于周日所在月份
	for _, w := range weeks {
		if monthNames[int(w.End.Month())-1] != w.Month {
			t.Fatalf("week %s assigned to %s", w.Range(), w.Month)
		}
		if !w.End.Equal(w.Start.AddDate(0, 0, 6)) {
			t.Fatalf("week %s is not 7 days", w.Range())
		}
	}

	// 月内周序从 1 连续递增
	seen := map[string]int{}
	for _, w := range weeks {
		seen[w.Month]++
		if w.Num != seen[w.Month] {
			t.Fatalf("week numbering broken in %s: got %d want %d", w.Month, w.Num, seen[w.Month])
		}
	}
}

func TestWeekLabel(t *testing.T) {
	cal, err := Load("")
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}

	info := cal.Resolve(time.Date(2025, 7, 2, 9, 0, 0, 0, time.Local))
	want := "Jul Week 1, 2/7/25"
	if info.WeekLabel != want {
		t.Fatalf("week label mismatch: got %q want %q", info.WeekLabel, want)
	}
}
