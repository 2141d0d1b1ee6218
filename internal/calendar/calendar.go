// Package calendar 财务周历：把自然日期解析到财年/财务月/周
//
// 财年按澳洲口径命名（FY26 = 2025-07 至 2026-06）。一周为周一到周日，
// 归属于周日所在的财务月；月内周序从 1 开始。
package calendar

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Week 一条财务周记录
type Week struct {
	FY    string    `json:"fy"`
	Month string    `json:"month"`
	Num   int       `json:"week"`
	Start time.Time `json:"start"` // 当天 00:00:00 起
	End   time.Time `json:"end"`   // 当天 23:59:59 止
}

// Range 展示用区间文本，如 30/6/25 - 6/7/25
func (w Week) Range() string {
	return fmt.Sprintf("%s - %s", shortDate(w.Start), shortDate(w.End))
}

// MonthInfo 日期解析结果
type MonthInfo struct {
	Month            string `json:"currentMonth"`
	FY               string `json:"currentFY"`
	WeeksInMonth     []Week `json:"weeksInMonth"`
	CurrentWeekIndex int    `json:"currentWeekIndex"`
	WeekLabel        string `json:"weekLabel"`
}

// Unknown 未命中任何周时的降级结果
// 调用方应据此隐藏按周展示的内容，而不是报错
func (m MonthInfo) Unknown() bool {
	return m.Month == "Unknown"
}

// Calendar 已加载的财务周历
type Calendar struct {
	weeks []Week
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Load 加载周历：path 非空时读 TOML 文件，否则生成覆盖今天前后各一个财年的默认周历
func Load(path string) (*Calendar, error) {
	if path == "" {
		now := time.Now()
		fy := fyEndYear(now)
		weeks := append(generateFY(fy-1), generateFY(fy)...)
		weeks = append(weeks, generateFY(fy+1)...)
		return newCalendar(weeks)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	var doc struct {
		Weeks []struct {
			FY    string `toml:"fy"`
			Month string `toml:"month"`
			Week  int    `toml:"week"`
			Start string `toml:"start"`
			End   string `toml:"end"`
		} `toml:"week"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}

	weeks := make([]Week, 0, len(doc.Weeks))
	for _, w := range doc.Weeks {
		start, err := time.ParseInLocation("2006-01-02", w.Start, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid week start %q: %w", w.Start, err)
		}
		end, err := time.ParseInLocation("2006-01-02", w.End, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid week end %q: %w", w.End, err)
		}
		weeks = append(weeks, Week{FY: w.FY, Month: w.Month, Num: w.Week, Start: start, End: end})
	}

	return newCalendar(weeks)
}

func newCalendar(weeks []Week) (*Calendar, error) {
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Start.Before(weeks[j].Start) })

	// 校验：财年内各周连续且不重叠
	for i := 1; i < len(weeks); i++ {
		prev, cur := weeks[i-1], weeks[i]
		if prev.FY != cur.FY {
			continue
		}
		want := startOfDay(prev.End).AddDate(0, 0, 1)
		if !startOfDay(cur.Start).Equal(want) {
			return nil, fmt.Errorf("calendar weeks not contiguous: %s then %s", prev.Range(), cur.Range())
		}
	}

	return &Calendar{weeks: weeks}, nil
}

// Weeks 返回全部周记录（只读副本）
func (c *Calendar) Weeks() []Week {
	out := make([]Week, len(c.weeks))
	copy(out, c.weeks)
	return out
}

// Resolve 解析参考日期（含端点：起始日 00:00 至结束日 23:59:59）
// currentWeekIndex 取命中周历记录自身的周号，不按月内偏移重新计数
func (c *Calendar) Resolve(ref time.Time) MonthInfo {
	var matched *Week
	for i := range c.weeks {
		w := c.weeks[i]
		if !ref.Before(startOfDay(w.Start)) && !ref.After(endOfDay(w.End)) {
			matched = &c.weeks[i]
			break
		}
	}

	if matched == nil {
		// 日期不在任何周内：降级为 Unknown，展示层隐藏按周数据
		return MonthInfo{Month: "Unknown", FY: "FY?"}
	}

	var weeksInMonth []Week
	for _, w := range c.weeks {
		if w.FY == matched.FY && w.Month == matched.Month {
			weeksInMonth = append(weeksInMonth, w)
		}
	}

	label := fmt.Sprintf("%s Week %d, %s", matched.Month, matched.Num, shortDate(ref))

	return MonthInfo{
		Month:            matched.Month,
		FY:               matched.FY,
		WeeksInMonth:     weeksInMonth,
		CurrentWeekIndex: matched.Num,
		WeekLabel:        label,
	}
}

// WeekNumbers 取月内周号序列
func WeekNumbers(weeks []Week) []int {
	out := make([]int, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, w.Num)
	}
	return out
}

// generateFY 生成一个财年的周历：周一至周日为一周，按周日所在月归属
func generateFY(endYear int) []Week {
	fy := fmt.Sprintf("FY%02d", endYear%100)

	// 财年从 7 月 1 日所在周的周一开始
	jul1 := time.Date(endYear-1, time.July, 1, 0, 0, 0, 0, time.Local)
	start := mondayOnOrBefore(jul1)

	var weeks []Week
	weekOfMonth := map[string]int{}

	for cur := start; ; cur = cur.AddDate(0, 0, 7) {
		sunday := cur.AddDate(0, 0, 6)
		if sunday.Year() == endYear && sunday.Month() == time.July {
			break // 下一财年的第一周
		}

		month := monthNames[int(sunday.Month())-1]
		weekOfMonth[month]++

		weeks = append(weeks, Week{
			FY:    fy,
			Month: month,
			Num:   weekOfMonth[month],
			Start: cur,
			End:   sunday,
		})
	}

	return weeks
}

func fyEndYear(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year() + 1
	}
	return t.Year()
}

func mondayOnOrBefore(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func shortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%02d", t.Day(), int(t.Month()), t.Year()%100)
}
