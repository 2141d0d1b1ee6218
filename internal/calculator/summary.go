package calculator

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AreaSummaryRow 板块汇总行（Revenue 页的一行）
// 人均产出在 headcount 为 0 时为 nil，展示为占位符而不是除零
type AreaSummaryRow struct {
	Area            string   `json:"area"`
	ForecastWeek    float64  `json:"forecastWeek"`
	ActualWeek      float64  `json:"actualWeek"`
	Variance        float64  `json:"variance"`
	MTDRevenue      float64  `json:"mtdRevenue"`
	ForecastMTD     float64  `json:"forecastMTD"`
	Headcount       float64  `json:"headcount"`
	ForecastPerHead *float64 `json:"forecastPerHead"`
	ActualPerHead   *float64 `json:"actualPerHead"`
}

// AreaSummary 板块汇总表：明细行 + 总计行 + 周环比变动
type AreaSummary struct {
	Rows     []AreaSummaryRow    `json:"rows"`
	Total    AreaSummaryRow      `json:"total"`
	Movement map[string][]string `json:"movement"` // 板块 -> "名字 ±NK" 列表
}

// SummaryInput 汇总计算的输入
type SummaryInput struct {
	Areas             []string
	CurrentWeekIndex  int
	ForecastByArea    WeeklyMap // week == uploadWeek 口径
	ActualsByArea     WeeklyMap // 周度实际
	CumulativeByArea  WeeklyMap // 实际的滞后累计
	ForecastMTDByArea WeeklyMap // 顾问实际+预测累计按板块汇总
	HeadcountByArea   map[string]float64
}

// BuildAreaSummary 计算板块汇总表
// 总计行的产出比用合计值重算，而不是对各板块比值求和
func BuildAreaSummary(in SummaryInput) AreaSummary {
	rows := make([]AreaSummaryRow, 0, len(in.Areas))

	for _, area := range in.Areas {
		forecastWeek := in.ForecastByArea[area][in.CurrentWeekIndex]
		actualWeek := in.ActualsByArea[area][in.CurrentWeekIndex]
		mtdRevenue := in.CumulativeByArea[area][in.CurrentWeekIndex]
		forecastMTD := in.ForecastMTDByArea[area][in.CurrentWeekIndex]
		headcount := in.HeadcountByArea[area]

		row := AreaSummaryRow{
			Area:         area,
			ForecastWeek: forecastWeek,
			ActualWeek:   actualWeek,
			Variance:     math.Round(actualWeek - forecastWeek),
			MTDRevenue:   mtdRevenue,
			ForecastMTD:  forecastMTD,
			Headcount:    headcount,
		}
		if headcount > 0 {
			row.ForecastPerHead = floatPtr(forecastMTD / headcount)
			row.ActualPerHead = floatPtr(mtdRevenue / headcount)
		}
		rows = append(rows, row)
	}

	total := AreaSummaryRow{Area: TotalKey}
	for _, r := range rows {
		total.ForecastWeek += r.ForecastWeek
		total.ActualWeek += r.ActualWeek
		total.MTDRevenue += r.MTDRevenue
		total.ForecastMTD += r.ForecastMTD
		total.Headcount += r.Headcount
	}
	total.Variance = math.Round(total.ActualWeek - total.ForecastWeek)
	if total.Headcount > 0 {
		total.ForecastPerHead = floatPtr(total.ForecastMTD / total.Headcount)
		total.ActualPerHead = floatPtr(total.MTDRevenue / total.Headcount)
	}

	return AreaSummary{Rows: rows, Total: total}
}

// WeekToWeekMovement 顾问周环比变动，按板块分组
// 变动 = 本周累计 - 上周累计，千元取整；为 0 的不输出
func WeekToWeekMovement(data map[string]RecruiterWeeks, currentWeekIndex int) map[string][]string {
	movement := map[string][]string{}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rw := data[name]
		current := rw.Weeks[currentWeekIndex]
		prev := rw.Weeks[currentWeekIndex-1]
		diff := current - prev

		value := int(math.Round(math.Abs(diff) / 1000))
		if value == 0 {
			continue
		}

		sign := "+"
		if diff < 0 {
			sign = "-"
		}
		firstName := strings.SplitN(name, " ", 2)[0]
		movement[rw.Area] = append(movement[rw.Area], fmt.Sprintf("%s %s%dK", firstName, sign, value))
	}

	return movement
}

// FormatAmount 金额展示：四舍五入加千分位，零/缺失显示 "-"
func FormatAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatAmountValue(*v)
}

// FormatAmountValue 同 FormatAmount，入参为具体值
func FormatAmountValue(v float64) string {
	if v == 0 {
		return "-"
	}
	return addThousands(int64(math.Round(v)))
}

// FormatVariance 差异展示：负数用括号
func FormatVariance(v float64) string {
	rounded := int64(math.Round(v))
	switch {
	case rounded < 0:
		return "(" + addThousands(-rounded) + ")"
	case rounded > 0:
		return addThousands(rounded)
	default:
		return "-"
	}
}

func addThousands(v int64) string {
	s := fmt.Sprintf("%d", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func floatPtr(v float64) *float64 {
	return &v
}
