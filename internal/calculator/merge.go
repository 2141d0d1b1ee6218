package calculator

import (
	"github.com/Trihalo/XeroAPI/internal/model"
)

// ActualsResult 发票实际收入的周度/累计视图
type ActualsResult struct {
	ByRecruiterWeek       WeeklyMap // 顾问 -> 周 -> 当周毛利
	ByArea                WeeklyMap // 板块 -> 周 -> 当周毛利
	CumulativeByArea      WeeklyMap // 滞后累计（含 Total）
	CumulativeByRecruiter WeeklyMap // 滞后累计（含 Total）
}

// AggregateActuals 把发票记录聚合为周度实际收入
// 只统计命中当前财年/月份的记录；recruiters/areas/weeks 先全零初始化，
// 不在名单内的顾问或板块的发票被忽略
func AggregateActuals(invoices []*model.InvoiceRecord, month, fy string,
	recruiters, areas []string, weeks []int) ActualsResult {

	byRecruiter := InitializeWeeklyMap(recruiters, weeks)
	byArea := InitializeWeeklyMap(areas, weeks)

	for _, inv := range invoices {
		if inv.Month != month || inv.FinancialYear != fy {
			continue
		}
		if _, ok := byRecruiter[inv.Consultant]; ok {
			if _, ok := byRecruiter[inv.Consultant][inv.Week]; ok {
				byRecruiter[inv.Consultant][inv.Week] += inv.Margin
			}
		}
		if _, ok := byArea[inv.Area]; ok {
			if _, ok := byArea[inv.Area][inv.Week]; ok {
				byArea[inv.Area][inv.Week] += inv.Margin
			}
		}
	}

	return ActualsResult{
		ByRecruiterWeek:       byRecruiter,
		ByArea:                byArea,
		CumulativeByArea:      ComputeCumulativeTotals(byArea),
		CumulativeByRecruiter: ComputeCumulativeTotals(byRecruiter),
	}
}

// ForecastsResult 预测行的聚合视图
type ForecastsResult struct {
	ByArea        WeeklyMap // 板块 -> 上传周 -> "该次提交对后续各周的预测总额"
	ByRecruiter   WeeklyMap // 顾问 -> 上传周 -> 同上
	ByAreaForWeek WeeklyMap // 板块 -> 周 -> 仅 week == uploadWeek 的当周预测
	Raw           []model.ForecastSummaryRow
}

// AreaResolver 顾问名 -> 板块名；未知返回 ok=false
type AreaResolver func(name string) (string, bool)

// AggregateForecasts 按"提交时点"口径聚合预测
// 上传周 u 的桶累计所有目标周 >= u 的行（提交当周对月内剩余各周的预测），
// ByAreaForWeek 只取 week == uploadWeek 的行，用于与当周实际交叉核对
func AggregateForecasts(rows []model.ForecastSummaryRow, resolve AreaResolver) ForecastsResult {
	byArea := WeeklyMap{}
	byRecruiter := WeeklyMap{}
	byAreaForWeek := WeeklyMap{}

	for _, r := range rows {
		area, ok := resolve(r.Name)
		if !ok {
			area = "Unknown"
		}

		if r.Week >= r.UploadWeek {
			addTo(byArea, area, r.UploadWeek, r.TotalRevenue)
			addTo(byRecruiter, r.Name, r.UploadWeek, r.TotalRevenue)
		}

		if r.Week == r.UploadWeek {
			addTo(byAreaForWeek, area, r.Week, r.TotalRevenue)
		}
	}

	return ForecastsResult{
		ByArea:        byArea,
		ByRecruiter:   byRecruiter,
		ByAreaForWeek: byAreaForWeek,
		Raw:           rows,
	}
}

func addTo(m WeeklyMap, key string, week int, amount float64) {
	if m[key] == nil {
		m[key] = map[int]float64{}
	}
	m[key][week] += amount
}

// RecruiterWeeks 顾问的合并视图：板块 + 周度金额
type RecruiterWeeks struct {
	Area  string          `json:"area"`
	Weeks map[int]float64 `json:"weeks"`
}

// BuildRecruiterTogetherByWeek 逐顾问合并累计实际与累计预测
// 周集合取两边的并集，板块未知时标记 Unknown
func BuildRecruiterTogetherByWeek(recruiters []string, resolve AreaResolver,
	cumulativeActuals, cumulativeForecasts WeeklyMap) map[string]RecruiterWeeks {

	result := make(map[string]RecruiterWeeks, len(recruiters))

	for _, name := range recruiters {
		area, ok := resolve(name)
		if !ok {
			area = "Unknown"
		}

		actualWeeks := cumulativeActuals[name]
		forecastWeeks := cumulativeForecasts[name]

		weeks := map[int]float64{}
		for w := range actualWeeks {
			weeks[w] = actualWeeks[w] + forecastWeeks[w]
		}
		for w := range forecastWeeks {
			if _, done := weeks[w]; !done {
				weeks[w] = actualWeeks[w] + forecastWeeks[w]
			}
		}

		result[name] = RecruiterWeeks{Area: area, Weeks: weeks}
	}

	return result
}

// GroupRecruitersByAreaWeek 顾问合并视图按板块逐周求和
func GroupRecruitersByAreaWeek(data map[string]RecruiterWeeks) WeeklyMap {
	out := WeeklyMap{}
	for _, rw := range data {
		for w, amount := range rw.Weeks {
			addTo(out, rw.Area, w, amount)
		}
	}
	return out
}

// LatestForecastWeeks 取顾问最新一次提交的预测，并用实际覆盖已过去的周
// 仅保留 uploadWeek 最大的行；小于 currentWeekIndex 的周以发票实际为准，
// 避免陈旧预测遮住已经发生的收入
func LatestForecastWeeks(rows []model.ForecastSummaryRow, name string, weeks []int,
	currentWeekIndex int, actualsByRecruiterWeek WeeklyMap) []float64 {

	maxUpload := 0
	for _, r := range rows {
		if r.Name == name && r.UploadWeek > maxUpload {
			maxUpload = r.UploadWeek
		}
	}

	byWeek := map[int]float64{}
	for _, r := range rows {
		if r.Name == name && r.UploadWeek == maxUpload {
			byWeek[r.Week] = r.TotalRevenue
		}
	}

	out := make([]float64, 0, len(weeks))
	for _, w := range weeks {
		if w < currentWeekIndex {
			out = append(out, actualsByRecruiterWeek[name][w])
			continue
		}
		out = append(out, byWeek[w])
	}
	return out
}
