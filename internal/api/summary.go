package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/calculator"
	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/roster"
)

// GetRevenueSummary 周度营收汇总：板块行、总计行、顾问周环比变动
// GET /api/revenue/summary?fy=FY26&month=Jul
func (h *Handler) GetRevenueSummary(c *gin.Context) {
	fy := c.Query("fy")
	month := c.Query("month")
	if fy == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy and month are required"})
		return
	}

	weeks := h.monthWeeks(fy, month)
	if len(weeks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no calendar weeks for " + fy + " " + month})
		return
	}
	weekNums := calendar.WeekNumbers(weeks)

	ros, err := roster.Load(h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invoices, err := h.invoices.Get(fy, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaryRows, err := h.store.GetForecastSummary(fy, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	currentWeekIndex, weekLabel := h.currentWeekFor(fy, month, weekNums)

	actuals := calculator.AggregateActuals(invoices, month, fy,
		ros.RecruiterNames(), ros.AreaNames(), weekNums)
	forecasts := calculator.AggregateForecasts(summaryRows, ros.AreaOf)

	together := calculator.BuildRecruiterTogetherByWeek(ros.RecruiterNames(), ros.AreaOf,
		actuals.CumulativeByRecruiter, forecasts.ByRecruiter)

	// 预测 MTD：顾问的累计实际 + 当期提交的剩余周预测，按板块归并
	summary := calculator.BuildAreaSummary(calculator.SummaryInput{
		Areas:             ros.AreaNames(),
		CurrentWeekIndex:  currentWeekIndex,
		ForecastByArea:    forecasts.ByAreaForWeek,
		ActualsByArea:     actuals.ByArea,
		CumulativeByArea:  actuals.CumulativeByArea,
		ForecastMTDByArea: calculator.GroupRecruitersByAreaWeek(together),
		HeadcountByArea:   ros.HeadcountByArea(),
	})

	movement := calculator.WeekToWeekMovement(together, currentWeekIndex)

	// 顾问视角：最新一次提交的逐周预测，已过去的周用发票实际覆盖
	latestByRecruiter := map[string][]float64{}
	for _, name := range ros.RecruiterNames() {
		latestByRecruiter[name] = calculator.LatestForecastWeeks(summaryRows, name,
			weekNums, currentWeekIndex, actuals.ByRecruiterWeek)
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":             summary.Rows,
		"total":            summary.Total,
		"movement":         movement,
		"latestForecasts":  latestByRecruiter,
		"currentWeekIndex": currentWeekIndex,
		"weekLabel":        weekLabel,
		"weeks":            weeks,
	})
}

// currentWeekFor 请求月份命中当前周历周时用解析出的周序号；
// 过去的月份当作整月已过（最后一周），未来的月份当作尚未开始（第一周）。
func (h *Handler) currentWeekFor(fy, month string, weekNums []int) (int, string) {
	info := h.cal.Resolve(time.Now())
	if !info.Unknown() && info.FY == fy && info.Month == month {
		return info.CurrentWeekIndex, info.WeekLabel
	}

	last := weekNums[len(weekNums)-1]
	if !info.Unknown() && fyMonthBefore(fy, month, info.FY, info.Month) {
		return last, ""
	}
	return weekNums[0], ""
}

var fiscalMonthOrder = map[string]int{
	"Jul": 1, "Aug": 2, "Sep": 3, "Oct": 4, "Nov": 5, "Dec": 6,
	"Jan": 7, "Feb": 8, "Mar": 9, "Apr": 10, "May": 11, "Jun": 12,
}

// fyMonthBefore (fy, month) 是否早于 (nowFY, nowMonth)
func fyMonthBefore(fy, month, nowFY, nowMonth string) bool {
	if fy != nowFY {
		return fy < nowFY
	}
	return fiscalMonthOrder[month] < fiscalMonthOrder[nowMonth]
}
