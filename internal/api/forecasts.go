package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/model"
)

// forecastSubmission 提交的单条预测，金额允许小数入参、落库取整
type forecastSubmission struct {
	FY          string  `json:"fy"`
	Month       string  `json:"month"`
	Week        int     `json:"week"`
	Range       string  `json:"range"`
	Revenue     float64 `json:"revenue"`
	TempRevenue float64 `json:"tempRevenue"`
	Notes       string  `json:"notes"`
	Name        string  `json:"name"`
	UploadMonth string  `json:"uploadMonth"`
	UploadWeek  int     `json:"uploadWeek"`
	UploadYear  int     `json:"uploadYear"`
	UploadUser  string  `json:"uploadUser"`
}

// SubmitForecasts 提交预测（同键同上传周覆盖）
// POST /api/forecasts
func (h *Handler) SubmitForecasts(c *gin.Context) {
	var submissions []forecastSubmission
	if err := c.BindJSON(&submissions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(submissions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no forecasts provided"})
		return
	}

	claims := currentUser(c)
	now := time.Now().Format(time.RFC3339)

	rows := make([]*model.ForecastRow, 0, len(submissions))
	for _, sub := range submissions {
		if sub.FY == "" || sub.Month == "" || sub.Name == "" || sub.Week <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fy, month, week and name are required"})
			return
		}

		uploadUser := sub.UploadUser
		if uploadUser == "" && claims != nil {
			uploadUser = claims.Name
		}

		rows = append(rows, &model.ForecastRow{
			Key:             fmt.Sprintf("%s:%s:%d:%s", sub.FY, sub.Month, sub.Week, sub.Name),
			FY:              sub.FY,
			Month:           sub.Month,
			Week:            sub.Week,
			Range:           sub.Range,
			Revenue:         int(math.Round(sub.Revenue)),
			TempRevenue:     int(math.Round(sub.TempRevenue)),
			Notes:           sub.Notes,
			Name:            sub.Name,
			UploadMonth:     sub.UploadMonth,
			UploadWeek:      sub.UploadWeek,
			UploadYear:      sub.UploadYear,
			UploadTimestamp: now,
			UploadUser:      uploadUser,
		})
	}

	if err := h.store.UpsertForecasts(rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 覆盖提交时 count 与落库行数会不同，响应里带上当月总行数
	total, err := h.store.CountForecasts(rows[0].FY, rows[0].Month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "forecasts saved", "count": len(rows), "total": total})
}

// GetForecastsForRecruiter 单个顾问某月的逐周预测
// 每周取最新一次提交；没有提交的周回退到之前最近一周的提交（区间留空），再没有则补零行。
// GET /api/forecasts/:recruiterName?fy=FY26&month=Jul
func (h *Handler) GetForecastsForRecruiter(c *gin.Context) {
	name := c.Param("recruiterName")
	fy := c.Query("fy")
	month := c.Query("month")
	if fy == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy and month are required"})
		return
	}

	rows, err := h.store.GetForecastsForRecruiter(name, fy, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 行已按 week ASC、uploadWeek DESC、时间 DESC 排序，
	// 因此每个目标周遇到的第一行就是该周的最新提交
	latestByWeek := map[int]*model.ForecastRow{}
	for _, r := range rows {
		if _, ok := latestByWeek[r.Week]; !ok {
			latestByWeek[r.Week] = r
		}
	}

	weeks := h.monthWeeks(fy, month)

	out := make([]*model.ForecastRow, 0, len(weeks))
	for _, w := range weeks {
		if row, ok := latestByWeek[w.Num]; ok {
			out = append(out, row)
			continue
		}
		if fallback := latestEarlierWeek(latestByWeek, w.Num); fallback != nil {
			cp := *fallback
			cp.Week = w.Num
			cp.Range = ""
			out = append(out, &cp)
			continue
		}
		out = append(out, &model.ForecastRow{
			Key:   fmt.Sprintf("%s:%s:%d:%s", fy, month, w.Num, name),
			FY:    fy,
			Month: month,
			Week:  w.Num,
			Range: w.Range(),
			Name:  name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": out})
}

// 找目标周之前最近一周的最新提交
func latestEarlierWeek(latestByWeek map[int]*model.ForecastRow, week int) *model.ForecastRow {
	var best *model.ForecastRow
	bestWeek := 0
	for w, row := range latestByWeek {
		if w < week && w > bestWeek {
			best = row
			bestWeek = w
		}
	}
	return best
}

// GetForecastView 某月全部顾问的预测汇总行
// GET /api/forecasts/view?fy=FY26&month=Jul
func (h *Handler) GetForecastView(c *gin.Context) {
	fy := c.Query("fy")
	month := c.Query("month")
	if fy == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy and month are required"})
		return
	}

	rows, err := h.store.GetForecastSummary(fy, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": rows})
}

// GetWeeklyForecast 某个上传周提交了预测的顾问与金额
// GET /api/forecasts/weekly?fy=FY26&month=Jul&uploadWeek=2
func (h *Handler) GetWeeklyForecast(c *gin.Context) {
	fy := c.Query("fy")
	month := c.Query("month")
	uploadWeek, err := strconv.Atoi(c.Query("uploadWeek"))
	if fy == "" || month == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy, month and uploadWeek are required"})
		return
	}

	rows, err := h.store.GetForecastSummaryForUploadWeek(fy, month, uploadWeek)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": rows})
}

// monthWeeks 周历中某财年某月的周，按周序号排列
func (h *Handler) monthWeeks(fy, month string) []calendar.Week {
	var out []calendar.Week
	for _, w := range h.cal.Weeks() {
		if w.FY == fy && w.Month == month {
			out = append(out, w)
		}
	}
	return out
}
