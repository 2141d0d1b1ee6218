package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/exporter"
	"github.com/Trihalo/XeroAPI/internal/roster"
)

type exportRequest struct {
	FY    string `json:"fy"`
	Month string `json:"month"`
}

// Export 生成营收报表 Excel，返回一次性下载地址
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.FY == "" || req.Month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy and month are required"})
		return
	}

	weeks := h.monthWeeks(req.FY, req.Month)
	if len(weeks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no calendar weeks for " + req.FY + " " + req.Month})
		return
	}

	ros, err := roster.Load(h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invoices, err := h.invoices.Get(req.FY, req.Month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaryRows, err := h.store.GetForecastSummary(req.FY, req.Month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	currentWeekIndex, _ := h.currentWeekFor(req.FY, req.Month, calendar.WeekNumbers(weeks))

	file, err := exporter.BuildRevenueReport(exporter.ReportInput{
		FY:               req.FY,
		Month:            req.Month,
		Weeks:            weeks,
		CurrentWeekIndex: currentWeekIndex,
		Roster:           ros,
		Invoices:         invoices,
		Forecasts:        summaryRows,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("futureyou_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token := h.downloads.put(tempPath, req.FY, req.Month, 10*time.Minute)

	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": fmt.Sprintf("/api/export/download/%s", token),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is missing"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "export file not found"})
		return
	}

	filename := fmt.Sprintf("Revenue Report %s %s.xlsx", item.fy, item.month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
