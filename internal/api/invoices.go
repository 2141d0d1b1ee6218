package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/importer"
	"github.com/Trihalo/XeroAPI/internal/store"
)

// GetInvoices 查询某财年某月的发票（走缓存）
// GET /api/invoices?fy=FY26&month=Jul
func (h *Handler) GetInvoices(c *gin.Context) {
	fy := c.Query("fy")
	month := c.Query("month")
	if fy == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy and month are required"})
		return
	}

	records, err := h.invoices.Get(fy, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": records})
}

// GetLegends 图例数据：按季度的顾问毛利合计、顾问分型合计
// GET /api/legends?fy=FY26
func (h *Handler) GetLegends(c *gin.Context) {
	fy := c.Query("fy")
	if fy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy is required"})
		return
	}

	totals, err := h.store.GetConsultantTotals(fy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	typeTotals, err := h.store.GetConsultantTypeTotals(fy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultantTotals":     totals,
		"consultantTypeTotals": typeTotals,
	})
}

// ImportInvoices 导入发票 Excel，导入后使缓存失效
// POST /api/invoices/import
func (h *Handler) ImportInvoices(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	uploadedFile := files[0]

	tempFilePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("futureyou_import_%d_%s", time.Now().Unix(), uploadedFile.Filename))
	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	defer os.Remove(tempFilePath)

	records, err := importer.ParseInvoices(tempFilePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no invoice rows found in file"})
		return
	}

	// 文件覆盖的 (财年, 月份) 先清后插，保证重复导入幂等
	replace := c.DefaultPostForm("replaceExisting", "true") == "true"
	if replace {
		seen := map[string]bool{}
		for _, r := range records {
			key := r.FinancialYear + ":" + r.Month
			if seen[key] {
				continue
			}
			seen[key] = true
			if err := h.store.DeleteInvoicesByMonth(r.FinancialYear, r.Month); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
	}

	if err := h.store.BatchInsertInvoices(records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	refreshedAt := formatSydneyTime(time.Now())
	if err := h.store.SetInvoiceLastRefreshed(refreshedAt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.invoices.Invalidate()

	// 以首行的 (财年, 月份) 统计导入后的落库行数
	fy := records[0].FinancialYear
	month := records[0].Month
	total, err := h.store.CountInvoices(store.InvoiceQueryOptions{FinancialYear: &fy, Month: &month})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "invoices imported",
		"count":       len(records),
		"total":       total,
		"refreshedAt": refreshedAt,
	})
}

// formatSydneyTime 悉尼时区展示格式，如 7/8/2025 9:41am
func formatSydneyTime(t time.Time) string {
	loc, err := time.LoadLocation("Australia/Sydney")
	if err == nil {
		t = t.In(loc)
	}
	out := t.Format("2/1/2006 3:04pm")
	return out
}
