package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// GetMonthlyTargets 某财年各月最新目标
// GET /api/monthly-targets?fy=FY26
func (h *Handler) GetMonthlyTargets(c *gin.Context) {
	fy := c.Query("fy")
	if fy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy is required"})
		return
	}

	targets, err := h.store.GetMonthlyTargets(fy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

type addTargetRequest struct {
	FinancialYear string  `json:"fy"`
	Month         string  `json:"month"`
	Target        float64 `json:"target"`
}

// AddMonthlyTarget 新增月度目标（追加式，取数时按最新）
// POST /api/monthly-targets
func (h *Handler) AddMonthlyTarget(c *gin.Context) {
	var req addTargetRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.FinancialYear == "" || req.Month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fy and month are required"})
		return
	}

	claims := currentUser(c)
	uploadUser := ""
	if claims != nil {
		uploadUser = claims.Name
	}

	now := time.Now()
	target := &model.MonthlyTarget{
		FinancialYear:   req.FinancialYear,
		Month:           req.Month,
		Target:          req.Target,
		UploadUser:      uploadUser,
		UploadTimestamp: formatSydneyTime(now),
		UploadTimeRaw:   now.Format(time.RFC3339Nano),
	}

	if err := h.store.InsertMonthlyTarget(target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "target saved"})
}
