package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListRecruiters 全部顾问
// GET /api/recruiters
func (h *Handler) ListRecruiters(c *gin.Context) {
	recruiters, err := h.store.ListRecruiters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recruiters": recruiters})
}

type addRecruiterRequest struct {
	Name string `json:"name"`
	Area string `json:"area"`
}

// AddRecruiter 新增顾问
// POST /api/recruiters
func (h *Handler) AddRecruiter(c *gin.Context) {
	var req addRecruiterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Area = strings.TrimSpace(req.Area)
	if req.Name == "" || req.Area == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and area are required"})
		return
	}

	// 板块必须已存在，避免顾问挂到拼错的板块下
	if _, err := h.store.GetAreaByName(req.Area); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown area: " + req.Area})
		return
	}

	id, err := h.store.AddRecruiter(req.Name, req.Area)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeleteRecruiter 删除顾问
// DELETE /api/recruiters/:id
func (h *Handler) DeleteRecruiter(c *gin.Context) {
	if err := h.store.DeleteRecruiter(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recruiter deleted"})
}

// ListAreas 全部板块
// GET /api/areas
func (h *Handler) ListAreas(c *gin.Context) {
	areas, err := h.store.ListAreas()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

type updateAreaRequest struct {
	Headcount *float64 `json:"headcount"`
}

// UpdateArea 更新板块人数
// PATCH /api/areas/:id
func (h *Handler) UpdateArea(c *gin.Context) {
	var req updateAreaRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Headcount == nil || *req.Headcount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "headcount must be a non-negative number"})
		return
	}

	if err := h.store.UpdateAreaHeadcount(c.Param("id"), *req.Headcount); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "area updated"})
}
