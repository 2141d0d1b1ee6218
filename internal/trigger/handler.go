package trigger

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Trihalo/XeroAPI/internal/config"
	"github.com/Trihalo/XeroAPI/internal/model"
	"github.com/Trihalo/XeroAPI/internal/store"
)

// Handler 触发面板 API 处理器
type Handler struct {
	store   *store.Store
	cfg     *config.AppConfig
	client  *Client
	dataDir string
}

// NewHandler 创建处理器
func NewHandler(s *store.Store, cfg *config.AppConfig, client *Client, dataDir string) *Handler {
	return &Handler{
		store:   s,
		cfg:     cfg,
		client:  client,
		dataDir: dataDir,
	}
}

// RegisterRoutes 注册触发面板路由，auth 为登录校验中间件
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/test-api", h.TestAPI)
	router.POST("/trigger/:key", auth, h.TriggerWorkflow)
	router.POST("/upload-file", auth, h.UploadFile)
	router.GET("/history", auth, h.GetHistory)
}

// TestAPI 存活探测
// GET /api/test-api
func (h *Handler) TestAPI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "api is up"})
}

type triggerRequest struct {
	Inputs map[string]string `json:"inputs"`
	User   string            `json:"user"`
}

// TriggerWorkflow 触发配置表中 key 对应的工作流
// POST /api/trigger/:key
func (h *Handler) TriggerWorkflow(c *gin.Context) {
	key := c.Param("key")
	workflowFile, ok := h.cfg.GitHub.Workflows[key]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown workflow: " + key})
		return
	}

	var req triggerRequest
	_ = c.BindJSON(&req)

	err := h.client.DispatchWorkflow(c.Request.Context(), workflowFile, h.cfg.GitHub.Branch, req.Inputs)

	event := &model.TriggerEvent{
		Kind:     "trigger",
		Workflow: key,
		User:     req.User,
		Success:  err == nil,
	}
	if err != nil {
		event.Message = err.Error()
	}
	_ = h.store.InsertTriggerEvent(event)

	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("workflow %s triggered", key)})
}

// UploadFile 接收文件，本地留档后推送到仓库
// POST /api/upload-file
func (h *Handler) UploadFile(c *gin.Context) {
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
	user := c.PostForm("user")

	// 本地留档，uuid 前缀避免同名覆盖
	localName := uuid.NewString()[:8] + "_" + filepath.Base(uploadedFile.Filename)
	localPath := filepath.Join(h.dataDir, "uploads", localName)
	if err := c.SaveUploadedFile(uploadedFile, localPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	content, err := os.ReadFile(localPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	repoPath := "uploads/" + filepath.Base(uploadedFile.Filename)
	message := fmt.Sprintf("Upload %s via trigger panel", filepath.Base(uploadedFile.Filename))
	err = h.client.UploadFile(c.Request.Context(), repoPath, h.cfg.GitHub.Branch, message, content)

	event := &model.TriggerEvent{
		Kind:     "upload",
		FileName: filepath.Base(uploadedFile.Filename),
		User:     user,
		Success:  err == nil,
	}
	if err != nil {
		event.Message = err.Error()
	}
	_ = h.store.InsertTriggerEvent(event)

	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "file uploaded",
		"localName": localName,
		"repoPath":  repoPath,
	})
}

// GetHistory 触发/上传历史
// GET /api/history?limit=50
func (h *Handler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.store.ListTriggerEvents(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": events})
}
