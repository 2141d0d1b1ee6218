package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/config"
	"github.com/Trihalo/XeroAPI/internal/store"
)

// Handler FutureYou API 处理器
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	cal       *calendar.Calendar
	invoices  *InvoiceCache
	downloads *exportDownloadStore
	dataDir   string
}

// NewHandler 创建 API 处理器
func NewHandler(s *store.Store, cfg *config.AppConfig, cal *calendar.Calendar, dataDir string) *Handler {
	return &Handler{
		store:     s,
		cfg:       cfg,
		cal:       cal,
		invoices:  NewInvoiceCache(s),
		downloads: newExportDownloadStore(),
		dataDir:   dataDir,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 认证
	router.POST("/login", h.Login)
	router.POST("/signup", h.Signup)
	router.POST("/change-password", h.TokenRequired(), h.ChangePassword)

	auth := router.Group("", h.TokenRequired())
	admin := router.Group("", h.TokenRequired(), h.AdminRequired())

	// 预测
	auth.POST("/forecasts", h.SubmitForecasts)
	auth.GET("/forecasts/view", h.GetForecastView)
	auth.GET("/forecasts/weekly", h.GetWeeklyForecast)
	auth.GET("/forecasts/:recruiterName", h.GetForecastsForRecruiter)

	// 发票与图例
	auth.GET("/invoices", h.GetInvoices)
	auth.GET("/legends", h.GetLegends)
	admin.POST("/invoices/import", h.ImportInvoices)

	// 月度目标
	auth.GET("/monthly-targets", h.GetMonthlyTargets)
	admin.POST("/monthly-targets", h.AddMonthlyTarget)

	// 顾问与板块
	auth.GET("/recruiters", h.ListRecruiters)
	admin.POST("/recruiters", h.AddRecruiter)
	admin.DELETE("/recruiters/:id", h.DeleteRecruiter)
	auth.GET("/areas", h.ListAreas)
	admin.PATCH("/areas/:id", h.UpdateArea)

	// 汇总视图
	auth.GET("/revenue/summary", h.GetRevenueSummary)

	// 导出
	auth.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
