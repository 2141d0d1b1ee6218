package server

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/api"
	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/config"
	"github.com/Trihalo/XeroAPI/internal/store"
	"github.com/Trihalo/XeroAPI/internal/trigger"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
}

// NewServer 创建 FutureYou 预测服务
func NewServer(cfg *config.AppConfig) *Server {
	engine, sqliteStore, dataDir := bootstrap(cfg, "futureyou.db")

	cal, err := calendar.Load(cfg.Calendar.Path)
	if err != nil {
		log.Fatalf("Failed to load fiscal calendar: %v", err)
	}

	handler := api.NewHandler(sqliteStore, cfg, cal, dataDir)

	s := &Server{router: engine, store: sqliteStore}

	group := s.router.Group("/api")
	{
		handler.RegisterRoutes(group)
	}

	ensureDefaultAdmin(sqliteStore, cfg)

	return s
}

// NewTriggerServer 创建 Trihalo 触发面板服务
func NewTriggerServer(cfg *config.AppConfig) *Server {
	engine, sqliteStore, dataDir := bootstrap(cfg, "trihalo.db")

	client := trigger.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Token)
	handler := trigger.NewHandler(sqliteStore, cfg, client, dataDir)

	// 登录复用 FutureYou 的用户表和 token 校验
	cal, err := calendar.Load(cfg.Calendar.Path)
	if err != nil {
		log.Fatalf("Failed to load fiscal calendar: %v", err)
	}
	authHandler := api.NewHandler(sqliteStore, cfg, cal, dataDir)

	s := &Server{router: engine, store: sqliteStore}

	group := s.router.Group("/api")
	{
		group.POST("/login", authHandler.Login)
		group.POST("/change-password", authHandler.TokenRequired(), authHandler.ChangePassword)
		handler.RegisterRoutes(group, authHandler.TokenRequired())
	}

	ensureDefaultAdmin(sqliteStore, cfg)

	return s
}

func bootstrap(cfg *config.AppConfig, dbName string) (*gin.Engine, *store.Store, string) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, dbName)

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	engine := gin.Default()

	// CORS
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	return engine, sqliteStore, dataDir
}

// ensureDefaultAdmin 首次启动时按配置建管理员账号
func ensureDefaultAdmin(s *store.Store, cfg *config.AppConfig) {
	username := cfg.Auth.DefaultAdmin
	password := cfg.Auth.DefaultPasswd
	if username == "" || password == "" {
		return
	}
	if _, err := s.GetUserByUsername(username); err == nil {
		return
	}

	hash, err := api.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash default admin password: %v", err)
		return
	}
	if err := s.CreateUser(username, username, "", "admin", hash); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
