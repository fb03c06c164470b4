package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"pusula/internal/api"
	"pusula/internal/config"
	"pusula/internal/model"
	sessionstore "pusula/internal/service/store"
	"pusula/internal/store"
)

// Server HTTP 服务器
type Server struct {
	router  *gin.Engine
	store   *store.Store
	session *sessionstore.SessionStore
	api     *api.Handler
	http    *http.Server
}

// NewServer 创建服务器：打开数据库、恢复上次会话并注册路由
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "pusula.db"))
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	session := sessionstore.NewSessionStore()
	handler := api.NewHandler(cfg, session, sqliteStore, filepath.Join(dataDir, "uploads")).
		ArchiveExportsTo(filepath.Join(dataDir, "exports"))
	if err := handler.Importer().Restore(); err != nil {
		log.Printf("恢复上次会话失败: %v", err)
	}

	s := &Server{
		router:  gin.Default(),
		store:   sqliteStore,
		session: session,
		api:     handler,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/api/status")
	})
}

// SessionSummary 启动时已恢复的计划，用于控制台横幅
func (s *Server) SessionSummary() []string {
	snap := s.session.Snapshot()
	var lines []string
	for _, item := range []struct {
		label string
		sch   *model.Schedule
	}{{"Güncel plan", snap.Current}, {"Baseline", snap.Baseline}} {
		if item.sch == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%d aktivite)", item.label, item.sch.SourceName, item.sch.Len()))
	}
	return lines
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，Shutdown 后返回 nil
func (s *Server) Run(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.router}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收请求并关闭数据库
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		errs = append(errs, s.http.Shutdown(ctx))
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}
