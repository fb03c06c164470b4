package api

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"pusula/internal/config"
	"pusula/internal/importer"
	"pusula/internal/service/excel"
	"pusula/internal/service/schedule"
	sessionstore "pusula/internal/service/store"
	"pusula/internal/store"
)

// Handler API 处理器
type Handler struct {
	cfg       *config.AppConfig
	session   *sessionstore.SessionStore
	store     *store.Store
	importer  *importer.Coordinator
	exporter  *excel.Exporter
	uploadDir string
	exportDir string
	now       func() time.Time
}

// NewHandler 创建 API 处理器；st 可为 nil（不记录导入历史）
func NewHandler(cfg *config.AppConfig, session *sessionstore.SessionStore, st *store.Store, uploadDir string) *Handler {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	loader := schedule.NewLoader(cfg.Excel.SheetName)
	return &Handler{
		cfg:       cfg,
		session:   session,
		store:     st,
		importer:  importer.NewCoordinator(st, session, loader),
		exporter:  excel.NewExporter(),
		uploadDir: uploadDir,
		now:       time.Now,
	}
}

// ArchiveExportsTo 导出的报告同时存档到 dir
func (h *Handler) ArchiveExportsTo(dir string) *Handler {
	h.exportDir = dir
	return h
}

// Importer 导入协调器（用于启动时恢复会话）
func (h *Handler) Importer() *importer.Coordinator {
	return h.importer
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// 计划文件
	router.POST("/schedules/current", h.UploadCurrent)
	router.POST("/schedules/baseline", h.UploadBaseline)
	router.DELETE("/schedules/baseline", h.DeleteBaseline)
	router.GET("/tasks", h.ListTasks)

	// 报告视图
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/timeline", h.GetTimeline)
	router.GET("/insights", h.GetInsights)
	router.GET("/comparison", h.GetComparison)

	router.GET("/imports", h.ListImports)
	router.POST("/export", h.Export)
}
