package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pusula/internal/model"
	"pusula/internal/store"
)

// ScheduleSummary 已加载计划的概要
type ScheduleSummary struct {
	ID             string    `json:"id"`
	SourceName     string    `json:"sourceName"`
	LoadedAt       time.Time `json:"loadedAt"`
	TaskCount      int       `json:"taskCount"`
	SkippedRows    int       `json:"skippedRows"`
	MissingColumns []string  `json:"missingColumns,omitempty"`
}

// StatusResponse 系统状态
type StatusResponse struct {
	CurrentLoaded  bool             `json:"currentLoaded"`
	BaselineLoaded bool             `json:"baselineLoaded"`
	Current        *ScheduleSummary `json:"current,omitempty"`
	Baseline       *ScheduleSummary `json:"baseline,omitempty"`
	Generation     uint64           `json:"generation"`
	LastImport     *store.ImportLog `json:"lastImport,omitempty"`
}

func summarize(s *model.Schedule) *ScheduleSummary {
	if s == nil {
		return nil
	}
	return &ScheduleSummary{
		ID:             s.ID,
		SourceName:     s.SourceName,
		LoadedAt:       s.LoadedAt,
		TaskCount:      s.Len(),
		SkippedRows:    s.SkippedRows,
		MissingColumns: s.MissingColumns,
	}
}

// GetStatus 会话状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	snap := h.session.Snapshot()
	resp := StatusResponse{
		CurrentLoaded:  snap.Current != nil,
		BaselineLoaded: snap.Baseline != nil,
		Current:        summarize(snap.Current),
		Baseline:       summarize(snap.Baseline),
		Generation:     snap.Generation,
	}
	if h.store != nil {
		last, err := h.store.LastImport()
		if err != nil {
			log.Printf("status: last import: %v", err)
		}
		resp.LastImport = last
	}
	c.JSON(http.StatusOK, resp)
}

// ListImports 导入历史
// GET /api/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.ImportLog{}})
		return
	}
	limit, ok := intQuery(c, "limit", 50)
	if !ok {
		return
	}
	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
