package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pusula/internal/importer"
	"pusula/internal/model"
	"pusula/internal/service/excel"
)

// UploadCurrent 上传并替换当前计划
// POST /api/schedules/current (multipart: file)
func (h *Handler) UploadCurrent(c *gin.Context) {
	h.upload(c, model.RoleCurrent)
}

// UploadBaseline 上传并替换基线计划
// POST /api/schedules/baseline (multipart: file)
func (h *Handler) UploadBaseline(c *gin.Context) {
	h.upload(c, model.RoleBaseline)
}

// upload 保存上传文件后导入；?stream=1 时以 SSE 推送进度
func (h *Handler) upload(c *gin.Context, role model.ScheduleRole) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Yüklenen dosya bulunamadı.", "kind": "no_file"})
		return
	}
	filename := filepath.Base(fh.Filename)
	if !excel.IsSupported(filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Desteklenmeyen dosya türü. Excel (.xlsx) veya CSV yükleyin.",
			"kind":  "unsupported_format",
		})
		return
	}

	savePath := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s%s", role, uuid.NewString(), strings.ToLower(filepath.Ext(filename))))
	if err := c.SaveUploadedFile(fh, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dosya kaydedilemedi."})
		return
	}
	if !h.cfg.Data.KeepUploads {
		defer os.Remove(savePath)
	}

	opts := importer.ImportOptions{FilePath: savePath, Filename: filename, Role: role}

	if c.Query("stream") == "1" {
		h.streamImport(c, opts)
		return
	}

	result, err := h.importer.ImportFile(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) streamImport(c *gin.Context, opts importer.ImportOptions) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// 导入结束前不能返回，否则上传文件会被提前删除
	for event := range h.importer.Import(opts) {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// DeleteBaseline 移除基线
// DELETE /api/schedules/baseline
func (h *Handler) DeleteBaseline(c *gin.Context) {
	if err := h.importer.ClearBaseline(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListTasks 当前计划的任务
// GET /api/tasks?status=Critical|Completed|Normal
func (h *Handler) ListTasks(c *gin.Context) {
	cur, err := h.session.Current()
	if err != nil {
		respondError(c, err)
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status == "" {
		c.JSON(http.StatusOK, gin.H{"total": cur.Len(), "items": cur.Tasks})
		return
	}

	want, ok := parseStatus(status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status %q", status)})
		return
	}
	items := make([]*model.Task, 0)
	for _, t := range cur.Tasks {
		if t.Status == want {
			items = append(items, t)
		}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(items), "items": items})
}

func parseStatus(s string) (model.TaskStatus, bool) {
	for _, st := range []model.TaskStatus{model.StatusCritical, model.StatusCompleted, model.StatusNormal} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}
