package api

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"pusula/internal/service/excel"
	"pusula/internal/service/report"
)

// Export 导出报告工作簿
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	now := h.now()
	snap, cmp, err := h.session.Report(h.cfg.CompareOptions(now))
	if err != nil {
		respondError(c, err)
		return
	}

	ropts := h.cfg.ReportOptions(now)
	in := excel.ReportInput{
		Current:     snap.Current,
		Baseline:    snap.Baseline,
		Dashboard:   report.BuildDashboard(snap.Current, ropts),
		Comparison:  cmp,
		GeneratedAt: now,
	}
	in.Insights = report.BuildInsights(snap.Current, cmp, ropts)

	file, err := h.exporter.Export(in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rapor oluşturulamadı: " + err.Error()})
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("pusula-rapor-%s.xlsx", now.Format("2006-01-02"))
	if h.exportDir != "" {
		if err := excel.SaveWorkbook(file, filepath.Join(h.exportDir, filename)); err != nil {
			log.Printf("export: archive %s: %v", filename, err)
		}
	}

	c.Header("Content-Disposition", contentDisposition(filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		log.Printf("export: write response: %v", err)
	}
}

// contentDisposition 附件头，非 ASCII 文件名按 RFC 5987 编码
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
