package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pusula/internal/service/report"
)

// GetDashboard 项目总览
// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	cur, err := h.session.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report.BuildDashboard(cur, h.cfg.ReportOptions(h.now())))
}

// GetTimeline 时间轴
// GET /api/timeline
func (h *Handler) GetTimeline(c *gin.Context) {
	cur, err := h.session.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report.BuildTimeline(cur, h.cfg.ReportOptions(h.now())))
}

// GetInsights 分析报告；有基线时包含比较段落
// GET /api/insights
func (h *Handler) GetInsights(c *gin.Context) {
	now := h.now()
	snap, cmp, err := h.session.Report(h.cfg.CompareOptions(now))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report.BuildInsights(snap.Current, cmp, h.cfg.ReportOptions(now)))
}

// GetComparison 基线比较
// GET /api/comparison?limit=&dueOnly=&all=
func (h *Handler) GetComparison(c *gin.Context) {
	opts := h.cfg.CompareOptions(h.now())

	limit, ok := intQuery(c, "limit", opts.Limit)
	if !ok {
		return
	}
	opts.Limit = limit
	if opts.DueOnly, ok = boolQuery(c, "dueOnly", opts.DueOnly); !ok {
		return
	}
	all, ok := boolQuery(c, "all", false)
	if !ok {
		return
	}
	opts.LeavesOnly = !all

	cmp, err := h.session.Comparison(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func intQuery(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return n, true
}

func boolQuery(c *gin.Context, key string, def bool) (bool, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return false, false
	}
	return b, true
}
