package controllers

import (
	"net/http"
	"strconv"
	"time"

	"labtrack/cache"
	"labtrack/db"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Repo      *db.Repo
	Reports   *cache.ReportCache
	Threshold time.Duration
}

func NewReportController(repo *db.Repo, reports *cache.ReportCache, threshold time.Duration) *ReportController {
	return &ReportController{Repo: repo, Reports: reports, Threshold: threshold}
}

// GET /api/dashboard/summary
func (rc *ReportController) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	var s db.Summary
	if rc.Reports.Get(ctx, cache.ReportSummary, &s) {
		c.JSON(http.StatusOK, s)
		return
	}
	s, err := rc.Repo.Summary(ctx, rc.Threshold)
	if err != nil {
		abortWithError(c, err)
		return
	}
	rc.Reports.Put(ctx, cache.ReportSummary, s)
	c.JSON(http.StatusOK, s)
}

// GET /api/dashboard/breakdown — per-type status counts (chart data).
func (rc *ReportController) Breakdown(c *gin.Context) {
	ctx := c.Request.Context()
	var rows []db.BreakdownRow
	if rc.Reports.Get(ctx, cache.ReportBreakdown, &rows) {
		c.JSON(http.StatusOK, gin.H{"breakdown": rows})
		return
	}
	rows, err := rc.Repo.StatusBreakdown(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	rc.Reports.Put(ctx, cache.ReportBreakdown, rows)
	c.JSON(http.StatusOK, gin.H{"breakdown": rows})
}

// GET /api/dashboard/recent?limit=
func (rc *ReportController) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	rows, err := rc.Repo.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": rows})
}

// GET /api/dashboard/overdue — computed at read time, never cached: the
// answer changes as the clock moves.
func (rc *ReportController) Overdue(c *gin.Context) {
	rows, err := rc.Repo.ListOverdue(c.Request.Context(), rc.Threshold)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overdue": rows})
}
