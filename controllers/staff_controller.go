package controllers

import (
	"net/http"

	"labtrack/cache"
	"labtrack/db"
	"labtrack/models"

	"github.com/gin-gonic/gin"
)

type StaffController struct {
	Repo    *db.Repo
	Reports *cache.ReportCache
}

func NewStaffController(repo *db.Repo, reports *cache.ReportCache) *StaffController {
	return &StaffController{Repo: repo, Reports: reports}
}

// GET /api/staff
func (sc *StaffController) List(c *gin.Context) {
	staff, err := sc.Repo.ListStaff(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// POST /api/staff
func (sc *StaffController) Create(c *gin.Context) {
	var in struct {
		Name    string `json:"name" binding:"required"`
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := &models.Staff{Name: in.Name, StaffID: in.StaffID}
	if err := sc.Repo.CreateStaff(c.Request.Context(), s); err != nil {
		abortWithError(c, err)
		return
	}
	sc.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, s)
}

// DELETE /api/staff/:id — past issuances keep their history with a null
// issuer.
func (sc *StaffController) Delete(c *gin.Context) {
	if err := sc.Repo.DeleteStaff(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	sc.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
