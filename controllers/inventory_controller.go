package controllers

import (
	"net/http"

	"labtrack/cache"
	"labtrack/db"
	"labtrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type InventoryController struct {
	Repo    *db.Repo
	Reports *cache.ReportCache
}

func NewInventoryController(repo *db.Repo, reports *cache.ReportCache) *InventoryController {
	return &InventoryController{Repo: repo, Reports: reports}
}

// GET /api/inventory
func (ic *InventoryController) List(c *gin.Context) {
	types, err := ic.Repo.ListInventory(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": types})
}

// POST /api/inventory
func (ic *InventoryController) Create(c *gin.Context) {
	var in struct {
		Name         string            `json:"name" binding:"required"`
		TotalQty     int               `json:"totalQty" binding:"omitempty,min=0"`
		Course       *string           `json:"course"`
		Description  *string           `json:"description"`
		CustomFields datatypes.JSONMap `json:"customFields"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv := &models.Inventory{
		Name:         in.Name,
		TotalQty:     in.TotalQty,
		Course:       in.Course,
		Description:  in.Description,
		CustomFields: in.CustomFields,
	}
	if err := ic.Repo.CreateInventory(c.Request.Context(), inv); err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, inv)
}

// POST /api/inventory/recount — maintenance: reset every type's total_qty
// to its live item count, repairing drift from out-of-band writes.
func (ic *InventoryController) Recount(c *gin.Context) {
	if err := ic.Repo.RecountTotals(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/inventory/:id — cascades the type's items unless any of them
// has transaction history.
func (ic *InventoryController) Delete(c *gin.Context) {
	if err := ic.Repo.DeleteInventory(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
