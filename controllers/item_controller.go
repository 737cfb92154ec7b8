package controllers

import (
	"net/http"

	"labtrack/cache"
	"labtrack/db"
	"labtrack/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct {
	Repo    *db.Repo
	Reports *cache.ReportCache
}

func NewItemController(repo *db.Repo, reports *cache.ReportCache) *ItemController {
	return &ItemController{Repo: repo, Reports: reports}
}

// GET /api/items?status=&inventoryId=&serial=&name=
// serial= looks up a single item; name= lists the Available candidates of
// a component type for the issue view.
func (ic *ItemController) List(c *gin.Context) {
	ctx := c.Request.Context()
	if serial := c.Query("serial"); serial != "" {
		it, err := ic.Repo.FindItemBySerial(ctx, serial)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": []models.Item{*it}})
		return
	}
	if name := c.Query("name"); name != "" {
		items, err := ic.Repo.AvailableItemsByName(ctx, name)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
		return
	}
	items, err := ic.Repo.ListItems(ctx, c.Query("status"), c.Query("inventoryId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// POST /api/items
func (ic *ItemController) Create(c *gin.Context) {
	var in struct {
		SerialNumber string `json:"serialNumber" binding:"required"`
		InventoryID  string `json:"inventoryId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it := &models.Item{SerialNumber: in.SerialNumber, InventoryID: in.InventoryID}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, it)
}

// DELETE /api/items/:id
func (ic *ItemController) Delete(c *gin.Context) {
	if err := ic.Repo.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/items/:id/holder — the student currently holding the item, or
// null when it is on the shelf.
func (ic *ItemController) Holder(c *gin.Context) {
	id := c.Param("id")
	if _, err := ic.Repo.FindItemByID(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	holder, err := ic.Repo.CurrentHolder(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holder": holder})
}
