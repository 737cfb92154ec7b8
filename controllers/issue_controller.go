// controllers/issue_controller.go
package controllers

import (
	"net/http"
	"time"

	"labtrack/cache"
	"labtrack/db"

	"github.com/gin-gonic/gin"
)

type IssueController struct {
	Repo    *db.Repo
	Reports *cache.ReportCache
}

func NewIssueController(repo *db.Repo, reports *cache.ReportCache) *IssueController {
	return &IssueController{Repo: repo, Reports: reports}
}

// POST /api/issue — issue a batch of items to a student. The client
// resolves serials/component names to item ids beforehand (the issue view
// presents the candidate list); the batch commits atomically.
func (ic *IssueController) Issue(c *gin.Context) {
	var in struct {
		StudentID          string     `json:"studentId" binding:"required"`
		IssuerID           *string    `json:"issuerId"`
		ItemIDs            []string   `json:"itemIds" binding:"required,min=1"`
		ExpectedReturnDate *time.Time `json:"expectedReturnDate"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := ic.Repo.IssueItems(c.Request.Context(), db.IssueInput{
		StudentID:          in.StudentID,
		IssuerID:           in.IssuerID,
		ItemIDs:            in.ItemIDs,
		ExpectedReturnDate: in.ExpectedReturnDate,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, txn)
}

// POST /api/transactions/:id/items/:itemID/return — disposition one item.
func (ic *IssueController) Resolve(c *gin.Context) {
	var in struct {
		Disposition string `json:"disposition" binding:"required,oneof=Return ReportDamaged"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := ic.Repo.ResolveItem(c.Request.Context(), c.Param("id"), c.Param("itemID"), in.Disposition)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, it)
}

// GET /api/transactions?studentId=&status=
func (ic *IssueController) ListTransactions(c *gin.Context) {
	txns, err := ic.Repo.ListTransactions(c.Request.Context(), c.Query("studentId"), c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}
