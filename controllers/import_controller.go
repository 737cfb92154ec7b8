package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"labtrack/cache"
	"labtrack/db"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ImportController struct {
	Repo    *db.Repo
	Reports *cache.ReportCache
}

func NewImportController(repo *db.Repo, reports *cache.ReportCache) *ImportController {
	return &ImportController{Repo: repo, Reports: reports}
}

var validateRows = validator.New()

// POST /api/import — bulk import inventory rows. Accepts either a JSON
// body {"rows": [...]} or a multipart upload with a "file" CSV field using
// the Component Name / Quantity / Description columns.
func (ic *ImportController) Import(c *gin.Context) {
	var rows []db.ImportRow
	var err error

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		rows, err = readCSVUpload(c)
	} else {
		var in struct {
			Rows []db.ImportRow `json:"rows" binding:"required,min=1"`
		}
		if bindErr := c.ShouldBindJSON(&in); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
			return
		}
		rows = in.Rows
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for i, row := range rows {
		if err := validateRows.Struct(row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: %v", i+1, err)})
			return
		}
	}

	res, err := ic.Repo.BulkImport(c.Request.Context(), rows)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ic.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, res)
}

func readCSVUpload(c *gin.Context) ([]db.ImportRow, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file field: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameIdx, ok := col["component name"]
	if !ok {
		return nil, fmt.Errorf("csv is missing the Component Name column")
	}
	qtyIdx, ok := col["quantity"]
	if !ok {
		return nil, fmt.Errorf("csv is missing the Quantity column")
	}
	descIdx, hasDesc := col["description"]

	var rows []db.ImportRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := db.ImportRow{ComponentName: strings.TrimSpace(rec[nameIdx])}
		if row.ComponentName == "" {
			continue // blank trailing line
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[qtyIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %q: bad quantity %q", row.ComponentName, rec[qtyIdx])
		}
		row.Quantity = qty
		if hasDesc && descIdx < len(rec) {
			row.Description = strings.TrimSpace(rec[descIdx])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
