package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"labtrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportRow struct {
	ComponentName string `json:"componentName" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	Description   string `json:"description"`
}

type ImportResult struct {
	TypesCreated int `json:"typesCreated"`
	ItemsCreated int `json:"itemsCreated"`
}

// BulkImport upserts one inventory type per row and generates that many new
// Available items, serials continuing from the highest existing suffix for
// the type's prefix. The whole import commits as one transaction. Rows with
// an empty name or non-positive quantity are skipped, matching the CSV
// importer's tolerance for blank trailing lines.
func (r *Repo) BulkImport(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	var res ImportResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			name := strings.TrimSpace(row.ComponentName)
			if name == "" || row.Quantity < 1 {
				continue
			}

			var inv models.Inventory
			err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&inv).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				inv = models.Inventory{
					ID:       uuid.NewString(),
					Name:     name,
					TotalQty: row.Quantity,
				}
				if d := strings.TrimSpace(row.Description); d != "" {
					inv.Description = &d
				}
				if err := tx.Create(&inv).Error; err != nil {
					return err
				}
				res.TypesCreated++
			case err != nil:
				return err
			default:
				if err := tx.Model(&inv).
					Update("total_qty", gorm.Expr("total_qty + ?", row.Quantity)).Error; err != nil {
					return err
				}
			}

			prefix := SerialPrefix(name)
			next, err := nextSerialSuffix(tx, inv.ID, prefix)
			if err != nil {
				return err
			}

			items := make([]models.Item, 0, row.Quantity)
			for i := 0; i < row.Quantity; i++ {
				items = append(items, models.Item{
					ID:           uuid.NewString(),
					SerialNumber: fmt.Sprintf("%s%03d", prefix, next+i),
					Status:       models.ItemAvailable,
					InventoryID:  inv.ID,
				})
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			res.ItemsCreated += len(items)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, translate(err)
	}
	return res, nil
}

// SerialPrefix derives the serial prefix from a component name: first three
// characters uppercased, spaces dropped, padded with X when too short.
// "Raspberry Pi" → "RAS", "Pi" → "PIX".
func SerialPrefix(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	prefix := strings.ToUpper(strings.ReplaceAll(string(runes), " ", ""))
	for len(prefix) < 3 {
		prefix += "X"
	}
	return prefix
}

// nextSerialSuffix finds the highest numeric suffix among the type's
// serials with the given prefix and returns the next sequence number.
func nextSerialSuffix(tx *gorm.DB, inventoryID, prefix string) (int, error) {
	var serials []string
	err := tx.Model(&models.Item{}).
		Where("inventory_id = ? AND serial_number LIKE ?", inventoryID, prefix+"%").
		Pluck("serial_number", &serials).Error
	if err != nil {
		return 0, err
	}
	max := 0
	for _, s := range serials {
		n, err := strconv.Atoi(s[len(prefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}
