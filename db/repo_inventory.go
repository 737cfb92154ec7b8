package db

import (
	"context"
	"errors"
	"strings"

	"labtrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory types

func (r *Repo) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Inventory{}).
		Where("LOWER(name) = ?", strings.ToLower(inv.Name)).
		Count(&n).Error; err != nil {
		return translate(err)
	}
	if n > 0 {
		return ErrDuplicateKey
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(inv).Error)
}

func (r *Repo) ListInventory(ctx context.Context) ([]models.Inventory, error) {
	var types []models.Inventory
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, translate(err)
	}
	return types, nil
}

func (r *Repo) FindInventoryByID(ctx context.Context, id string) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.DB.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *Repo) FindInventoryByName(ctx context.Context, name string) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// DeleteInventory cascades deletion of the type's items, but refuses the
// whole delete if any of those items appears in a transaction. The cascade
// runs explicitly so the embedded backend behaves exactly like Postgres.
func (r *Repo) DeleteInventory(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Inventory
		if err := r.lockForUpdate(tx).First(&inv, "id = ?", id).Error; err != nil {
			return err
		}
		var referenced int64
		if err := tx.Model(&models.TransactionItem{}).
			Where("item_id IN (?)", tx.Model(&models.Item{}).Select("id").Where("inventory_id = ?", id)).
			Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return ErrForeignKeyViolation
		}
		if err := tx.Where("inventory_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
	return translate(err)
}

// RecountTotals repairs total_qty drift by resetting every type's count to
// its live item count. Maintenance call, not part of any workflow.
func (r *Repo) RecountTotals(ctx context.Context) error {
	return translate(r.DB.WithContext(ctx).Model(&models.Inventory{}).
		Where("1 = 1").
		Update("total_qty", gorm.Expr(
			"(SELECT COUNT(*) FROM "+models.ItemTable+" WHERE "+models.ItemTable+".inventory_id = "+models.InventoryTable+".id)",
		)).Error)
}

// Items

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Inventory
		if err := tx.First(&inv, "id = ?", it.InventoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForeignKeyViolation
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.Item{}).
			Where("serial_number = ?", it.SerialNumber).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateKey
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.Status == "" {
			it.Status = models.ItemAvailable
		}
		if err := tx.Create(it).Error; err != nil {
			return err
		}
		return tx.Model(&models.Inventory{}).
			Where("id = ?", it.InventoryID).
			Update("total_qty", gorm.Expr("total_qty + 1")).Error
	})
	return translate(err)
}

// DeleteItem refuses while the item appears in any transaction, past or
// present; otherwise removes it and decrements the type's total.
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := r.lockForUpdate(tx).First(&it, "id = ?", id).Error; err != nil {
			return err
		}
		var referenced int64
		if err := tx.Model(&models.TransactionItem{}).
			Where("item_id = ?", id).
			Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return ErrForeignKeyViolation
		}
		if err := tx.Delete(&it).Error; err != nil {
			return err
		}
		return tx.Model(&models.Inventory{}).
			Where("id = ?", it.InventoryID).
			Update("total_qty", gorm.Expr("total_qty - 1")).Error
	})
	return translate(err)
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *Repo) FindItemBySerial(ctx context.Context, serial string) (*models.Item, error) {
	var it models.Item
	err := r.DB.WithContext(ctx).
		Where("serial_number = ?", strings.TrimSpace(serial)).
		First(&it).Error
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context, status, inventoryID string) ([]models.Item, error) {
	q := r.DB.WithContext(ctx).Model(&models.Item{}).Order("serial_number ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if inventoryID != "" {
		q = q.Where("inventory_id = ?", inventoryID)
	}
	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// AvailableItemsByName lists the Available items of the type with the given
// name; the issue view presents these as candidates when the operator types
// a component name instead of a serial.
func (r *Repo) AvailableItemsByName(ctx context.Context, name string) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Joins("JOIN "+models.InventoryTable+" inv ON inv.id = "+models.ItemTable+".inventory_id").
		Where("LOWER(inv.name) = ? AND "+models.ItemTable+".status = ?",
			strings.ToLower(strings.TrimSpace(name)), models.ItemAvailable).
		Order("serial_number ASC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}
