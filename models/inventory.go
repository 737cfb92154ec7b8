// models/inventory.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

const InventoryTable = "lab_inventory"
const ItemTable = "lab_items"

// Item lifecycle: Available → Issued → Available/Damaged.
const (
	ItemAvailable = "Available"
	ItemIssued    = "Issued"
	ItemDamaged   = "Damaged"
)

// Inventory is one class of component ("Arduino Uno"). TotalQty is a
// denormalized count of its items; the repo keeps it in step on item
// creation/deletion, it is not derived by trigger.
type Inventory struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string            `gorm:"size:200;uniqueIndex;not null" json:"name"`
	TotalQty     int               `gorm:"not null;default:0" json:"totalQty"`
	Course       *string           `gorm:"size:60" json:"course,omitempty"`
	Description  *string           `gorm:"size:500" json:"description,omitempty"`
	CustomFields datatypes.JSONMap `json:"customFields,omitempty"` // caller-defined keys, validated only at the edge
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Item is one physical serialized unit of an Inventory type.
type Item struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	SerialNumber string     `gorm:"size:120;uniqueIndex;not null" json:"serialNumber"`
	Status       string     `gorm:"size:20;not null;default:'Available';check:chk_lab_items_status,status IN ('Available','Issued','Damaged')" json:"status"`
	InventoryID  string     `gorm:"type:uuid;index;not null" json:"inventoryId"`
	Inventory    *Inventory `gorm:"constraint:OnDelete:CASCADE" json:"inventory,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Inventory) TableName() string { return InventoryTable }
func (Item) TableName() string      { return ItemTable }
