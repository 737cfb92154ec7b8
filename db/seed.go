package db

import (
	"time"

	"labtrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func strptr(s string) *string { return &s }

// Seed loads the demo dataset used when no backend is configured: three
// component types, a handful of items, three students, three staff, one
// current issuance and one ten days old so the overdue view has something
// to show. Idempotent: does nothing if inventory rows already exist.
func Seed(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Inventory{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		arduino := models.Inventory{ID: uuid.NewString(), Name: "Arduino", TotalQty: 4, Course: strptr("ECE101")}
		rpi := models.Inventory{ID: uuid.NewString(), Name: "Raspberry Pi", TotalQty: 2, Course: strptr("CS201")}
		sensor := models.Inventory{ID: uuid.NewString(), Name: "Sensor", TotalQty: 1, Course: strptr("ECE101")}
		if err := tx.Create(&[]models.Inventory{arduino, rpi, sensor}).Error; err != nil {
			return err
		}

		items := []models.Item{
			{ID: uuid.NewString(), SerialNumber: "ARD001", Status: models.ItemAvailable, InventoryID: arduino.ID},
			{ID: uuid.NewString(), SerialNumber: "ARD002", Status: models.ItemAvailable, InventoryID: arduino.ID},
			{ID: uuid.NewString(), SerialNumber: "ARD003", Status: models.ItemIssued, InventoryID: arduino.ID},
			{ID: uuid.NewString(), SerialNumber: "ARD004", Status: models.ItemDamaged, InventoryID: arduino.ID},
			{ID: uuid.NewString(), SerialNumber: "RPI001", Status: models.ItemIssued, InventoryID: rpi.ID},
			{ID: uuid.NewString(), SerialNumber: "RPI002", Status: models.ItemAvailable, InventoryID: rpi.ID},
			{ID: uuid.NewString(), SerialNumber: "SEN001", Status: models.ItemAvailable, InventoryID: sensor.ID},
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		students := []models.Student{
			{ID: uuid.NewString(), Name: "John Doe", StudentID: "STU001", Phone: strptr("555-0101"), Email: strptr("john.doe@university.edu")},
			{ID: uuid.NewString(), Name: "Jane Smith", StudentID: "STU002", Phone: strptr("555-0102"), Email: strptr("jane.smith@university.edu")},
			{ID: uuid.NewString(), Name: "Bob Johnson", StudentID: "STU003", Phone: strptr("555-0103"), Email: strptr("bob.johnson@university.edu")},
		}
		if err := tx.Create(&students).Error; err != nil {
			return err
		}

		staff := []models.Staff{
			{ID: uuid.NewString(), Name: "Dr. Sarah Chen", StaffID: "STAFF001"},
			{ID: uuid.NewString(), Name: "Prof. Michael Brown", StaffID: "STAFF002"},
			{ID: uuid.NewString(), Name: "Lab Assistant", StaffID: "STAFF003"},
		}
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		current := models.Transaction{
			ID: uuid.NewString(), StudentID: students[0].ID, IssuerID: &staff[0].ID,
			Status: models.TransactionActive, IssueDate: now,
		}
		overdue := models.Transaction{
			ID: uuid.NewString(), StudentID: students[1].ID, IssuerID: &staff[1].ID,
			Status: models.TransactionActive, IssueDate: now.AddDate(0, 0, -10),
		}
		if err := tx.Create(&[]models.Transaction{current, overdue}).Error; err != nil {
			return err
		}

		links := []models.TransactionItem{
			{ID: uuid.NewString(), TransactionID: current.ID, ItemID: items[2].ID}, // ARD003 with John
			{ID: uuid.NewString(), TransactionID: overdue.ID, ItemID: items[4].ID}, // RPI001 with Jane, overdue
		}
		return tx.Create(&links).Error
	})
}
