package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labtrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IssueInput struct {
	StudentID          string
	IssuerID           *string
	ItemIDs            []string
	ExpectedReturnDate *time.Time
}

// IssueItems creates one Active transaction covering the whole batch:
// every item is re-checked Available under lock, one transaction row plus
// one link row per item are written, and each item flips to Issued. The
// batch commits together or not at all.
func (r *Repo) IssueItems(ctx context.Context, in IssueInput) (*models.Transaction, error) {
	if len(in.ItemIDs) == 0 {
		return nil, fmt.Errorf("%w: empty item batch", ErrItemUnavailable)
	}
	seen := make(map[string]bool, len(in.ItemIDs))
	for _, id := range in.ItemIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: item listed twice in batch", ErrDuplicateKey)
		}
		seen[id] = true
	}

	var txn *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Student{}, "id = ?", in.StudentID).Error; err != nil {
			return err
		}
		if in.IssuerID != nil {
			if err := tx.First(&models.Staff{}, "id = ?", *in.IssuerID).Error; err != nil {
				return err
			}
		}

		items := make([]models.Item, 0, len(in.ItemIDs))
		for _, id := range in.ItemIDs {
			var it models.Item
			if err := r.lockForUpdate(tx).First(&it, "id = ?", id).Error; err != nil {
				return err
			}
			if it.Status != models.ItemAvailable {
				return fmt.Errorf("%w: %s is %s", ErrItemUnavailable, it.SerialNumber, it.Status)
			}
			items = append(items, it)
		}

		t := &models.Transaction{
			ID:                 uuid.NewString(),
			StudentID:          in.StudentID,
			IssuerID:           in.IssuerID,
			Status:             models.TransactionActive,
			IssueDate:          time.Now().UTC(),
			ExpectedReturnDate: in.ExpectedReturnDate,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		links := make([]models.TransactionItem, 0, len(items))
		for _, it := range items {
			links = append(links, models.TransactionItem{
				ID:            uuid.NewString(),
				TransactionID: t.ID,
				ItemID:        it.ID,
			})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Item{}).
			Where("id IN ?", in.ItemIDs).
			Update("status", models.ItemIssued).Error; err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return txn, nil
}

// ResolveItem dispositions one item of a transaction: Return puts it back
// to Available, ReportDamaged marks it Damaged. The link row and the
// transaction are kept as history; the transaction flips to Completed only
// once none of its items remains Issued, so partial returns leave it
// Active.
func (r *Repo) ResolveItem(ctx context.Context, transactionID, itemID, disposition string) (*models.Item, error) {
	var target string
	switch disposition {
	case models.DispositionReturn:
		target = models.ItemAvailable
	case models.DispositionReportDamaged:
		target = models.ItemDamaged
	default:
		return nil, fmt.Errorf("%w: unknown disposition %q", ErrInvalidStatusTransition, disposition)
	}

	var resolved models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := r.lockForUpdate(tx).First(&t, "id = ?", transactionID).Error; err != nil {
			return err
		}
		if t.Status != models.TransactionActive {
			return fmt.Errorf("%w: transaction already %s", ErrInvalidStatusTransition, t.Status)
		}
		var link models.TransactionItem
		if err := tx.First(&link, "transaction_id = ? AND item_id = ?", transactionID, itemID).Error; err != nil {
			return err
		}
		var it models.Item
		if err := r.lockForUpdate(tx).First(&it, "id = ?", itemID).Error; err != nil {
			return err
		}
		if it.Status != models.ItemIssued {
			return fmt.Errorf("%w: %s is %s, not Issued", ErrInvalidStatusTransition, it.SerialNumber, it.Status)
		}
		if err := tx.Model(&it).Update("status", target).Error; err != nil {
			return err
		}

		var outstanding int64
		if err := tx.Model(&models.TransactionItem{}).
			Joins("JOIN "+models.ItemTable+" i ON i.id = "+models.TransactionItemTable+".item_id").
			Where(models.TransactionItemTable+".transaction_id = ? AND i.status = ?", transactionID, models.ItemIssued).
			Count(&outstanding).Error; err != nil {
			return err
		}
		if outstanding == 0 {
			if err := tx.Model(&t).Update("status", models.TransactionCompleted).Error; err != nil {
				return err
			}
		}
		it.Status = target
		resolved = it
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &resolved, nil
}

func (r *Repo) FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *Repo) ListTransactions(ctx context.Context, studentID, status string) ([]models.Transaction, error) {
	q := r.DB.WithContext(ctx).Model(&models.Transaction{}).Order("issue_date DESC")
	if studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		return nil, translate(err)
	}
	return txns, nil
}

// CurrentHolder resolves the student currently holding an item via its
// Active transaction. Returns (nil, nil) when nobody holds it.
func (r *Repo) CurrentHolder(ctx context.Context, itemID string) (*models.Student, error) {
	var s models.Student
	err := r.DB.WithContext(ctx).Model(&models.Student{}).
		Joins("JOIN "+models.TransactionTable+" t ON t.student_id = "+models.StudentTable+".id").
		Joins("JOIN "+models.TransactionItemTable+" ti ON ti.transaction_id = t.id").
		Where("ti.item_id = ? AND t.status = ?", itemID, models.TransactionActive).
		First(&s).Error
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return &s, nil
}

// LoanRow is one outstanding item on a student's active transactions, as
// shown by the returns view.
type LoanRow struct {
	TransactionID      string     `json:"transactionId"`
	ItemID             string     `json:"itemId"`
	SerialNumber       string     `json:"serialNumber"`
	ComponentName      string     `json:"componentName"`
	IssueDate          time.Time  `json:"issueDate"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
}

// ActiveLoans lists the items a student still has out: linked to one of
// their Active transactions and themselves still Issued. Items already
// dispositioned under a partially-returned transaction drop out.
func (r *Repo) ActiveLoans(ctx context.Context, studentID string) ([]LoanRow, error) {
	var rows []LoanRow
	err := r.DB.WithContext(ctx).Table(models.TransactionItemTable+" AS ti").
		Select("t.id AS transaction_id, i.id AS item_id, i.serial_number, inv.name AS component_name, t.issue_date, t.expected_return_date").
		Joins("JOIN "+models.TransactionTable+" t ON t.id = ti.transaction_id").
		Joins("JOIN "+models.ItemTable+" i ON i.id = ti.item_id").
		Joins("JOIN "+models.InventoryTable+" inv ON inv.id = i.inventory_id").
		Where("t.student_id = ? AND t.status = ? AND i.status = ?",
			studentID, models.TransactionActive, models.ItemIssued).
		Order("t.issue_date DESC, i.serial_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
