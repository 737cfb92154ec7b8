package db

import (
	"context"
	"time"

	"labtrack/models"
)

// Summary is the dashboard headline card data.
type Summary struct {
	TotalItems         int64 `json:"totalItems"`
	Available          int64 `json:"available"`
	Issued             int64 `json:"issued"`
	Damaged            int64 `json:"damaged"`
	InventoryTypes     int64 `json:"inventoryTypes"`
	Students           int64 `json:"students"`
	ActiveTransactions int64 `json:"activeTransactions"`
	OverdueItems       int64 `json:"overdueItems"`
}

func (r *Repo) Summary(ctx context.Context, overdueThreshold time.Duration) (Summary, error) {
	var s Summary
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.Item{}).Count(&s.TotalItems).Error; err != nil {
		return Summary{}, translate(err)
	}
	statusCounts := []struct {
		Status string
		N      int64
	}{}
	if err := db.Model(&models.Item{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return Summary{}, translate(err)
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case models.ItemAvailable:
			s.Available = sc.N
		case models.ItemIssued:
			s.Issued = sc.N
		case models.ItemDamaged:
			s.Damaged = sc.N
		}
	}
	if err := db.Model(&models.Inventory{}).Count(&s.InventoryTypes).Error; err != nil {
		return Summary{}, translate(err)
	}
	if err := db.Model(&models.Student{}).Count(&s.Students).Error; err != nil {
		return Summary{}, translate(err)
	}
	if err := db.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionActive).
		Count(&s.ActiveTransactions).Error; err != nil {
		return Summary{}, translate(err)
	}
	overdue, err := r.ListOverdue(ctx, overdueThreshold)
	if err != nil {
		return Summary{}, err
	}
	s.OverdueItems = int64(len(overdue))
	return s, nil
}

// BreakdownRow is the per-type status split behind the dashboard charts.
type BreakdownRow struct {
	ComponentName string `json:"componentName"`
	Available     int64  `json:"available"`
	Issued        int64  `json:"issued"`
	Damaged       int64  `json:"damaged"`
}

func (r *Repo) StatusBreakdown(ctx context.Context) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	err := r.DB.WithContext(ctx).Table(models.InventoryTable+" AS inv").
		Select(`inv.name AS component_name,
			SUM(CASE WHEN i.status = 'Available' THEN 1 ELSE 0 END) AS available,
			SUM(CASE WHEN i.status = 'Issued' THEN 1 ELSE 0 END) AS issued,
			SUM(CASE WHEN i.status = 'Damaged' THEN 1 ELSE 0 END) AS damaged`).
		Joins("LEFT JOIN " + models.ItemTable + " i ON i.inventory_id = inv.id").
		Group("inv.id, inv.name").
		Order("inv.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// ActivityRow is one line of the dashboard activity feed: one item of one
// recent transaction.
type ActivityRow struct {
	TransactionID string    `json:"transactionId"`
	StudentName   string    `json:"studentName"`
	ComponentName string    `json:"componentName"`
	SerialNumber  string    `json:"serialNumber"`
	Action        string    `json:"action"` // Issue while Active, Return once Completed
	Timestamp     time.Time `json:"timestamp"`
}

// RecentActivity lists every item of the latest transactions. The limit
// bounds transactions, not rows: a multi-item transaction expands to one
// row per item without pushing older transactions out of the feed.
func (r *Repo) RecentActivity(ctx context.Context, limit int) ([]ActivityRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 5
	}
	type row struct {
		TransactionID string
		StudentName   string
		ComponentName string
		SerialNumber  string
		Status        string
		CreatedAt     time.Time
	}
	latest := r.DB.Model(&models.Transaction{}).
		Select("id").
		Order("created_at DESC").
		Limit(limit)

	var raw []row
	err := r.DB.WithContext(ctx).Table(models.TransactionTable+" AS t").
		Select("t.id AS transaction_id, s.name AS student_name, inv.name AS component_name, i.serial_number, t.status, t.created_at").
		Joins("JOIN "+models.StudentTable+" s ON s.id = t.student_id").
		Joins("JOIN "+models.TransactionItemTable+" ti ON ti.transaction_id = t.id").
		Joins("JOIN "+models.ItemTable+" i ON i.id = ti.item_id").
		Joins("JOIN "+models.InventoryTable+" inv ON inv.id = i.inventory_id").
		Where("t.id IN (?)", latest).
		Order("t.created_at DESC, i.serial_number ASC").
		Scan(&raw).Error
	if err != nil {
		return nil, translate(err)
	}
	rows := make([]ActivityRow, 0, len(raw))
	for _, rr := range raw {
		action := "Issue"
		if rr.Status == models.TransactionCompleted {
			action = "Return"
		}
		rows = append(rows, ActivityRow{
			TransactionID: rr.TransactionID,
			StudentName:   rr.StudentName,
			ComponentName: rr.ComponentName,
			SerialNumber:  rr.SerialNumber,
			Action:        action,
			Timestamp:     rr.CreatedAt,
		})
	}
	return rows, nil
}

// OverdueRow is one still-outstanding item on an Active transaction past
// the return window.
type OverdueRow struct {
	TransactionID string    `json:"transactionId"`
	StudentName   string    `json:"studentName"`
	ComponentName string    `json:"componentName"`
	SerialNumber  string    `json:"serialNumber"`
	IssueDate     time.Time `json:"issueDate"`
	DaysOverdue   int       `json:"daysOverdue"`
}

// ListOverdue computes overdue state at read time; nothing is persisted.
// A transaction is overdue when it is Active and its issue_date is older
// than the threshold; only its items still Issued are reported.
func (r *Repo) ListOverdue(ctx context.Context, threshold time.Duration) ([]OverdueRow, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-threshold)

	var rows []OverdueRow
	err := r.DB.WithContext(ctx).Table(models.TransactionTable+" AS t").
		Select("t.id AS transaction_id, s.name AS student_name, inv.name AS component_name, i.serial_number, t.issue_date").
		Joins("JOIN "+models.StudentTable+" s ON s.id = t.student_id").
		Joins("JOIN "+models.TransactionItemTable+" ti ON ti.transaction_id = t.id").
		Joins("JOIN "+models.ItemTable+" i ON i.id = ti.item_id").
		Joins("JOIN "+models.InventoryTable+" inv ON inv.id = i.inventory_id").
		Where("t.status = ? AND t.issue_date < ? AND i.status = ?",
			models.TransactionActive, cutoff, models.ItemIssued).
		Order("t.issue_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for i := range rows {
		rows[i].DaysOverdue = int(now.Sub(rows[i].IssueDate).Hours() / 24)
	}
	return rows, nil
}
