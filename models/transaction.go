// models/transaction.go
package models

import "time"

const TransactionTable = "lab_transactions"
const TransactionItemTable = "lab_transaction_items"

const (
	TransactionActive    = "Active"
	TransactionCompleted = "Completed"
)

// Per-item dispositions accepted by the return workflow.
const (
	DispositionReturn        = "Return"
	DispositionReportDamaged = "ReportDamaged"
)

// Transaction is one issuance event covering one or more items to one
// student. It stays Active until every linked item has been dispositioned;
// partial returns are a supported state, not an error.
type Transaction struct {
	ID                 string     `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          string     `gorm:"type:uuid;index;not null" json:"studentId"`
	Student            *Student   `gorm:"constraint:OnDelete:RESTRICT" json:"student,omitempty"`
	IssuerID           *string    `gorm:"type:uuid;index" json:"issuerId,omitempty"`
	Issuer             *Staff     `gorm:"foreignKey:IssuerID;constraint:OnDelete:SET NULL" json:"issuer,omitempty"`
	Status             string     `gorm:"size:20;not null;default:'Active';check:chk_lab_transactions_status,status IN ('Active','Completed')" json:"status"`
	IssueDate          time.Time  `gorm:"index;not null" json:"issueDate"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// TransactionItem links one item to one transaction; an item may appear in
// many transactions over its lifetime but at most once per transaction.
type TransactionItem struct {
	ID            string       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID string       `gorm:"type:uuid;not null;uniqueIndex:uniq_lab_txn_item" json:"transactionId"`
	Transaction   *Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ItemID        string       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_lab_txn_item" json:"itemId"`
	Item          *Item        `gorm:"constraint:OnDelete:RESTRICT" json:"item,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (Transaction) TableName() string     { return TransactionTable }
func (TransactionItem) TableName() string { return TransactionItemTable }
