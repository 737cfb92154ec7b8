package models

import "time"

const StudentTable = "lab_students"
const StaffTable = "lab_staff"

type Student struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	StudentID string    `gorm:"size:60;uniqueIndex;not null" json:"studentId"` // university-issued id, not the row key
	Phone     *string   `gorm:"size:40" json:"phone,omitempty"`
	Email     *string   `gorm:"size:255" json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Staff struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	StaffID   string    `gorm:"size:60;uniqueIndex;not null" json:"staffId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Student) TableName() string { return StudentTable }
func (Staff) TableName() string   { return StaffTable }
