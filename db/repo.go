package db

import (
	"context"
	"strings"

	"labtrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// lockForUpdate applies a row lock on backends that support it. The
// embedded store has a single writer and no FOR UPDATE syntax.
func (r *Repo) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Students

func (r *Repo) CreateStudent(ctx context.Context, s *models.Student) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Student{}).
		Where("student_id = ?", s.StudentID).
		Count(&n).Error; err != nil {
		return translate(err)
	}
	if n > 0 {
		return ErrDuplicateKey
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *Repo) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student
	if err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// ListStudents returns all students, or those whose university id or name
// contains q.
func (r *Repo) ListStudents(ctx context.Context, q string) ([]models.Student, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Student{}).Order("name ASC")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(student_id) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	var students []models.Student
	if err := tx.Find(&students).Error; err != nil {
		return nil, translate(err)
	}
	return students, nil
}

// DeleteStudent refuses while the student is referenced by any transaction;
// issuance history outlives enrolment.
func (r *Repo) DeleteStudent(ctx context.Context, id string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("student_id = ?", id).
		Count(&n).Error; err != nil {
		return translate(err)
	}
	if n > 0 {
		return ErrForeignKeyViolation
	}
	res := r.DB.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Staff

func (r *Repo) CreateStaff(ctx context.Context, s *models.Staff) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Staff{}).
		Where("staff_id = ?", s.StaffID).
		Count(&n).Error; err != nil {
		return translate(err)
	}
	if n > 0 {
		return ErrDuplicateKey
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *Repo) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&staff).Error; err != nil {
		return nil, translate(err)
	}
	return staff, nil
}

// DeleteStaff detaches the member from any transaction they issued, then
// deletes; past issuances keep their history with a null issuer.
func (r *Repo) DeleteStaff(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("issuer_id = ?", id).
			Update("issuer_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Staff{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}
