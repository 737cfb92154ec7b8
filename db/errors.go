package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Domain error taxonomy. Callers match with errors.Is; nothing above the
// repo inspects backend error strings.
var (
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrForeignKeyViolation     = errors.New("foreign key violation")
	ErrNotFound                = errors.New("not found")
	ErrItemUnavailable         = errors.New("item unavailable")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// translate folds backend constraint violations into the domain taxonomy.
// The repo pre-checks most constraints client-side; this catches the races
// those checks cannot, e.g. two clients importing the same serial at once.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateKey
		case "23503":
			return ErrForeignKeyViolation
		}
	}

	// The embedded backend reports constraint failures as plain errors.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicateKey
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrForeignKeyViolation
	}
	return err
}
