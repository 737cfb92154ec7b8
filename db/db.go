package db

import (
	"fmt"
	"time"

	"labtrack/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 4
	connectBackoff  = 500 * time.Millisecond
)

// Open connects to Postgres when dsn is set, retrying transient failures
// with backoff. An empty dsn, or a backend still unreachable after the
// retries, degrades to an embedded in-memory store seeded with the demo
// dataset so the rest of the system keeps working offline.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn != "" {
		conn, err := openPostgres(dsn)
		if err == nil {
			if err := Migrate(conn); err != nil {
				return nil, err
			}
			log.Info("database connected", zap.String("backend", "postgres"))
			return conn, nil
		}
		log.Warn("postgres unreachable, degrading to in-memory demo store", zap.Error(err))
	} else {
		log.Info("no DATABASE_URL configured, using in-memory demo store")
	}

	conn, err := OpenMemory()
	if err != nil {
		return nil, err
	}
	if err := Seed(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// OpenMemory opens an isolated embedded in-memory database and migrates it.
// Each call gets its own database, so parallel tests do not interfere.
func OpenMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open embedded db: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func openPostgres(dsn string) (*gorm.DB, error) {
	var lastErr error
	backoff := connectBackoff
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Inventory{}, &models.Item{},
		&models.Student{}, &models.Staff{},
		&models.Transaction{}, &models.TransactionItem{},
	); err != nil {
		return err
	}

	// overdue scans filter on (status, issue_date)
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_status_issuedate
	  ON %s (status, issue_date);
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// Shared updated_at trigger. GORM refreshes updated_at client-side; the
	// trigger covers writes from any other client of the same database.
	if err := db.Exec(`
	  CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
	  BEGIN
	    NEW.updated_at = NOW();
	    RETURN NEW;
	  END;
	  $$ LANGUAGE plpgsql;
	`).Error; err != nil {
		return err
	}
	tables := []string{
		models.InventoryTable, models.ItemTable,
		models.StudentTable, models.StaffTable,
		models.TransactionTable, models.TransactionItemTable,
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf(`
		  DROP TRIGGER IF EXISTS %s_set_updated_at ON %s;
		  CREATE TRIGGER %s_set_updated_at BEFORE UPDATE ON %s
		  FOR EACH ROW EXECUTE FUNCTION set_updated_at();
		`, table, table, table, table)).Error; err != nil {
			return err
		}
	}
	return nil
}
