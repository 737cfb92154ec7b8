package db_test

import (
	"context"
	"testing"

	"labtrack/db"
	"labtrack/models"

	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *db.Repo {
	t.Helper()
	conn, err := db.OpenMemory()
	require.NoError(t, err, "OpenMemory")
	return db.NewRepo(conn)
}

func seedType(t *testing.T, r *db.Repo, name string, serials ...string) *models.Inventory {
	t.Helper()
	ctx := context.Background()
	inv := &models.Inventory{Name: name}
	require.NoError(t, r.CreateInventory(ctx, inv))
	for _, s := range serials {
		it := &models.Item{SerialNumber: s, InventoryID: inv.ID}
		require.NoError(t, r.CreateItem(ctx, it))
	}
	return inv
}

func seedStudent(t *testing.T, r *db.Repo, name, studentID string) *models.Student {
	t.Helper()
	s := &models.Student{Name: name, StudentID: studentID}
	require.NoError(t, r.CreateStudent(context.Background(), s))
	return s
}

func seedStaff(t *testing.T, r *db.Repo, name, staffID string) *models.Staff {
	t.Helper()
	s := &models.Staff{Name: name, StaffID: staffID}
	require.NoError(t, r.CreateStaff(context.Background(), s))
	return s
}

func itemIDs(t *testing.T, r *db.Repo, inventoryID string) []string {
	t.Helper()
	items, err := r.ListItems(context.Background(), "", inventoryID)
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
