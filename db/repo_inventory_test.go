package db_test

import (
	"context"
	"testing"

	"labtrack/db"
	"labtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem_DuplicateSerial(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001")
	err := r.CreateItem(ctx, &models.Item{SerialNumber: "ARD001", InventoryID: inv.ID})
	require.ErrorIs(t, err, db.ErrDuplicateKey)
}

func TestCreateItem_UnknownType(t *testing.T) {
	r := newRepo(t)
	err := r.CreateItem(context.Background(), &models.Item{
		SerialNumber: "XXX001",
		InventoryID:  "00000000-0000-0000-0000-000000000000",
	})
	require.ErrorIs(t, err, db.ErrForeignKeyViolation)
}

func TestCreateInventory_DuplicateName(t *testing.T) {
	r := newRepo(t)
	seedType(t, r, "Arduino")
	err := r.CreateInventory(context.Background(), &models.Inventory{Name: "arduino"})
	require.ErrorIs(t, err, db.ErrDuplicateKey)
}

func TestTotalQtyFollowsItems(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	got, err := r.FindInventoryByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalQty)

	ids := itemIDs(t, r, inv.ID)
	require.NoError(t, r.DeleteItem(ctx, ids[0]))

	got, err = r.FindInventoryByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalQty)
}

func TestRecountTotals_RepairsDrift(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	require.NoError(t, r.DB.Model(&models.Inventory{}).
		Where("id = ?", inv.ID).
		Update("total_qty", 99).Error)

	require.NoError(t, r.RecountTotals(ctx))

	got, err := r.FindInventoryByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalQty)
}

func TestDeleteInventory_CascadesWhenUnreferenced(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	require.NoError(t, r.DeleteInventory(ctx, inv.ID))

	items, err := r.ListItems(ctx, "", inv.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "items go with their type")

	_, err = r.FindInventoryByID(ctx, inv.ID)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteInventory_BlockedByTransactionHistory(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001")
	student := seedStudent(t, r, "John Doe", "STU001")
	ids := itemIDs(t, r, inv.ID)

	txn, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.NoError(t, err)
	_, err = r.ResolveItem(ctx, txn.ID, ids[0], models.DispositionReturn)
	require.NoError(t, err)

	// even after return, history pins the item and so the type
	err = r.DeleteInventory(ctx, inv.ID)
	require.ErrorIs(t, err, db.ErrForeignKeyViolation)

	it, err := r.FindItemByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.ItemAvailable, it.Status, "item survives the rejected delete")
}

func TestDeleteItem_BlockedByTransactionHistory(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001")
	student := seedStudent(t, r, "John Doe", "STU001")
	ids := itemIDs(t, r, inv.ID)

	_, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.NoError(t, err)

	err = r.DeleteItem(ctx, ids[0])
	require.ErrorIs(t, err, db.ErrForeignKeyViolation)
}

func TestDeleteStudent_BlockedByTransactions(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001")
	student := seedStudent(t, r, "John Doe", "STU001")

	_, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: itemIDs(t, r, inv.ID)})
	require.NoError(t, err)

	err = r.DeleteStudent(ctx, student.ID)
	require.ErrorIs(t, err, db.ErrForeignKeyViolation)
}

func TestDeleteStaff_DetachesIssuer(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001")
	student := seedStudent(t, r, "John Doe", "STU001")
	staff := seedStaff(t, r, "Dr. Sarah Chen", "STAFF001")

	txn, err := r.IssueItems(ctx, db.IssueInput{
		StudentID: student.ID,
		IssuerID:  &staff.ID,
		ItemIDs:   itemIDs(t, r, inv.ID),
	})
	require.NoError(t, err)

	require.NoError(t, r.DeleteStaff(ctx, staff.ID))

	got, err := r.FindTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Nil(t, got.IssuerID, "issuance history survives with a null issuer")
}

func TestCreateStudent_DuplicateUniversityID(t *testing.T) {
	r := newRepo(t)
	seedStudent(t, r, "John Doe", "STU001")
	err := r.CreateStudent(context.Background(), &models.Student{Name: "Impostor", StudentID: "STU001"})
	require.ErrorIs(t, err, db.ErrDuplicateKey)
}

func TestListStudents_Search(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	seedStudent(t, r, "John Doe", "STU001")
	seedStudent(t, r, "Jane Smith", "STU002")

	byID, err := r.ListStudents(ctx, "stu002")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Jane Smith", byID[0].Name)

	byName, err := r.ListStudents(ctx, "john")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	all, err := r.ListStudents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAvailableItemsByName(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	student := seedStudent(t, r, "John Doe", "STU001")
	ids := itemIDs(t, r, inv.ID)

	_, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids[:1]})
	require.NoError(t, err)

	avail, err := r.AvailableItemsByName(ctx, "arduino")
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "ARD002", avail[0].SerialNumber)
}
