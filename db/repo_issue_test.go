package db_test

import (
	"context"
	"testing"
	"time"

	"labtrack/db"
	"labtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueItems_Batch(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	student := seedStudent(t, r, "John Doe", "STU001")
	staff := seedStaff(t, r, "Dr. Sarah Chen", "STAFF001")
	ids := itemIDs(t, r, inv.ID)

	txn, err := r.IssueItems(ctx, db.IssueInput{
		StudentID: student.ID,
		IssuerID:  &staff.ID,
		ItemIDs:   ids,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionActive, txn.Status)
	assert.WithinDuration(t, time.Now().UTC(), txn.IssueDate, time.Minute)

	var links int64
	require.NoError(t, r.DB.Model(&models.TransactionItem{}).
		Where("transaction_id = ?", txn.ID).Count(&links).Error)
	assert.EqualValues(t, 2, links)

	issued, err := r.ListItems(ctx, models.ItemIssued, inv.ID)
	require.NoError(t, err)
	assert.Len(t, issued, 2)
}

func TestIssueItems_UnavailableLeavesNoTrace(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	student := seedStudent(t, r, "John Doe", "STU001")
	ids := itemIDs(t, r, inv.ID)

	// first item goes out on its own
	_, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids[:1]})
	require.NoError(t, err)

	// a batch containing the already-issued item must change nothing
	_, err = r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.ErrorIs(t, err, db.ErrItemUnavailable)

	var txns int64
	require.NoError(t, r.DB.Model(&models.Transaction{}).Count(&txns).Error)
	assert.EqualValues(t, 1, txns, "failed batch must not create a transaction")

	second, err := r.FindItemByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, models.ItemAvailable, second.Status, "untouched item keeps its status")
}

func TestIssueItems_UnknownStudent(t *testing.T) {
	r := newRepo(t)
	inv := seedType(t, r, "Sensor", "SEN001")

	_, err := r.IssueItems(context.Background(), db.IssueInput{
		StudentID: "00000000-0000-0000-0000-000000000000",
		ItemIDs:   itemIDs(t, r, inv.ID),
	})
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestIssueItems_DuplicateItemInBatch(t *testing.T) {
	r := newRepo(t)
	inv := seedType(t, r, "Sensor", "SEN001")
	student := seedStudent(t, r, "Jane Smith", "STU002")
	ids := itemIDs(t, r, inv.ID)

	_, err := r.IssueItems(context.Background(), db.IssueInput{
		StudentID: student.ID,
		ItemIDs:   []string{ids[0], ids[0]},
	})
	require.ErrorIs(t, err, db.ErrDuplicateKey)
}

func TestResolveItem_LastResolutionCompletesTransaction(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	student := seedStudent(t, r, "John Doe", "STU001")
	ids := itemIDs(t, r, inv.ID)

	txn, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.NoError(t, err)

	// partial return: one item back, transaction stays active
	it, err := r.ResolveItem(ctx, txn.ID, ids[0], models.DispositionReturn)
	require.NoError(t, err)
	assert.Equal(t, models.ItemAvailable, it.Status)

	mid, err := r.FindTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionActive, mid.Status)

	// last item dispositioned as damaged closes it
	it, err = r.ResolveItem(ctx, txn.ID, ids[1], models.DispositionReportDamaged)
	require.NoError(t, err)
	assert.Equal(t, models.ItemDamaged, it.Status)

	done, err := r.FindTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, done.Status)

	// link rows are history, not working state
	var links int64
	require.NoError(t, r.DB.Model(&models.TransactionItem{}).
		Where("transaction_id = ?", txn.ID).Count(&links).Error)
	assert.EqualValues(t, 2, links)
}

func TestResolveItem_NotIssued(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Sensor", "SEN001")
	student := seedStudent(t, r, "Jane Smith", "STU002")
	ids := itemIDs(t, r, inv.ID)

	txn, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.NoError(t, err)

	_, err = r.ResolveItem(ctx, txn.ID, ids[0], models.DispositionReturn)
	require.NoError(t, err)

	// second disposition of the same item is a bad transition
	_, err = r.ResolveItem(ctx, txn.ID, ids[0], models.DispositionReturn)
	require.ErrorIs(t, err, db.ErrInvalidStatusTransition)
}

func TestResolveItem_UnknownDisposition(t *testing.T) {
	r := newRepo(t)
	_, err := r.ResolveItem(context.Background(), "tx", "item", "Shred")
	require.ErrorIs(t, err, db.ErrInvalidStatusTransition)
}

func TestCurrentHolder(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Raspberry Pi", "RAS001")
	student := seedStudent(t, r, "Jane Smith", "STU002")
	ids := itemIDs(t, r, inv.ID)

	holder, err := r.CurrentHolder(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, holder, "available item has no holder")

	txn, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.NoError(t, err)

	holder, err = r.CurrentHolder(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, "Jane Smith", holder.Name)

	_, err = r.ResolveItem(ctx, txn.ID, ids[0], models.DispositionReturn)
	require.NoError(t, err)

	holder, err = r.CurrentHolder(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, holder, "returned item has no holder")
}

func TestActiveLoans_PartialReturn(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	inv := seedType(t, r, "Arduino", "ARD001", "ARD002")
	student := seedStudent(t, r, "John Doe", "STU001")
	ids := itemIDs(t, r, inv.ID)

	txn, err := r.IssueItems(ctx, db.IssueInput{StudentID: student.ID, ItemIDs: ids})
	require.NoError(t, err)

	loans, err := r.ActiveLoans(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 2)
	assert.Equal(t, "Arduino", loans[0].ComponentName)

	_, err = r.ResolveItem(ctx, txn.ID, ids[0], models.DispositionReturn)
	require.NoError(t, err)

	loans, err = r.ActiveLoans(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 1, "resolved item drops off the loans list")
}
