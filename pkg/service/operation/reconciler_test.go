package operation

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferOp(id int64) domain.Operation {
	return domain.Operation{ID: domain.NewOperationID(id), Type: domain.OpTransfer}
}

// The reference scenario: a deposit of 500 for Jean Dupont is deleted, a
// transfer of 500 from Jean Dupont replaces it, then the transfer itself is
// deleted — the deposit must come back and its audit row must go away.
func TestDeleteTransfer_RestoresSupersededDeposit(t *testing.T) {
	t0 := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	now := t0.Add(2 * time.Hour)

	store := newMemStore()
	store.now = func() time.Time { return now }
	store.deletedDeposits[1] = dto.DeletedDepositRead{
		ID: 1, OriginalID: 55, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), Notes: "acompte",
		Status: "completed", DeletedAt: t0,
	}
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "Marie Claire",
		Amount: decimal.NewFromInt(500), CreatedAt: t0.Add(time.Hour),
	}

	svc := newTestService(t, store, WithClock(func() time.Time { return now }))

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, RestoreRestored, res.Restore)
	assert.Equal(t, domain.OpDeposit, res.RestoredType)

	assert.NotContains(t, store.transfers, int64(8))
	assert.Len(t, store.deletedTransfers, 1, "transfer audit row written")
	assert.Empty(t, store.deletedDeposits, "restored deposit is no longer deleted")

	require.Len(t, store.deposits, 1)
	for id, d := range store.deposits {
		assert.Equal(t, res.RestoredID, id)
		assert.NotEqual(t, int64(55), id, "restored row gets a freshly assigned id")
		assert.Equal(t, "Jean Dupont", d.ClientName)
		assert.True(t, d.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "acompte", d.Notes)
	}
}

func TestDeleteTransfer_RestorationWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		deletedAt   time.Time
		wantOutcome RestoreOutcome
	}{
		{name: "deleted 6 days ago is a candidate", deletedAt: now.Add(-6 * 24 * time.Hour), wantOutcome: RestoreRestored},
		{name: "deleted 8 days ago is out of the window", deletedAt: now.Add(-8 * 24 * time.Hour), wantOutcome: RestoreNoCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.now = func() time.Time { return now }
			store.deletedDeposits[1] = dto.DeletedDepositRead{
				ID: 1, OriginalID: 55, ClientName: "Jean Dupont",
				Amount: decimal.NewFromInt(500), DeletedAt: tt.deletedAt,
			}
			store.transfers[8] = dto.TransferRead{
				ID: 8, FromClient: "Jean Dupont", ToClient: "X",
				Amount: decimal.NewFromInt(500),
			}
			svc := newTestService(t, store, WithClock(func() time.Time { return now }))

			res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, res.Restore)
		})
	}
}

func TestDeleteTransfer_FallsBackToWithdrawals(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	store.now = func() time.Time { return now }
	store.deletedWithdrawals[1] = dto.DeletedWithdrawalRead{
		ID: 1, OriginalID: 9, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Hour),
	}
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount: decimal.NewFromInt(500),
	}
	svc := newTestService(t, store, WithClock(func() time.Time { return now }))

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, RestoreRestored, res.Restore)
	assert.Equal(t, domain.OpWithdrawal, res.RestoredType)
	assert.Len(t, store.withdrawals, 1)
	assert.Empty(t, store.deletedWithdrawals)
}

func TestDeleteTransfer_NoCandidateIsTerminal(t *testing.T) {
	store := newMemStore()
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount: decimal.NewFromInt(500),
	}
	svc := newTestService(t, store)

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err, "no restoration candidate is a valid terminal outcome")
	assert.Equal(t, RestoreNoCandidate, res.Restore)
	assert.NotContains(t, store.transfers, int64(8))
}

func TestDeleteTransfer_AmbiguousCandidatesFlagged(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	store.now = func() time.Time { return now }
	store.deletedDeposits[1] = dto.DeletedDepositRead{
		ID: 1, OriginalID: 55, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-2 * time.Hour),
	}
	store.deletedDeposits[2] = dto.DeletedDepositRead{
		ID: 2, OriginalID: 56, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Hour),
	}
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount: decimal.NewFromInt(500),
	}
	svc := newTestService(t, store, WithClock(func() time.Time { return now }))

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, RestoreAmbiguous, res.Restore, "several matches are flagged, not silently picked")
	assert.Empty(t, store.deposits, "nothing restored")
	assert.Len(t, store.deletedDeposits, 2, "audit rows untouched")
}

func TestDeleteTransfer_AmbiguousPickAllowed(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	store.now = func() time.Time { return now }
	store.deletedDeposits[1] = dto.DeletedDepositRead{
		ID: 1, OriginalID: 55, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-2 * time.Hour),
	}
	store.deletedDeposits[2] = dto.DeletedDepositRead{
		ID: 2, OriginalID: 56, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Hour),
	}
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount: decimal.NewFromInt(500),
	}

	cfg := testConfig()
	cfg.AllowAmbiguousPick = true
	svc := NewService(&fakeUoW{store: store}, cfg, slog.New(slog.DiscardHandler),
		WithClock(func() time.Time { return now }))

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, RestoreRestored, res.Restore)
	require.Len(t, store.deposits, 1)
	for _, d := range store.deposits {
		assert.Equal(t, "Jean Dupont", d.ClientName)
	}
	assert.Contains(t, store.deletedDeposits, int64(1), "older candidate stays")
	assert.NotContains(t, store.deletedDeposits, int64(2), "most recent candidate restored")
}

func TestDeleteTransfer_SupersedesLinkWins(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	kind := SupersedesDeposit
	linked := int64(55)

	store := newMemStore()
	store.now = func() time.Time { return now }
	// a more recent heuristic match that must NOT be picked
	store.deletedDeposits[2] = dto.DeletedDepositRead{
		ID: 2, OriginalID: 77, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Minute),
	}
	store.deletedDeposits[1] = dto.DeletedDepositRead{
		ID: 1, OriginalID: linked, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-48 * time.Hour),
	}
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount:         decimal.NewFromInt(500),
		SupersedesKind: &kind, SupersedesID: &linked,
	}
	svc := newTestService(t, store, WithClock(func() time.Time { return now }))

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, RestoreRestored, res.Restore)
	assert.NotContains(t, store.deletedDeposits, int64(1), "linked audit row consumed")
	assert.Contains(t, store.deletedDeposits, int64(2), "heuristic candidate untouched")
}

func TestDeleteTransfer_AlreadyDeletedStillRestores(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	store.now = func() time.Time { return now }
	// transfer is gone, but its audit record remains
	store.deletedTransfers[1] = dto.DeletedTransferRead{
		ID: 1, OriginalID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Minute),
	}
	store.deletedDeposits[2] = dto.DeletedDepositRead{
		ID: 2, OriginalID: 55, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Hour),
	}
	svc := newTestService(t, store, WithClock(func() time.Time { return now }))

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err, "deletion is idempotent; restoration is best-effort")
	assert.True(t, res.AlreadyDeleted)
	assert.Equal(t, RestoreRestored, res.Restore)
	assert.Len(t, store.deposits, 1)
}

func TestDeleteTransfer_AlreadyDeletedNoAuditRecord(t *testing.T) {
	svc := newTestService(t, newMemStore())

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.AlreadyDeleted)
	assert.Equal(t, RestoreNoCandidate, res.Restore)
}

func TestDeleteTransfer_RestoreFailureDoesNotFailDelete(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	store.now = func() time.Time { return now }
	store.deletedDeposits[1] = dto.DeletedDepositRead{
		ID: 1, OriginalID: 55, ClientName: "Jean Dupont",
		Amount: decimal.NewFromInt(500), DeletedAt: now.Add(-time.Hour),
	}
	store.transfers[8] = dto.TransferRead{
		ID: 8, FromClient: "Jean Dupont", ToClient: "X",
		Amount: decimal.NewFromInt(500),
	}
	svc := newTestService(t, store, WithClock(func() time.Time { return now }))

	// failCanonicalWrite only affects deposit writes in the fake, so the
	// transfer deletion itself goes through and the re-insert fails.
	store.failCanonicalWrite = true

	res, err := svc.Delete(context.Background(), transferOp(8), uuid.New())
	require.NoError(t, err, "restore failure is non-fatal for the deletion")
	assert.Equal(t, RestoreFailure, res.Restore)
	assert.NotContains(t, store.transfers, int64(8), "transfer stays deleted")
}
