package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/pkg/dto"
)

// LedgerSource is the read-only adapter the fetch orchestrator pulls the
// three collections through. Each list runs on the bare connection; the
// orchestrator owns timeout and cancellation via ctx.
type LedgerSource struct {
	db *gorm.DB
}

// NewLedgerSource creates a ledger source bound to db.
func NewLedgerSource(db *gorm.DB) *LedgerSource {
	return &LedgerSource{db: db}
}

func (s *LedgerSource) ListDeposits(ctx context.Context) ([]dto.DepositRead, error) {
	return NewDepositRepository(s.db).List(ctx)
}

func (s *LedgerSource) ListWithdrawals(ctx context.Context) ([]dto.WithdrawalRead, error) {
	return NewWithdrawalRepository(s.db).List(ctx)
}

func (s *LedgerSource) ListTransfers(ctx context.Context) ([]dto.TransferRead, error) {
	return NewTransferRepository(s.db).List(ctx)
}
