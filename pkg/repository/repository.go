// Package repository declares the persistence interfaces consumed by the
// ledger engine and the deletion recorder. Implementations live under
// infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/shopspring/decimal"
)

// DepositRepository reads and mutates the canonical deposits collection.
type DepositRepository interface {
	List(ctx context.Context) ([]dto.DepositRead, error)
	Get(ctx context.Context, id int64) (*dto.DepositRead, error)
	// Create inserts a new row and returns its freshly assigned id.
	Create(ctx context.Context, create dto.DepositCreate) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// WithdrawalRepository reads and mutates the canonical withdrawals
// collection.
type WithdrawalRepository interface {
	List(ctx context.Context) ([]dto.WithdrawalRead, error)
	Get(ctx context.Context, id int64) (*dto.WithdrawalRead, error)
	Create(ctx context.Context, create dto.WithdrawalCreate) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// TransferRepository reads and mutates the canonical transfers collection.
type TransferRepository interface {
	List(ctx context.Context) ([]dto.TransferRead, error)
	Get(ctx context.Context, id int64) (*dto.TransferRead, error)
	Delete(ctx context.Context, id int64) error
}

// DeletedDepositRepository owns the deleted_deposits audit mirror.
type DeletedDepositRepository interface {
	Create(ctx context.Context, create dto.DeletedDepositCreate) error
	// GetByOriginalID resolves the audit row for a canonical id; used for the
	// explicit supersedes link.
	GetByOriginalID(ctx context.Context, originalID int64) (*dto.DeletedDepositRead, error)
	// SearchRestorable lists audit rows matching client name and amount,
	// deleted at or after since, most recent deletion first.
	SearchRestorable(ctx context.Context, clientName string, amount decimal.Decimal, since time.Time) ([]dto.DeletedDepositRead, error)
	Delete(ctx context.Context, id int64) error
}

// DeletedWithdrawalRepository owns the deleted_withdrawals audit mirror.
type DeletedWithdrawalRepository interface {
	Create(ctx context.Context, create dto.DeletedWithdrawalCreate) error
	GetByOriginalID(ctx context.Context, originalID int64) (*dto.DeletedWithdrawalRead, error)
	SearchRestorable(ctx context.Context, clientName string, amount decimal.Decimal, since time.Time) ([]dto.DeletedWithdrawalRead, error)
	Delete(ctx context.Context, id int64) error
}

// DeletedTransferRepository owns the deleted_transfers audit mirror.
type DeletedTransferRepository interface {
	Create(ctx context.Context, create dto.DeletedTransferCreate) error
	GetByOriginalID(ctx context.Context, originalID int64) (*dto.DeletedTransferRead, error)
}
