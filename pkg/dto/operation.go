// Package dto defines the data transfer objects crossing the repository
// boundary. Read DTOs mirror the backing collections; Create DTOs carry only
// the caller-supplied fields.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositRead mirrors a row of the deposits collection.
type DepositRead struct {
	ID            int64
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	CreatedAt     time.Time
	Notes         string
	Status        string
}

// DepositCreate carries the fields for a new deposit row. Used by the
// reconciler when restoring a deposit the deleted transfer had superseded.
type DepositCreate struct {
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	Notes         string
	Status        string
}

// WithdrawalRead mirrors a row of the withdrawals collection.
type WithdrawalRead struct {
	ID            int64
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	CreatedAt     time.Time
	Notes         string
	Status        string
}

// WithdrawalCreate carries the fields for a new withdrawal row.
type WithdrawalCreate struct {
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	Notes         string
	Status        string
}

// TransferRead mirrors a row of the transfers collection. SupersedesKind and
// SupersedesID, when set, link the transfer to the deposit or withdrawal it
// replaced; older rows predate the link and fall back to heuristic matching
// at reconciliation time.
type TransferRead struct {
	ID             int64
	FromClient     string
	ToClient       string
	Amount         decimal.Decimal
	OperationDate  *time.Time
	CreatedAt      time.Time
	Reason         string
	Status         string
	SupersedesKind *string
	SupersedesID   *int64
}

// DeletedDepositRead mirrors a row of the deleted_deposits audit collection.
type DeletedDepositRead struct {
	ID            int64
	OriginalID    int64
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	Notes         string
	Status        string
	DeletedBy     uuid.UUID
	DeletedAt     time.Time
}

// DeletedDepositCreate is the audit copy written before a deposit row is
// removed.
type DeletedDepositCreate struct {
	OriginalID    int64
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	Notes         string
	Status        string
	DeletedBy     uuid.UUID
}

// DeletedWithdrawalRead mirrors a row of the deleted_withdrawals audit
// collection.
type DeletedWithdrawalRead struct {
	ID            int64
	OriginalID    int64
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	Notes         string
	Status        string
	DeletedBy     uuid.UUID
	DeletedAt     time.Time
}

// DeletedWithdrawalCreate is the audit copy written before a withdrawal row
// is removed.
type DeletedWithdrawalCreate struct {
	OriginalID    int64
	ClientName    string
	Amount        decimal.Decimal
	OperationDate *time.Time
	Notes         string
	Status        string
	DeletedBy     uuid.UUID
}

// DeletedTransferRead mirrors a row of the deleted_transfers audit
// collection.
type DeletedTransferRead struct {
	ID             int64
	OriginalID     int64
	FromClient     string
	ToClient       string
	Amount         decimal.Decimal
	OperationDate  *time.Time
	Reason         string
	Status         string
	SupersedesKind *string
	SupersedesID   *int64
	DeletedBy      uuid.UUID
	DeletedAt      time.Time
}

// DeletedTransferCreate is the audit copy written before a transfer row is
// removed.
type DeletedTransferCreate struct {
	OriginalID     int64
	FromClient     string
	ToClient       string
	Amount         decimal.Decimal
	OperationDate  *time.Time
	Reason         string
	Status         string
	SupersedesKind *string
	SupersedesID   *int64
	DeletedBy      uuid.UUID
}
