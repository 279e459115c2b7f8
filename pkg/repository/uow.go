package repository

import "context"

// UnitOfWork provides transaction boundary and repository access in one
// abstraction. All repositories obtained inside Do share the same session, so
// the audit-mirror insert and the canonical delete of one operation commit or
// roll back together.
type UnitOfWork interface {
	// Do runs fn inside a transaction boundary; fn receives a UnitOfWork
	// whose repositories are bound to that transaction.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	DepositRepository() (DepositRepository, error)
	WithdrawalRepository() (WithdrawalRepository, error)
	TransferRepository() (TransferRepository, error)
	DeletedDepositRepository() (DeletedDepositRepository, error)
	DeletedWithdrawalRepository() (DeletedWithdrawalRepository, error)
	DeletedTransferRepository() (DeletedTransferRepository, error)
}
