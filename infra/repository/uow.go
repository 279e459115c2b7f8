package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/pkg/repository"
)

// UoW implements repository.UnitOfWork over a gorm connection. Outside Do the
// repositories run on the bare connection in autocommit mode; inside Do they
// all share the transaction handle, so the audit insert and the canonical
// delete commit or roll back as one.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work bound to db.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// session returns the transaction handle when one is open, the bare
// connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn inside a gorm transaction. fn receives a UoW whose repositories
// are bound to that transaction; any error from fn rolls the whole
// transaction back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.session().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) DepositRepository() (repository.DepositRepository, error) {
	return NewDepositRepository(u.session()), nil
}

func (u *UoW) WithdrawalRepository() (repository.WithdrawalRepository, error) {
	return NewWithdrawalRepository(u.session()), nil
}

func (u *UoW) TransferRepository() (repository.TransferRepository, error) {
	return NewTransferRepository(u.session()), nil
}

func (u *UoW) DeletedDepositRepository() (repository.DeletedDepositRepository, error) {
	return NewDeletedDepositRepository(u.session()), nil
}

func (u *UoW) DeletedWithdrawalRepository() (repository.DeletedWithdrawalRepository, error) {
	return NewDeletedWithdrawalRepository(u.session()), nil
}

func (u *UoW) DeletedTransferRepository() (repository.DeletedTransferRepository, error) {
	return NewDeletedTransferRepository(u.session()), nil
}
