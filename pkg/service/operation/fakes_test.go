package operation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/repository"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the six collections. The event log
// records every mutation in order so tests can assert that the audit write
// strictly precedes the canonical delete.
type memStore struct {
	deposits           map[int64]dto.DepositRead
	withdrawals        map[int64]dto.WithdrawalRead
	transfers          map[int64]dto.TransferRead
	deletedDeposits    map[int64]dto.DeletedDepositRead
	deletedWithdrawals map[int64]dto.DeletedWithdrawalRead
	deletedTransfers   map[int64]dto.DeletedTransferRead

	nextID int64
	now    func() time.Time
	events []string

	failAuditCreate    bool
	failCanonicalWrite bool
}

func newMemStore() *memStore {
	return &memStore{
		deposits:           map[int64]dto.DepositRead{},
		withdrawals:        map[int64]dto.WithdrawalRead{},
		transfers:          map[int64]dto.TransferRead{},
		deletedDeposits:    map[int64]dto.DeletedDepositRead{},
		deletedWithdrawals: map[int64]dto.DeletedWithdrawalRead{},
		deletedTransfers:   map[int64]dto.DeletedTransferRead{},
		nextID:             1000,
		now:                time.Now,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) record(format string, args ...any) {
	m.events = append(m.events, fmt.Sprintf(format, args...))
}

// fakeUoW satisfies repository.UnitOfWork without real transactions.
type fakeUoW struct {
	store *memStore
}

func (u *fakeUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *fakeUoW) DepositRepository() (repository.DepositRepository, error) {
	return &fakeDepositRepo{store: u.store}, nil
}

func (u *fakeUoW) WithdrawalRepository() (repository.WithdrawalRepository, error) {
	return &fakeWithdrawalRepo{store: u.store}, nil
}

func (u *fakeUoW) TransferRepository() (repository.TransferRepository, error) {
	return &fakeTransferRepo{store: u.store}, nil
}

func (u *fakeUoW) DeletedDepositRepository() (repository.DeletedDepositRepository, error) {
	return &fakeDeletedDepositRepo{store: u.store}, nil
}

func (u *fakeUoW) DeletedWithdrawalRepository() (repository.DeletedWithdrawalRepository, error) {
	return &fakeDeletedWithdrawalRepo{store: u.store}, nil
}

func (u *fakeUoW) DeletedTransferRepository() (repository.DeletedTransferRepository, error) {
	return &fakeDeletedTransferRepo{store: u.store}, nil
}

type fakeDepositRepo struct{ store *memStore }

func (r *fakeDepositRepo) List(context.Context) ([]dto.DepositRead, error) {
	out := make([]dto.DepositRead, 0, len(r.store.deposits))
	for _, d := range r.store.deposits {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDepositRepo) Get(_ context.Context, id int64) (*dto.DepositRead, error) {
	d, ok := r.store.deposits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *fakeDepositRepo) Create(_ context.Context, create dto.DepositCreate) (int64, error) {
	if r.store.failCanonicalWrite {
		return 0, errors.New("injected canonical write failure")
	}
	id := r.store.id()
	r.store.deposits[id] = dto.DepositRead{
		ID:            id,
		ClientName:    create.ClientName,
		Amount:        create.Amount,
		OperationDate: create.OperationDate,
		CreatedAt:     r.store.now(),
		Notes:         create.Notes,
		Status:        create.Status,
	}
	r.store.record("create:deposit:%d", id)
	return id, nil
}

func (r *fakeDepositRepo) Delete(_ context.Context, id int64) error {
	if r.store.failCanonicalWrite {
		return errors.New("injected canonical delete failure")
	}
	delete(r.store.deposits, id)
	r.store.record("delete:deposit:%d", id)
	return nil
}

type fakeWithdrawalRepo struct{ store *memStore }

func (r *fakeWithdrawalRepo) List(context.Context) ([]dto.WithdrawalRead, error) {
	out := make([]dto.WithdrawalRead, 0, len(r.store.withdrawals))
	for _, w := range r.store.withdrawals {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWithdrawalRepo) Get(_ context.Context, id int64) (*dto.WithdrawalRead, error) {
	w, ok := r.store.withdrawals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (r *fakeWithdrawalRepo) Create(_ context.Context, create dto.WithdrawalCreate) (int64, error) {
	id := r.store.id()
	r.store.withdrawals[id] = dto.WithdrawalRead{
		ID:            id,
		ClientName:    create.ClientName,
		Amount:        create.Amount,
		OperationDate: create.OperationDate,
		CreatedAt:     r.store.now(),
		Notes:         create.Notes,
		Status:        create.Status,
	}
	r.store.record("create:withdrawal:%d", id)
	return id, nil
}

func (r *fakeWithdrawalRepo) Delete(_ context.Context, id int64) error {
	delete(r.store.withdrawals, id)
	r.store.record("delete:withdrawal:%d", id)
	return nil
}

type fakeTransferRepo struct{ store *memStore }

func (r *fakeTransferRepo) List(context.Context) ([]dto.TransferRead, error) {
	out := make([]dto.TransferRead, 0, len(r.store.transfers))
	for _, t := range r.store.transfers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTransferRepo) Get(_ context.Context, id int64) (*dto.TransferRead, error) {
	t, ok := r.store.transfers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTransferRepo) Delete(_ context.Context, id int64) error {
	delete(r.store.transfers, id)
	r.store.record("delete:transfer:%d", id)
	return nil
}

type fakeDeletedDepositRepo struct{ store *memStore }

func (r *fakeDeletedDepositRepo) Create(_ context.Context, create dto.DeletedDepositCreate) error {
	if r.store.failAuditCreate {
		return errors.New("injected audit write failure")
	}
	id := r.store.id()
	r.store.deletedDeposits[id] = dto.DeletedDepositRead{
		ID:            id,
		OriginalID:    create.OriginalID,
		ClientName:    create.ClientName,
		Amount:        create.Amount,
		OperationDate: create.OperationDate,
		Notes:         create.Notes,
		Status:        create.Status,
		DeletedBy:     create.DeletedBy,
		DeletedAt:     r.store.now(),
	}
	r.store.record("audit_create:deposit:%d", create.OriginalID)
	return nil
}

func (r *fakeDeletedDepositRepo) GetByOriginalID(_ context.Context, originalID int64) (*dto.DeletedDepositRead, error) {
	for _, d := range r.store.deletedDeposits {
		if d.OriginalID == originalID {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDeletedDepositRepo) SearchRestorable(
	_ context.Context,
	clientName string,
	amount decimal.Decimal,
	since time.Time,
) ([]dto.DeletedDepositRead, error) {
	var out []dto.DeletedDepositRead
	for _, d := range r.store.deletedDeposits {
		if d.ClientName == clientName && d.Amount.Equal(amount) && !d.DeletedAt.Before(since) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(out[j].DeletedAt) })
	return out, nil
}

func (r *fakeDeletedDepositRepo) Delete(_ context.Context, id int64) error {
	delete(r.store.deletedDeposits, id)
	r.store.record("audit_delete:deposit:%d", id)
	return nil
}

type fakeDeletedWithdrawalRepo struct{ store *memStore }

func (r *fakeDeletedWithdrawalRepo) Create(_ context.Context, create dto.DeletedWithdrawalCreate) error {
	if r.store.failAuditCreate {
		return errors.New("injected audit write failure")
	}
	id := r.store.id()
	r.store.deletedWithdrawals[id] = dto.DeletedWithdrawalRead{
		ID:            id,
		OriginalID:    create.OriginalID,
		ClientName:    create.ClientName,
		Amount:        create.Amount,
		OperationDate: create.OperationDate,
		Notes:         create.Notes,
		Status:        create.Status,
		DeletedBy:     create.DeletedBy,
		DeletedAt:     r.store.now(),
	}
	r.store.record("audit_create:withdrawal:%d", create.OriginalID)
	return nil
}

func (r *fakeDeletedWithdrawalRepo) GetByOriginalID(_ context.Context, originalID int64) (*dto.DeletedWithdrawalRead, error) {
	for _, w := range r.store.deletedWithdrawals {
		if w.OriginalID == originalID {
			return &w, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDeletedWithdrawalRepo) SearchRestorable(
	_ context.Context,
	clientName string,
	amount decimal.Decimal,
	since time.Time,
) ([]dto.DeletedWithdrawalRead, error) {
	var out []dto.DeletedWithdrawalRead
	for _, w := range r.store.deletedWithdrawals {
		if w.ClientName == clientName && w.Amount.Equal(amount) && !w.DeletedAt.Before(since) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(out[j].DeletedAt) })
	return out, nil
}

func (r *fakeDeletedWithdrawalRepo) Delete(_ context.Context, id int64) error {
	delete(r.store.deletedWithdrawals, id)
	r.store.record("audit_delete:withdrawal:%d", id)
	return nil
}

type fakeDeletedTransferRepo struct{ store *memStore }

func (r *fakeDeletedTransferRepo) Create(_ context.Context, create dto.DeletedTransferCreate) error {
	if r.store.failAuditCreate {
		return errors.New("injected audit write failure")
	}
	id := r.store.id()
	r.store.deletedTransfers[id] = dto.DeletedTransferRead{
		ID:             id,
		OriginalID:     create.OriginalID,
		FromClient:     create.FromClient,
		ToClient:       create.ToClient,
		Amount:         create.Amount,
		OperationDate:  create.OperationDate,
		Reason:         create.Reason,
		Status:         create.Status,
		SupersedesKind: create.SupersedesKind,
		SupersedesID:   create.SupersedesID,
		DeletedBy:      create.DeletedBy,
		DeletedAt:      r.store.now(),
	}
	r.store.record("audit_create:transfer:%d", create.OriginalID)
	return nil
}

func (r *fakeDeletedTransferRepo) GetByOriginalID(_ context.Context, originalID int64) (*dto.DeletedTransferRead, error) {
	for _, t := range r.store.deletedTransfers {
		if t.OriginalID == originalID {
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}
