// Package operation implements the deletion and audit recording of ledger
// operations, and the transfer reversal reconciliation that can restore the
// deposit or withdrawal a deleted transfer had superseded.
//
// Deletes are soft: the canonical row is copied into its audit mirror before
// removal, inside one transaction, so a crash can never lose the deleted
// data. Deletes are idempotent: a row that is already gone is a success, not
// an error, which is what makes concurrent duplicate delete requests safe
// without application-level locking.
package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/metrics"
	"github.com/hbenmansour/cashops/pkg/repository"
)

// RestoreOutcome describes what the reversal reconciler did after a transfer
// deletion.
type RestoreOutcome string

const (
	// RestoreNotApplicable: the deleted operation was not a transfer.
	RestoreNotApplicable RestoreOutcome = ""
	// RestoreRestored: a superseded operation was re-inserted.
	RestoreRestored RestoreOutcome = "restored"
	// RestoreNoCandidate: nothing matched; a valid terminal outcome.
	RestoreNoCandidate RestoreOutcome = "no_candidate"
	// RestoreAmbiguous: several audit rows matched; flagged for manual review
	// instead of silently picking one.
	RestoreAmbiguous RestoreOutcome = "ambiguous"
	// RestoreFailure: the restoration attempt errored. Non-fatal for the
	// transfer deletion itself.
	RestoreFailure RestoreOutcome = "failure"
)

// DeleteResult reports the outcome of a delete request.
type DeleteResult struct {
	// AlreadyDeleted is set when the canonical row was gone before this
	// request; the delete still counts as a success and writes no duplicate
	// audit row.
	AlreadyDeleted bool
	// Restore fields are populated for transfer deletions only.
	Restore      RestoreOutcome
	RestoredType domain.OpType
	RestoredID   int64
}

// Service performs the audit-then-delete sequence for each operation kind.
type Service struct {
	uow        repository.UnitOfWork
	reconciler *Reconciler
	logger     *slog.Logger
	collector  metrics.Collector
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCollector wires a metrics collector into the service and its
// reconciler.
func WithCollector(c metrics.Collector) ServiceOption {
	return func(s *Service) {
		s.collector = c
		s.reconciler.collector = c
	}
}

// WithClock overrides the reconciler's time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.reconciler.now = now }
}

// NewService creates the deletion recorder with its reversal reconciler.
func NewService(
	uow repository.UnitOfWork,
	cfg config.Reconcile,
	logger *slog.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		uow:        uow,
		reconciler: NewReconciler(uow, cfg, logger),
		logger:     logger.With("component", "operation.service"),
		collector:  metrics.NoOpCollector{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delete soft-deletes the given operation on behalf of actorID. The audit
// row is written strictly before the canonical row is removed; both run in
// one transaction. A missing canonical row is treated as already deleted and
// returns success. Transfer deletions additionally trigger the best-effort
// reversal reconciliation.
func (s *Service) Delete(
	ctx context.Context,
	op domain.Operation,
	actorID uuid.UUID,
) (*DeleteResult, error) {
	id := op.ID
	if id.Key <= 0 {
		parsed, err := domain.ParseOperationID(id.Raw)
		if err != nil {
			s.collector.DeleteCompleted(string(op.Type), "failure")
			return nil, err
		}
		id = parsed
	}
	logger := s.logger.With("type", op.Type, "id", id.Key, "actor", actorID)

	var (
		res *DeleteResult
		err error
	)
	switch op.Type {
	case domain.OpDeposit:
		res, err = s.deleteDeposit(ctx, id.Key, actorID)
	case domain.OpWithdrawal:
		res, err = s.deleteWithdrawal(ctx, id.Key, actorID)
	case domain.OpTransfer:
		res, err = s.deleteTransfer(ctx, id.Key, actorID, logger)
	default:
		return nil, fmt.Errorf("unsupported operation type %q", op.Type)
	}
	if err != nil {
		s.collector.DeleteCompleted(string(op.Type), "failure")
		logger.Error("delete failed", "error", err)
		return nil, err
	}

	outcome := "deleted"
	if res.AlreadyDeleted {
		outcome = "already_deleted"
	}
	s.collector.DeleteCompleted(string(op.Type), outcome)
	logger.Info("operation deleted", "already_deleted", res.AlreadyDeleted, "restore", res.Restore)
	return res, nil
}

func (s *Service) deleteDeposit(ctx context.Context, id int64, actorID uuid.UUID) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.DepositRepository()
		if err != nil {
			return err
		}
		audit, err := uow.DeletedDepositRepository()
		if err != nil {
			return err
		}

		row, err := repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			res.AlreadyDeleted = true
			return nil
		}
		if err != nil {
			return err
		}

		if err := audit.Create(ctx, dto.DeletedDepositCreate{
			OriginalID:    row.ID,
			ClientName:    row.ClientName,
			Amount:        row.Amount,
			OperationDate: row.OperationDate,
			Notes:         row.Notes,
			Status:        row.Status,
			DeletedBy:     actorID,
		}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrAuditWriteFailed, err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCanonicalDeleteFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) deleteWithdrawal(ctx context.Context, id int64, actorID uuid.UUID) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.WithdrawalRepository()
		if err != nil {
			return err
		}
		audit, err := uow.DeletedWithdrawalRepository()
		if err != nil {
			return err
		}

		row, err := repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			res.AlreadyDeleted = true
			return nil
		}
		if err != nil {
			return err
		}

		if err := audit.Create(ctx, dto.DeletedWithdrawalCreate{
			OriginalID:    row.ID,
			ClientName:    row.ClientName,
			Amount:        row.Amount,
			OperationDate: row.OperationDate,
			Notes:         row.Notes,
			Status:        row.Status,
			DeletedBy:     actorID,
		}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrAuditWriteFailed, err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCanonicalDeleteFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) deleteTransfer(
	ctx context.Context,
	id int64,
	actorID uuid.UUID,
	logger *slog.Logger,
) (*DeleteResult, error) {
	res := &DeleteResult{}
	var key *restoreKey

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		audit, err := uow.DeletedTransferRepository()
		if err != nil {
			return err
		}

		row, err := repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// Already deleted by a concurrent action. Restoration is still
			// attempted below, using the transfer's audit record as the
			// search key.
			res.AlreadyDeleted = true
			mirror, err := audit.GetByOriginalID(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			key = &restoreKey{
				FromClient:     mirror.FromClient,
				Amount:         mirror.Amount,
				SupersedesKind: mirror.SupersedesKind,
				SupersedesID:   mirror.SupersedesID,
			}
			return nil
		}
		if err != nil {
			return err
		}

		if err := audit.Create(ctx, dto.DeletedTransferCreate{
			OriginalID:     row.ID,
			FromClient:     row.FromClient,
			ToClient:       row.ToClient,
			Amount:         row.Amount,
			OperationDate:  row.OperationDate,
			Reason:         row.Reason,
			Status:         row.Status,
			SupersedesKind: row.SupersedesKind,
			SupersedesID:   row.SupersedesID,
			DeletedBy:      actorID,
		}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrAuditWriteFailed, err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCanonicalDeleteFailed, err)
		}
		key = &restoreKey{
			FromClient:     row.FromClient,
			Amount:         row.Amount,
			SupersedesKind: row.SupersedesKind,
			SupersedesID:   row.SupersedesID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if key == nil {
		// Nothing to reconcile against: the transfer left no trace.
		res.Restore = RestoreNoCandidate
		s.collector.RestoreCompleted(string(res.Restore))
		return res, nil
	}

	// The canonical delete has committed; the restoration search cannot see
	// the transfer as live anymore. Restoration is best-effort: its failure
	// never fails the deletion.
	outcome, restoredType, restoredID, rerr := s.reconciler.Restore(ctx, *key)
	res.Restore = outcome
	res.RestoredType = restoredType
	res.RestoredID = restoredID
	s.collector.RestoreCompleted(string(outcome))
	if rerr != nil {
		logger.Warn("restoration after transfer deletion failed", "error", rerr)
	}
	return res, nil
}
