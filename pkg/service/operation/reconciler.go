package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/metrics"
	"github.com/hbenmansour/cashops/pkg/repository"
	"github.com/shopspring/decimal"
)

// restoreKey identifies the operation a deleted transfer had superseded.
// When the explicit supersedes link is present it is used directly; older
// transfers fall back to the (client name, amount, time window) heuristic
// inherited from the data.
type restoreKey struct {
	FromClient     string
	Amount         decimal.Decimal
	SupersedesKind *string
	SupersedesID   *int64
}

// Supersedes link kinds stored on transfer rows.
const (
	SupersedesDeposit    = "deposit"
	SupersedesWithdrawal = "withdrawal"
)

// Reconciler restores the deposit or withdrawal a deleted transfer had
// replaced: it searches the audit mirrors, re-inserts the match into its
// canonical collection with a freshly assigned id, and removes the audit row.
type Reconciler struct {
	uow       repository.UnitOfWork
	cfg       config.Reconcile
	logger    *slog.Logger
	collector metrics.Collector
	now       func() time.Time
}

// NewReconciler creates a Reconciler with the given restoration window
// configuration.
func NewReconciler(uow repository.UnitOfWork, cfg config.Reconcile, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		uow:       uow,
		cfg:       cfg,
		logger:    logger.With("component", "operation.reconciler"),
		collector: metrics.NoOpCollector{},
		now:       time.Now,
	}
}

// Restore attempts to resurrect the operation the deleted transfer had
// superseded. No match is a valid terminal outcome. Several heuristic
// matches are flagged as ambiguous for manual review unless
// AllowAmbiguousPick restores the legacy most-recent-wins behavior.
func (r *Reconciler) Restore(
	ctx context.Context,
	key restoreKey,
) (RestoreOutcome, domain.OpType, int64, error) {
	if key.SupersedesKind != nil && key.SupersedesID != nil {
		return r.restoreLinked(ctx, *key.SupersedesKind, *key.SupersedesID)
	}
	return r.restoreHeuristic(ctx, key)
}

// restoreLinked follows the explicit supersedes reference recorded at
// transfer creation time.
func (r *Reconciler) restoreLinked(
	ctx context.Context,
	kind string,
	originalID int64,
) (RestoreOutcome, domain.OpType, int64, error) {
	switch kind {
	case SupersedesDeposit:
		id, err := r.restoreDepositByOriginalID(ctx, originalID)
		return r.report(domain.OpDeposit, id, err)
	case SupersedesWithdrawal:
		id, err := r.restoreWithdrawalByOriginalID(ctx, originalID)
		return r.report(domain.OpWithdrawal, id, err)
	default:
		return RestoreFailure, "", 0, fmt.Errorf("%w: unknown supersedes kind %q", domain.ErrRestoreFailed, kind)
	}
}

// restoreHeuristic searches deleted_deposits first, then
// deleted_withdrawals, for rows matching the transfer's from-client and
// amount, deleted within the restoration window, most recent first.
func (r *Reconciler) restoreHeuristic(
	ctx context.Context,
	key restoreKey,
) (RestoreOutcome, domain.OpType, int64, error) {
	since := r.now().Add(-r.cfg.RestoreWindow)

	var (
		depCands []dto.DeletedDepositRead
		wdCands  []dto.DeletedWithdrawalRead
	)
	err := r.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		deletedDeposits, err := uow.DeletedDepositRepository()
		if err != nil {
			return err
		}
		depCands, err = deletedDeposits.SearchRestorable(ctx, key.FromClient, key.Amount, since)
		if err != nil || len(depCands) > 0 {
			return err
		}
		deletedWithdrawals, err := uow.DeletedWithdrawalRepository()
		if err != nil {
			return err
		}
		wdCands, err = deletedWithdrawals.SearchRestorable(ctx, key.FromClient, key.Amount, since)
		return err
	})
	if err != nil {
		return RestoreFailure, "", 0, fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}

	switch {
	case len(depCands) > 0:
		if r.ambiguous(len(depCands), key) {
			return RestoreAmbiguous, "", 0, nil
		}
		id, err := r.restoreDeposit(ctx, depCands[0])
		return r.report(domain.OpDeposit, id, err)
	case len(wdCands) > 0:
		if r.ambiguous(len(wdCands), key) {
			return RestoreAmbiguous, "", 0, nil
		}
		id, err := r.restoreWithdrawal(ctx, wdCands[0])
		return r.report(domain.OpWithdrawal, id, err)
	default:
		return RestoreNoCandidate, "", 0, nil
	}
}

func (r *Reconciler) ambiguous(candidates int, key restoreKey) bool {
	if candidates <= 1 || r.cfg.AllowAmbiguousPick {
		return false
	}
	r.logger.Warn("multiple restoration candidates, flagging for manual review",
		"client", key.FromClient,
		"amount", key.Amount,
		"candidates", candidates,
	)
	return true
}

func (r *Reconciler) report(t domain.OpType, id int64, err error) (RestoreOutcome, domain.OpType, int64, error) {
	if err != nil {
		return RestoreFailure, "", 0, err
	}
	if id == 0 {
		return RestoreNoCandidate, "", 0, nil
	}
	r.logger.Info("superseded operation restored", "type", t, "new_id", id)
	return RestoreRestored, t, id, nil
}

func (r *Reconciler) restoreDepositByOriginalID(ctx context.Context, originalID int64) (int64, error) {
	var newID int64
	err := r.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		audit, err := uow.DeletedDepositRepository()
		if err != nil {
			return err
		}
		row, err := audit.GetByOriginalID(ctx, originalID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		newID, err = r.reinsertDeposit(ctx, uow, audit, *row)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}
	return newID, nil
}

func (r *Reconciler) restoreWithdrawalByOriginalID(ctx context.Context, originalID int64) (int64, error) {
	var newID int64
	err := r.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		audit, err := uow.DeletedWithdrawalRepository()
		if err != nil {
			return err
		}
		row, err := audit.GetByOriginalID(ctx, originalID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		newID, err = r.reinsertWithdrawal(ctx, uow, audit, *row)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}
	return newID, nil
}

func (r *Reconciler) restoreDeposit(ctx context.Context, row dto.DeletedDepositRead) (int64, error) {
	var newID int64
	err := r.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		audit, err := uow.DeletedDepositRepository()
		if err != nil {
			return err
		}
		newID, err = r.reinsertDeposit(ctx, uow, audit, row)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}
	return newID, nil
}

func (r *Reconciler) restoreWithdrawal(ctx context.Context, row dto.DeletedWithdrawalRead) (int64, error) {
	var newID int64
	err := r.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		audit, err := uow.DeletedWithdrawalRepository()
		if err != nil {
			return err
		}
		newID, err = r.reinsertWithdrawal(ctx, uow, audit, row)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
	}
	return newID, nil
}

// reinsertDeposit re-creates the canonical row with a fresh id and removes
// the audit row, which is no longer "deleted". Runs inside the caller's
// transaction.
func (r *Reconciler) reinsertDeposit(
	ctx context.Context,
	uow repository.UnitOfWork,
	audit repository.DeletedDepositRepository,
	row dto.DeletedDepositRead,
) (int64, error) {
	deposits, err := uow.DepositRepository()
	if err != nil {
		return 0, err
	}
	newID, err := deposits.Create(ctx, dto.DepositCreate{
		ClientName:    row.ClientName,
		Amount:        row.Amount,
		OperationDate: row.OperationDate,
		Notes:         row.Notes,
		Status:        row.Status,
	})
	if err != nil {
		return 0, err
	}
	if err := audit.Delete(ctx, row.ID); err != nil {
		return 0, err
	}
	return newID, nil
}

func (r *Reconciler) reinsertWithdrawal(
	ctx context.Context,
	uow repository.UnitOfWork,
	audit repository.DeletedWithdrawalRepository,
	row dto.DeletedWithdrawalRead,
) (int64, error) {
	withdrawals, err := uow.WithdrawalRepository()
	if err != nil {
		return 0, err
	}
	newID, err := withdrawals.Create(ctx, dto.WithdrawalCreate{
		ClientName:    row.ClientName,
		Amount:        row.Amount,
		OperationDate: row.OperationDate,
		Notes:         row.Notes,
		Status:        row.Status,
	})
	if err != nil {
		return 0, err
	}
	if err := audit.Delete(ctx, row.ID); err != nil {
		return 0, err
	}
	return newID, nil
}
