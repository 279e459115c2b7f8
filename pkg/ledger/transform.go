// Package ledger implements the operation timeline engine: transformation of
// the three backing collections into the unified operation model, merge with
// deduplication and ordering, filtering, aggregation, and the
// concurrency-controlled fetch orchestrator.
package ledger

import (
	"fmt"
	"strings"

	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
)

// Default descriptions used when a row carries no notes or reason.
const (
	defaultDepositDesc    = "Versement"
	defaultWithdrawalDesc = "Retrait"
	defaultTransferDesc   = "Virement"
)

// FromDeposit maps a deposits row to an Operation. Pure and total: missing
// fields get templated defaults, never an error.
func FromDeposit(d dto.DepositRead) domain.Operation {
	return domain.Operation{
		ID:            domain.NewOperationID(d.ID),
		Type:          domain.OpDeposit,
		Amount:        d.Amount,
		Date:          d.CreatedAt,
		OperationDate: d.OperationDate,
		Client:        d.ClientName,
		Description:   defaultDescription(d.Notes, defaultDepositDesc, d.ClientName),
		Status:        defaultStatus(d.Status),
	}
}

// FromWithdrawal maps a withdrawals row to an Operation.
func FromWithdrawal(w dto.WithdrawalRead) domain.Operation {
	return domain.Operation{
		ID:            domain.NewOperationID(w.ID),
		Type:          domain.OpWithdrawal,
		Amount:        w.Amount,
		Date:          w.CreatedAt,
		OperationDate: w.OperationDate,
		Client:        w.ClientName,
		Description:   defaultDescription(w.Notes, defaultWithdrawalDesc, w.ClientName),
		Status:        defaultStatus(w.Status),
	}
}

// FromTransfer maps a transfers row to an Operation. The single client label
// is "from → to".
func FromTransfer(t dto.TransferRead) domain.Operation {
	return domain.Operation{
		ID:            domain.NewOperationID(t.ID),
		Type:          domain.OpTransfer,
		Amount:        t.Amount,
		Date:          t.CreatedAt,
		OperationDate: t.OperationDate,
		Client:        fmt.Sprintf("%s → %s", t.FromClient, t.ToClient),
		FromClient:    t.FromClient,
		ToClient:      t.ToClient,
		Description:   defaultDescription(t.Reason, defaultTransferDesc, t.FromClient),
		Status:        defaultStatus(t.Status),
	}
}

func defaultDescription(notes, kind, client string) string {
	if s := strings.TrimSpace(notes); s != "" {
		return s
	}
	if client = strings.TrimSpace(client); client != "" {
		return kind + " - " + client
	}
	return kind
}

func defaultStatus(status string) string {
	if status == "" {
		return domain.StatusCompleted
	}
	return status
}
