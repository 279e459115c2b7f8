// Package domain holds the unified operation model shared by the ledger
// engine, the deletion recorder and the API layer. An Operation is a
// projection over the three canonical collections (deposits, withdrawals,
// transfers); it is never persisted directly.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpType discriminates the three canonical collections an Operation can
// originate from.
type OpType string

const (
	OpDeposit    OpType = "deposit"
	OpWithdrawal OpType = "withdrawal"
	OpTransfer   OpType = "transfer"
	// OpDirectTransfer is a historical variant kept for old rows; no current
	// flow produces it.
	OpDirectTransfer OpType = "direct_transfer"
)

// ParseOpType validates a type string coming from the outside (URL segment,
// query parameter).
func ParseOpType(s string) (OpType, bool) {
	switch OpType(s) {
	case OpDeposit, OpWithdrawal, OpTransfer, OpDirectTransfer:
		return OpType(s), true
	}
	return "", false
}

// StatusCompleted is the default lifecycle tag for canonical rows.
const StatusCompleted = "completed"

// Operation is the unified timeline entry. ID is only resolvable together
// with Type: the three collections have independent key spaces.
type Operation struct {
	ID     OperationID
	Type   OpType
	Amount decimal.Decimal

	// Date is the creation time; OperationDate, when set, is the
	// authoritative effective timestamp.
	Date          time.Time
	OperationDate *time.Time

	// Client is the display label: the client name for deposits and
	// withdrawals, "from → to" for transfers. FromClient/ToClient are set for
	// transfers only. These are display names, not foreign keys.
	Client     string
	FromClient string
	ToClient   string

	Description string
	Status      string
}

// EffectiveDate returns the operation date when present, the creation date
// otherwise. A zero return means the row carried no parsable date.
func (o Operation) EffectiveDate() time.Time {
	if o.OperationDate != nil && !o.OperationDate.IsZero() {
		return *o.OperationDate
	}
	return o.Date
}

// HasDate reports whether the operation carries a usable effective timestamp.
// Rows without one stay on the unfiltered timeline but never match a
// date-range filter.
func (o Operation) HasDate() bool {
	return !o.EffectiveDate().IsZero()
}
