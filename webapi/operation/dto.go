package operation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/ledger"
)

// ListOperationsQuery carries the timeline query parameters. Dates are
// calendar days; the range is inclusive on both ends.
type ListOperationsQuery struct {
	Type  string `query:"type" validate:"omitempty,oneof=deposit withdrawal transfer direct_transfer"`
	Q     string `query:"q"`
	From  string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To    string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Force bool   `query:"force"`
}

// Filter converts the validated query into a timeline filter.
func (q ListOperationsQuery) Filter() ledger.Filter {
	f := ledger.Filter{
		Type:  domain.OpType(q.Type),
		Query: q.Q,
	}
	if t, err := time.Parse("2006-01-02", q.From); err == nil && q.From != "" {
		f.From = &t
	}
	if t, err := time.Parse("2006-01-02", q.To); err == nil && q.To != "" {
		f.To = &t
	}
	return f
}

// OperationResponse is one timeline entry as served to the dashboard.
type OperationResponse struct {
	ID            string          `json:"id"`
	DisplayID     string          `json:"display_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	OperationDate *time.Time      `json:"operation_date,omitempty"`
	Client        string          `json:"client"`
	FromClient    string          `json:"from_client,omitempty"`
	ToClient      string          `json:"to_client,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
}

// TimelineResponse wraps the operations list with the fetch state. Stale is
// set when the last fetch cycle failed and the previous successful timeline
// is being served instead.
type TimelineResponse struct {
	Operations []OperationResponse `json:"operations"`
	State      string              `json:"state"`
	Stale      bool                `json:"stale"`
}

// DeleteResponse reports a soft delete and its reconciliation outcome.
type DeleteResponse struct {
	AlreadyDeleted bool   `json:"already_deleted"`
	Restore        string `json:"restore,omitempty"`
	RestoredType   string `json:"restored_type,omitempty"`
	RestoredID     int64  `json:"restored_id,omitempty"`
}

func toOperationResponse(op domain.Operation) OperationResponse {
	return OperationResponse{
		ID:            op.ID.Raw,
		DisplayID:     op.ID.Display(),
		Type:          string(op.Type),
		Amount:        op.Amount,
		Date:          op.Date,
		OperationDate: op.OperationDate,
		Client:        op.Client,
		FromClient:    op.FromClient,
		ToClient:      op.ToClient,
		Description:   op.Description,
		Status:        op.Status,
	}
}
