package ledger

import (
	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/shopspring/decimal"
)

// TypeStats aggregates one operation type.
type TypeStats struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Stats holds the dashboard aggregates over a (possibly filtered) timeline.
type Stats struct {
	Deposits    TypeStats `json:"deposits"`
	Withdrawals TypeStats `json:"withdrawals"`
	Transfers   TypeStats `json:"transfers"`
	Count       int       `json:"count"`
}

// ComputeStats tallies count and decimal-exact amount totals per type.
func ComputeStats(ops []domain.Operation) Stats {
	s := Stats{
		Deposits:    TypeStats{Total: decimal.Zero},
		Withdrawals: TypeStats{Total: decimal.Zero},
		Transfers:   TypeStats{Total: decimal.Zero},
	}
	for _, op := range ops {
		s.Count++
		switch op.Type {
		case domain.OpDeposit:
			s.Deposits.Count++
			s.Deposits.Total = s.Deposits.Total.Add(op.Amount)
		case domain.OpWithdrawal:
			s.Withdrawals.Count++
			s.Withdrawals.Total = s.Withdrawals.Total.Add(op.Amount)
		case domain.OpTransfer, domain.OpDirectTransfer:
			s.Transfers.Count++
			s.Transfers.Total = s.Transfers.Total.Add(op.Amount)
		}
	}
	return s
}
