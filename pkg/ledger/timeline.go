package ledger

import (
	"sort"

	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
)

// BuildTimeline normalizes the three collections into one timeline:
// transform, dedup by (type, id) with the first occurrence winning, then a
// stable sort by effective timestamp, most recent first. Rows without a
// usable date sort last, never ahead of dated entries.
func BuildTimeline(
	deposits []dto.DepositRead,
	withdrawals []dto.WithdrawalRead,
	transfers []dto.TransferRead,
) []domain.Operation {
	ops := make([]domain.Operation, 0, len(deposits)+len(withdrawals)+len(transfers))
	for _, d := range deposits {
		ops = append(ops, FromDeposit(d))
	}
	for _, w := range withdrawals {
		ops = append(ops, FromWithdrawal(w))
	}
	for _, t := range transfers {
		ops = append(ops, FromTransfer(t))
	}
	return SortTimeline(Dedupe(ops))
}

type dedupeKey struct {
	opType domain.OpType
	raw    string
}

// Dedupe drops later duplicates of the same (type, id) pair, keeping the
// first-seen value. Overlapping fetch retries can legitimately produce
// duplicates; they are dropped silently.
func Dedupe(ops []domain.Operation) []domain.Operation {
	seen := make(map[dedupeKey]struct{}, len(ops))
	out := ops[:0:len(ops)]
	for _, op := range ops {
		k := dedupeKey{opType: op.Type, raw: op.ID.Raw}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, op)
	}
	return out
}

// SortTimeline orders operations by effective timestamp descending. The sort
// is stable: ties keep arrival order, and undated rows (zero effective
// timestamp) end up after every dated one.
func SortTimeline(ops []domain.Operation) []domain.Operation {
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].EffectiveDate().After(ops[j].EffectiveDate())
	})
	return ops
}
