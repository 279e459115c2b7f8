package ledger

import (
	"strings"
	"time"

	"github.com/hbenmansour/cashops/pkg/domain"
)

// Filter narrows an already-fetched timeline. Zero values mean "no
// constraint"; all set constraints are ANDed.
type Filter struct {
	// Type matches exactly; empty means all types.
	Type domain.OpType
	// Query is a comma-separated list of terms. An operation matches when any
	// term is a case-insensitive substring of any searchable field: raw id,
	// padded display id, client label, from/to client, description, or the
	// string form of the amount.
	Query string
	// From and To bound the effective timestamp, inclusive, normalized to day
	// boundaries so a calendar-day range covers both endpoints regardless of
	// time-of-day. Rows without a usable date never match a date constraint.
	From *time.Time
	To   *time.Time
}

// Apply returns the operations matching the filter, preserving order. The
// input slice is never mutated.
func Apply(ops []domain.Operation, f Filter) []domain.Operation {
	terms := splitTerms(f.Query)
	var from, to time.Time
	if f.From != nil {
		from = startOfDay(*f.From)
	}
	if f.To != nil {
		to = endOfDay(*f.To)
	}

	out := make([]domain.Operation, 0, len(ops))
	for _, op := range ops {
		if f.Type != "" && op.Type != f.Type {
			continue
		}
		if len(terms) > 0 && !matchesAnyTerm(op, terms) {
			continue
		}
		if f.From != nil || f.To != nil {
			if !op.HasDate() {
				continue
			}
			d := op.EffectiveDate()
			if f.From != nil && d.Before(from) {
				continue
			}
			if f.To != nil && d.After(to) {
				continue
			}
		}
		out = append(out, op)
	}
	return out
}

func splitTerms(query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	parts := strings.Split(query, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

func matchesAnyTerm(op domain.Operation, terms []string) bool {
	fields := []string{
		strings.ToLower(op.ID.Raw),
		strings.ToLower(op.ID.Display()),
		strings.ToLower(op.Client),
		strings.ToLower(op.FromClient),
		strings.ToLower(op.ToClient),
		strings.ToLower(op.Description),
		op.Amount.String(),
	}
	for _, term := range terms {
		for _, field := range fields {
			if field != "" && strings.Contains(field, term) {
				return true
			}
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
