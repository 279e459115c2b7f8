package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// OperationID is the tagged identifier of an operation. Raw keeps the
// identifier exactly as it arrived; Key is the normalized positive integer
// key, or 0 when the identifier has no numeric normalization (opaque
// external keys). It is computed once at ingestion and never re-parsed.
type OperationID struct {
	Raw string
	Key int64
}

// NewOperationID builds an OperationID from an already-numeric key.
func NewOperationID(key int64) OperationID {
	return OperationID{Raw: strconv.FormatInt(key, 10), Key: key}
}

// ParseOperationID normalizes an identifier of unknown shape into a positive
// integer key. Accepted shapes, tried in order: bare numeric ("42"),
// dash-prefixed ("withdrawal-42", last segment wins), letters+digits with no
// separator ("wit42"), and finally the whole string as an integer. Any shape
// that does not yield a positive integer fails with ErrInvalidIDFormat.
func ParseOperationID(raw string) (OperationID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return OperationID{}, fmt.Errorf("%w: empty identifier", ErrInvalidIDFormat)
	}

	if key, err := strconv.ParseInt(s, 10, 64); err == nil {
		return checkKey(raw, key)
	}

	if i := strings.LastIndex(s, "-"); i >= 0 {
		tail := s[i+1:]
		key, err := strconv.ParseInt(tail, 10, 64)
		if err != nil {
			return OperationID{}, fmt.Errorf("%w: %q", ErrInvalidIDFormat, raw)
		}
		return checkKey(raw, key)
	}

	if digits := stripNonDigits(s); digits != "" && digits != s {
		key, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return OperationID{}, fmt.Errorf("%w: %q", ErrInvalidIDFormat, raw)
		}
		return checkKey(raw, key)
	}

	return OperationID{}, fmt.Errorf("%w: %q", ErrInvalidIDFormat, raw)
}

func checkKey(raw string, key int64) (OperationID, error) {
	if key <= 0 {
		return OperationID{}, fmt.Errorf("%w: %q", ErrInvalidIDFormat, raw)
	}
	return OperationID{Raw: raw, Key: key}, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Display returns the padded display form: the numeric key left-padded with
// zeros to 6 digits, or the first 6 characters of the raw identifier when no
// numeric normalization exists.
func (id OperationID) Display() string {
	if id.Key > 0 {
		return fmt.Sprintf("%06d", id.Key)
	}
	if len(id.Raw) > 6 {
		return id.Raw[:6]
	}
	return id.Raw
}

func (id OperationID) String() string { return id.Raw }
