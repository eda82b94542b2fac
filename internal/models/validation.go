package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldErrors maps a field name to the reason its value was rejected.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + e[field]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// DateOf strips the clock from t and returns midnight UTC of t's calendar
// day, the form every date column is stored in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// decimalFits reports why d does not fit a decimal(digits, places) column,
// or "" when it does.
func decimalFits(d decimal.Decimal, digits, places int) string {
	if !d.Equal(d.Round(int32(places))) {
		return fmt.Sprintf("must have at most %d decimal places", places)
	}
	whole := digits - places
	if d.Abs().GreaterThanOrEqual(decimal.New(1, int32(whole))) {
		return fmt.Sprintf("must have at most %d digits before the decimal point", whole)
	}
	return ""
}

// checkDecimal records a range or column-fit problem for field, keeping the
// first problem found.
func (e FieldErrors) checkDecimal(field string, d decimal.Decimal, digits, places int) {
	if _, seen := e[field]; seen {
		return
	}
	if msg := decimalFits(d, digits, places); msg != "" {
		e[field] = msg
	}
}
