package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  FlowType = "income"
	Expense FlowType = "expense"
)

type (
	// FlowType partitions records into income and expense.
	FlowType string

	// Record is one normalized bill line item. Records are immutable after
	// construction; every derived field is computed eagerly in NewRecord so
	// downstream consumers never see a half-normalized value.
	Record struct {
		Date        time.Time
		Amount      Money // signed, as parsed from the source
		AmountAbs   Money // derived: abs(Amount), never stored independently
		Flow        FlowType
		Category    string
		SubCategory string // may be empty
		Tag         string // may be empty

		// Derived grouping keys.
		Year        int
		MonthBucket string // zero-padded "YYYY-MM"; lexicographic == chronological
	}
)

var (
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidFlow   = errors.New("invalid flow type")
)

// Validate reports whether the flow type is one of the two recognized values.
func (f FlowType) Validate() error {
	switch f {
	case Income, Expense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFlow, string(f))
	}
}

// NewRecord builds a fully-normalized record from already-parsed values.
// The sign of amount is kept as parsed; sources differ on whether expense
// rows arrive pre-signed, so all aggregation downstream uses AmountAbs.
func NewRecord(date time.Time, amount Money, flow FlowType, category, subCategory, tag string) (Record, error) {
	if date.IsZero() {
		return Record{}, ErrZeroDate
	}
	if err := flow.Validate(); err != nil {
		return Record{}, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return Record{}, ErrEmptyCategory
	}

	return Record{
		Date:        date,
		Amount:      amount,
		AmountAbs:   amount.Abs(),
		Flow:        flow,
		Category:    category,
		SubCategory: strings.TrimSpace(subCategory),
		Tag:         strings.TrimSpace(tag),
		Year:        date.Year(),
		MonthBucket: MonthBucket(date),
	}, nil
}

// MonthBucket returns the sortable "YYYY-MM" grouping key for a date.
// Zero padding is mandatory: string order must equal chronological order.
func MonthBucket(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}
