package core

import (
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used everywhere: in the store,
	// on the wire and in user input.
	DateLayout = "2006-01-02"

	// MonthLayout is the year-month key format used for budgets and filters.
	MonthLayout = "2006-01"
)

type (
	// Date is a calendar date at day precision.
	Date struct {
		time.Time
	}

	// CategoryKind tells which ledger a category belongs to.
	CategoryKind string

	// Category is a unique, case-sensitive name plus the ledger it applies to.
	Category struct {
		Name string
		Kind CategoryKind
	}

	// Entry is one row of either ledger: an expense (outflow) or an income
	// (inflow). The two ledgers share a shape but live in independent tables
	// with independent identity spaces.
	Entry struct {
		ID       int64
		Date     Date
		Category string
		Amount   Money
		Note     string
	}

	// Budget is the monthly spending limit, at most one per month key.
	Budget struct {
		Month string
		Limit Money
	}

	// Filter narrows a ledger listing. Zero-valued fields are ignored;
	// set fields compose by logical AND.
	Filter struct {
		From     Date
		To       Date
		Category string
		Keyword  string
		Year     int
		Month    string
	}
)

const (
	KindExpense CategoryKind = "expense"
	KindIncome  CategoryKind = "income"
	KindShared  CategoryKind = "shared"
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an untrusted "YYYY-MM-DD" string. Malformed and
// impossible dates (2025-02-30) are rejected with a ValidationError.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	return Date{Time: t}, nil
}

// ParseMonth validates an untrusted "YYYY-MM" key and returns its canonical
// form.
func ParseMonth(s string) (string, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return "", &ValidationError{Field: "month", Reason: "must be a valid month in YYYY-MM format"}
	}
	return t.Format(MonthLayout), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the "YYYY-MM" key of the date's month.
func (d Date) MonthKey() string {
	return d.Format(MonthLayout)
}

// Validate rejects zero dates.
func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks an entry before it reaches storage. Category existence is
// a read against the store and is checked by the repository, not here.
func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	// Note is optional and unconstrained.
	return nil
}

// Validate checks a category's name and kind. Name uniqueness is enforced by
// the store and surfaced as an IntegrityError.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	switch c.Kind {
	case KindExpense, KindIncome, KindShared:
		return nil
	default:
		return &ValidationError{Field: "kind", Reason: "must be one of expense, income, shared"}
	}
}

// Validate checks a budget's month key and limit.
func (b Budget) Validate() error {
	if _, err := ParseMonth(b.Month); err != nil {
		return err
	}
	return b.Limit.Validate()
}
