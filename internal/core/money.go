// Package core holds the domain model of the finance tracker: dates, money,
// ledger entries, categories, budgets and the validation rules that guard
// every mutation before it reaches storage.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact amount in cents. All arithmetic happens on integer cents;
// decimals are only materialized at the parsing and formatting boundaries.
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// ParseAmount converts an untrusted amount string into Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up on the third decimal place. Zero, negative and non-numeric inputs
// are rejected with a ValidationError.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, &ValidationError{Field: "amount", Reason: "must not be empty"}
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Reason: "must be a number"}
	}
	if !d.IsPositive() {
		return Money{}, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() {
		// Positive but rounds to zero cents, e.g. "0.001".
		return Money{}, &ValidationError{Field: "amount", Reason: "must be at least 0.01"}
	}
	if !cents.BigInt().IsInt64() {
		return Money{}, &ValidationError{Field: "amount", Reason: "too large"}
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the exact decimal value (two fractional digits).
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Validate rejects non-positive amounts. Stored entries and budget limits
// must always carry a strictly positive amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return nil
}
