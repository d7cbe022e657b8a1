package services

import (
	"context"
	"testing"

	"rupeeone/internal/core"
)

// fakeReader serves canned repository reads.
type fakeReader struct {
	budgets  map[string]core.Budget
	expenses []core.Entry
}

func (f *fakeReader) Budget(_ context.Context, month string) (core.Budget, bool, error) {
	b, ok := f.budgets[month]
	return b, ok, nil
}

func (f *fakeReader) ListExpenses(_ context.Context, filter core.Filter) ([]core.Entry, error) {
	var out []core.Entry
	for _, e := range f.expenses {
		if filter.Month == "" || e.Date.MonthKey() == filter.Month {
			out = append(out, e)
		}
	}
	return out, nil
}

func expense(date core.Date, cents int64) core.Entry {
	return core.Entry{Date: date, Category: "Food", Amount: core.Money{Cents: cents}}
}

func TestStatusOverBudget(t *testing.T) {
	repo := &fakeReader{
		budgets: map[string]core.Budget{
			"2025-07": {Month: "2025-07", Limit: core.Money{Cents: 100000}},
		},
		expenses: []core.Entry{
			expense(core.NewDate(2025, 7, 5), 70000),
			expense(core.NewDate(2025, 7, 20), 50000),
		},
	}

	got, err := NewBudgetService(repo).Status(context.Background(), "2025-07")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if got.State != core.BudgetOver {
		t.Errorf("state = %q, want %q", got.State, core.BudgetOver)
	}
	if got.Spent.Cents != 120000 {
		t.Errorf("spent = %d, want 120000", got.Spent.Cents)
	}
	if got.Remaining.Cents != -20000 {
		t.Errorf("remaining = %d, want -20000", got.Remaining.Cents)
	}
	if got.Remaining.String() != "-200.00" {
		t.Errorf("remaining = %q, want -200.00", got.Remaining.String())
	}
}

func TestStatusOnTrack(t *testing.T) {
	repo := &fakeReader{
		budgets: map[string]core.Budget{
			"2025-07": {Month: "2025-07", Limit: core.Money{Cents: 100000}},
		},
		expenses: []core.Entry{expense(core.NewDate(2025, 7, 5), 40000)},
	}

	got, err := NewBudgetService(repo).Status(context.Background(), "2025-07")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.State != core.BudgetOnTrack {
		t.Errorf("state = %q, want %q", got.State, core.BudgetOnTrack)
	}
	if got.Remaining.Cents != 60000 {
		t.Errorf("remaining = %d, want 60000", got.Remaining.Cents)
	}
}

func TestStatusSpentEqualsLimitIsOnTrack(t *testing.T) {
	repo := &fakeReader{
		budgets: map[string]core.Budget{
			"2025-07": {Month: "2025-07", Limit: core.Money{Cents: 50000}},
		},
		expenses: []core.Entry{expense(core.NewDate(2025, 7, 1), 50000)},
	}

	got, err := NewBudgetService(repo).Status(context.Background(), "2025-07")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.State != core.BudgetOnTrack {
		t.Errorf("spent == limit must be on_track, got %q", got.State)
	}
	if got.Remaining.Cents != 0 {
		t.Errorf("remaining = %d, want 0", got.Remaining.Cents)
	}
}

func TestStatusNoBudget(t *testing.T) {
	repo := &fakeReader{
		budgets:  map[string]core.Budget{},
		expenses: []core.Entry{expense(core.NewDate(2025, 7, 5), 130000)},
	}

	got, err := NewBudgetService(repo).Status(context.Background(), "2025-07")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.State != core.BudgetNone {
		t.Errorf("state = %q, want %q", got.State, core.BudgetNone)
	}
	if got.Spent.Cents != 130000 {
		t.Errorf("spent must still be reported without a budget, got %d", got.Spent.Cents)
	}
	if got.Limit.Cents != 0 || got.Remaining.Cents != 0 {
		t.Errorf("limit/remaining must stay zero without a budget: %+v", got)
	}
}

func TestStatusIgnoresOtherMonths(t *testing.T) {
	repo := &fakeReader{
		budgets: map[string]core.Budget{
			"2025-07": {Month: "2025-07", Limit: core.Money{Cents: 100000}},
		},
		expenses: []core.Entry{
			expense(core.NewDate(2025, 6, 30), 99999),
			expense(core.NewDate(2025, 7, 1), 10000),
			expense(core.NewDate(2025, 8, 1), 99999),
		},
	}

	got, err := NewBudgetService(repo).Status(context.Background(), "2025-07")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.Spent.Cents != 10000 {
		t.Errorf("spent = %d, want 10000", got.Spent.Cents)
	}
}

func TestStatusRejectsMalformedMonth(t *testing.T) {
	_, err := NewBudgetService(&fakeReader{}).Status(context.Background(), "07-2025")
	if err == nil {
		t.Fatal("malformed month must be rejected")
	}
}
