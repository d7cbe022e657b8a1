// Package services holds the derived-aggregate layer on top of the
// repository: read-only computations the UI consumes directly.
package services

import (
	"context"
	"fmt"

	"rupeeone/internal/core"
)

// BudgetReader is the slice of the repository the calculator needs.
type BudgetReader interface {
	Budget(ctx context.Context, month string) (core.Budget, bool, error)
	ListExpenses(ctx context.Context, f core.Filter) ([]core.Entry, error)
}

// BudgetService derives per-month spending-vs-limit state from repository
// reads. It holds no state of its own.
type BudgetService struct {
	repo BudgetReader
}

func NewBudgetService(repo BudgetReader) *BudgetService {
	return &BudgetService{repo: repo}
}

// Status reports the month's limit, spending and remaining headroom.
// Spent is the sum of expense amounts in the month. Without a budget row
// the state is BudgetNone and spent is still reported; otherwise the state
// is BudgetOnTrack while spent <= limit and BudgetOver beyond it.
func (s *BudgetService) Status(ctx context.Context, month string) (core.BudgetStatus, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return core.BudgetStatus{}, err
	}

	expenses, err := s.repo.ListExpenses(ctx, core.Filter{Month: month})
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("sum month expenses: %w", err)
	}
	var spent core.Money
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}

	status := core.BudgetStatus{Month: month, Spent: spent}

	budget, found, err := s.repo.Budget(ctx, month)
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("read budget: %w", err)
	}
	if !found {
		status.State = core.BudgetNone
		return status, nil
	}

	status.Limit = budget.Limit
	status.Remaining = budget.Limit.Sub(spent)
	if spent.Cents > budget.Limit.Cents {
		status.State = core.BudgetOver
	} else {
		status.State = core.BudgetOnTrack
	}
	return status, nil
}
