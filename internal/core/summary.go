package core

// BudgetState classifies a month's spending against its budget.
type BudgetState string

const (
	BudgetNone    BudgetState = "no_budget"
	BudgetOnTrack BudgetState = "on_track"
	BudgetOver    BudgetState = "over_budget"
)

// BudgetStatus is the derived spending-vs-limit state for one month.
// When State is BudgetNone, Spent is still reported but Limit and Remaining
// are meaningless and left zero.
type BudgetStatus struct {
	Month     string
	Limit     Money
	Spent     Money
	Remaining Money
	State     BudgetState
}

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact expense summary for a specific month.
type MonthOverview struct {
	Month      string
	Total      Money
	ByCategory []CategoryAmount
}
