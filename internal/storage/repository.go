package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"rupeeone/internal/cache"
	"rupeeone/internal/core"
)

const (
	tableExpenses = "expenses"
	tableIncome   = "income"
)

// Repository exposes per-entity CRUD over the store. Every mutation is
// validated before it reaches a statement, and every category mutation
// invalidates the injected category cache before returning.
type Repository struct {
	db         *DB
	categories *cache.Memo[[]core.Category]
}

// NewRepository wires the repository to its store and category cache. The
// cache is constructed once per process and injected here rather than held
// as a package global.
func NewRepository(db *DB, categories *cache.Memo[[]core.Category]) *Repository {
	return &Repository{db: db, categories: categories}
}

// --- Expense ledger ---

func (r *Repository) AddExpense(ctx context.Context, e core.Entry) (int64, error) {
	return r.addEntry(ctx, tableExpenses, e)
}

func (r *Repository) ListExpenses(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	return r.listEntries(ctx, tableExpenses, f)
}

func (r *Repository) UpdateExpense(ctx context.Context, id int64, e core.Entry) error {
	return r.updateEntry(ctx, tableExpenses, id, e)
}

func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteEntry(ctx, tableExpenses, id)
}

// ExpenseYears returns the distinct years present in the expense ledger,
// newest first.
func (r *Repository) ExpenseYears(ctx context.Context) ([]int, error) {
	return r.entryYears(ctx, tableExpenses)
}

// --- Income ledger ---

func (r *Repository) AddIncome(ctx context.Context, e core.Entry) (int64, error) {
	return r.addEntry(ctx, tableIncome, e)
}

func (r *Repository) ListIncome(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	return r.listEntries(ctx, tableIncome, f)
}

func (r *Repository) UpdateIncome(ctx context.Context, id int64, e core.Entry) error {
	return r.updateEntry(ctx, tableIncome, id, e)
}

func (r *Repository) DeleteIncome(ctx context.Context, id int64) error {
	return r.deleteEntry(ctx, tableIncome, id)
}

// IncomeYears returns the distinct years present in the income ledger,
// newest first.
func (r *Repository) IncomeYears(ctx context.Context) ([]int, error) {
	return r.entryYears(ctx, tableIncome)
}

// --- Shared ledger plumbing ---

func entityName(table string) string {
	if table == tableIncome {
		return "income"
	}
	return "expense"
}

func (r *Repository) addEntry(ctx context.Context, table string, e core.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if err := r.requireCategory(ctx, e.Category); err != nil {
		return 0, err
	}

	res, err := r.db.Execute(ctx,
		"INSERT INTO "+table+" (date, category, amount_cents, note) VALUES (?, ?, ?, ?)",
		e.Date.String(), e.Category, e.Amount.Cents, e.Note)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", entityName(table), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s id: %w", entityName(table), err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"ledger", entityName(table),
		"id", id,
		"date", e.Date.String(),
		"category", e.Category,
		"amount_cents", e.Amount.Cents)
	return id, nil
}

func (r *Repository) listEntries(ctx context.Context, table string, f core.Filter) ([]core.Entry, error) {
	query := "SELECT id, date, category, amount_cents, note FROM " + table + " WHERE 1=1"
	var args []any

	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.To.String())
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Keyword != "" {
		query += " AND note LIKE ?"
		args = append(args, "%"+f.Keyword+"%")
	}
	if f.Year != 0 {
		query += " AND strftime('%Y', date) = ?"
		args = append(args, fmt.Sprintf("%04d", f.Year))
	}
	if f.Month != "" {
		month, err := core.ParseMonth(f.Month)
		if err != nil {
			return nil, err
		}
		query += " AND strftime('%Y-%m', date) = ?"
		args = append(args, month)
	}
	query += " ORDER BY date DESC, id ASC"

	var entries []core.Entry
	err := r.db.Select(ctx, query, func(rows *sql.Rows) error {
		var (
			e       core.Entry
			dateStr string
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Category, &e.Amount.Cents, &e.Note); err != nil {
			return err
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		e.Date = d
		entries = append(entries, e)
		return nil
	}, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entityName(table), err)
	}
	return entries, nil
}

func (r *Repository) updateEntry(ctx context.Context, table string, id int64, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := r.requireCategory(ctx, e.Category); err != nil {
		return err
	}

	res, err := r.db.Execute(ctx,
		"UPDATE "+table+" SET date = ?, category = ?, amount_cents = ?, note = ? WHERE id = ?",
		e.Date.String(), e.Category, e.Amount.Cents, e.Note, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", entityName(table), err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update %s: %w", entityName(table), err)
	} else if n == 0 {
		return &core.NotFoundError{Entity: entityName(table), Key: strconv.FormatInt(id, 10)}
	}

	slog.InfoContext(ctx, "Entry updated", "ledger", entityName(table), "id", id)
	return nil
}

func (r *Repository) deleteEntry(ctx context.Context, table string, id int64) error {
	res, err := r.db.Execute(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", entityName(table), err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete %s: %w", entityName(table), err)
	} else if n == 0 {
		return &core.NotFoundError{Entity: entityName(table), Key: strconv.FormatInt(id, 10)}
	}

	slog.InfoContext(ctx, "Entry deleted", "ledger", entityName(table), "id", id)
	return nil
}

func (r *Repository) entryYears(ctx context.Context, table string) ([]int, error) {
	var years []int
	err := r.db.Select(ctx,
		"SELECT DISTINCT strftime('%Y', date) FROM "+table+" ORDER BY 1 DESC",
		func(rows *sql.Rows) error {
			var y string
			if err := rows.Scan(&y); err != nil {
				return err
			}
			n, err := strconv.Atoi(y)
			if err != nil {
				return fmt.Errorf("stored year %q: %w", y, err)
			}
			years = append(years, n)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("%s years: %w", entityName(table), err)
	}
	return years, nil
}

// --- Categories ---

// Categories returns the full category list ordered by name, served from
// the cache when warm.
func (r *Repository) Categories(ctx context.Context) ([]core.Category, error) {
	return r.categories.Get(func() ([]core.Category, error) {
		var cats []core.Category
		err := r.db.Select(ctx,
			"SELECT name, kind FROM categories ORDER BY name ASC",
			func(rows *sql.Rows) error {
				var c core.Category
				if err := rows.Scan(&c.Name, &c.Kind); err != nil {
					return err
				}
				cats = append(cats, c)
				return nil
			})
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		return cats, nil
	})
}

// requireCategory enforces the soft reference: an entry may only name a
// category that exists at write time. Case-sensitive, like the store key.
func (r *Repository) requireCategory(ctx context.Context, name string) error {
	cats, err := r.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		if c.Name == name {
			return nil
		}
	}
	return &core.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", name)}
}

func (r *Repository) AddCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if _, err := r.db.Execute(ctx,
		"INSERT INTO categories (name, kind) VALUES (?, ?)", c.Name, c.Kind); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	r.categories.Invalidate()

	slog.InfoContext(ctx, "Category added", "name", c.Name, "kind", string(c.Kind))
	return nil
}

// RenameCategory renames a category and cascades the new name to every
// expense and income row that referenced the old one.
func (r *Repository) RenameCategory(ctx context.Context, oldName, newName string) error {
	if err := (core.Category{Name: newName, Kind: core.KindExpense}).Validate(); err != nil {
		return err
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE categories SET name = ? WHERE name = ?", newName, oldName)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return &core.NotFoundError{Entity: "category", Key: oldName}
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE expenses SET category = ? WHERE category = ?", newName, oldName); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE income SET category = ? WHERE category = ?", newName, oldName)
		return err
	})
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	r.categories.Invalidate()

	slog.InfoContext(ctx, "Category renamed", "old", oldName, "new", newName)
	return nil
}

// DeleteCategory removes a category. Deletion is blocked while any expense
// or income row references the name; the reference check immediately
// precedes the delete within the same logical operation.
func (r *Repository) DeleteCategory(ctx context.Context, name string) error {
	var refs int64
	err := r.db.Select(ctx,
		`SELECT (SELECT COUNT(*) FROM expenses WHERE category = ?)
		      + (SELECT COUNT(*) FROM income WHERE category = ?)`,
		func(rows *sql.Rows) error {
			return rows.Scan(&refs)
		}, name, name)
	if err != nil {
		return fmt.Errorf("count category references: %w", err)
	}
	if refs > 0 {
		return &core.ReferentialIntegrityError{Category: name, Refs: refs}
	}

	res, err := r.db.Execute(ctx, "DELETE FROM categories WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete category: %w", err)
	} else if n == 0 {
		return &core.NotFoundError{Entity: "category", Key: name}
	}
	r.categories.Invalidate()

	slog.InfoContext(ctx, "Category deleted", "name", name)
	return nil
}

// --- Budgets ---

// SetBudget upserts the limit for a month: one budget row per month key,
// a second Set overwrites the first.
func (r *Repository) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	month, err := core.ParseMonth(b.Month)
	if err != nil {
		return err
	}

	if _, err := r.db.Execute(ctx,
		`INSERT INTO budgets (month, limit_cents) VALUES (?, ?)
		 ON CONFLICT(month) DO UPDATE SET limit_cents = excluded.limit_cents`,
		month, b.Limit.Cents); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set", "month", month, "limit_cents", b.Limit.Cents)
	return nil
}

// Budget returns the budget for a month. The second return is false when no
// budget row exists for the key.
func (r *Repository) Budget(ctx context.Context, month string) (core.Budget, bool, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return core.Budget{}, false, err
	}

	var (
		b     core.Budget
		found bool
	)
	err = r.db.Select(ctx,
		"SELECT month, limit_cents FROM budgets WHERE month = ?",
		func(rows *sql.Rows) error {
			found = true
			return rows.Scan(&b.Month, &b.Limit.Cents)
		}, month)
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("get budget: %w", err)
	}
	return b, found, nil
}

// Budgets lists every budget row, oldest month first.
func (r *Repository) Budgets(ctx context.Context) ([]core.Budget, error) {
	var budgets []core.Budget
	err := r.db.Select(ctx,
		"SELECT month, limit_cents FROM budgets ORDER BY month ASC",
		func(rows *sql.Rows) error {
			var b core.Budget
			if err := rows.Scan(&b.Month, &b.Limit.Cents); err != nil {
				return err
			}
			budgets = append(budgets, b)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// --- Snapshots ---

// ExportSnapshot streams a backup of the full store to w.
func (r *Repository) ExportSnapshot(ctx context.Context, w io.Writer) error {
	return r.db.ExportSnapshot(ctx, w)
}

// RestoreSnapshot replaces the store contents from a backup and discards
// all derived in-memory state so no pre-restore category list survives.
func (r *Repository) RestoreSnapshot(src io.Reader) error {
	if err := r.db.ImportSnapshot(src); err != nil {
		return err
	}
	r.categories.Invalidate()
	return nil
}

// MonthOverview aggregates the month's expenses by category, largest first.
func (r *Repository) MonthOverview(ctx context.Context, month string) (core.MonthOverview, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return core.MonthOverview{}, err
	}

	overview := core.MonthOverview{Month: month}
	err = r.db.Select(ctx,
		`SELECT category, SUM(amount_cents) FROM expenses
		 WHERE strftime('%Y-%m', date) = ?
		 GROUP BY category ORDER BY SUM(amount_cents) DESC, category ASC`,
		func(rows *sql.Rows) error {
			var ca core.CategoryAmount
			if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
				return err
			}
			overview.ByCategory = append(overview.ByCategory, ca)
			overview.Total = overview.Total.Add(ca.Amount)
			return nil
		}, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("month overview: %w", err)
	}
	return overview, nil
}
