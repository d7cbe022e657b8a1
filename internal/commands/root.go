// Package commands wires the cobra CLI: a thin presentation layer over the
// repository and budget calculator. Commands never touch the connection
// manager or validators directly; all user input goes through the
// repository's validation path as untrusted strings.
package commands

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rupeeone/internal/cache"
	"rupeeone/internal/config"
	"rupeeone/internal/core"
	"rupeeone/internal/services"
	"rupeeone/internal/storage"
)

// app holds the process-wide components, built once before any subcommand
// runs and torn down after it finishes.
type app struct {
	cfg    *config.Config
	db     *storage.DB
	repo   *storage.Repository
	budget *services.BudgetService
}

func (a *app) init() error {
	// .env is optional local convenience.
	_ = godotenv.Load()

	a.cfg = config.Load()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(a.cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	db, err := storage.Open(a.cfg.DBPath, storage.Options{
		MaxAttempts: a.cfg.ConnectAttempts,
		Backoff:     a.cfg.ConnectBackoff,
	})
	if err != nil {
		return err
	}
	a.db = db
	a.repo = storage.NewRepository(db, cache.NewMemo[[]core.Category]())
	a.budget = services.NewBudgetService(a.repo)
	return nil
}

func (a *app) close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "rupeeone",
		Short: "Personal finance tracker",
		Long:  "RupeeOne tracks expenses, income, categories and monthly budgets in a local SQLite store.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.AddCommand(newExpenseCommand(a))
	rootCmd.AddCommand(newIncomeCommand(a))
	rootCmd.AddCommand(newCategoryCommand(a))
	rootCmd.AddCommand(newBudgetCommand(a))
	rootCmd.AddCommand(newOverviewCommand(a))
	rootCmd.AddCommand(newSnapshotCommands(a)...)

	return rootCmd
}
