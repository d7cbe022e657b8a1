package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes a fresh root command against a temp store and returns its
// combined output. Each invocation opens and closes the store like a real
// CLI run would.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("RUPEEONE_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("RUPEEONE_LOG_LEVEL", "error")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"expense", "income", "category", "budget", "overview", "backup", "restore"} {
		assert.Contains(t, names, want)
	}
}

func TestExpenseAddAndListFlow(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "expense", "add",
		"--date", "2025-07-15", "--category", "Food", "--amount", "12.50", "--note", "lunch")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added expense #1")

	out, err = run(t, "expense", "list", "--month", "2025-07")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-07-15")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "lunch")
}

func TestExpenseAddRejectsBadAmount(t *testing.T) {
	useTempStore(t)

	_, err := run(t, "expense", "add",
		"--date", "2025-07-15", "--category", "Food", "--amount", "-5")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "amount"))
}

func TestBudgetStatusFlow(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "budget", "set", "2025-07", "1000")
	require.NoError(t, err, out)

	out, err = run(t, "expense", "add",
		"--date", "2025-07-10", "--category", "Rent", "--amount", "1200")
	require.NoError(t, err, out)

	out, err = run(t, "budget", "status", "2025-07")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1200.00")
	assert.Contains(t, out, "-200.00")
	assert.Contains(t, out, "over budget")
}

func TestCategoryListShowsSeed(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "category", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Salary")
}
