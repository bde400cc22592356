package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"mission-control/internal/config"
	"mission-control/internal/repository"
	"mission-control/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDay = "2024-05-01"

// setupTestCLI returns a runner executing mc against one shared in-memory table.
func setupTestCLI(t *testing.T) (func(args ...string) (string, error), *memory.Table) {
	t.Helper()
	t.Setenv("MC_REMINDERS_TIMEZONE", "UTC")

	original := timeNow
	timeNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = original })

	table := memory.New()
	run := func(args ...string) (string, error) {
		root := NewRootCommand(RootOptions{
			Loader: config.NewLoader().WithEnvFiles(),
			OpenTable: func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Table, error) {
				return table, nil
			},
			Logger: zap.NewNop(),
		})
		var out bytes.Buffer
		root.Command().SetOut(&out)
		root.Command().SetErr(&out)
		root.Command().SetArgs(append([]string{"--backend", "memory"}, args...))
		err := root.Execute()
		return out.String(), err
	}
	return run, table
}

func TestRootCommand_OverridesFromFlags(t *testing.T) {
	root := NewRootCommand(RootOptions{})
	flags := root.Command().PersistentFlags()
	require.NoError(t, flags.Parse([]string{"--backend", "sqlite", "--port", "9090", "--app-timeout", "5s"}))

	overrides := root.overridesFromFlags()

	require.NotNil(t, overrides.Backend)
	assert.Equal(t, "sqlite", *overrides.Backend)
	require.NotNil(t, overrides.Port)
	assert.Equal(t, 9090, *overrides.Port)
	require.NotNil(t, overrides.Timeout)
	assert.Equal(t, 5*time.Second, *overrides.Timeout)
	assert.Nil(t, overrides.Host, "unset flags do not override")
	assert.Nil(t, overrides.Verbose)
}

func TestRootCommand_InvalidConfiguration(t *testing.T) {
	run, _ := setupTestCLI(t)

	_, err := run("--backend", "paper", "available", "ada")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRootCommand_HelpSkipsTable(t *testing.T) {
	opened := false
	root := NewRootCommand(RootOptions{
		Loader: config.NewLoader().WithEnvFiles(),
		OpenTable: func(context.Context, *config.Config, *zap.Logger) (repository.Table, error) {
			opened = true
			return memory.New(), nil
		},
		Logger: zap.NewNop(),
	})
	var out bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.False(t, opened)
	assert.Contains(t, out.String(), "mc missions list")
}

func TestRegisterAndAvailable(t *testing.T) {
	run, table := setupTestCLI(t)

	out, err := run("available", "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada is available\n", out)

	out, err = run("register", "ada", "--password", "Launch#2024", "--question", "Favourite planet?", "--answer", "Mars")
	require.NoError(t, err)
	assert.Equal(t, "Commander ada registered\n", out)
	assert.Equal(t, 1, table.Len())

	out, err = run("available", "ADA")
	require.NoError(t, err)
	assert.Equal(t, "ADA is taken\n", out)

	_, err = run("register", "ada", "--password", "Launch#2024", "--question", "q", "--answer", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	assert.Equal(t, 1, table.Len())
}

func TestRegister_WeakPassword(t *testing.T) {
	run, table := setupTestCLI(t)

	_, err := run("register", "ada", "--password", "password", "--question", "q", "--answer", "a")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register")
	assert.Contains(t, err.Error(), "password:")
	assert.Equal(t, 0, table.Len())
}
