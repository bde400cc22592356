package cli

import (
	"testing"

	"mission-control/internal/domain"
	"mission-control/internal/repository"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommand_CSV(t *testing.T) {
	run, table := setupTestCLI(t)
	table.Seed(
		repository.Fields{domain.FieldUser: "ada", domain.FieldTask: domain.SentinelAccountTask, domain.FieldDate: testDay},
		repository.Fields{domain.FieldUser: "ada", domain.FieldTask: "Launch", domain.FieldDate: testDay, domain.FieldTime: "09:00"},
		repository.Fields{domain.FieldUser: "ada", domain.FieldTask: "Fuel rocket", domain.FieldDate: testDay, domain.FieldCompleted: true},
		repository.Fields{domain.FieldUser: "ada", domain.FieldTask: "Write log, then sleep", domain.FieldDate: testDay},
		repository.Fields{domain.FieldUser: "ada", domain.FieldTask: "Brief crew", domain.FieldDate: testDay, domain.FieldAlarm: "after lunch"},
		repository.Fields{domain.FieldUser: "ada", domain.FieldTask: "launch", domain.FieldDate: testDay},
		repository.Fields{domain.FieldUser: "grace", domain.FieldTask: "Not exported", domain.FieldDate: testDay},
	)

	out, err := run("missions", "export", "--user", "ada", "--date", testDay)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_day", []byte(out))
}

func TestExportCommand_UnsupportedFormat(t *testing.T) {
	run, _ := setupTestCLI(t)

	_, err := run("missions", "export", "--user", "ada", "--format", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
