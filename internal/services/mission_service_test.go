package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"mission-control/internal/domain"
	"mission-control/internal/errors"
	"mission-control/internal/repository/memory"
	"mission-control/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2024-05-01"

func setupMissionService(t *testing.T) (MissionService, *memory.Table) {
	t.Helper()
	table := memory.New()
	return NewMissionService(table, nil, nil), table
}

func TestMissionService_AddMission(t *testing.T) {
	tests := []struct {
		name           string
		input          MissionInput
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:  "should add an untimed mission",
			input: MissionInput{User: "ada", Date: testDate, Text: "Buy milk"},
		},
		{
			name:  "should add a timed mission with trimmed text",
			input: MissionInput{User: "ada", Date: testDate, Text: "  Launch  ", TimeSlot: " 09:30 "},
		},
		{
			name:  "should reject empty text",
			input: MissionInput{User: "ada", Date: testDate, Text: "   "},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "text")
			},
		},
		{
			name:  "should reject a malformed date",
			input: MissionInput{User: "ada", Date: "01/05/2024", Text: "Launch"},
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "date")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, table := setupMissionService(t)

			mission, err := service.AddMission(context.Background(), tt.input)

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, mission)
				assert.Equal(t, 0, table.Len())
			} else {
				require.NoError(t, err)
				require.NotNil(t, mission)
				assert.NotEmpty(t, mission.ID)
				assert.Equal(t, domain.MissionPending, mission.Status())
				assert.Equal(t, strings.TrimSpace(tt.input.Text), mission.Text)
				assert.Equal(t, 1, table.Len())
			}
		})
	}
}

func TestMissionService_ListMissions(t *testing.T) {
	service, table := setupMissionService(t)
	ctx := context.Background()
	table.Seed(
		map[string]any{domain.FieldUser: "ada", domain.FieldTask: domain.SentinelAccountTask, domain.FieldDate: testDate},
		map[string]any{domain.FieldUser: "ada", domain.FieldTask: "buy milk", domain.FieldDate: testDate},
		map[string]any{domain.FieldUser: "ada", domain.FieldTask: "Buy Milk ", domain.FieldDate: testDate},
		map[string]any{domain.FieldUser: "ada", domain.FieldTask: "Launch", domain.FieldDate: testDate, domain.FieldTime: "14:00"},
		map[string]any{domain.FieldUser: "ada", domain.FieldTask: "Brief crew", domain.FieldDate: testDate, domain.FieldAlarm: "8:15"},
		map[string]any{domain.FieldUser: "grace", domain.FieldTask: "Not mine", domain.FieldDate: testDate},
		map[string]any{domain.FieldUser: "ada", domain.FieldTask: "Tomorrow", domain.FieldDate: "2024-05-02"},
	)

	missions, err := service.ListMissions(ctx, "ADA", testDate)
	require.NoError(t, err)

	var texts []string
	for _, m := range missions {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"Brief crew", "Launch", "buy milk"}, texts)
}

func TestMissionService_SetCompletedAndProgress(t *testing.T) {
	service, _ := setupMissionService(t)
	ctx := context.Background()

	first, err := service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "Fuel rocket"})
	require.NoError(t, err)
	_, err = service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "Launch"})
	require.NoError(t, err)

	updated, err := service.SetCompleted(ctx, first.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	progress, err := service.DayProgress(ctx, "ada", testDate)
	require.NoError(t, err)
	assert.Equal(t, domain.DayProgress{Total: 2, Completed: 1, Pending: 1}, progress)

	updated, err = service.SetCompleted(ctx, first.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Completed)
}

func TestMissionService_MissingIDKeepsListing(t *testing.T) {
	service, _ := setupMissionService(t)
	ctx := context.Background()
	_, err := service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "Launch"})
	require.NoError(t, err)

	_, err = service.SetCompleted(ctx, "rec00000000000404", true)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	err = service.DeleteMission(ctx, "rec00000000000404")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	view, err := service.View(ctx, "ada", testDate)
	require.NoError(t, err)
	require.Len(t, view.Missions, 1)
	assert.False(t, view.Missions[0].Completed)
}

func TestMissionService_DeleteMission(t *testing.T) {
	service, table := setupMissionService(t)
	ctx := context.Background()
	mission, err := service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "Launch"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteMission(ctx, mission.ID))
	assert.Equal(t, 0, table.Len())

	err = service.DeleteMission(ctx, "bad/id")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestMissionService_RefusesAccountRows(t *testing.T) {
	service, table := setupMissionService(t)
	ctx := context.Background()
	seeded := table.Seed(accountRow("victim"))
	accountID := seeded[0].ID

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "delete",
			call: func() error { return service.DeleteMission(ctx, accountID) },
		},
		{
			name: "complete",
			call: func() error {
				_, err := service.SetCompleted(ctx, accountID, true)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
			assert.Equal(t, errors.CodePermissionDenied, errors.GetErrorCode(err))
		})
	}

	records, err := table.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, domain.IsAccountRecord(records[0]))
	assert.Nil(t, records[0].Fields[domain.FieldCompleted])
}

func TestMissionService_View(t *testing.T) {
	service, table := setupMissionService(t)
	ctx := context.Background()

	view, err := service.View(ctx, "ada", testDate)
	require.NoError(t, err)
	assert.NotNil(t, view.Missions)
	assert.Empty(t, view.Missions)
	assert.Equal(t, testDate, view.Date)

	table.FailOn["list"] = true
	_, err = service.View(ctx, "ada", testDate)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
}

func TestMissionService_SQLiteTable(t *testing.T) {
	ctx := context.Background()
	table, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "mc.db"))
	require.NoError(t, err)
	defer table.Close()
	service := NewMissionService(table, nil, nil)

	_, err = service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "buy milk"})
	require.NoError(t, err)
	_, err = service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "Buy Milk"})
	require.NoError(t, err)
	second, err := service.AddMission(ctx, MissionInput{User: "ada", Date: testDate, Text: "Launch", TimeSlot: "9:00"})
	require.NoError(t, err)

	_, err = service.SetCompleted(ctx, second.ID, true)
	require.NoError(t, err)

	view, err := service.View(ctx, "ada", testDate)
	require.NoError(t, err)
	require.Len(t, view.Missions, 2)
	assert.Equal(t, "Launch", view.Missions[0].Text)
	assert.True(t, view.Missions[0].Completed)
	assert.Equal(t, "buy milk", view.Missions[1].Text)
	assert.Equal(t, 50, view.Progress.Percent())
}
