package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mission-control/internal/repository"
)

func TestMissionMapper_ToFields(t *testing.T) {
	mapper := NewMissionMapper()

	fields := mapper.ToFields(Mission{User: "neil", Date: "2024-01-01", Text: "Launch"})
	assert.Equal(t, repository.Fields{
		FieldUser:      "neil",
		FieldTask:      "Launch",
		FieldDate:      "2024-01-01",
		FieldCompleted: false,
	}, fields)

	fields = mapper.ToFields(Mission{User: "neil", Date: "2024-01-01", Text: "Launch", TimeSlot: "09:30"})
	assert.Equal(t, "09:30", fields[FieldTime])
}

func TestMissionMapper_FromRecord(t *testing.T) {
	mapper := NewMissionMapper()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	mission := mapper.FromRecord(repository.Record{
		ID:          "rec1",
		CreatedTime: created,
		Fields: repository.Fields{
			FieldUser:      "neil",
			FieldTask:      "Launch",
			FieldDate:      "2024-01-01",
			FieldCompleted: true,
			FieldTime:      "09:30",
		},
	})

	assert.Equal(t, Mission{
		ID:          "rec1",
		User:        "neil",
		Date:        "2024-01-01",
		Text:        "Launch",
		TimeSlot:    "09:30",
		Completed:   true,
		CreatedTime: created,
	}, mission)
}

func TestMissionMapper_CompletedDecoding(t *testing.T) {
	mapper := NewMissionMapper()

	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"missing", nil, false},
		{"bool true", true, true},
		{"string true", "True", true},
		{"string one", "1", true},
		{"string no", "no", false},
		{"float", 1.0, true},
		{"zero float", 0.0, false},
		{"int", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := repository.Record{Fields: repository.Fields{FieldCompleted: tt.value}}
			assert.Equal(t, tt.expected, mapper.FromRecord(rec).Completed)
		})
	}
}

func TestMissionMapper_TimeFallbacks(t *testing.T) {
	mapper := NewMissionMapper()

	tests := []struct {
		name     string
		fields   repository.Fields
		expected string
	}{
		{"time wins", repository.Fields{FieldTime: "08:00", FieldTimeSlot: "09:00", FieldAlarm: "10:00"}, "08:00"},
		{"time slot fallback", repository.Fields{FieldTime: " ", FieldTimeSlot: "09:00"}, "09:00"},
		{"alarm fallback", repository.Fields{FieldAlarm: "10:00"}, "10:00"},
		{"none", repository.Fields{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapper.FromRecord(repository.Record{Fields: tt.fields}).TimeSlot)
		})
	}
}

func TestMissionMapper_FromRecordsSkipsAccounts(t *testing.T) {
	records := []repository.Record{
		{ID: "rec1", Fields: repository.Fields{FieldUser: "neil", FieldTask: SentinelAccountTask}},
		{ID: "rec2", Fields: repository.Fields{FieldUser: "neil", FieldTask: "Launch"}},
	}

	missions := NewMissionMapper().FromRecords(records)
	require.Len(t, missions, 1)
	assert.Equal(t, "rec2", missions[0].ID)
}

func TestAccountMapper_RoundTrip(t *testing.T) {
	mapper := NewAccountMapper()
	account := Account{
		Username:           "Neil",
		PasswordHash:       "abc",
		SecurityQuestion:   "Planet?",
		SecurityAnswerHash: "def",
	}

	fields := mapper.ToFields(account, "2024-01-01")
	assert.Equal(t, SentinelAccountTask, fields[FieldTask])
	assert.Equal(t, "2024-01-01", fields[FieldDate])
	assert.Equal(t, false, fields[FieldCompleted])

	rec := repository.Record{ID: "recA", Fields: fields}
	assert.True(t, IsAccountRecord(rec))
	assert.Equal(t, "Neil", RecordUser(rec))

	got := mapper.FromRecord(rec)
	account.ID = "recA"
	assert.Equal(t, account, got)
}

func TestAccountMapper_FromRecords(t *testing.T) {
	records := []repository.Record{
		{ID: "rec1", Fields: repository.Fields{FieldUser: "neil", FieldTask: SentinelAccountTask}},
		{ID: "rec2", Fields: repository.Fields{FieldUser: "neil", FieldTask: "Launch"}},
		{ID: "rec3", Fields: repository.Fields{FieldUser: "buzz", FieldTask: SentinelAccountTask}},
	}

	accounts := NewMapper().Account.FromRecords(records)
	require.Len(t, accounts, 2)
	assert.Equal(t, "neil", accounts[0].Username)
	assert.Equal(t, "buzz", accounts[1].Username)
}

func TestStringField_NonString(t *testing.T) {
	rec := repository.Record{Fields: repository.Fields{FieldUser: 42}}
	assert.Equal(t, "42", RecordUser(rec))
}
