package domain

import (
	"fmt"
	"strings"

	"mission-control/internal/repository"
)

// MissionMapper handles conversion between table records and Missions.
type MissionMapper struct{}

// NewMissionMapper creates a new MissionMapper instance.
func NewMissionMapper() *MissionMapper {
	return &MissionMapper{}
}

// ToFields converts a Mission to the columns written on create.
func (m *MissionMapper) ToFields(mission Mission) repository.Fields {
	fields := repository.Fields{
		FieldUser:      mission.User,
		FieldTask:      mission.Text,
		FieldDate:      mission.Date,
		FieldCompleted: mission.Completed,
	}
	if mission.HasTime() {
		fields[FieldTime] = mission.TimeSlot
	}
	return fields
}

// FromRecord converts a record to a Mission.
func (m *MissionMapper) FromRecord(rec repository.Record) Mission {
	return Mission{
		ID:          rec.ID,
		User:        stringField(rec.Fields, FieldUser),
		Date:        stringField(rec.Fields, FieldDate),
		Text:        stringField(rec.Fields, FieldTask),
		TimeSlot:    timeSlot(rec.Fields),
		Completed:   boolField(rec.Fields, FieldCompleted),
		CreatedTime: rec.CreatedTime,
	}
}

// FromRecords converts every non-account record to a Mission, in order.
func (m *MissionMapper) FromRecords(records []repository.Record) []Mission {
	missions := make([]Mission, 0, len(records))
	for _, rec := range records {
		if IsAccountRecord(rec) {
			continue
		}
		missions = append(missions, m.FromRecord(rec))
	}
	return missions
}

// AccountMapper handles conversion between table records and Accounts.
type AccountMapper struct{}

// NewAccountMapper creates a new AccountMapper instance.
func NewAccountMapper() *AccountMapper {
	return &AccountMapper{}
}

// ToFields converts an Account to the columns of its sentinel row.
func (m *AccountMapper) ToFields(account Account, date string) repository.Fields {
	return repository.Fields{
		FieldUser:               account.Username,
		FieldTask:               SentinelAccountTask,
		FieldDate:               date,
		FieldCompleted:          false,
		FieldPasswordHash:       account.PasswordHash,
		FieldSecurityQuestion:   account.SecurityQuestion,
		FieldSecurityAnswerHash: account.SecurityAnswerHash,
	}
}

// FromRecord converts an account record to an Account.
func (m *AccountMapper) FromRecord(rec repository.Record) Account {
	return Account{
		ID:                 rec.ID,
		Username:           stringField(rec.Fields, FieldUser),
		PasswordHash:       stringField(rec.Fields, FieldPasswordHash),
		SecurityQuestion:   stringField(rec.Fields, FieldSecurityQuestion),
		SecurityAnswerHash: stringField(rec.Fields, FieldSecurityAnswerHash),
		CreatedTime:        rec.CreatedTime,
	}
}

// FromRecords converts every account record to an Account, in order.
func (m *AccountMapper) FromRecords(records []repository.Record) []Account {
	var accounts []Account
	for _, rec := range records {
		if IsAccountRecord(rec) {
			accounts = append(accounts, m.FromRecord(rec))
		}
	}
	return accounts
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Mission *MissionMapper
	Account *AccountMapper
}

// NewMapper creates a new unified Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{
		Mission: NewMissionMapper(),
		Account: NewAccountMapper(),
	}
}

// IsAccountRecord reports whether rec is an account row.
func IsAccountRecord(rec repository.Record) bool {
	return stringField(rec.Fields, FieldTask) == SentinelAccountTask
}

// RecordUser returns the User column of rec.
func RecordUser(rec repository.Record) string {
	return stringField(rec.Fields, FieldUser)
}

func stringField(fields repository.Fields, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// boolField accepts a checkbox value, a "true"/"1" string or a non-zero number.
func boolField(fields repository.Fields, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "1"
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

func timeSlot(fields repository.Fields) string {
	for _, key := range timeFields {
		if s := strings.TrimSpace(stringField(fields, key)); s != "" {
			return s
		}
	}
	return ""
}
