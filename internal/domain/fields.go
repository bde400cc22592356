package domain

// Column names in the shared table.
const (
	FieldUser               = "User"
	FieldTask               = "Task"
	FieldDate               = "Date"
	FieldCompleted          = "Completed"
	FieldPasswordHash       = "PasswordHash"
	FieldSecurityQuestion   = "SecurityQuestion"
	FieldSecurityAnswerHash = "SecurityAnswerHash"
	FieldTime               = "Time"
	FieldTimeSlot           = "TimeSlot"
	FieldAlarm              = "Alarm"
)

// SentinelAccountTask marks a row as an account rather than a mission.
const SentinelAccountTask = "[User Created]"

// DateLayout is the format of the Date column.
const DateLayout = "2006-01-02"

// timeFields are read in order; the first non-empty value wins.
var timeFields = []string{FieldTime, FieldTimeSlot, FieldAlarm}
