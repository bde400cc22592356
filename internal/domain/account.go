package domain

import "time"

// Account holds a commander's credentials. It is stored as a table row whose
// Task column is SentinelAccountTask.
type Account struct {
	ID                 string
	Username           string
	PasswordHash       string
	SecurityQuestion   string
	SecurityAnswerHash string
	CreatedTime        time.Time
}

// Matches reports whether the account belongs to name.
func (a Account) Matches(name string) bool {
	return SameUsername(a.Username, name)
}
