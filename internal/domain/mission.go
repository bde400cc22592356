package domain

import (
	"strings"
	"time"
)

// Mission is one to-do item for a user on a given day.
type Mission struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Date        string    `json:"date"`
	Text        string    `json:"text"`
	TimeSlot    string    `json:"time,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedTime time.Time `json:"createdTime"`
}

// MissionStatus is the lifecycle state of a mission row.
type MissionStatus string

const (
	MissionPending   MissionStatus = "pending"
	MissionCompleted MissionStatus = "completed"
)

// Status returns the mission's current state.
func (m Mission) Status() MissionStatus {
	if m.Completed {
		return MissionCompleted
	}
	return MissionPending
}

// HasTime reports whether the mission carries a time or alarm.
func (m Mission) HasTime() bool {
	return strings.TrimSpace(m.TimeSlot) != ""
}

// DedupKey identifies missions that list as duplicates of each other.
func (m Mission) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(m.Text))
}

// BelongsTo reports whether the mission is owned by user and scheduled on date.
func (m Mission) BelongsTo(user, date string) bool {
	return SameUsername(m.User, user) && m.Date == date
}

// String returns the mission text for display purposes.
func (m Mission) String() string {
	if m.HasTime() {
		return m.TimeSlot + " " + m.Text
	}
	return m.Text
}
