package domain

import (
	"strings"
	"time"
)

var clockLayouts = []string{"15:04", "3:04PM", "3PM"}

// ParseClock reads a time slot such as "09:30", "9:30", "9:30 pm" or "9PM"
// and returns minutes after midnight. Free text like "after lunch" is not a clock.
func ParseClock(slot string) (int, bool) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(slot), " ", ""))
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// DueAt returns the instant the mission's alarm fires in loc.
func (m Mission) DueAt(loc *time.Location) (time.Time, bool) {
	minutes, ok := ParseClock(m.TimeSlot)
	if !ok {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DateLayout, m.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(time.Duration(minutes) * time.Minute), true
}
