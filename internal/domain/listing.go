package domain

import (
	"sort"
	"strings"
)

// DedupMissions drops missions whose text repeats an earlier one, ignoring
// case and surrounding whitespace. The first occurrence is kept.
func DedupMissions(missions []Mission) []Mission {
	seen := make(map[string]struct{}, len(missions))
	out := make([]Mission, 0, len(missions))
	for _, m := range missions {
		key := m.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// SortMissions orders missions for display: timed missions first by time,
// then by text ignoring case, then by id.
func SortMissions(missions []Mission) {
	sort.SliceStable(missions, func(i, j int) bool {
		return missionLess(missions[i], missions[j])
	})
}

func missionLess(a, b Mission) bool {
	if a.HasTime() != b.HasTime() {
		return a.HasTime()
	}
	if a.HasTime() {
		if c := compareSlots(a.TimeSlot, b.TimeSlot); c != 0 {
			return c < 0
		}
	}
	at, bt := strings.ToLower(strings.TrimSpace(a.Text)), strings.ToLower(strings.TrimSpace(b.Text))
	if at != bt {
		return at < bt
	}
	return a.ID < b.ID
}

// compareSlots orders clock times chronologically ahead of free text slots,
// which compare alphabetically.
func compareSlots(a, b string) int {
	am, aok := ParseClock(a)
	bm, bok := ParseClock(b)
	switch {
	case aok && bok:
		return am - bm
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b)))
}

// DayProgress summarises completion over a day's missions.
type DayProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// NewDayProgress counts completed and pending missions.
func NewDayProgress(missions []Mission) DayProgress {
	p := DayProgress{Total: len(missions)}
	for _, m := range missions {
		if m.Completed {
			p.Completed++
		}
	}
	p.Pending = p.Total - p.Completed
	return p
}

// Percent returns the completed share rounded down, 0 for an empty day.
func (p DayProgress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}
