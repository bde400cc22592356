package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"mission-control/internal/domain"
	"mission-control/internal/metrics"
	"mission-control/internal/repository"
)

// Notification kinds
const (
	KindAlarm  = "alarm"
	KindDigest = "digest"
)

// ReminderOptions configures a ReminderService
type ReminderOptions struct {
	// Window is how far back CheckAlarms looks for due missions.
	Window   time.Duration
	Location *time.Location
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// ReminderService sends alarms for timed missions and a daily digest per
// commander.
type ReminderService struct {
	table    repository.Table
	notifier Notifier
	mapper   *domain.Mapper
	window   time.Duration
	loc      *time.Location
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu    sync.Mutex
	fired map[string]struct{}
}

// NewReminderService creates a ReminderService
func NewReminderService(table repository.Table, notifier Notifier, opts ReminderOptions) *ReminderService {
	if opts.Window <= 0 {
		opts.Window = 5 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &ReminderService{
		table:    table,
		notifier: notifier,
		mapper:   domain.NewMapper(),
		window:   opts.Window,
		loc:      opts.Location,
		metrics:  opts.Metrics,
		logger:   opts.Logger.Named("reminders"),
		fired:    make(map[string]struct{}),
	}
}

// CheckAlarms notifies every incomplete mission whose time slot fell due in
// (now-window, now]. When the window reaches back past midnight the previous
// day's missions are checked as well. Each mission fires at most once per
// process. It returns the number of notifications sent.
func (s *ReminderService) CheckAlarms(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.loc)
	since := now.Add(-s.window)
	days := map[string]bool{
		now.Format(domain.DateLayout):   true,
		since.Format(domain.DateLayout): true,
	}

	records, err := s.table.List(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	sent := 0
	for _, m := range s.mapper.Mission.FromRecords(records) {
		if m.Completed || !days[m.Date] {
			continue
		}
		due, ok := m.DueAt(s.loc)
		if !ok || !due.After(since) || due.After(now) {
			continue
		}
		key := m.ID + "|" + m.Date
		if !s.markFired(key) {
			continue
		}

		n := Notification{
			Kind:      KindAlarm,
			Username:  m.User,
			MissionID: m.ID,
			Text:      fmt.Sprintf("⏰ %s: %s (%s)", m.User, m.Text, m.TimeSlot),
		}
		if err := s.deliver(ctx, n); err != nil {
			s.unmarkFired(key)
			errs = append(errs, err)
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// DailyDigest sends each commander a summary of today's missions, pending
// first. Commanders with an empty day get nothing.
func (s *ReminderService) DailyDigest(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.loc)
	today := now.Format(domain.DateLayout)

	records, err := s.table.List(ctx)
	if err != nil {
		return 0, err
	}

	missions := s.mapper.Mission.FromRecords(records)

	var errs []error
	sent := 0
	for _, account := range s.mapper.Account.FromRecords(records) {
		var day []domain.Mission
		for _, m := range missions {
			if m.BelongsTo(account.Username, today) {
				day = append(day, m)
			}
		}
		text := BuildDigest(account.Username, today, day)
		if text == "" {
			continue
		}

		if err := s.deliver(ctx, Notification{Kind: KindDigest, Username: account.Username, Text: text}); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// BuildDigest renders the plain-text digest for one commander's day.
// It returns "" when there are no missions.
func BuildDigest(username, date string, missions []domain.Mission) string {
	missions = domain.DedupMissions(missions)
	if len(missions) == 0 {
		return ""
	}
	domain.SortMissions(missions)

	var pending, done []domain.Mission
	for _, m := range missions {
		if m.Completed {
			done = append(done, m)
		} else {
			pending = append(pending, m)
		}
	}

	progress := domain.NewDayProgress(missions)

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 Missions for %s on %s\n", username, date)
	fmt.Fprintf(&b, "Progress: %d/%d (%d%%)\n", progress.Completed, progress.Total, progress.Percent())
	for _, m := range pending {
		b.WriteString(digestLine("[ ]", m))
	}
	for _, m := range done {
		b.WriteString(digestLine("[x]", m))
	}
	return strings.TrimSpace(b.String())
}

func digestLine(box string, m domain.Mission) string {
	if m.HasTime() {
		return fmt.Sprintf("%s %s (%s)\n", box, m.Text, m.TimeSlot)
	}
	return fmt.Sprintf("%s %s\n", box, m.Text)
}

func (s *ReminderService) deliver(ctx context.Context, n Notification) error {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("notification failed",
			zap.String("kind", n.Kind),
			zap.String("username", n.Username),
			zap.Error(err))
		return fmt.Errorf("notify %s for %s: %w", n.Kind, n.Username, err)
	}
	if s.metrics != nil {
		s.metrics.ReminderSent(n.Kind)
	}
	return nil
}

func (s *ReminderService) markFired(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fired[key]; ok {
		return false
	}
	s.fired[key] = struct{}{}
	return true
}

func (s *ReminderService) unmarkFired(key string) {
	s.mu.Lock()
	delete(s.fired, key)
	s.mu.Unlock()
}
