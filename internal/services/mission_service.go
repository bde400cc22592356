package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mission-control/internal/config"
	"mission-control/internal/domain"
	"mission-control/internal/errors"
	"mission-control/internal/repository"
	"mission-control/internal/validation"
)

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	table     repository.Table
	mapper    *domain.Mapper
	validator *validation.MissionValidator
	logger    *zap.Logger
}

// NewMissionService creates a new MissionService instance. cfg may be nil,
// in which case default validation limits apply.
func NewMissionService(table repository.Table, cfg *config.Config, logger *zap.Logger) MissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validation.NewMissionValidator()
	if cfg != nil {
		v = validation.NewMissionValidatorWithConfig(cfg)
	}
	return &missionServiceImpl{
		table:     table,
		mapper:    domain.NewMapper(),
		validator: v,
		logger:    logger.Named("missions"),
	}
}

// AddMission creates a mission row. Duplicates are allowed here and
// collapsed when listing.
func (s *missionServiceImpl) AddMission(ctx context.Context, in MissionInput) (*domain.Mission, error) {
	if err := s.validator.ValidateMissionForCreation(in.User, in.Date, in.Text, in.TimeSlot); err != nil {
		return nil, errors.NewValidationError("invalid mission", err)
	}

	mission := domain.Mission{
		User:     strings.TrimSpace(in.User),
		Date:     in.Date,
		Text:     strings.TrimSpace(in.Text),
		TimeSlot: strings.TrimSpace(in.TimeSlot),
	}
	rec, err := s.table.Create(ctx, s.mapper.Mission.ToFields(mission))
	if err != nil {
		return nil, err
	}

	created := s.mapper.Mission.FromRecord(rec)
	s.logger.Debug("mission added", zap.String("record_id", created.ID), zap.String("date", created.Date))
	return &created, nil
}

// ListMissions returns user's missions for date, de-duplicated and sorted
func (s *missionServiceImpl) ListMissions(ctx context.Context, user, date string) ([]domain.Mission, error) {
	if err := s.validator.ValidateDate(date); err != nil {
		return nil, errors.NewValidationError("invalid date", err)
	}

	records, err := s.table.List(ctx)
	if err != nil {
		return nil, err
	}

	var owned []domain.Mission
	for _, m := range s.mapper.Mission.FromRecords(records) {
		if m.BelongsTo(user, date) {
			owned = append(owned, m)
		}
	}

	missions := domain.DedupMissions(owned)
	domain.SortMissions(missions)
	return missions, nil
}

// SetCompleted sets the completion flag of one mission row
func (s *missionServiceImpl) SetCompleted(ctx context.Context, id string, completed bool) (*domain.Mission, error) {
	if err := s.validator.ValidateRecordID(id); err != nil {
		return nil, errors.NewValidationError("invalid mission id", err)
	}
	if err := s.guardAccountRow(ctx, "update", id); err != nil {
		return nil, err
	}

	rec, err := s.table.Update(ctx, id, repository.Fields{domain.FieldCompleted: completed})
	if err != nil {
		return nil, err
	}

	mission := s.mapper.Mission.FromRecord(rec)
	return &mission, nil
}

// DeleteMission removes one mission row
func (s *missionServiceImpl) DeleteMission(ctx context.Context, id string) error {
	if err := s.validator.ValidateRecordID(id); err != nil {
		return errors.NewValidationError("invalid mission id", err)
	}
	if err := s.guardAccountRow(ctx, "delete", id); err != nil {
		return err
	}

	if err := s.table.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("mission deleted", zap.String("record_id", id))
	return nil
}

// guardAccountRow refuses writes to account rows through the mission
// operations. Unknown ids are left for the table to reject.
func (s *missionServiceImpl) guardAccountRow(ctx context.Context, operation, id string) error {
	records, err := s.table.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		if domain.IsAccountRecord(rec) {
			s.logger.Warn("refused account row write", zap.String("operation", operation), zap.String("record_id", id))
			return errors.NewPermissionError(operation, "account "+id)
		}
		return nil
	}
	return nil
}

// DayProgress counts completed and pending missions for user on date
func (s *missionServiceImpl) DayProgress(ctx context.Context, user, date string) (domain.DayProgress, error) {
	missions, err := s.ListMissions(ctx, user, date)
	if err != nil {
		return domain.DayProgress{}, err
	}
	return domain.NewDayProgress(missions), nil
}

// View lists the day and its progress in one table scan
func (s *missionServiceImpl) View(ctx context.Context, user, date string) (*MissionsView, error) {
	missions, err := s.ListMissions(ctx, user, date)
	if err != nil {
		return nil, err
	}
	if missions == nil {
		missions = []domain.Mission{}
	}
	return &MissionsView{
		Date:     date,
		Username: user,
		Missions: missions,
		Progress: domain.NewDayProgress(missions),
	}, nil
}
