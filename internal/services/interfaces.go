package services

import (
	"context"
	"time"

	"mission-control/internal/domain"
)

// MissionInput is the add-mission form
type MissionInput struct {
	User     string `json:"user"`
	Date     string `json:"date"`
	Text     string `json:"text"`
	TimeSlot string `json:"time"`
}

// RegistrationInput is the signup form
type RegistrationInput struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

// ResetGrant proves a successful security answer. ResetPassword requires one.
type ResetGrant struct {
	Username string    `json:"username"`
	RecordID string    `json:"record_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// MissionsView is the state of a commander's day after any change
type MissionsView struct {
	Date     string             `json:"date"`
	Username string             `json:"username"`
	Missions []domain.Mission   `json:"missions"`
	Progress domain.DayProgress `json:"progress"`
}

// CredentialService handles accounts stored as sentinel rows
type CredentialService interface {
	UsernameExists(ctx context.Context, name string) (bool, error)
	Register(ctx context.Context, in RegistrationInput) (*domain.Account, error)
	Login(ctx context.Context, name, password string) (*domain.Account, error)

	// Forgot-password flow
	SecurityQuestion(ctx context.Context, name string) (string, error)
	VerifySecurityAnswer(ctx context.Context, name, answer string) (*ResetGrant, error)
	ResetPassword(ctx context.Context, grant *ResetGrant, newPassword, confirmPassword string) error
}

// MissionService handles mission rows
type MissionService interface {
	AddMission(ctx context.Context, in MissionInput) (*domain.Mission, error)
	ListMissions(ctx context.Context, user, date string) ([]domain.Mission, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*domain.Mission, error)
	DeleteMission(ctx context.Context, id string) error

	DayProgress(ctx context.Context, user, date string) (domain.DayProgress, error)
	View(ctx context.Context, user, date string) (*MissionsView, error)
}

// Notification is one message for a commander
type Notification struct {
	Kind      string // "alarm" or "digest"
	Username  string
	MissionID string
	Text      string
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Credentials CredentialService
	Missions    MissionService
	Reminders   *ReminderService
}
