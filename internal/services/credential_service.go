package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mission-control/internal/domain"
	"mission-control/internal/errors"
	"mission-control/internal/repository"
	"mission-control/internal/validation"
)

// credentialServiceImpl implements the CredentialService interface
type credentialServiceImpl struct {
	table     repository.Table
	mapper    *domain.Mapper
	validator *validation.CredentialValidator
	resetTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewCredentialService creates a new CredentialService instance
func NewCredentialService(table repository.Table, resetTTL time.Duration, logger *zap.Logger) CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &credentialServiceImpl{
		table:     table,
		mapper:    domain.NewMapper(),
		validator: validation.NewCredentialValidator(),
		resetTTL:  resetTTL,
		logger:    logger.Named("credentials"),
		now:       time.Now,
	}
}

// findAccount scans the table for the account row of name. It returns nil
// when no account matches.
func (s *credentialServiceImpl) findAccount(ctx context.Context, name string) (*domain.Account, error) {
	records, err := s.table.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if domain.IsAccountRecord(rec) && domain.SameUsername(domain.RecordUser(rec), name) {
			account := s.mapper.Account.FromRecord(rec)
			return &account, nil
		}
	}
	return nil, nil
}

// UsernameExists reports whether any row is owned by name
func (s *credentialServiceImpl) UsernameExists(ctx context.Context, name string) (bool, error) {
	if err := s.validator.ValidateUsername(name); err != nil {
		return false, errors.NewValidationError("invalid username", err)
	}

	records, err := s.table.List(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if domain.SameUsername(domain.RecordUser(rec), name) {
			return true, nil
		}
	}
	return false, nil
}

// Register creates the account row for a new commander
func (s *credentialServiceImpl) Register(ctx context.Context, in RegistrationInput) (*domain.Account, error) {
	if err := s.validator.ValidateRegistration(in.Username, in.Password, in.ConfirmPassword, in.SecurityQuestion, in.SecurityAnswer); err != nil {
		return nil, errors.NewValidationError("invalid registration", err)
	}

	username := strings.TrimSpace(in.Username)
	exists, err := s.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewConflictError(errors.CodeUsernameTaken,
			fmt.Sprintf("username %q is already taken", username)).
			WithContext("username", username)
	}

	account := domain.Account{
		Username:           username,
		PasswordHash:       PasswordHash(in.Password),
		SecurityQuestion:   strings.TrimSpace(in.SecurityQuestion),
		SecurityAnswerHash: AnswerHash(in.SecurityAnswer),
	}
	rec, err := s.table.Create(ctx, s.mapper.Account.ToFields(account, s.now().Format(domain.DateLayout)))
	if err != nil {
		return nil, err
	}

	created := s.mapper.Account.FromRecord(rec)
	s.logger.Info("account registered", zap.String("username", username), zap.String("record_id", created.ID))
	return &created, nil
}

// Login checks a username and password against the stored hash
func (s *credentialServiceImpl) Login(ctx context.Context, name, password string) (*domain.Account, error) {
	if err := s.validator.ValidateLogin(name, password); err != nil {
		return nil, errors.NewValidationError("missing credentials", err)
	}

	account, err := s.findAccount(ctx, name)
	if err != nil {
		return nil, err
	}
	if account == nil || !hashesEqual(account.PasswordHash, PasswordHash(password)) {
		s.logger.Info("login rejected", zap.String("username", strings.TrimSpace(name)))
		return nil, errors.NewAuthenticationError(errors.CodeInvalidCredentials, "invalid username or password")
	}

	return account, nil
}

// SecurityQuestion returns the question stored for name
func (s *credentialServiceImpl) SecurityQuestion(ctx context.Context, name string) (string, error) {
	if err := s.validator.ValidateUsername(name); err != nil {
		return "", errors.NewValidationError("invalid username", err)
	}

	account, err := s.findAccount(ctx, name)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", errors.NewNotFoundError("account", strings.TrimSpace(name))
	}
	return account.SecurityQuestion, nil
}

// VerifySecurityAnswer compares the answer, ignoring case and surrounding
// whitespace, and issues a reset grant on success
func (s *credentialServiceImpl) VerifySecurityAnswer(ctx context.Context, name, answer string) (*ResetGrant, error) {
	if err := s.validator.ValidateAnswer(answer); err != nil {
		return nil, errors.NewValidationError("missing answer", err)
	}

	account, err := s.findAccount(ctx, name)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.NewNotFoundError("account", strings.TrimSpace(name))
	}
	if !hashesEqual(account.SecurityAnswerHash, AnswerHash(answer)) {
		return nil, errors.NewAuthenticationError(errors.CodeWrongAnswer, "security answer does not match")
	}

	return &ResetGrant{
		Username: account.Username,
		RecordID: account.ID,
		IssuedAt: s.now(),
	}, nil
}

// ResetPassword stores a new password hash for the account named by grant
func (s *credentialServiceImpl) ResetPassword(ctx context.Context, grant *ResetGrant, newPassword, confirmPassword string) error {
	if grant == nil {
		return errors.NewAuthenticationError(errors.CodeResetExpired, "answer the security question before resetting the password")
	}
	if s.resetTTL > 0 && s.now().Sub(grant.IssuedAt) > s.resetTTL {
		return errors.NewAuthenticationError(errors.CodeResetExpired, "password reset window has expired, answer the security question again")
	}

	if err := s.validator.ValidateNewPassword("new_password", newPassword, confirmPassword); err != nil {
		return errors.NewValidationError("invalid new password", err)
	}

	account, err := s.findAccount(ctx, grant.Username)
	if err != nil {
		return err
	}
	if account == nil || account.ID != grant.RecordID {
		return errors.NewAuthenticationError(errors.CodeResetExpired, "password reset does not match this account")
	}

	if _, err := s.table.Update(ctx, account.ID, repository.Fields{
		domain.FieldPasswordHash: PasswordHash(newPassword),
	}); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("username", account.Username))
	return nil
}
