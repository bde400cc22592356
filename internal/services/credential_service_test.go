package services

import (
	"context"
	"testing"
	"time"

	"mission-control/internal/domain"
	"mission-control/internal/errors"
	"mission-control/internal/repository/memory"
	"mission-control/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Launch#2024"

func setupCredentialService(t *testing.T) (*credentialServiceImpl, *memory.Table) {
	t.Helper()
	table := memory.New()
	service := NewCredentialService(table, 10*time.Minute, nil).(*credentialServiceImpl)
	return service, table
}

func registration(username string) RegistrationInput {
	return RegistrationInput{
		Username:         username,
		Password:         strongPassword,
		ConfirmPassword:  strongPassword,
		SecurityQuestion: "Favourite planet?",
		SecurityAnswer:   "Mars",
	}
}

func TestPasswordHash(t *testing.T) {
	// SHA-256 of "password"
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", PasswordHash("password"))
	assert.Equal(t, PasswordHash(strongPassword), PasswordHash(strongPassword))
	assert.NotEqual(t, PasswordHash("a"), PasswordHash("b"))
	assert.Equal(t, AnswerHash("Mars"), AnswerHash("  mars "))
}

func TestCredentialService_Register(t *testing.T) {
	tests := []struct {
		name           string
		input          RegistrationInput
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:  "should register with a strong password",
			input: registration("ada"),
		},
		{
			name: "should reject mismatched confirmation",
			input: func() RegistrationInput {
				in := registration("ada")
				in.ConfirmPassword = "Launch#2025"
				return in
			}(),
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				ve, ok := validation.AsValidationError(err)
				require.True(t, ok)
				assert.NotEmpty(t, ve.GetFieldErrors("confirm_password"))
			},
		},
		{
			name: "should reject a weak password",
			input: func() RegistrationInput {
				in := registration("ada")
				in.Password, in.ConfirmPassword = "password", "password"
				return in
			}(),
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "password")
			},
		},
		{
			name: "should require a security answer",
			input: func() RegistrationInput {
				in := registration("ada")
				in.SecurityAnswer = "  "
				return in
			}(),
			errorAssertion: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "security_answer")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, table := setupCredentialService(t)
			ctx := context.Background()

			account, err := service.Register(ctx, tt.input)

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, account)
				assert.Equal(t, 0, table.Len())
			} else {
				require.NoError(t, err)
				require.NotNil(t, account)
				assert.Equal(t, "ada", account.Username)
				assert.Equal(t, PasswordHash(strongPassword), account.PasswordHash)
				assert.Equal(t, AnswerHash("mars"), account.SecurityAnswerHash)
				assert.Equal(t, 1, table.Len())
			}
		})
	}
}

func TestCredentialService_RegisterDuplicate(t *testing.T) {
	service, table := setupCredentialService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, registration("ada"))
	require.NoError(t, err)

	_, err = service.Register(ctx, registration(" ADA "))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
	assert.Equal(t, errors.CodeUsernameTaken, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "taken")

	records, err := table.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, domain.IsAccountRecord(records[0]))
}

func TestCredentialService_UsernameExists(t *testing.T) {
	service, table := setupCredentialService(t)
	ctx := context.Background()
	table.Seed(map[string]any{
		domain.FieldUser: "grace",
		domain.FieldTask: "Review launch plan",
		domain.FieldDate: "2024-05-01",
	})

	exists, err := service.UsernameExists(ctx, "Grace")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.UsernameExists(ctx, "linus")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = service.UsernameExists(ctx, "  ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestCredentialService_UsernameExistsStorageError(t *testing.T) {
	service, table := setupCredentialService(t)
	table.FailOn["list"] = true

	_, err := service.UsernameExists(context.Background(), "ada")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
}

func TestCredentialService_Login(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		password       string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should accept correct credentials",
			username: "ada",
			password: strongPassword,
		},
		{
			name:     "should ignore username case and whitespace",
			username: "  Ada ",
			password: strongPassword,
		},
		{
			name:     "should reject a wrong password",
			username: "ada",
			password: "Launch#2025",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeAuthentication))
				assert.Equal(t, errors.CodeInvalidCredentials, errors.GetErrorCode(err))
			},
		},
		{
			name:     "should reject an unknown user the same way",
			username: "linus",
			password: strongPassword,
			errorAssertion: func(t *testing.T, err error) {
				assert.Equal(t, errors.CodeInvalidCredentials, errors.GetErrorCode(err))
			},
		},
		{
			name:     "should require a password",
			username: "ada",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := setupCredentialService(t)
			ctx := context.Background()
			_, err := service.Register(ctx, registration("ada"))
			require.NoError(t, err)

			account, err := service.Login(ctx, tt.username, tt.password)

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, account)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ada", account.Username)
			}
		})
	}
}

func TestCredentialService_ForgotPassword(t *testing.T) {
	service, _ := setupCredentialService(t)
	ctx := context.Background()
	_, err := service.Register(ctx, registration("ada"))
	require.NoError(t, err)

	question, err := service.SecurityQuestion(ctx, "ADA")
	require.NoError(t, err)
	assert.Equal(t, "Favourite planet?", question)

	_, err = service.SecurityQuestion(ctx, "linus")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = service.VerifySecurityAnswer(ctx, "ada", "Venus")
	assert.Equal(t, errors.CodeWrongAnswer, errors.GetErrorCode(err))

	grant, err := service.VerifySecurityAnswer(ctx, "ada", " mars ")
	require.NoError(t, err)
	assert.Equal(t, "ada", grant.Username)
	assert.NotEmpty(t, grant.RecordID)

	err = service.ResetPassword(ctx, grant, "Orbit!99x", "Orbit!99x")
	require.NoError(t, err)

	_, err = service.Login(ctx, "ada", strongPassword)
	assert.Equal(t, errors.CodeInvalidCredentials, errors.GetErrorCode(err))

	account, err := service.Login(ctx, "ada", "Orbit!99x")
	require.NoError(t, err)
	assert.Equal(t, AnswerHash("Mars"), account.SecurityAnswerHash)
	assert.Equal(t, "Favourite planet?", account.SecurityQuestion)
}

func TestCredentialService_ResetPassword(t *testing.T) {
	tests := []struct {
		name           string
		grant          func(g *ResetGrant) *ResetGrant
		password       string
		confirm        string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should reset with a fresh grant",
			grant:    func(g *ResetGrant) *ResetGrant { return g },
			password: "Orbit!99x",
			confirm:  "Orbit!99x",
		},
		{
			name:     "should refuse without a grant",
			grant:    func(*ResetGrant) *ResetGrant { return nil },
			password: "Orbit!99x",
			confirm:  "Orbit!99x",
			errorAssertion: func(t *testing.T, err error) {
				assert.Equal(t, errors.CodeResetExpired, errors.GetErrorCode(err))
			},
		},
		{
			name: "should refuse an expired grant",
			grant: func(g *ResetGrant) *ResetGrant {
				g.IssuedAt = g.IssuedAt.Add(-11 * time.Minute)
				return g
			},
			password: "Orbit!99x",
			confirm:  "Orbit!99x",
			errorAssertion: func(t *testing.T, err error) {
				assert.Equal(t, errors.CodeResetExpired, errors.GetErrorCode(err))
			},
		},
		{
			name: "should refuse a grant for another row",
			grant: func(g *ResetGrant) *ResetGrant {
				g.RecordID = "rec99999999999999"
				return g
			},
			password: "Orbit!99x",
			confirm:  "Orbit!99x",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeAuthentication))
			},
		},
		{
			name:     "should reject a weak new password",
			grant:    func(g *ResetGrant) *ResetGrant { return g },
			password: "short",
			confirm:  "short",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := setupCredentialService(t)
			ctx := context.Background()
			_, err := service.Register(ctx, registration("ada"))
			require.NoError(t, err)
			grant, err := service.VerifySecurityAnswer(ctx, "ada", "mars")
			require.NoError(t, err)

			err = service.ResetPassword(ctx, tt.grant(grant), tt.password, tt.confirm)

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				_, loginErr := service.Login(ctx, "ada", strongPassword)
				assert.NoError(t, loginErr)
			} else {
				require.NoError(t, err)
				_, loginErr := service.Login(ctx, "ada", tt.password)
				assert.NoError(t, loginErr)
			}
		})
	}
}
