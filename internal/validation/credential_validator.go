package validation

// CredentialValidator checks account forms. Passwords and answers are never
// copied into the resulting field errors.
type CredentialValidator struct {
	validator *Validator
}

// NewCredentialValidator creates a new credential validator
func NewCredentialValidator() *CredentialValidator {
	return &CredentialValidator{validator: NewValidator()}
}

// ValidateUsername validates a username for lookup or registration
func (cv *CredentialValidator) ValidateUsername(username string) error {
	validationError := NewValidationError()

	trimmed := cv.validator.TrimAndValidateString(username)
	if trimmed == "" {
		validationError.AddRequiredError("username")
		return validationError
	}
	if !cv.validator.IsValidStringLength(trimmed, 1, 64) {
		validationError.AddInvalidLengthError("username", trimmed, 1, 64)
	}
	if cv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("username", trimmed)
	}

	return validationError.ErrOrNil()
}

// ValidateRegistration validates the signup form
func (cv *CredentialValidator) ValidateRegistration(username, password, confirm, question, answer string) error {
	validationError := NewValidationError()

	validationError.Merge(cv.ValidateUsername(username))
	validationError.Merge(cv.ValidateNewPassword("password", password, confirm))

	if !cv.validator.IsNonEmptyString(question) {
		validationError.AddRequiredError("security_question")
	}
	if !cv.validator.IsNonEmptyString(answer) {
		validationError.AddRequiredError("security_answer")
	}

	return validationError.ErrOrNil()
}

// ValidateLogin checks that both login fields were supplied
func (cv *CredentialValidator) ValidateLogin(username, password string) error {
	validationError := NewValidationError()

	if !cv.validator.IsNonEmptyString(username) {
		validationError.AddRequiredError("username")
	}
	if password == "" {
		validationError.AddRequiredError("password")
	}

	return validationError.ErrOrNil()
}

// ValidateAnswer checks that a security answer was supplied
func (cv *CredentialValidator) ValidateAnswer(answer string) error {
	if !cv.validator.IsNonEmptyString(answer) {
		validationError := NewValidationError()
		validationError.AddRequiredError("security_answer")
		return validationError
	}
	return nil
}

// ValidateNewPassword checks presence, confirmation and strength of a new password
func (cv *CredentialValidator) ValidateNewPassword(field, password, confirm string) error {
	validationError := NewValidationError()

	switch {
	case password == "":
		validationError.AddRequiredError(field)
	case password != confirm:
		validationError.AddMismatchError("confirm_"+field, field)
	case !IsStrongPassword(password):
		validationError.AddWeakPasswordError(field)
	}

	return validationError.ErrOrNil()
}
