package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"mission-control/internal/config"
)

// DateLayout is the only accepted mission date format.
const DateLayout = "2006-01-02"

// PasswordPolicy describes the rule enforced by IsStrongPassword.
const PasswordPolicy = "password must be at least 8 characters and include an uppercase letter, a lowercase letter, a digit and a symbol"

const minPasswordLength = 8

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a trimmed string's character count is within the range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidMissionLength checks mission text against the configured limits
func (v *Validator) IsValidMissionLength(text string) bool {
	return v.IsValidStringLength(text, v.MissionMinLength(), v.MissionMaxLength())
}

// HasControlCharacters reports whether s contains newlines, tabs or other control runes
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidDate checks for a real calendar date in YYYY-MM-DD form
func (v *Validator) IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsValidRecordID checks that an id is non-empty and safe to put in a URL path
func (v *Validator) IsValidRecordID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	return !strings.ContainsAny(id, "/?#% ")
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// MissionMinLength returns configured minimum mission length or default
func (v *Validator) MissionMinLength() int {
	if v.config != nil {
		return v.config.Validation.MissionMinLength
	}
	return 1
}

// MissionMaxLength returns configured maximum mission length or default
func (v *Validator) MissionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.MissionMaxLength
	}
	return 255
}

// TimeMaxLength returns configured maximum time slot length or default
func (v *Validator) TimeMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TimeMaxLength
	}
	return 64
}

// IsStrongPassword reports whether p has at least 8 characters and contains an
// ASCII uppercase letter, an ASCII lowercase letter, a digit and a character
// that is none of those.
func IsStrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < minPasswordLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}
