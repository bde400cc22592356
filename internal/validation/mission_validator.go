package validation

import "mission-control/internal/config"

// MissionValidator provides validation for mission operations
type MissionValidator struct {
	validator *Validator
}

// NewMissionValidator creates a new mission validator
func NewMissionValidator() *MissionValidator {
	return &MissionValidator{validator: NewValidator()}
}

// NewMissionValidatorWithConfig creates a mission validator using configured limits
func NewMissionValidatorWithConfig(cfg *config.Config) *MissionValidator {
	return &MissionValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateText validates mission text for creation
func (mv *MissionValidator) ValidateText(text string) error {
	validationError := NewValidationError()

	trimmed := mv.validator.TrimAndValidateString(text)
	if !mv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("text")
		return validationError
	}

	if !mv.validator.IsValidMissionLength(trimmed) {
		validationError.AddInvalidLengthError("text", trimmed, mv.validator.MissionMinLength(), mv.validator.MissionMaxLength())
	}
	if mv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("text", trimmed)
	}

	return validationError.ErrOrNil()
}

// ValidateDate validates a YYYY-MM-DD mission date
func (mv *MissionValidator) ValidateDate(date string) error {
	validationError := NewValidationError()

	if !mv.validator.IsNonEmptyString(date) {
		validationError.AddRequiredError("date")
	} else if !mv.validator.IsValidDate(date) {
		validationError.AddInvalidFormatError("date", date, "YYYY-MM-DD")
	}

	return validationError.ErrOrNil()
}

// ValidateTimeSlot validates the optional time or alarm text
func (mv *MissionValidator) ValidateTimeSlot(slot string) error {
	validationError := NewValidationError()

	trimmed := mv.validator.TrimAndValidateString(slot)
	if trimmed == "" {
		return nil
	}
	if !mv.validator.IsValidStringLength(trimmed, 1, mv.validator.TimeMaxLength()) {
		validationError.AddInvalidLengthError("time", trimmed, 0, mv.validator.TimeMaxLength())
	}
	if mv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("time", trimmed)
	}

	return validationError.ErrOrNil()
}

// ValidateMissionForCreation validates every field of a new mission
func (mv *MissionValidator) ValidateMissionForCreation(user, date, text, slot string) error {
	validationError := NewValidationError()

	if !mv.validator.IsNonEmptyString(user) {
		validationError.AddRequiredError("user")
	}
	validationError.Merge(mv.ValidateDate(date))
	validationError.Merge(mv.ValidateText(text))
	validationError.Merge(mv.ValidateTimeSlot(slot))

	return validationError.ErrOrNil()
}

// ValidateRecordID validates the id of an existing mission row
func (mv *MissionValidator) ValidateRecordID(id string) error {
	if !mv.validator.IsValidRecordID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a record id")
		return validationError
	}
	return nil
}
