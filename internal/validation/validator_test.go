package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mission-control/internal/config"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"All classes", "Abcdef1!", true},
		{"Long and mixed", "Correct-Horse-9-Battery", true},
		{"Too short", "Ab1!xyz", false},
		{"No uppercase", "abcdef1!", false},
		{"No lowercase", "ABCDEF1!", false},
		{"No digit", "Abcdefg!", false},
		{"No symbol", "Abcdefg1", false},
		{"Space counts as symbol", "Abc def1", true},
		{"Empty", "", false},
		{"Multibyte length", "Äbc1!éé", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsStrongPassword(tt.input))
		})
	}
}

func TestValidator_IsNonEmptyString(t *testing.T) {
	v := NewValidator()

	assert.False(t, v.IsNonEmptyString(""))
	assert.False(t, v.IsNonEmptyString(" \t\n"))
	assert.True(t, v.IsNonEmptyString("  launch  "))
}

func TestValidator_IsValidStringLength(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    string
		min      int
		max      int
		expected bool
	}{
		{"Empty string, min 1", "", 1, 10, false},
		{"Too long", "very long string", 1, 5, false},
		{"Exactly max", "hello", 1, 5, true},
		{"Trims spaces", "  hello  ", 1, 5, true},
		{"Counts runes", "héllo", 1, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.IsValidStringLength(tt.input, tt.min, tt.max))
		})
	}
}

func TestValidator_IsValidDate(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidDate("2024-01-01"))
	assert.True(t, v.IsValidDate("2024-02-29"))
	assert.False(t, v.IsValidDate("2023-02-29"))
	assert.False(t, v.IsValidDate("2024/01/01"))
	assert.False(t, v.IsValidDate("01-01-2024"))
	assert.False(t, v.IsValidDate(""))
}

func TestValidator_IsValidRecordID(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidRecordID("recA1b2C3d4E5f6G7"))
	assert.False(t, v.IsValidRecordID(""))
	assert.False(t, v.IsValidRecordID("rec/../x"))
	assert.False(t, v.IsValidRecordID("rec 1"))
}

func TestValidator_HasControlCharacters(t *testing.T) {
	v := NewValidator()

	assert.False(t, v.HasControlCharacters("Launch rocket!"))
	assert.True(t, v.HasControlCharacters("line\nbreak"))
	assert.True(t, v.HasControlCharacters("tab\there"))
}

func TestValidator_ConfiguredLimits(t *testing.T) {
	assert.Equal(t, 1, NewValidator().MissionMinLength())
	assert.Equal(t, 255, NewValidator().MissionMaxLength())
	assert.Equal(t, 64, NewValidator().TimeMaxLength())

	cfg := config.NewConfig()
	cfg.Validation.MissionMaxLength = 10
	v := NewValidatorWithConfig(cfg)

	assert.True(t, v.IsValidMissionLength(strings.Repeat("a", 10)))
	assert.False(t, v.IsValidMissionLength(strings.Repeat("a", 11)))
}
