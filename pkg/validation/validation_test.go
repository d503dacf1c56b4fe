package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FullName     string `validate:"required,no_emoji"`
	Phone        string `validate:"valid_phone"`
	Type         string `validate:"job_type"`
	Availability string `validate:"availability"`
	Status       string `validate:"app_status"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator(t)

	ok := sample{FullName: "Ada Lovelace", Phone: "+1 (555) 010-0000", Type: "full-time", Availability: "2-weeks", Status: "hired"}
	assert.NoError(t, v.Struct(ok))

	// Optional enums accept empty
	assert.NoError(t, v.Struct(sample{FullName: "Ada"}))

	tests := []struct {
		name  string
		mut   func(*sample)
		field string
	}{
		{"emoji", func(s *sample) { s.FullName = "Ada 🚀" }, "FullName"},
		{"short phone", func(s *sample) { s.Phone = "123" }, "Phone"},
		{"letters in phone", func(s *sample) { s.Phone = "+1555abc0000" }, "Phone"},
		{"job type", func(s *sample) { s.Type = "freelance" }, "Type"},
		{"availability", func(s *sample) { s.Availability = "someday" }, "Availability"},
		{"status", func(s *sample) { s.Status = "archived" }, "Status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mut(&s)
			err := v.Struct(s)
			require.Error(t, err)
			verrs := err.(validator.ValidationErrors)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestMessage(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(sample{Phone: "1", Type: "x"})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "Full name is required")
	assert.Contains(t, msg, "Phone number must have 7 to 15 digits")
	assert.Contains(t, msg, "Type must be one of: full-time")
}

func TestFormatCamelCase(t *testing.T) {
	assert.Equal(t, "Cover Letter Text", formatCamelCase("CoverLetterText"))
}
