package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"JobID":           "Job",
	"FullName":        "Full name",
	"Email":           "Email",
	"Phone":           "Phone number",
	"Location":        "Location",
	"Experience":      "Experience",
	"Skills":          "Skills",
	"ExpectedSalary":  "Expected salary",
	"Availability":    "Availability",
	"CoverLetter":     "Cover letter",
	"FileName":        "File name",
	"URL":             "Resume URL",
	"StorageKey":      "Storage key",
	"Size":            "File size",
	"Type":            "Type",
	"ContentType":     "Content type",
	"Title":           "Title",
	"Description":     "Description",
	"Requirements":    "Requirements",
	"Tags":            "Tags",
	"ExperienceLevel": "Experience level",
	"Status":          "Status",
	"InterviewNotes":  "Interview notes",
	"Role":            "Role",
	"Name":            "Company name",
	"Website":         "Website",
	"Action":          "Action",
	"NotificationID":  "Notification",
}

// Message joins every field error into one sentence for the envelope.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

// FormatValidationErrors converts binding errors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return []string{fmt.Sprintf("%s: wrong type", typeErr.Field)}
		case errors.As(err, &syntaxErr):
			return []string{"Invalid JSON body"}
		}
		return []string{"Invalid request body"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()
	isString := e.Kind().String() == "string"
	isSlice := e.Kind().String() == "slice"

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		case isSlice:
			return fmt.Sprintf("%s can have at most %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", label)
	case "valid_phone":
		return fmt.Sprintf("%s must have 7 to 15 digits, optionally starting with +", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "job_type":
		return fmt.Sprintf("%s must be one of: full-time, part-time, contract, internship", label)
	case "experience_level":
		return fmt.Sprintf("%s must be one of: entry, junior, mid, senior, lead", label)
	case "job_status":
		return fmt.Sprintf("%s must be one of: active, paused, closed", label)
	case "availability":
		return fmt.Sprintf("%s must be one of: immediate, 2-weeks, 1-month, 3-months", label)
	case "app_status":
		return fmt.Sprintf("%s must be one of: applied, shortlisted, interviewed, rejected, hired", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
