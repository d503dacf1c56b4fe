package validation

import (
	"regexp"
	"unicode"

	"talenthub-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// E164-like phone: optional +, then 7-15 digits. Spaces, dashes and parentheses are ignored.
var (
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneSepRegex = regexp.MustCompile(`[\s\-().]`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) error {
	validators := map[string]validator.Func{
		"valid_phone":      ValidPhone,
		"no_emoji":         NoEmoji,
		"job_type":         enum(func(s string) bool { return domain.JobType(s).Valid() }),
		"experience_level": enum(func(s string) bool { return domain.ExperienceLevel(s).Valid() }),
		"job_status":       enum(func(s string) bool { return domain.JobStatus(s).Valid() }),
		"availability":     enum(func(s string) bool { return domain.Availability(s).Valid() }),
		"app_status":       enum(func(s string) bool { return domain.ApplicationStatus(s).Valid() }),
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// enum adapts a Valid() check. Empty values pass; use required to reject them.
func enum(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		return val == "" || valid(val)
	}
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(phoneSepRegex.ReplaceAllString(val, ""))
}

// NoEmoji rejects emoji and other pictographic symbols
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
