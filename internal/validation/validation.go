// Package validation turns raw form submissions into normalized records or an
// ordered list of human-readable error messages.
//
// Field rules live as validate tags on the model types so the same checks run
// on incoming input and again at the storage boundary.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taxmantraa/backend/internal/model"
)

const selectServiceMessage = "Please select at least one service"

var (
	contactEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	inquiryEmailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern        = regexp.MustCompile(`^\+?[1-9][\d\s\-().]{7,18}$`)
	mobilePattern       = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	whitespace          = regexp.MustCompile(`\s+`)
	mobileSeparators    = regexp.MustCompile(`[\s\-().]+`)
)

// Errors is a failed validation. Messages are ordered by field declaration.
type Errors struct {
	Messages []string
}

func (e *Errors) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Summary is the single message when there is exactly one, else a generic heading.
func (e *Errors) Summary() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return "Validation failed"
}

// AsErrors unwraps err into *Errors.
func AsErrors(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	mustRegister(v, "contactemail", func(fl validator.FieldLevel) bool {
		return contactEmailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "inquiryemail", func(fl validator.FieldLevel) bool {
		return inquiryEmailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(whitespace.ReplaceAllString(fl.Field().String(), ""))
	})
	mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(mobileSeparators.ReplaceAllString(fl.Field().String(), ""))
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// CheckContact validates a complete contact record.
func CheckContact(c *model.ContactRecord) error {
	return check(c)
}

// CheckServiceInquiry validates a complete service inquiry record.
func CheckServiceInquiry(s *model.ServiceInquiryRecord) error {
	return check(s)
}

// CheckContactUpdate validates the fields an admin update sets.
func CheckContactUpdate(u model.ContactUpdate) error {
	return check(u)
}

// CheckServiceInquiryUpdate validates the fields an admin update sets.
func CheckServiceInquiryUpdate(u model.ServiceInquiryUpdate) error {
	return check(u)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := messageFor(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}
	return &Errors{Messages: messages}
}

func messageFor(fe validator.FieldError) string {
	label, _, element := strings.Cut(fe.Field(), "[")

	if strings.HasPrefix(fe.StructField(), "SelectedServices") {
		switch {
		case !element:
			return selectServiceMessage
		case fe.Tag() == "required":
			return "Selected services cannot contain empty entries"
		case fe.Tag() == "max":
			return fmt.Sprintf("Each selected service cannot exceed %s characters", fe.Param())
		}
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		if element {
			return fmt.Sprintf("Each %s cannot exceed %s characters", strings.ToLower(label), fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "contactemail":
		return "Please enter a valid email address"
	case "inquiryemail":
		return "Please enter a valid email"
	case "phone":
		return "Please enter a valid phone number (e.g., +1234567890 or 123-456-7890)"
	case "mobile":
		return "Please enter a valid mobile number"
	case "ip":
		return "Invalid IP address format"
	default:
		return label + " is invalid"
	}
}
