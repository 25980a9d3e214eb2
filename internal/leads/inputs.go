package leads

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AnswerInput references the user's selection for one calculator
// question. Prices are always recomputed server-side from the catalog.
type AnswerInput struct {
	QuestionID   string `json:"questionId" validate:"required"`
	OptionID     string `json:"optionId" validate:"required"`
	MultiplierID string `json:"multiplierId"`
}

// QuoteData is the quote-specific portion of a quote submission.
type QuoteData struct {
	Answers  []AnswerInput `json:"answers" validate:"required,min=1,dive"`
	Language string        `json:"language"`
}

// DemoRequestInput is the payload of a demo request submission.
type DemoRequestInput struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Company          string `json:"company" validate:"required"`
	Role             string `json:"role" validate:"required"`
	Phone            string `json:"phone"`
	Message          string `json:"message"`
	OrganizationSize string `json:"organizationSize"`
	Language         string `json:"language"`
}

// QuoteRequestInput is the payload of a quote request submission.
type QuoteRequestInput struct {
	FirstName      string    `json:"firstName" validate:"required"`
	LastName       string    `json:"lastName" validate:"required"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email" validate:"required,email"`
	Company        string    `json:"company" validate:"required"`
	Role           string    `json:"role" validate:"required"`
	Phone          string    `json:"phone" validate:"omitempty,phoneformat"`
	Identification string    `json:"identification"`
	QuoteData      QuoteData `json:"quoteData" validate:"required"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{6,19}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names as their JSON tags so validation errors match
	// what the caller actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phoneformat", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks required identity fields before anything reaches the
// store. Demo phone numbers are free-form; only quotes enforce a
// format.
func (in *DemoRequestInput) Validate() error {
	return toCaptureError(validate.Struct(in))
}

// Validate checks required fields, email and phone format, and the
// presence of quote answers.
func (in *QuoteRequestInput) Validate() error {
	return toCaptureError(validate.Struct(in))
}

func toCaptureError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "min":
			return invalidArgument(fe.Field(), "missing required field")
		case "email":
			return invalidArgument(fe.Field(), "malformed email address")
		case "phoneformat":
			return invalidArgument(fe.Field(), "malformed phone number")
		default:
			return invalidArgument(fe.Field(), "invalid value")
		}
	}
	return invalidArgument("", "invalid payload")
}
