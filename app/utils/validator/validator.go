package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"portal-service/app/domain"
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	numberPattern  = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// Validator wraps the go-playground validator with custom rules
type Validator struct {
	validator *validator.Validate
}

// New creates a new validator instance with custom rules
func New() *Validator {
	validate := validator.New()

	registerCustomValidators(validate)

	// Use JSON field names for validation error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validator: validate,
	}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(verrs)
		}
		return err
	}
	return nil
}

// ValidateVar validates a single variable
func (v *Validator) ValidateVar(field any, tag string) error {
	return v.validator.Var(field, tag)
}

// ValidationError represents a validation error with user-friendly messages
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface
func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, ", "))
}

// NewValidationError creates a ValidationError from validator.ValidationErrors
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	messages := make(map[string]string, len(errs))

	for _, err := range errs {
		field := err.Field()

		switch err.Tag() {
		case TagRequired:
			messages[field] = fmt.Sprintf("%s is required", field)
		case TagEmail:
			messages[field] = fmt.Sprintf("%s must be a valid email address", field)
		case TagMin:
			messages[field] = fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
		case TagMax:
			messages[field] = fmt.Sprintf("%s must be at most %s characters long", field, err.Param())
		case TagPassword:
			messages[field] = "password must contain at least 8 characters with uppercase, lowercase, number and special character"
		case TagRole:
			messages[field] = fmt.Sprintf("%s must be one of: %s", field, roleList())
		default:
			messages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return &ValidationError{Errors: messages}
}

func registerCustomValidators(validate *validator.Validate) {
	// Password: at least 8 chars with upper, lower, number and special char
	_ = validate.RegisterValidation(TagPassword, func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 {
			return false
		}
		return upperPattern.MatchString(password) &&
			lowerPattern.MatchString(password) &&
			numberPattern.MatchString(password) &&
			specialPattern.MatchString(password)
	})

	_ = validate.RegisterValidation(TagRole, func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
}

func roleList() string {
	roles := domain.AllRoles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

// IsValidEmail checks if an email is valid
func IsValidEmail(email string) bool {
	return New().ValidateVar(email, "required,email") == nil
}

// IsValidPassword checks if a password meets security requirements
func IsValidPassword(password string) bool {
	return New().ValidateVar(password, "required,password") == nil
}

// Common validation tags constants
const (
	TagRequired = "required"
	TagEmail    = "email"
	TagPassword = "password"
	TagRole     = "role"
	TagMin      = "min"
	TagMax      = "max"
)
