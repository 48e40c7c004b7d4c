package forms

import (
	"context"
	"sort"
	"strings"
	"time"

	"formkit/internal/validation"
)

const (
	MinPasswordLength    = 8
	MaxContactMessageLen = 2000
	MaxNameLength        = 255
	MaxEmailLength       = 320
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes     = 72

	PasswordMismatchMessage = "Passwords do not match"
	PasswordTooLongMessage  = "Password must have at most 72 bytes"
)

type FieldErrors map[string]string

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (e FieldErrors) set(field string, message string) {
	if message != "" {
		e[field] = message
	}
}

type Form interface {
	Validate() FieldErrors
}

var emailRules = validation.Rules{
	Required:  true,
	MaxLength: MaxEmailLength,
	Validate:  validation.EmailMessage,
}

// PasswordTooLong reports whether password exceeds what bcrypt accepts.
// Untrimmed, since the raw value is what gets hashed.
func PasswordTooLong(password string) bool {
	return len(password) > MaxPasswordBytes
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.set("email", EmailField(f.Email, FieldOptions{Rules: emailRules}).Error)
	errs.set("password", PasswordField(f.Password, FieldOptions{Rules: validation.Rules{Required: true}}).Error)
	return errs
}

type SignUpForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	CPF             string `json:"cpf,omitempty"`
	BirthDate       string `json:"birth_date,omitempty"`
}

// ValidateAt checks the form against now, which bounds the birth date.
func (f SignUpForm) ValidateAt(now time.Time) FieldErrors {
	errs := FieldErrors{}
	errs.set("email", EmailField(f.Email, FieldOptions{Rules: emailRules}).Error)
	errs.set("password", PasswordField(f.Password, FieldOptions{Rules: validation.Rules{
		Required:  true,
		MinLength: MinPasswordLength,
	}}).Error)
	if _, failed := errs["password"]; !failed && PasswordTooLong(f.Password) {
		errs.set("password", PasswordTooLongMessage)
	}
	if f.ConfirmPassword != f.Password {
		errs.set("confirm_password", PasswordMismatchMessage)
	}
	if strings.TrimSpace(f.CPF) != "" {
		state := CPFField(f.CPF, FieldOptions{})
		if state.Error == "" && !validation.IsValidCPF(state.Value) {
			state.Error = DefaultInvalidCPFMessage
		}
		errs.set("cpf", state.Error)
	}
	if strings.TrimSpace(f.BirthDate) != "" {
		state := BirthDateField(f.BirthDate, now, FieldOptions{})
		if state.Error == "" && state.Age == nil {
			state.Error = DefaultInvalidDateMessage
		}
		errs.set("birth_date", state.Error)
	}
	return errs
}

func (f SignUpForm) Validate() FieldErrors {
	return f.ValidateAt(time.Now())
}

type PasswordRecoveryForm struct {
	Email string `json:"email"`
}

func (f PasswordRecoveryForm) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.set("email", EmailField(f.Email, FieldOptions{Rules: emailRules}).Error)
	return errs
}

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (f ContactForm) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.set("name", validation.ComputeFieldError(f.Name, validation.Rules{
		Required:        true,
		RequiredMessage: "Name is required",
		MaxLength:       MaxNameLength,
	}))
	errs.set("email", EmailField(f.Email, FieldOptions{Rules: validation.Rules{
		Required:        true,
		RequiredMessage: "E-mail is required",
		MaxLength:       MaxEmailLength,
	}}).Error)
	errs.set("phone", PhoneField(f.Phone, FieldOptions{Rules: validation.Rules{
		Required:        true,
		RequiredMessage: "Phone is required",
	}}).Error)
	errs.set("message", validation.ComputeFieldError(f.Message, validation.Rules{
		Required:        true,
		RequiredMessage: "Message is required",
		MaxLength:       MaxContactMessageLen,
	}))
	return errs
}

type Handler[F Form] func(ctx context.Context, form F) (Result, error)

// Submit validates form and, when it is valid, hands it to handler. The
// returned Result is always displayable: handler errors and empty failure
// messages are replaced by generic ones.
func Submit[F Form](ctx context.Context, form F, handler Handler[F]) (Result, FieldErrors) {
	if errs := form.Validate(); errs.Any() {
		return Failed(InvalidFormMessage), errs
	}
	if handler == nil {
		return Failed(NoActionMessage), nil
	}

	result, err := handler(ctx, form)
	if err != nil {
		return Failed(UnexpectedErrorMessage), nil
	}
	if !result.Success && result.Message == "" {
		result.Message = OperationFailedMessage
	}
	return result, nil
}
