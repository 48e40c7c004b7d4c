package forms

import (
	"strings"
	"time"

	"formkit/internal/mask"
	"formkit/internal/validation"
)

const (
	DefaultInvalidCPFMessage  = "Invalid CPF"
	DefaultInvalidDateMessage = "Invalid date"
)

type ShowErrorOn string

const (
	ShowErrorOnChange ShowErrorOn = "change"
	ShowErrorOnBlur   ShowErrorOn = "blur"
)

// VisibleError decides whether a computed message is shown. Fields default to
// blur, so nothing is shown until the field has been touched.
func VisibleError(policy ShowErrorOn, touched bool, message string) string {
	if policy == ShowErrorOnChange || touched {
		return message
	}
	return ""
}

type FieldOptions struct {
	Rules validation.Rules
	// InvalidMessage replaces the field-specific message reported once the
	// masked value is complete but fails its own check.
	InvalidMessage string
	// PivotYear expands a typed ddmmyy birth date to four digits.
	PivotYear bool
}

type FieldState struct {
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
	Age   *int   `json:"age,omitempty"`
}

func (s FieldState) Valid() bool {
	return s.Error == ""
}

func CPFField(raw string, opts FieldOptions) FieldState {
	value := mask.CPF(raw)
	state := FieldState{Value: value, Error: validation.ComputeFieldError(value, opts.Rules)}
	if state.Error != "" {
		return state
	}
	if len(value) == mask.MaxLen(mask.KindCPF) && !validation.IsValidCPF(value) {
		state.Error = firstDefined(opts.InvalidMessage, DefaultInvalidCPFMessage)
	}
	return state
}

func BirthDateField(raw string, now time.Time, opts FieldOptions) FieldState {
	var maskOpts []mask.BirthDateOption
	if opts.PivotYear {
		maskOpts = append(maskOpts, mask.WithPivotYear(now))
	}
	value := mask.BirthDate(raw, maskOpts...)
	state := FieldState{Value: value}

	complete := len(value) == mask.MaxLen(mask.KindBirthDate)
	if complete {
		if age, ok := validation.CalculateAge(value, now); ok {
			state.Age = &age
		}
	}

	state.Error = validation.ComputeFieldError(value, opts.Rules)
	if state.Error != "" {
		return state
	}
	// A complete date is rejected both when impossible and when in the future.
	if complete && state.Age == nil {
		state.Error = firstDefined(opts.InvalidMessage, DefaultInvalidDateMessage)
	}
	return state
}

func PhoneField(raw string, opts FieldOptions) FieldState {
	value := mask.Phone(raw)
	state := FieldState{Value: value, Error: validation.ComputeFieldError(value, opts.Rules)}
	if state.Error != "" || value == "" {
		return state
	}
	if !validation.IsValidPhone(value) {
		state.Error = firstDefined(opts.InvalidMessage, validation.InvalidPhoneMessage)
	}
	return state
}

func EmailField(raw string, opts FieldOptions) FieldState {
	state := FieldState{Value: raw, Error: validation.ComputeFieldError(raw, opts.Rules)}
	if state.Error != "" {
		return state
	}
	if !validation.IsValidEmail(raw) {
		state.Error = firstDefined(opts.InvalidMessage, validation.InvalidEmailMessage)
	}
	return state
}

// NumberField keeps digits only; a positive MaxLength also caps how many are kept.
func NumberField(raw string, opts FieldOptions) FieldState {
	value := mask.Digits(raw)
	if opts.Rules.MaxLength > 0 && len(value) > opts.Rules.MaxLength {
		value = value[:opts.Rules.MaxLength]
	}
	return FieldState{Value: value, Error: validation.ComputeFieldError(value, opts.Rules)}
}

type PasswordStatus string

const (
	PasswordIdle     PasswordStatus = "idle"
	PasswordRequired PasswordStatus = "required"
	PasswordInvalid  PasswordStatus = "invalid"
	PasswordValid    PasswordStatus = "valid"
)

type PasswordState struct {
	FieldState
	Status PasswordStatus `json:"status"`
}

// PasswordField never reports length or pattern errors for an empty optional
// password; the value itself is returned untouched.
func PasswordField(raw string, opts FieldOptions) PasswordState {
	state := PasswordState{FieldState: FieldState{Value: raw}}
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "" && opts.Rules.Required:
		state.Error = firstDefined(opts.Rules.RequiredMessage, validation.DefaultRequiredMessage)
		state.Status = PasswordRequired
	case trimmed == "":
		state.Status = PasswordIdle
	default:
		state.Error = validation.ComputeFieldError(trimmed, opts.Rules)
		state.Status = PasswordValid
		if state.Error != "" {
			state.Status = PasswordInvalid
		}
	}
	return state
}
