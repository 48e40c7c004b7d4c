package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"formkit/internal/mask"
	"formkit/internal/validation"
)

const (
	ValidateKindEmail = "email"
	ValidateKindPhone = "phone"
	ValidateKindCPF   = "cpf"
	ValidateKindCNPJ  = "cnpj"
	ValidateKindCEP   = "cep"
	ValidateKindDate  = "date"
)

const (
	invalidCNPJMessage = "Invalid CNPJ"
	invalidCEPMessage  = "Invalid CEP"
	invalidDateMessage = "Invalid date"
)

type valueCheck struct {
	valid   func(string) bool
	message string
}

var valueChecks = map[string]valueCheck{
	ValidateKindEmail: {valid: validation.IsValidEmail, message: validation.InvalidEmailMessage},
	ValidateKindPhone: {valid: validation.IsValidPhone, message: validation.InvalidPhoneMessage},
	ValidateKindCPF:   {valid: validation.IsValidCPF, message: validation.InvalidCPFMessage},
	ValidateKindCNPJ:  {valid: validation.IsValidCNPJ, message: invalidCNPJMessage},
	ValidateKindCEP:   {valid: validation.IsValidCEP, message: invalidCEPMessage},
	ValidateKindDate:  {valid: validation.IsValidCalendarDate, message: invalidDateMessage},
}

var namedValidators = map[string]func(string) string{
	ValidateKindEmail: validation.EmailMessage,
	ValidateKindPhone: validation.PhoneMessage,
	ValidateKindCPF:   validation.CPFMessage,
}

func (s *Service) Format(kind string, value string) (FormatOutput, error) {
	var opts []mask.BirthDateOption
	if s.pivotYear {
		opts = append(opts, mask.WithPivotYear(s.now()))
	}

	normalizedKind := mask.Kind(strings.ToLower(strings.TrimSpace(kind)))
	formatted, err := mask.Format(normalizedKind, value, opts...)
	if err != nil {
		return FormatOutput{}, validationError(fmt.Sprintf("unsupported format kind %q", kind))
	}

	return FormatOutput{
		Kind:     string(normalizedKind),
		Value:    formatted,
		Digits:   mask.Unformat(formatted),
		Complete: len(formatted) == mask.MaxLen(normalizedKind),
	}, nil
}

func (s *Service) ValidateValue(kind string, value string) (ValidateOutput, error) {
	normalizedKind := strings.ToLower(strings.TrimSpace(kind))
	check, ok := valueChecks[normalizedKind]
	if !ok {
		return ValidateOutput{}, validationError(fmt.Sprintf("unsupported validation kind %q", kind))
	}

	output := ValidateOutput{Kind: normalizedKind, Valid: check.valid(value)}
	if !output.Valid {
		output.Message = check.message
	}
	return output, nil
}

func (s *Service) EvaluateField(ctx context.Context, input EvaluateFieldInput) (FieldEvaluationOutput, error) {
	_, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.EvaluateField")
	defer span.End()

	rules, err := input.Rules.toRules()
	if err != nil {
		return FieldEvaluationOutput{}, err
	}

	message, invalid := validation.FieldError(input.Value, rules)
	return FieldEvaluationOutput{Valid: !invalid, Error: message}, nil
}

func (s *Service) Age(birthDate string) (AgeOutput, error) {
	formatted := mask.BirthDate(birthDate)
	age, ok := validation.CalculateAge(formatted, s.now())
	if !ok {
		return AgeOutput{}, validationError("birth_date must be a past dd/mm/yyyy date")
	}
	return AgeOutput{BirthDate: formatted, Age: age}, nil
}

func (in RulesInput) toRules() (validation.Rules, error) {
	if in.MinLength < 0 || in.MaxLength < 0 {
		return validation.Rules{}, validationError("length rules must not be negative")
	}

	rules := validation.Rules{
		Required:         in.Required,
		RequiredMessage:  in.RequiredMessage,
		MinLength:        in.MinLength,
		MinLengthMessage: in.MinLengthMessage,
		MaxLength:        in.MaxLength,
		MaxLengthMessage: in.MaxLengthMessage,
		PatternString:    in.Pattern,
		PatternMessage:   in.PatternMessage,
	}

	if name := strings.ToLower(strings.TrimSpace(in.Validator)); name != "" {
		validate, ok := namedValidators[name]
		if !ok {
			return validation.Rules{}, validationError(fmt.Sprintf("unsupported validator %q", in.Validator))
		}
		rules.Validate = validate
	}
	return rules, nil
}
