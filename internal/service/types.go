package service

import (
	"time"

	"formkit/internal/forms"
)

type SignUpInput struct {
	Email           string `json:"email" binding:"required,email_loose"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
	CPF             string `json:"cpf" binding:"omitempty,cpf"`
	BirthDate       string `json:"birth_date" binding:"omitempty,birthdate"`
}

func (in SignUpInput) form() forms.SignUpForm {
	return forms.SignUpForm{
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
		CPF:             in.CPF,
		BirthDate:       in.BirthDate,
	}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email_loose"`
	Password string `json:"password" binding:"required"`
}

type PasswordRecoveryInput struct {
	Email string `json:"email" binding:"required,email_loose"`
}

type ContactMessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (in ContactMessageInput) form() forms.ContactForm {
	return forms.ContactForm{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
	}
}

type RulesInput struct {
	Required         bool   `json:"required"`
	RequiredMessage  string `json:"required_message"`
	MinLength        int    `json:"min_length" binding:"gte=0"`
	MinLengthMessage string `json:"min_length_message"`
	MaxLength        int    `json:"max_length" binding:"gte=0"`
	MaxLengthMessage string `json:"max_length_message"`
	Pattern          string `json:"pattern"`
	PatternMessage   string `json:"pattern_message"`
	// Validator names a built-in check used as the custom hook: email, phone
	// or cpf.
	Validator string `json:"validator"`
}

type EvaluateFieldInput struct {
	Value string     `json:"value"`
	Rules RulesInput `json:"rules"`
}

type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CPF       *string   `json:"cpf,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

type ContactMessageOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type FormatOutput struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Digits   string `json:"digits"`
	Complete bool   `json:"complete"`
}

type ValidateOutput struct {
	Kind    string `json:"kind"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type FieldEvaluationOutput struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type AgeOutput struct {
	BirthDate string `json:"birth_date"`
	Age       int    `json:"age"`
}
