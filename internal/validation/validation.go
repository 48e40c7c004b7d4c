package validation

import (
	"regexp"
	"strings"

	"github.com/inovacc/brdoc"

	"formkit/internal/mask"
)

const (
	cpfLength   = 11
	phoneLength = 11
	cepLength   = 8
)

const (
	InvalidEmailMessage = "Invalid e-mail. Use a valid format (e.g. name@domain.com)"
	InvalidPhoneMessage = "Invalid phone. Use area code + number (e.g. 11987654321)"
	InvalidCPFMessage   = "Invalid CPF. Use 11 digits (e.g. 39053344705) or the masked form (e.g. 390.533.447-05)."
)

// The shape check is deliberately loose: something@something.something with
// no whitespace. It is not an RFC 5322 parser.
var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var nonAlphanumeric = regexp.MustCompile(`[^0-9A-Za-z]`)

func NormalizeCPF(raw string) string {
	return mask.Digits(raw)
}

func NormalizeCNPJ(raw string) string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.TrimSpace(raw), "")
	return strings.ToUpper(cleaned)
}

// IsValidEmail treats an empty value as valid; whether the field may be empty
// is decided by the Required rule, not here.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	return emailShape.MatchString(email)
}

// IsValidPhone requires DDD + number, 11 digits. Unlike IsValidEmail an empty
// value is invalid.
func IsValidPhone(phone string) bool {
	return len(mask.Digits(strings.TrimSpace(phone))) == phoneLength
}

func IsValidCEP(cep string) bool {
	return len(mask.Digits(cep)) == cepLength
}

func IsValidCPF(cpf string) bool {
	digits := NormalizeCPF(strings.TrimSpace(cpf))
	if len(digits) != cpfLength {
		return false
	}
	if strings.Count(digits, digits[:1]) == cpfLength {
		return false
	}

	return cpfCheckDigit(digits[:9]) == int(digits[9]-'0') &&
		cpfCheckDigit(digits[:10]) == int(digits[10]-'0')
}

// cpfCheckDigit weights base with len(base)+1 down to 2 and reduces mod 11.
func cpfCheckDigit(base string) int {
	weight := len(base) + 1
	sum := 0
	for i := range len(base) {
		sum += int(base[i]-'0') * (weight - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

func IsValidCNPJ(cnpj string) bool {
	normalized := NormalizeCNPJ(cnpj)
	if normalized == "" {
		return false
	}
	return brdoc.NewCNPJ().Validate(normalized)
}

func EmailMessage(email string) string {
	if IsValidEmail(email) {
		return ""
	}
	return InvalidEmailMessage
}

func PhoneMessage(phone string) string {
	if IsValidPhone(phone) {
		return ""
	}
	return InvalidPhoneMessage
}

func CPFMessage(cpf string) string {
	if IsValidCPF(cpf) {
		return ""
	}
	return InvalidCPFMessage
}
