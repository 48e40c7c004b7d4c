package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCNPJ(t *testing.T) {
	got := NormalizeCNPJ("12.abc.345/01de-35")
	if got != "12ABC34501DE35" {
		t.Fatalf("expected 12ABC34501DE35, got %q", got)
	}
}

func TestIsValidCNPJAcceptsNumericAndAlphanumeric(t *testing.T) {
	tests := []string{
		"04.252.011/0001-10",
		"12.abc.345/01de-35",
	}

	for _, tc := range tests {
		if !IsValidCNPJ(tc) {
			t.Fatalf("expected valid CNPJ for %q", tc)
		}
	}
}

func TestIsValidCNPJRejectsInvalidCheckDigits(t *testing.T) {
	if IsValidCNPJ("12ABC34501DE36") {
		t.Fatalf("expected invalid CNPJ with wrong check digits")
	}
	if IsValidCNPJ("") {
		t.Fatalf("expected empty CNPJ to be invalid")
	}
}

func TestIsValidCPF(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "39053344705", want: true},
		{in: "390.533.447-05", want: true},
		{in: " 390.533.447-05 ", want: true},
		{in: "52998224725", want: true},
		{in: "11111111111", want: false},
		{in: "00000000000", want: false},
		{in: "12345678900", want: false},
		{in: "39053344706", want: false},
		{in: "3905334470", want: false},
		{in: "390533447050", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidCPF(tt.in), "IsValidCPF(%q)", tt.in)
	}
}

func TestCPFCheckDigitUsesZeroForSmallRemainders(t *testing.T) {
	// 100000000: sum = 10, remainder 10 -> digit 1.
	assert.Equal(t, 1, cpfCheckDigit("100000000"))
	// 000000001: sum = 2, remainder 2 -> digit 9.
	assert.Equal(t, 9, cpfCheckDigit("000000001"))
	// 000000000 would be remainder 0 -> digit 0.
	assert.Equal(t, 0, cpfCheckDigit("000000000"))
	// 00000000 6: weight 2 * 6 = 12, remainder 1 -> digit 0.
	assert.Equal(t, 0, cpfCheckDigit("000000006"))
}

func TestEmailAndPhoneTreatEmptinessDifferently(t *testing.T) {
	assert.True(t, IsValidEmail(""))
	assert.True(t, IsValidEmail("   "))
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("   "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("usuario@dominio.com"))
	assert.True(t, IsValidEmail("  usuario@dominio.com.br  "))
	assert.False(t, IsValidEmail("usuario@dominio"))
	assert.False(t, IsValidEmail("usuario dominio.com"))
	assert.False(t, IsValidEmail("user name@dominio.com"))
	// Loose by design: a second @ is accepted.
	assert.True(t, IsValidEmail("a@b@c.d"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("11987654321"))
	assert.True(t, IsValidPhone("(11) 98765-4321"))
	assert.False(t, IsValidPhone("1198765432"))
	assert.False(t, IsValidPhone("119876543210"))
	assert.False(t, IsValidPhone("12345"))
}

func TestIsValidCEP(t *testing.T) {
	assert.True(t, IsValidCEP("24210-310"))
	assert.False(t, IsValidCEP("24210"))
	assert.False(t, IsValidCEP(""))
}

func TestMessageValidators(t *testing.T) {
	assert.Empty(t, EmailMessage(""))
	assert.Equal(t, InvalidEmailMessage, EmailMessage("nope"))
	assert.Empty(t, PhoneMessage("11987654321"))
	assert.Equal(t, InvalidPhoneMessage, PhoneMessage(""))
	assert.Empty(t, CPFMessage("390.533.447-05"))
	assert.Equal(t, InvalidCPFMessage, CPFMessage("12345678900"))
}
