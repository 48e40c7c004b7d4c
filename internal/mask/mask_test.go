package mask

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only separators", in: ".-/ ()", want: ""},
		{name: "masked cpf", in: "390.533.447-05", want: "39053344705"},
		{name: "letters and unicode", in: "a1b2ç3 ٤", want: "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Digits(tt.in))
		})
	}
}

func TestCPF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "390", want: "390"},
		{in: "390.533", want: "390.533"},
		{in: "3905334", want: "390.533.4"},
		{in: "39053344705", want: "390.533.447-05"},
		{in: "39053344705999", want: "390.533.447-05"},
		{in: "abc390def533", want: "390.533"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CPF(tt.in), "CPF(%q)", tt.in)
	}
}

func TestCPFKeystrokeSequence(t *testing.T) {
	want := []string{
		"3", "39", "390", "390.5", "390.53", "390.533",
		"390.533.4", "390.533.44", "390.533.447", "390.533.447-0", "390.533.447-05",
	}

	typed := ""
	current := ""
	for i, r := range "39053344705" {
		typed += string(r)
		current = CPF(current + string(r))
		require.Equal(t, want[i], current, "after keystroke %d", i+1)
		assert.Equal(t, CPF(typed), current)
	}
}

func TestCEP(t *testing.T) {
	assert.Equal(t, "24210-310", CEP("24210310"))
	assert.Equal(t, "24210", CEP("24210"))
	assert.Equal(t, "24210-3", CEP("242103"))
	assert.Equal(t, "24210-310", CEP("24210-310999"))
	assert.Equal(t, "", CEP("-"))
}

func TestCNPJ(t *testing.T) {
	assert.Equal(t, "04.252.011/0001-10", CNPJ("04252011000110"))
	assert.Equal(t, "04.252.011/0", CNPJ("042520110"))
	assert.Equal(t, "04", CNPJ("04"))
	assert.Equal(t, "04.252.011/0001-10", CNPJ("04.252.011/0001-1099"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "11987654321", Phone("(11) 98765-4321"))
	assert.Equal(t, "11987654321", Phone("11 98765-43210"))
	assert.Equal(t, "119", Phone("11-9"))
	assert.Equal(t, "", Phone(""))
}

func TestBirthDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "1", want: "1"},
		{in: "15", want: "15"},
		{in: "150", want: "15/0"},
		{in: "1503", want: "15/03"},
		{in: "150320", want: "15/03/20"},
		{in: "15032000", want: "15/03/2000"},
		{in: "15/03/2000123", want: "15/03/2000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BirthDate(tt.in), "BirthDate(%q)", tt.in)
	}
}

func TestBirthDateWithPivotYear(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "15/03/2020", BirthDate("150320", WithPivotYear(now)))
	assert.Equal(t, "15/03/2024", BirthDate("150324", WithPivotYear(now)))
	assert.Equal(t, "15/03/1985", BirthDate("150385", WithPivotYear(now)))
	assert.Equal(t, "15/03/2", BirthDate("15032", WithPivotYear(now)))
	assert.Equal(t, "15/03/1985", BirthDate("15/03/1985", WithPivotYear(now)))
}

func TestExpandYear(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "00", want: "2000", wantOK: true},
		{in: "24", want: "2024", wantOK: true},
		{in: "25", want: "1925", wantOK: true},
		{in: "99", want: "1999", wantOK: true},
		{in: "9", wantOK: false},
		{in: "123", wantOK: false},
		{in: "a1", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ExpandYear(tt.in, now)
		assert.Equal(t, tt.wantOK, ok, "ExpandYear(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ExpandYear(%q)", tt.in)
	}

	got, ok := ExpandYear("99", time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "2099", got)
}

func TestFormattingIsIdempotent(t *testing.T) {
	formatters := map[string]func(string) string{
		"cpf":       CPF,
		"cep":       CEP,
		"cnpj":      CNPJ,
		"birthdate": func(s string) string { return BirthDate(s) },
	}
	inputs := []string{"1", "12", "123", "1234", "12345", "123456", "1234567", "12345678", "12345678901", "12345678901234"}

	for name, format := range formatters {
		for _, in := range inputs {
			once := format(in)
			assert.Equal(t, once, format(once), "%s(%q) not idempotent", name, in)
		}
	}
}

func TestFormattingTruncatesToDigitCap(t *testing.T) {
	long := strings.Repeat("9", 40)

	assert.Len(t, Digits(CPF(long)), 11)
	assert.Len(t, Digits(CEP(long)), 8)
	assert.Len(t, Digits(BirthDate(long)), 8)
	assert.Len(t, Digits(CNPJ(long)), 14)
	assert.Len(t, Phone(long), 11)

	assert.Len(t, CPF(long), MaxLen(KindCPF))
	assert.Len(t, CEP(long), MaxLen(KindCEP))
	assert.Len(t, BirthDate(long), MaxLen(KindBirthDate))
	assert.Len(t, CNPJ(long), MaxLen(KindCNPJ))
}

func TestFormat(t *testing.T) {
	got, err := Format(KindCPF, "39053344705")
	require.NoError(t, err)
	assert.Equal(t, "390.533.447-05", got)

	got, err = Format("CEP", "24210310")
	require.NoError(t, err)
	assert.Equal(t, "24210-310", got)

	got, err = Format(KindBirthDate, "010190", WithPivotYear(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "01/01/1990", got)

	_, err = Format("rg", "123")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestUnformat(t *testing.T) {
	assert.Equal(t, "24210310", Unformat("24210-310"))
	assert.Equal(t, "39053344705", Unformat(CPF("39053344705")))
}
