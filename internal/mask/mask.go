package mask

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	cpfDigits       = 11
	cepDigits       = 8
	cnpjDigits      = 14
	phoneDigits     = 11
	birthDateDigits = 8
)

type Kind string

const (
	KindCPF       Kind = "cpf"
	KindCEP       Kind = "cep"
	KindCNPJ      Kind = "cnpj"
	KindPhone     Kind = "phone"
	KindBirthDate Kind = "birthdate"
)

var ErrUnknownKind = errors.New("unknown mask kind")

var nonDigits = regexp.MustCompile(`\D`)

func Digits(raw string) string {
	if raw == "" {
		return ""
	}
	return nonDigits.ReplaceAllString(raw, "")
}

// Unformat drops every separator a mask inserted.
func Unformat(raw string) string {
	return Digits(raw)
}

func digitsUpTo(raw string, limit int) string {
	digits := Digits(raw)
	if len(digits) > limit {
		return digits[:limit]
	}
	return digits
}

// segment is one group of a mask: the separator written before it and the
// index of the digit where it ends.
type segment struct {
	sep byte
	end int
}

// apply writes digits group by group, emitting a separator only once the
// group it introduces has at least one digit.
func apply(digits string, segments []segment) string {
	var b strings.Builder
	b.Grow(len(digits) + len(segments))

	start := 0
	for _, seg := range segments {
		if start >= len(digits) {
			break
		}
		end := min(seg.end, len(digits))
		if seg.sep != 0 {
			b.WriteByte(seg.sep)
		}
		b.WriteString(digits[start:end])
		start = end
	}
	return b.String()
}

var (
	cpfSegments       = []segment{{end: 3}, {sep: '.', end: 6}, {sep: '.', end: 9}, {sep: '-', end: 11}}
	cepSegments       = []segment{{end: 5}, {sep: '-', end: 8}}
	cnpjSegments      = []segment{{end: 2}, {sep: '.', end: 5}, {sep: '.', end: 8}, {sep: '/', end: 12}, {sep: '-', end: 14}}
	birthDateSegments = []segment{{end: 2}, {sep: '/', end: 4}, {sep: '/', end: 8}}
)

func CPF(raw string) string {
	return apply(digitsUpTo(raw, cpfDigits), cpfSegments)
}

func CEP(raw string) string {
	return apply(digitsUpTo(raw, cepDigits), cepSegments)
}

func CNPJ(raw string) string {
	return apply(digitsUpTo(raw, cnpjDigits), cnpjSegments)
}

// Phone is not visually masked, only reduced to at most 11 digits (DDD + number).
func Phone(raw string) string {
	return digitsUpTo(raw, phoneDigits)
}

func Format(kind Kind, raw string, opts ...BirthDateOption) (string, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindCPF:
		return CPF(raw), nil
	case KindCEP:
		return CEP(raw), nil
	case KindCNPJ:
		return CNPJ(raw), nil
	case KindPhone:
		return Phone(raw), nil
	case KindBirthDate:
		return BirthDate(raw, opts...), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// MaxLen is the length of a complete masked value of the given kind.
func MaxLen(kind Kind) int {
	switch kind {
	case KindCPF:
		return 14
	case KindCEP:
		return 9
	case KindCNPJ:
		return 18
	case KindPhone:
		return phoneDigits
	case KindBirthDate:
		return 10
	default:
		return 0
	}
}
