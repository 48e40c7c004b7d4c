package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultRequiredMessage = "Required field"
	DefaultPatternMessage  = "Invalid format"
)

func MinLengthMessage(n int) string {
	return fmt.Sprintf("Minimum of %d characters", n)
}

func MaxLengthMessage(n int) string {
	return fmt.Sprintf("Maximum of %d characters", n)
}

// Rules is the declarative constraint set of a single field. Zero values
// disable a rule; MinLength and MaxLength are only enforced when positive.
type Rules struct {
	Required        bool
	RequiredMessage string

	MinLength        int
	MinLengthMessage string
	MaxLength        int
	MaxLengthMessage string

	// Pattern wins over PatternString when both are set.
	Pattern        *regexp.Regexp
	PatternString  string
	PatternMessage string

	// Validate returns a non-empty message to reject the value.
	Validate func(value string) string
}

// ComputeFieldError evaluates required, minLength, maxLength, pattern and the
// custom hook in that order and returns the first failure, or "" when the
// value passes every rule.
func ComputeFieldError(value string, rules Rules) string {
	if rules.Required && strings.TrimSpace(value) == "" {
		return firstNonEmpty(rules.RequiredMessage, DefaultRequiredMessage)
	}

	length := utf8.RuneCountInString(value)
	if rules.MinLength > 0 && length < rules.MinLength {
		return firstNonEmpty(rules.MinLengthMessage, MinLengthMessage(rules.MinLength))
	}
	if rules.MaxLength > 0 && length > rules.MaxLength {
		return firstNonEmpty(rules.MaxLengthMessage, MaxLengthMessage(rules.MaxLength))
	}

	if re, set := rules.pattern(); set {
		if re == nil || !re.MatchString(value) {
			return firstNonEmpty(rules.PatternMessage, DefaultPatternMessage)
		}
	}

	if rules.Validate != nil {
		if msg := rules.Validate(value); msg != "" {
			return msg
		}
	}

	return ""
}

func FieldError(value string, rules Rules) (string, bool) {
	msg := ComputeFieldError(value, rules)
	return msg, msg != ""
}

// pattern reports whether a pattern rule is configured. An uncompilable
// string pattern yields (nil, true) so the value is rejected instead of
// panicking.
func (r Rules) pattern() (*regexp.Regexp, bool) {
	if r.Pattern != nil {
		return r.Pattern, true
	}
	if r.PatternString == "" {
		return nil, false
	}
	re, err := regexp.Compile(r.PatternString)
	if err != nil {
		return nil, true
	}
	return re, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
