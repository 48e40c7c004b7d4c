package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFieldErrorRuleOrder(t *testing.T) {
	upperOnly := regexp.MustCompile(`^[A-Z]+$`)
	rejectAll := func(string) string { return "custom failure" }

	tests := []struct {
		name  string
		value string
		rules Rules
		want  string
	}{
		{
			name:  "required wins over min length",
			value: "",
			rules: Rules{Required: true, MinLength: 5},
			want:  DefaultRequiredMessage,
		},
		{
			name:  "whitespace only counts as empty",
			value: "   ",
			rules: Rules{Required: true, RequiredMessage: "name is required"},
			want:  "name is required",
		},
		{
			name:  "min length before pattern",
			value: "abc",
			rules: Rules{MinLength: 5, Pattern: upperOnly},
			want:  "Minimum of 5 characters",
		},
		{
			name:  "max length before pattern",
			value: "abcdef",
			rules: Rules{MaxLength: 5, Pattern: upperOnly},
			want:  "Maximum of 5 characters",
		},
		{
			name:  "pattern before custom",
			value: "abcde",
			rules: Rules{Pattern: upperOnly, Validate: rejectAll},
			want:  DefaultPatternMessage,
		},
		{
			name:  "pattern message override",
			value: "abcde",
			rules: Rules{PatternString: `^\d+$`, PatternMessage: "digits only"},
			want:  "digits only",
		},
		{
			name:  "custom validator message verbatim",
			value: "ABCDE",
			rules: Rules{Pattern: upperOnly, Validate: rejectAll},
			want:  "custom failure",
		},
		{
			name:  "length messages can be overridden",
			value: "ab",
			rules: Rules{MinLength: 3, MinLengthMessage: "too short"},
			want:  "too short",
		},
		{
			name:  "valid value",
			value: "ABCDE",
			rules: Rules{Required: true, MinLength: 5, MaxLength: 5, Pattern: upperOnly, Validate: func(string) string { return "" }},
			want:  "",
		},
		{
			name:  "no rules",
			value: "",
			rules: Rules{},
			want:  "",
		},
		{
			name:  "optional empty value still checked by min length",
			value: "",
			rules: Rules{MinLength: 2},
			want:  "Minimum of 2 characters",
		},
		{
			name:  "invalid string pattern rejects value",
			value: "anything",
			rules: Rules{PatternString: `(`},
			want:  DefaultPatternMessage,
		},
		{
			name:  "compiled pattern wins over string",
			value: "ABC",
			rules: Rules{Pattern: upperOnly, PatternString: `^\d+$`},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeFieldError(tt.value, tt.rules))
		})
	}
}

func TestComputeFieldErrorCountsCharacters(t *testing.T) {
	rules := Rules{MaxLength: 5}
	assert.Empty(t, ComputeFieldError(strings.Repeat("ç", 5), rules))
	assert.Equal(t, "Maximum of 5 characters", ComputeFieldError(strings.Repeat("ç", 6), rules))
}

func TestComputeFieldErrorStopsAtFirstFailure(t *testing.T) {
	called := false
	rules := Rules{
		Required: true,
		Validate: func(string) string {
			called = true
			return "should not run"
		},
	}

	assert.Equal(t, DefaultRequiredMessage, ComputeFieldError("", rules))
	assert.False(t, called)
}

func TestFieldErrorWithMessageValidators(t *testing.T) {
	msg, invalid := FieldError("nope", Rules{Required: true, Validate: EmailMessage})
	assert.True(t, invalid)
	assert.Equal(t, InvalidEmailMessage, msg)

	msg, invalid = FieldError("390.533.447-05", Rules{Required: true, Validate: CPFMessage})
	assert.False(t, invalid)
	assert.Empty(t, msg)
}
