package mask

import (
	"fmt"
	"strconv"
	"time"
)

type birthDateConfig struct {
	expandYear bool
	now        time.Time
}

type BirthDateOption func(*birthDateConfig)

// WithPivotYear turns a typed ddmmyy into dd/mm/yyyy using ExpandYear
// relative to now. Without it two-digit years are left untouched.
func WithPivotYear(now time.Time) BirthDateOption {
	return func(c *birthDateConfig) {
		c.expandYear = true
		c.now = now
	}
}

func BirthDate(raw string, opts ...BirthDateOption) string {
	cfg := birthDateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	digits := digitsUpTo(raw, birthDateDigits)
	if cfg.expandYear && len(digits) == 6 {
		if year, ok := ExpandYear(digits[4:], cfg.now); ok {
			digits = digits[:4] + year
		}
	}
	return apply(digits, birthDateSegments)
}

// ExpandYear maps a two-digit year to four digits: years up to the current
// two-digit year stay in the current century, later ones go to the previous.
func ExpandYear(twoDigits string, now time.Time) (string, bool) {
	if len(twoDigits) != 2 || Digits(twoDigits) != twoDigits {
		return "", false
	}
	yy, err := strconv.Atoi(twoDigits)
	if err != nil {
		return "", false
	}

	century := now.Year() / 100 * 100
	if yy > now.Year()%100 {
		century -= 100
	}
	return fmt.Sprintf("%04d", century+yy), true
}
