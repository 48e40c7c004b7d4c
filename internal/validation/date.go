package validation

import (
	"regexp"
	"strconv"
	"time"
)

const (
	minCalendarYear = 1900
	maxCalendarYear = 3000
)

var calendarDateShape = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ParseCalendarDate reads a dd/mm/yyyy value in loc. Dates that time.Date
// would normalize (31/02 becoming 02/03 or 03/03) are rejected.
func ParseCalendarDate(formatted string, loc *time.Location) (time.Time, bool) {
	if !calendarDateShape.MatchString(formatted) {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(formatted[0:2])
	month, _ := strconv.Atoi(formatted[3:5])
	year, _ := strconv.Atoi(formatted[6:10])

	if year < minCalendarYear || year > maxCalendarYear {
		return time.Time{}, false
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}

	if loc == nil {
		loc = time.UTC
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func IsValidCalendarDate(formatted string) bool {
	_, ok := ParseCalendarDate(formatted, time.UTC)
	return ok
}

// CalculateAge returns false when the date is malformed, impossible or after
// today's date in now's location.
func CalculateAge(formatted string, now time.Time) (int, bool) {
	birth, ok := ParseCalendarDate(formatted, now.Location())
	if !ok {
		return 0, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if birth.After(today) {
		return 0, false
	}

	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
