package validation

import (
	"fmt"
	"time"

	"franchise-pos/internal/common/errors"
)

const DayLayout = "2006-01-02"

// ParseDayRange parses inclusive calendar days in loc into a half-open
// [start, end) window. An empty bound is returned as nil.
func ParseDayRange(from, to string, loc *time.Location) (start, end *time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	if from != "" {
		t, err := time.ParseInLocation(DayLayout, from, loc)
		if err != nil {
			return nil, nil, errors.NewValidationError(fmt.Sprintf("from: expected %s, got %q", DayLayout, from))
		}
		start = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(DayLayout, to, loc)
		if err != nil {
			return nil, nil, errors.NewValidationError(fmt.Sprintf("to: expected %s, got %q", DayLayout, to))
		}
		t = t.AddDate(0, 0, 1)
		end = &t
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, errors.NewValidationError("from must not be after to")
	}
	return start, end, nil
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
