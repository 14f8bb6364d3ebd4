package launchd

import (
	"fmt"

	"github.com/THPTUHA/launchcron/pkg/extcron"
)

// calendarSources lists the cron positions that become calendar keys, in
// the order their values are expanded.
var calendarSources = []extcron.FieldName{
	extcron.Minute,
	extcron.Hour,
	extcron.DayOfMonth,
	extcron.Month,
	extcron.DayOfWeek,
}

// FieldValues is a calendar key together with the values it takes.
type FieldValues struct {
	Field  Field
	Values []int
}

// calendarField maps a cron position onto its StartCalendarInterval key.
// Seconds have no calendar key.
func calendarField(name extcron.FieldName) (Field, error) {
	switch name {
	case extcron.Minute:
		return FieldMinute, nil
	case extcron.Hour:
		return FieldHour, nil
	case extcron.DayOfMonth:
		return FieldDay, nil
	case extcron.Month:
		return FieldMonth, nil
	case extcron.DayOfWeek:
		return FieldWeekday, nil
	}
	return "", fmt.Errorf("%w: %s has no calendar interval key", ErrInvariant, name)
}

// dedupWeekdays folds Sunday written as 7 onto 0. The input is ascending.
func dedupWeekdays(values []int) []int {
	if len(values) == 0 || values[len(values)-1] != 7 {
		return values
	}
	out := make([]int, 0, len(values))
	if values[0] != 0 {
		out = append(out, 0)
	}
	return append(out, values[:len(values)-1]...)
}

// othersWildcard reports whether every non-seconds field is a wildcard.
func othersWildcard(fs *extcron.FieldSet) bool {
	for _, name := range calendarSources {
		if !fs.Get(name).Wildcard {
			return false
		}
	}
	return true
}

// mapFields returns the explicit, non-seconds fields keyed by calendar name.
func mapFields(fs *extcron.FieldSet) ([]FieldValues, error) {
	var mapped []FieldValues
	for _, name := range calendarSources {
		f := fs.Get(name)
		if f.Wildcard {
			continue
		}
		if len(f.Values) == 0 {
			return nil, fmt.Errorf("%w: explicit %s field %q holds no values", ErrInvariant, name, f.Raw)
		}
		key, err := calendarField(name)
		if err != nil {
			return nil, err
		}
		values := f.Values
		if key == FieldWeekday {
			values = dedupWeekdays(values)
		}
		mapped = append(mapped, FieldValues{Field: key, Values: values})
	}
	return mapped, nil
}
