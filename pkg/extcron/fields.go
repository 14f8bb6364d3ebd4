package extcron

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// starBit mirrors the robfig/cron marker for a field written as "*" or "?".
const starBit = 1 << 63

// FieldName identifies a position in a cron expression.
type FieldName int

const (
	Second FieldName = iota
	Minute
	Hour
	DayOfMonth
	Month
	DayOfWeek
)

func (n FieldName) String() string {
	switch n {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case DayOfMonth:
		return "day-of-month"
	case Month:
		return "month"
	case DayOfWeek:
		return "day-of-week"
	}
	return "field(" + strconv.Itoa(int(n)) + ")"
}

type bounds struct {
	min, max int
}

var fieldBounds = map[FieldName]bounds{
	Second:     {0, 59},
	Minute:     {0, 59},
	Hour:       {0, 23},
	DayOfMonth: {1, 31},
	Month:      {1, 12},
	DayOfWeek:  {0, 7},
}

// Field is a single parsed cron position. A wildcard field carries no values;
// an explicit one holds a strictly ascending, non-empty list.
type Field struct {
	Wildcard bool
	Values   []int
	// Raw is the token as written, empty when the field was defaulted.
	Raw string
}

// IsStep reports whether the raw token used step syntax.
func (f Field) IsStep() bool {
	return strings.Contains(f.Raw, "/")
}

func (f Field) String() string {
	if f.Wildcard {
		return "*"
	}
	parts := make([]string, len(f.Values))
	for i, v := range f.Values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// FieldSet is the structured form of a five or six field cron expression.
type FieldSet struct {
	Second     Field
	Minute     Field
	Hour       Field
	DayOfMonth Field
	Month      Field
	DayOfWeek  Field

	// HasSeconds is set when the expression carried an explicit seconds field.
	HasSeconds bool
}

// Get returns the field stored at the given position.
func (fs *FieldSet) Get(name FieldName) Field {
	switch name {
	case Second:
		return fs.Second
	case Minute:
		return fs.Minute
	case Hour:
		return fs.Hour
	case DayOfMonth:
		return fs.DayOfMonth
	case Month:
		return fs.Month
	case DayOfWeek:
		return fs.DayOfWeek
	}
	return Field{}
}

// Schedule rebuilds a robfig/cron schedule from the field set. Weekday 7 is
// folded onto Sunday.
func (fs *FieldSet) Schedule() *cron.SpecSchedule {
	dow := fieldBits(fs.DayOfWeek, DayOfWeek)
	if dow&(1<<7) != 0 {
		dow = dow&^(1<<7) | 1
	}
	if fs.DayOfWeek.Wildcard {
		dow = bitRange(0, 6) | starBit
	}
	return &cron.SpecSchedule{
		Second:   fieldBits(fs.Second, Second),
		Minute:   fieldBits(fs.Minute, Minute),
		Hour:     fieldBits(fs.Hour, Hour),
		Dom:      fieldBits(fs.DayOfMonth, DayOfMonth),
		Month:    fieldBits(fs.Month, Month),
		Dow:      dow,
		Location: time.Local,
	}
}

func fieldBits(f Field, name FieldName) uint64 {
	b := fieldBounds[name]
	if f.Wildcard {
		return bitRange(b.min, b.max) | starBit
	}
	var bits uint64
	for _, v := range f.Values {
		bits |= 1 << uint(v)
	}
	return bits
}

func bitRange(min, max int) uint64 {
	var bits uint64
	for i := min; i <= max; i++ {
		bits |= 1 << uint(i)
	}
	return bits
}

// fieldFromBits converts a robfig bitmask back into a Field.
func fieldFromBits(bits uint64, name FieldName, raw string) Field {
	if bits&starBit != 0 {
		return Field{Wildcard: true, Raw: raw}
	}
	b := fieldBounds[name]
	f := Field{Raw: raw}
	for i := b.min; i <= b.max; i++ {
		if bits&(1<<uint(i)) != 0 {
			f.Values = append(f.Values, i)
		}
	}
	return f
}

// daysInMonth holds the longest possible length of each month.
var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// checkCalendar rejects day-of-month and month combinations that never occur.
func checkCalendar(fs *FieldSet) error {
	if fs.DayOfMonth.Wildcard || fs.Month.Wildcard {
		return nil
	}
	for _, m := range fs.Month.Values {
		for _, d := range fs.DayOfMonth.Values {
			if d <= daysInMonth[m] {
				return nil
			}
		}
	}
	return fmt.Errorf("day-of-month %s never occurs in month %s", fs.DayOfMonth, fs.Month)
}
