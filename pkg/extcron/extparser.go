package extcron

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

var (
	ErrEmptySpec     = errors.New("empty spec string")
	ErrTimezone      = errors.New("time zone prefixes are not supported, schedules run in local time")
	ErrNotFieldBased = errors.New("schedule is not expressed as cron fields")
)

var weekdayNames = map[string]string{
	"sun": "0",
	"mon": "1",
	"tue": "2",
	"wed": "3",
	"thu": "4",
	"fri": "5",
	"sat": "6",
}

var weekdayNamePattern = regexp.MustCompile(`[a-z]+`)

// ExtParser is a parser extending robfig/cron v3 standard parser with
// an optional leading seconds field and a 0-7 day-of-week range.
type ExtParser struct {
	parser  cron.Parser
	weekday cron.Parser
}

// NewParser creates an ExtParser instance
func NewParser() *ExtParser {
	return &ExtParser{
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		// day-of-week tokens are parsed in the hour slot, whose 0-23 bounds admit 7
		weekday: cron.NewParser(cron.Hour),
	}
}

// Parse parses a cron schedule specification into a robfig/cron schedule.
// It accepts everything ParseFields does plus "@every <duration>".
func (p *ExtParser) Parse(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(strings.ToLower(spec), "@every") {
		// robfig only recognises the lower case descriptor
		return p.parser.Parse("@every" + spec[len("@every"):])
	}
	fs, err := p.ParseFields(spec)
	if err != nil {
		return nil, err
	}
	return fs.Schedule(), nil
}

// ParseFields parses a five field (minute hour dom month dow) or six field
// (second minute hour dom month dow) expression, or one of the calendar
// descriptors, into a FieldSet.
func (p *ExtParser) ParseFields(spec string) (*FieldSet, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptySpec
	}
	if strings.HasPrefix(spec, "TZ=") || strings.HasPrefix(spec, "CRON_TZ=") {
		return nil, ErrTimezone
	}

	if strings.HasPrefix(spec, "@") {
		sched, err := p.parser.Parse(spec)
		if err != nil {
			return nil, err
		}
		ss, ok := sched.(*cron.SpecSchedule)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFieldBased, spec)
		}
		return fromSpec(ss, nil, false), nil
	}

	fields := strings.Fields(spec)
	if len(fields) != 5 && len(fields) != 6 {
		return nil, fmt.Errorf("expected 5 or 6 fields, found %d: %s", len(fields), spec)
	}

	dowRaw := fields[len(fields)-1]
	dow, err := p.parseWeekdays(dowRaw)
	if err != nil {
		return nil, err
	}

	rest := make([]string, len(fields))
	copy(rest, fields)
	rest[len(rest)-1] = "*"
	sched, err := p.parser.Parse(strings.Join(rest, " "))
	if err != nil {
		return nil, err
	}
	ss, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFieldBased, spec)
	}

	hasSeconds := len(fields) == 6
	if !hasSeconds {
		fields = append([]string{""}, fields...)
	}
	fs := fromSpec(ss, fields, hasSeconds)
	fs.DayOfWeek = dow
	if err := checkCalendar(fs); err != nil {
		return nil, err
	}
	return fs, nil
}

func fromSpec(ss *cron.SpecSchedule, raw []string, hasSeconds bool) *FieldSet {
	if raw == nil {
		raw = make([]string, 6)
	}
	return &FieldSet{
		Second:     fieldFromBits(ss.Second, Second, raw[0]),
		Minute:     fieldFromBits(ss.Minute, Minute, raw[1]),
		Hour:       fieldFromBits(ss.Hour, Hour, raw[2]),
		DayOfMonth: fieldFromBits(ss.Dom, DayOfMonth, raw[3]),
		Month:      fieldFromBits(ss.Month, Month, raw[4]),
		DayOfWeek:  fieldFromBits(ss.Dow, DayOfWeek, raw[5]),
		HasSeconds: hasSeconds,
	}
}

// parseWeekdays parses a day-of-week token allowing both 0 and 7 for Sunday.
func (p *ExtParser) parseWeekdays(raw string) (Field, error) {
	token := weekdayNamePattern.ReplaceAllStringFunc(strings.ToLower(raw), func(name string) string {
		if num, ok := weekdayNames[name]; ok {
			return num
		}
		return name
	})
	token = boundWeekdaySteps(token)

	sched, err := p.weekday.Parse(token)
	if err != nil {
		return Field{}, fmt.Errorf("day-of-week %q: %w", raw, err)
	}
	bits := sched.(*cron.SpecSchedule).Hour
	f := fieldFromBits(bits, Hour, raw)
	if f.Wildcard {
		return f, nil
	}
	if last := f.Values[len(f.Values)-1]; last > 7 {
		return Field{}, fmt.Errorf("day-of-week %q: end of range (%d) above maximum (7)", raw, last)
	}
	return f, nil
}

// boundWeekdaySteps ends open-ended weekday steps at Saturday instead of the
// hour slot maximum. "*/1" and "?/1" stay wildcards.
func boundWeekdaySteps(token string) string {
	parts := strings.Split(token, ",")
	for i, part := range parts {
		base, step, ok := strings.Cut(part, "/")
		if !ok || strings.Contains(base, "-") {
			continue
		}
		switch base {
		case "*", "?":
			if step != "1" {
				parts[i] = "0-6/" + step
			}
		default:
			end := "6"
			if n, err := strconv.Atoi(base); err == nil && n > 6 {
				end = base
			}
			parts[i] = base + "-" + end + "/" + step
		}
	}
	return strings.Join(parts, ",")
}
