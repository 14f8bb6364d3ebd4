package launchd

import (
	"fmt"
	"strings"
	"time"

	"github.com/THPTUHA/launchcron/pkg/extcron"
	"github.com/robfig/cron/v3"
)

// Parser is the cron front end the translator relies on.
type Parser interface {
	cron.ScheduleParser
	ParseFields(spec string) (*extcron.FieldSet, error)
}

// Translator converts cron expressions into launchd schedules. It holds no
// mutable state and is safe for concurrent use.
type Translator struct {
	parser     Parser
	expansion  Expansion
	maxEntries int
}

// TranslatorOption configures a Translator built by NewTranslator.
type TranslatorOption func(t *Translator)

// WithParser replaces the extcron front end.
func WithParser(p Parser) TranslatorOption {
	return func(t *Translator) {
		t.parser = p
	}
}

// WithExpansion selects how explicit fields are combined into entries.
func WithExpansion(e Expansion) TranslatorOption {
	return func(t *Translator) {
		t.expansion = e
	}
}

// WithMaxEntries sets the entry ceiling. Values below 1 keep the default.
func WithMaxEntries(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.maxEntries = n
		}
	}
}

// NewTranslator returns a translator using the extcron parser, cyclic
// expansion and DefaultMaxEntries unless overridden by opts.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{
		parser:     extcron.NewParser(),
		expansion:  CyclicExpansion{},
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var defaultTranslator = NewTranslator()

// Translate converts expr with the default translator.
func Translate(expr string) (Schedule, error) {
	return defaultTranslator.Translate(expr)
}

// IsReboot reports whether expr is the run-at-load trigger.
func IsReboot(expr string) bool {
	return strings.EqualFold(strings.TrimSpace(expr), "@reboot")
}

func isEvery(expr string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(expr)), "@every")
}

// Translate converts expr into a launchd schedule. Any failure aborts the
// translation; there is no partial result.
func (t *Translator) Translate(expr string) (Schedule, error) {
	if IsReboot(expr) {
		return RunAtLoad{}, nil
	}
	if isEvery(expr) {
		return t.translateEvery(expr)
	}

	fs, err := t.parser.ParseFields(expr)
	if err != nil {
		return nil, err
	}
	return t.TranslateFields(fs)
}

// TranslateFields converts an already parsed field set.
// A field set without an explicit seconds field is scheduled at minute
// granularity.
func (t *Translator) TranslateFields(fs *extcron.FieldSet) (Schedule, error) {
	if fs.HasSeconds {
		mode, step, err := classifySeconds(fs.Second, othersWildcard(fs))
		if err != nil {
			return nil, err
		}
		switch mode {
		case secondsInterval:
			return StartInterval{Seconds: step}, nil
		case secondsEveryTick:
			return StartInterval{Seconds: 1}, nil
		}
	}

	fields, err := mapFields(fs)
	if err != nil {
		return nil, err
	}
	entries, err := expand(t.expansion, fields, t.maxEntries)
	if err != nil {
		return nil, err
	}
	return StartCalendarInterval{Entries: entries}, nil
}

func (t *Translator) translateEvery(expr string) (Schedule, error) {
	sched, err := t.parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	every, ok := sched.(cron.ConstantDelaySchedule)
	if !ok {
		return nil, fmt.Errorf("%w: %q did not parse as a constant delay, got %T", ErrInvariant, expr, sched)
	}
	seconds := int(every.Delay / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return StartInterval{Seconds: seconds}, nil
}
