// Package launchd translates cron expressions into launchd scheduling
// primitives: StartInterval, StartCalendarInterval and RunAtLoad.
package launchd

// Field is a StartCalendarInterval dictionary key.
type Field string

const (
	FieldMinute  Field = "Minute"
	FieldHour    Field = "Hour"
	FieldDay     Field = "Day"
	FieldMonth   Field = "Month"
	FieldWeekday Field = "Weekday"
)

// CalendarFields lists the calendar keys in launchd's documented order.
var CalendarFields = []Field{FieldMinute, FieldHour, FieldDay, FieldMonth, FieldWeekday}

// CalendarEntry is one StartCalendarInterval dictionary. A missing key
// matches any value.
type CalendarEntry map[Field]int

// Schedule is the result of a translation. It is one of StartInterval,
// StartCalendarInterval or RunAtLoad.
type Schedule interface {
	isSchedule()
}

// StartInterval fires every Seconds seconds.
type StartInterval struct {
	Seconds int
}

// StartCalendarInterval fires whenever the wall clock matches any entry.
type StartCalendarInterval struct {
	Entries []CalendarEntry
}

// RunAtLoad fires once when the job is loaded.
type RunAtLoad struct{}

func (StartInterval) isSchedule()         {}
func (StartCalendarInterval) isSchedule() {}
func (RunAtLoad) isSchedule()             {}
