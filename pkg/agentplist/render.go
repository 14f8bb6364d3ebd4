package agentplist

import (
	"fmt"

	"github.com/THPTUHA/launchcron/pkg/launchd"
	"howett.net/plist"
)

// Job describes a launchd agent to be rendered.
type Job struct {
	Label            string
	Program          string
	Arguments        []string
	WorkingDirectory string
	Environment      map[string]string
	StdoutPath       string
	StderrPath       string
	Schedule         string
}

type calendarInterval struct {
	Minute  *int `plist:"Minute,omitempty"`
	Hour    *int `plist:"Hour,omitempty"`
	Day     *int `plist:"Day,omitempty"`
	Month   *int `plist:"Month,omitempty"`
	Weekday *int `plist:"Weekday,omitempty"`
}

type launchAgent struct {
	Label                 string             `plist:"Label"`
	Program               string             `plist:"Program,omitempty"`
	ProgramArguments      []string           `plist:"ProgramArguments,omitempty"`
	WorkingDirectory      string             `plist:"WorkingDirectory,omitempty"`
	EnvironmentVariables  map[string]string  `plist:"EnvironmentVariables,omitempty"`
	StandardOutPath       string             `plist:"StandardOutPath,omitempty"`
	StandardErrorPath     string             `plist:"StandardErrorPath,omitempty"`
	RunAtLoad             bool               `plist:"RunAtLoad,omitempty"`
	StartInterval         int                `plist:"StartInterval,omitempty"`
	StartCalendarInterval []calendarInterval `plist:"StartCalendarInterval,omitempty"`
}

func newCalendarInterval(e launchd.CalendarEntry) calendarInterval {
	var ci calendarInterval
	for _, f := range launchd.CalendarFields {
		v, ok := e[f]
		if !ok {
			continue
		}
		switch f {
		case launchd.FieldMinute:
			ci.Minute = &v
		case launchd.FieldHour:
			ci.Hour = &v
		case launchd.FieldDay:
			ci.Day = &v
		case launchd.FieldMonth:
			ci.Month = &v
		case launchd.FieldWeekday:
			ci.Weekday = &v
		}
	}
	return ci
}

// Render builds the XML property list for job running on schedule.
func Render(job Job, schedule launchd.Schedule) ([]byte, error) {
	agent := launchAgent{
		Label:                job.Label,
		Program:              job.Program,
		ProgramArguments:     job.Arguments,
		WorkingDirectory:     job.WorkingDirectory,
		EnvironmentVariables: job.Environment,
		StandardOutPath:      job.StdoutPath,
		StandardErrorPath:    job.StderrPath,
	}

	switch s := schedule.(type) {
	case launchd.RunAtLoad:
		agent.RunAtLoad = true
	case launchd.StartInterval:
		agent.StartInterval = s.Seconds
	case launchd.StartCalendarInterval:
		agent.StartCalendarInterval = make([]calendarInterval, len(s.Entries))
		for i, e := range s.Entries {
			agent.StartCalendarInterval[i] = newCalendarInterval(e)
		}
	default:
		return nil, fmt.Errorf("%w: unknown schedule type %T", launchd.ErrInvariant, schedule)
	}

	return plist.MarshalIndent(agent, plist.XMLFormat, "\t")
}
