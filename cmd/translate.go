package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/THPTUHA/launchcron/pkg/agentplist"
	"github.com/THPTUHA/launchcron/pkg/launchd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

type TranslateConfig struct {
	Output  string
	Label   string
	Program string
}

type scheduleView struct {
	Type    string                  `json:"type" yaml:"type"`
	Seconds int                     `json:"seconds,omitempty" yaml:"seconds,omitempty"`
	Entries []launchd.CalendarEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

func newScheduleView(s launchd.Schedule) scheduleView {
	switch s := s.(type) {
	case launchd.StartInterval:
		return scheduleView{Type: "StartInterval", Seconds: s.Seconds}
	case launchd.StartCalendarInterval:
		return scheduleView{Type: "StartCalendarInterval", Entries: s.Entries}
	case launchd.RunAtLoad:
		return scheduleView{Type: "RunAtLoad"}
	}
	return scheduleView{Type: fmt.Sprintf("%T", s)}
}

// describe summarises a schedule on one line.
func describe(s launchd.Schedule) string {
	switch s := s.(type) {
	case launchd.StartInterval:
		return fmt.Sprintf("StartInterval every %ds", s.Seconds)
	case launchd.StartCalendarInterval:
		if len(s.Entries) == 1 {
			return "StartCalendarInterval with 1 entry"
		}
		return fmt.Sprintf("StartCalendarInterval with %d entries", len(s.Entries))
	case launchd.RunAtLoad:
		return "RunAtLoad"
	}
	return fmt.Sprintf("%T", s)
}

func newTranslateCmd(a *app) *cobra.Command {
	var tc TranslateConfig
	translateCmd := &cobra.Command{
		Use:   "translate <expression>",
		Short: "Print the launchd schedule for a cron expression",
		Long: `Translate a five or six field cron expression (or @reboot, @every and the
calendar descriptors) into StartInterval, StartCalendarInterval or RunAtLoad.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.translateRun(cmd.OutOrStdout(), args[0], tc)
		},
	}
	translateCmd.Flags().StringVarP(&tc.Output, "output", "o", "json", "Output format: json|yaml|plist")
	translateCmd.Flags().StringVar(&tc.Label, "label", "local.launchcron.preview", "Label used for plist output")
	translateCmd.Flags().StringVar(&tc.Program, "program", "/usr/bin/true", "Program used for plist output")
	return translateCmd
}

func (a *app) translateRun(w io.Writer, expr string, tc TranslateConfig) error {
	schedule, err := a.translator.Translate(expr)
	if err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{
		"expression": expr,
		"schedule":   describe(schedule),
	}).Debug("translate: done")

	var out []byte
	switch tc.Output {
	case "json":
		out, err = json.MarshalIndent(newScheduleView(schedule), "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(newScheduleView(schedule))
	case "plist":
		out, err = agentplist.Render(agentplist.Job{Label: tc.Label, Program: tc.Program}, schedule)
		out = append(out, '\n')
	default:
		return fmt.Errorf("unknown output format %q, possible choices are: json, yaml, plist", tc.Output)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
