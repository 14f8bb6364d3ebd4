package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/THPTUHA/launchcron/pkg/extcron"
	"github.com/THPTUHA/launchcron/pkg/launchd"
	"github.com/spf13/cobra"
)

var timeNow = time.Now

func newNextCmd(a *app) *cobra.Command {
	var count int
	nextCmd := &cobra.Command{
		Use:   "next <expression>",
		Short: "Preview the next activation times of a cron expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.nextRun(cmd.OutOrStdout(), args[0], count)
		},
	}
	nextCmd.Flags().IntVarP(&count, "count", "n", 5, "Number of activation times to print")
	return nextCmd
}

func (a *app) nextRun(w io.Writer, expr string, count int) error {
	// only preview what launchd can actually run
	schedule, err := a.translator.Translate(expr)
	if err != nil {
		return err
	}
	if _, ok := schedule.(launchd.RunAtLoad); ok {
		fmt.Fprintln(w, "runs once when the job is loaded")
		return nil
	}

	sched, err := extcron.NewParser().Parse(expr)
	if err != nil {
		return err
	}
	t := timeNow()
	for i := 0; i < count; i++ {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		fmt.Fprintln(w, t.Format(time.RFC3339))
	}
	return nil
}
