package cmd

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <expression>...",
		Short: "Check that cron expressions can be expressed in launchd",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateRun(cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) validateRun(w io.Writer, exprs []string) error {
	var merr *multierror.Error
	for _, expr := range exprs {
		schedule, err := a.translator.Translate(expr)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%q: %w", expr, err))
			fmt.Fprintf(w, "FAIL\t%s\n", expr)
			continue
		}
		fmt.Fprintf(w, "OK\t%s\t%s\n", expr, describe(schedule))
	}
	return merr.ErrorOrNil()
}
