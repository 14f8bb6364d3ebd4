package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/THPTUHA/launchcron/pkg/agentplist"
	"github.com/THPTUHA/launchcron/pkg/jobspec"
	"github.com/spf13/cobra"
)

type GenerateConfig struct {
	File   string
	DryRun bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var gc GenerateConfig
	generateCmd := &cobra.Command{
		Use:   "generate [label]...",
		Short: "Write a launchd plist for every job in a manifest",
		Long: `Read a YAML job manifest and write <output-dir>/<label>.plist for each job,
or only for the labels given. Jobs that cannot be translated are reported
together; the others are still written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generateRun(cmd, gc, args)
		},
	}
	generateCmd.Flags().StringVarP(&gc.File, "file", "f", "launchcron.jobs.yaml", "Job manifest")
	generateCmd.Flags().BoolVar(&gc.DryRun, "dry-run", false, "Print the plists instead of writing them")
	return generateCmd
}

// agentJobs converts manifest entries into renderable jobs, keeping file
// order, or the order of labels when any are given.
func agentJobs(m *jobspec.Manifest, labels []string) ([]agentplist.Job, error) {
	if len(labels) == 0 {
		labels = m.Jobs.Keys()
	}
	jobs := make([]agentplist.Job, 0, len(labels))
	for _, label := range labels {
		if !m.Jobs.Exists(label) {
			return nil, fmt.Errorf("unknown job %q, manifest has: %s", label, strings.Join(m.Jobs.Keys(), ", "))
		}
		j := m.Jobs.Get(label)
		job := agentplist.Job{
			Label:            label,
			Program:          j.Program,
			WorkingDirectory: j.WorkingDir,
			Environment:      j.Env,
			StdoutPath:       j.Stdout,
			StderrPath:       j.Stderr,
			Schedule:         j.Schedule,
		}
		if len(j.Args) > 0 {
			if j.Program != "" {
				// ProgramArguments carries argv[0] when Program is also set
				job.Arguments = append([]string{j.Program}, j.Args...)
			} else {
				job.Arguments = j.Args
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (a *app) generateRun(cmd *cobra.Command, gc GenerateConfig, labels []string) error {
	m, err := jobspec.Load(gc.File)
	if err != nil {
		return err
	}
	jobs, err := agentJobs(m, labels)
	if err != nil {
		return err
	}
	g := agentplist.NewGenerator(a.translator, a.conf.Concurrency, a.logger)

	if gc.DryRun {
		results, err := g.Build(cmd.Context(), jobs)
		printResults(cmd.OutOrStdout(), results)
		return err
	}

	results, err := g.Generate(cmd.Context(), jobs, a.conf.OutputDir)
	a.logger.WithField("written", len(results)).WithField("jobs", len(jobs)).Info("generate: done")
	return err
}

func printResults(w io.Writer, results []agentplist.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "# %s\n%s\n", r.Path, r.Data)
	}
}
