package agentplist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/THPTUHA/launchcron/pkg/helper"
	"github.com/THPTUHA/launchcron/pkg/launchd"
	"github.com/THPTUHA/launchcron/pkg/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Translator is the part of launchd.Translator the generator needs.
type Translator interface {
	Translate(expr string) (launchd.Schedule, error)
}

type Generator struct {
	translator  Translator
	concurrency int
	logger      *logrus.Entry
}

// NewGenerator returns a generator rendering up to concurrency jobs at once.
// A nil log gets an info level "agentplist" logger.
func NewGenerator(translator Translator, concurrency int, log *logrus.Entry) *Generator {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.InitLogger("info", "agentplist")
	}
	return &Generator{
		translator:  translator,
		concurrency: concurrency,
		logger:      log,
	}
}

// Result is a rendered job and the file it was written to.
type Result struct {
	Label string
	Path  string
	Data  []byte
}

// Build translates and renders every job. Failures are collected so that one
// bad job does not hide the others; results for failed jobs are left out.
func (g *Generator) Build(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]*Result, len(jobs))
	var (
		mu   sync.Mutex
		merr *multierror.Error
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, job := range jobs {
		i, job := i, job
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := g.render(job)
			if err != nil {
				mu.Lock()
				merr = multierror.Append(merr, fmt.Errorf("job %s: %w", job.Label, err))
				mu.Unlock()
				return nil
			}
			results[i] = &Result{Label: job.Label, Path: job.Label + ".plist", Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(jobs))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, merr.ErrorOrNil()
}

// Generate builds every job and writes the plists that rendered cleanly into dir.
func (g *Generator) Generate(ctx context.Context, jobs []Job, dir string) ([]Result, error) {
	results, err := g.Build(ctx, jobs)
	var merr *multierror.Error
	switch e := err.(type) {
	case nil:
	case *multierror.Error:
		merr = e
	default:
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	for i := range results {
		path := filepath.Join(dir, results[i].Path)
		if err := os.WriteFile(path, results[i].Data, 0o644); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("job %s: %w", results[i].Label, err))
			continue
		}
		results[i].Path = path
		g.logger.WithFields(logrus.Fields{
			"job":  results[i].Label,
			"path": path,
		}).Info("generate: wrote plist")
	}
	return results, merr.ErrorOrNil()
}

func (g *Generator) render(job Job) ([]byte, error) {
	if ok, whyNot := helper.IsLabel(job.Label); !ok {
		return nil, fmt.Errorf("invalid label %q (illegal %q)", job.Label, whyNot)
	}
	schedule, err := g.translator.Translate(job.Schedule)
	if err != nil {
		return nil, err
	}
	g.logger.WithFields(logrus.Fields{
		"job":      job.Label,
		"schedule": job.Schedule,
		"type":     fmt.Sprintf("%T", schedule),
	}).Debug("generate: translated schedule")
	return Render(job, schedule)
}
