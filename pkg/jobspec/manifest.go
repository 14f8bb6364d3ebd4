package jobspec

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/THPTUHA/launchcron/pkg/orderedmap"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the manifest schema range this build understands.
const SupportedVersions = ">= 1, < 2"

var (
	ErrNoSchedule = errors.New("job has no schedule")
	ErrNoProgram  = errors.New("job has no program")
)

// Job is one scheduled program in a manifest.
type Job struct {
	Program    string            `yaml:"program"`
	Args       []string          `yaml:"args"`
	Schedule   string            `yaml:"schedule"`
	WorkingDir string            `yaml:"workdir"`
	Env        map[string]string `yaml:"env"`
	Stdout     string            `yaml:"stdout"`
	Stderr     string            `yaml:"stderr"`
}

// Manifest is the decoded job file. Jobs are keyed by launchd label and keep
// the order they were written in.
type Manifest struct {
	Version string                             `yaml:"version"`
	Jobs    orderedmap.OrderedMap[string, Job] `yaml:"jobs"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{Jobs: orderedmap.New[string, Job]()}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if err := checkVersion(m.Version); err != nil {
		return nil, err
	}
	err := m.Jobs.Range(func(label string, job Job) error {
		if strings.TrimSpace(job.Schedule) == "" {
			return fmt.Errorf("job %s: %w", label, ErrNoSchedule)
		}
		if job.Program == "" && len(job.Args) == 0 {
			return fmt.Errorf("job %s: %w", label, ErrNoProgram)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func checkVersion(raw string) error {
	if raw == "" {
		raw = "1"
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("manifest version %q: %w", raw, err)
	}
	constraints, err := version.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraints.Check(v) {
		return fmt.Errorf("manifest version %s is not supported, expected %s", v, SupportedVersions)
	}
	return nil
}
