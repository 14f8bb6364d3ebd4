package config

import (
	"fmt"
	"strings"

	"github.com/THPTUHA/launchcron/pkg/launchd"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// debug|info|warn|error|fatal|panic
	LogLevel string `mapstructure:"log-level"`

	// MaxEntries caps how many StartCalendarInterval entries a single
	// expression may expand into.
	MaxEntries int `mapstructure:"max-entries"`

	// Expansion selects how multiple explicit fields are combined:
	// cyclic (legacy) or cartesian.
	Expansion string `mapstructure:"expansion"`

	// OutputDir is where generated plists are written.
	OutputDir string `mapstructure:"output-dir"`

	// Concurrency bounds how many jobs are rendered at once.
	Concurrency int `mapstructure:"concurrency"`
}

const (
	DefaultConcurrency = 4
	EnvPrefix          = "LAUNCHCRON"
)

func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		MaxEntries:  launchd.DefaultMaxEntries,
		Expansion:   launchd.CyclicExpansion{}.Name(),
		OutputDir:   ".",
		Concurrency: DefaultConcurrency,
	}
}

// ConfigFlagSet returns the persistent flags shared by every command.
func ConfigFlagSet() *flag.FlagSet {
	c := DefaultConfig()
	cmdFlags := flag.NewFlagSet("launchcron flagset", flag.ContinueOnError)
	cmdFlags.String("log-level", c.LogLevel,
		"Log level (debug|info|warn|error|fatal|panic)")
	cmdFlags.Int("max-entries", c.MaxEntries,
		"Maximum number of calendar entries one expression may expand into")
	cmdFlags.String("expansion", c.Expansion,
		"How explicit fields are combined: "+strings.Join(launchd.ExpansionNames(), "|"))
	cmdFlags.String("output-dir", c.OutputDir,
		"Directory generated plists are written to")
	cmdFlags.Int("concurrency", c.Concurrency,
		"Number of jobs rendered in parallel")
	return cmdFlags
}

// Load reads v into a Config seeded with the defaults and validates it.
func Load(v *viper.Viper) (*Config, error) {
	c := DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	expansion, err := OptionalStringChoice(v, "expansion", launchd.ExpansionNames())
	if err != nil {
		return nil, err
	}
	if expansion != "" {
		c.Expansion = expansion
	}
	if c.MaxEntries < 1 {
		return nil, fmt.Errorf("invalid value for max-entries: %d, must be positive", c.MaxEntries)
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	return c, nil
}

// Translator builds a translator honouring the configured expansion and limit.
func (c *Config) Translator() (*launchd.Translator, error) {
	e, err := launchd.ExpansionByName(c.Expansion)
	if err != nil {
		return nil, err
	}
	return launchd.NewTranslator(
		launchd.WithExpansion(e),
		launchd.WithMaxEntries(c.MaxEntries),
	), nil
}

func OptionalStringChoice(v *viper.Viper, key string, choices []string) (string, error) {
	val := strings.ToLower(v.GetString(key))
	if val == "" {
		// Empty value is valid for optional configuration key.
		return val, nil
	}
	if !stringInSlice(val, choices) {
		return "", fmt.Errorf("invalid value for %s: %s, possible choices are: %s", key, val, strings.Join(choices, ", "))
	}
	return val, nil
}

func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
