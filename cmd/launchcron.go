package cmd

import (
	"errors"
	"strings"

	"github.com/THPTUHA/launchcron/pkg/config"
	"github.com/THPTUHA/launchcron/pkg/launchd"
	"github.com/THPTUHA/launchcron/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	v          *viper.Viper
	configFile string
	conf       *config.Config
	translator *launchd.Translator
	logger     *logrus.Entry
}

// NewCommand builds the launchcron command tree.
func NewCommand() *cobra.Command {
	a := &app{v: viper.New()}

	launchcronCmd := &cobra.Command{
		Use:           "launchcron",
		Short:         "Translate cron schedules into launchd agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}
	launchcronCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default ./launchcron.yaml or $HOME/.config/launchcron/launchcron.yaml)")
	launchcronCmd.PersistentFlags().AddFlagSet(config.ConfigFlagSet())
	a.v.BindPFlags(launchcronCmd.PersistentFlags())

	launchcronCmd.AddCommand(
		newTranslateCmd(a),
		newValidateCmd(a),
		newNextCmd(a),
		newGenerateCmd(a),
	)
	return launchcronCmd
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewCommand().Execute()
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		a.v.SetConfigName("launchcron")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath("$HOME/.config/launchcron")
	}
	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.configFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}

	conf, err := config.Load(a.v)
	if err != nil {
		return err
	}
	translator, err := conf.Translator()
	if err != nil {
		return err
	}
	a.conf = conf
	a.translator = translator
	a.logger = logger.NewLogger(conf.LogLevel, "launchcron", cmd.ErrOrStderr())
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.WithField("file", used).Debug("config: loaded")
	}
	return nil
}
