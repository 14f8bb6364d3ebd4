package logger

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// InitLogger builds a text logger at logLevel, tagged with the component name.
// An unknown level falls back to info.
func InitLogger(logLevel string, component string) *logrus.Entry {
	return NewLogger(logLevel, component, nil)
}

// NewLogger is InitLogger with an explicit output; nil keeps stderr.
func NewLogger(logLevel string, component string, out io.Writer) *logrus.Entry {
	formattedLogger := logrus.New()
	if out != nil {
		formattedLogger.Out = out
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).Error("Error parsing log level, using: info")
		level = logrus.InfoLevel
	}

	formattedLogger.Level = level
	formattedLogger.SetReportCaller(level >= logrus.DebugLevel)
	formattedLogger.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return fmt.Sprintf("%s()", filepath.Base(f.Function)), fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	}
	return logrus.NewEntry(formattedLogger).WithField("component", component)
}
