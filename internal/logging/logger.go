package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type SetupParams struct {
	LogFileName   string
	LogToStderr   bool
	LogLevel      string
	LogFormatJSON bool
	// Output overrides stderr; used by tests.
	Output io.Writer
}

// Setup builds the run logger. Status lines for the user go to stdout, so logs
// go to stderr and, when LogFileName is set, to a rotated file as well.
func Setup(params SetupParams) *logrus.Logger {
	log := logrus.New()
	if params.LogFormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	log.SetLevel(GetLevel(params.LogLevel))

	var console io.Writer = os.Stderr
	if params.Output != nil {
		console = params.Output
	}

	if params.LogFileName == "" {
		log.SetOutput(console)
		return log
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}

	if params.LogToStderr {
		log.SetOutput(io.MultiWriter(console, lumberJackLogger))
	} else {
		log.SetOutput(lumberJackLogger)
	}
	log.WithField("file", params.LogFileName).Debug("writing logs to file")
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info", "":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
