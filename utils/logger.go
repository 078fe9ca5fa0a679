package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

func newLogger(out *os.File, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// InitLogger applies the configured level to the info logger. The error
// logger never goes below error level.
func InitLogger(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	InfoLogger.SetLevel(lvl)
	if lvl < logrus.ErrorLevel {
		ErrorLogger.SetLevel(lvl)
	} else {
		ErrorLogger.SetLevel(logrus.ErrorLevel)
	}
}
