package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger логгер клиента. Вывод команд идет в stdout, поэтому лог пишется в w (обычно stderr).
func NewLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
