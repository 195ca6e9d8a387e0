// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/trueloving/deskfolio/internal/config"
)

// New returns a logger writing to stderr: JSON at info level in production,
// human-readable text at debug level otherwise.
func New(env config.Env) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if env == config.EnvProduction {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
