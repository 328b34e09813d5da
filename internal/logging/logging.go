// Package logging builds the structured logger shared by the pfb
// command-line tool. The pfb core package itself never logs; it is a
// library and reports failures through returned errors only.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a *logrus.Logger configured for level, writing
// timestamped text lines to stderr.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
