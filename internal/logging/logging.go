// Package logging configures the proxy's structured logger, matching the
// pack's chriskery/sso-idp logrus idiom, with JSON output so log fields
// stay machine-parseable the way the original Rust implementation's
// tracing subscriber emits them.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger at the given level (spec.md §6.3
// SAML_PROXY_LOG_LEVEL), falling back to info on an unrecognized level
// rather than failing startup over a cosmetic setting.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
