// Package logging routes logrus output to a file under the config
// directory. The terminal belongs to the interactive session and command
// output, so nothing is ever logged to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/amebalabs/KefirCLI/internal/config"
)

// DefaultFileName is the log file under the config directory.
const DefaultFileName = "kefirctl.log"

// Path resolves the log file location: the configured override when set,
// otherwise the default under the config directory.
func Path(cfg config.LogConfig) string {
	if cfg.File != "" {
		return cfg.File
	}
	dir, err := config.Dir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(dir, DefaultFileName)
}

// Setup points the standard logrus logger at the log file and applies the
// configured level. verbose forces debug. The returned func closes the file;
// call it on exit. When the file cannot be opened, logging is discarded and
// the error returned so callers can warn without dying.
func Setup(cfg config.LogConfig, verbose bool) (func(), error) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(cfg.Level); err == nil && cfg.Level != "" {
		level = parsed
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	path := Path(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		logrus.SetOutput(io.Discard)
		return func() {}, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return func() {}, fmt.Errorf("open log file: %w", err)
	}

	logrus.SetOutput(file)
	return func() { _ = file.Close() }, nil
}
