package main

import (
	"fmt"
	"io"
	"os"

	"github.com/RigelNana/edubridge/config"
	"github.com/sirupsen/logrus"
)

// newLogger builds a JSON logger writing to stdout and, when configured,
// appending to a file as well. The returned func closes the file.
func newLogger(cfg *config.LogConfig) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	if cfg.File == "" {
		logger.SetOutput(os.Stdout)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
	return logger, func() { _ = f.Close() }, nil
}
