package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cubview/internal/logger"
)

var (
	logLevel  string
	logFormat string
)

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
	}
}

func newLog() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if logFormat == "json" {
		return logger.JSON(os.Stderr, level)
	}
	return logger.Text(os.Stderr, level)
}
