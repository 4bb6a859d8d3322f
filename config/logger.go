// Copyright 2021 Converter Systems LLC. All rights reserved.

package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to stdout with the given level and format ("TEXT" or "JSON").
func NewLogger(level, format string, disableTimestamp bool) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout
	switch strings.ToUpper(format) {
	case "JSON":
		log.Formatter = &logrus.JSONFormatter{DisableTimestamp: disableTimestamp}
	default:
		log.Formatter = &logrus.TextFormatter{DisableTimestamp: disableTimestamp, FullTimestamp: true}
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	return log
}
