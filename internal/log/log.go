/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package log wraps a package-level logrus logger so call sites across the
// agent read the same way the teacher's OSSystems/pkg/log wrapper did.
package log

import (
	"github.com/sirupsen/logrus"
)

var std = logrus.StandardLogger()

// SetLevel adjusts the global log level (wired from cmd/updateagentd flags).
func SetLevel(level logrus.Level) {
	std.SetLevel(level)
}

// Fields is a leveled-logging field map, re-exported so call sites don't
// need to import logrus directly.
type Fields = logrus.Fields

func WithFields(fields Fields) *logrus.Entry {
	return std.WithFields(fields)
}

func Debug(args ...interface{}) {
	std.Debug(args...)
}

func Info(args ...interface{}) {
	std.Info(args...)
}

func Warn(args ...interface{}) {
	std.Warn(args...)
}

func Error(args ...interface{}) {
	std.Error(args...)
}
