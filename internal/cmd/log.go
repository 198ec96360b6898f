// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

func setupLogging(writer io.Writer, debug bool) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(writer, log.Options{
		Level:           level,
		Prefix:          name,
		ReportTimestamp: debug,
		TimeFormat:      time.TimeOnly,
	})

	slog.SetDefault(slog.New(logger))
}
