// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/aibor/fwminimize/internal/cmd"
	"golang.org/x/sys/unix"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		unix.SIGINT,
		unix.SIGTERM,
		unix.SIGHUP,
		unix.SIGQUIT,
	)

	exitCode := cmd.Run(ctx, os.Args, cmd.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	cancel()
	os.Exit(exitCode)
}
