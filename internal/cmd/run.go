// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/aibor/fwminimize/internal/command"
	"github.com/aibor/fwminimize/internal/config"
	"github.com/aibor/fwminimize/internal/rpm"
	"github.com/aibor/fwminimize/internal/workflow"
)

const (
	exitCodeError       = 1
	exitCodeInterrupted = 130
)

// IO provides input and output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newWorkflow(flags *flags, runner command.Runner) *workflow.Workflow {
	wf := &workflow.Workflow{
		Packagers: []workflow.Packager{
			&rpm.RPMBuildPackager{Runner: runner},
			&rpm.FPMPackager{Runner: runner},
		},
	}

	if flags.Source != "" {
		wf.Fetcher = &rpm.LocalFetcher{Path: string(flags.Source)}
	} else {
		wf.Fetcher = &rpm.DNFFetcher{Runner: runner, Package: flags.Package}
	}

	if flags.Extractor == extractorNative {
		wf.Extractor = rpm.NativeExtractor{}
	} else {
		wf.Extractor = &rpm.CPIOExtractor{Runner: runner}
	}

	return wf
}

func newSpec(flags *flags) workflow.Spec {
	return workflow.Spec{
		DriversFile: string(flags.DriversFile),
		Output:      string(flags.Output),
		Version:     flags.Version,
		TempDir:     string(flags.TempDir),
		DryRun:      flags.DryRun,
		KeepTemp:    flags.KeepTemp,
	}
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	wf := newWorkflow(flags, command.Exec{})

	report, err := wf.Run(ctx, newSpec(flags))
	if err != nil {
		return err //nolint:wrapcheck
	}

	printReport(cfg.Stdout, report, flags.ListFiles)

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// Parse errors are printed by the flag set already.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return exitCodeError
}

func handleRunError(err error, flags *flags, cfg IO) int {
	switch {
	case errors.Is(err, context.Canceled):
		slog.Warn("Aborted by user")
		return exitCodeInterrupted
	case errors.Is(err, config.ErrNotFound), errors.Is(err, config.ErrMalformed):
		slog.Error(err.Error())
		config.PrintExample(cfg.Stderr, string(flags.DriversFile))

		return exitCodeError
	default:
		slog.Error(err.Error())
		return exitCodeError
	}
}

// Run is the main entry point for the CLI command. args must contain the
// program name as first element.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err, flags, cfg)
	}

	return 0
}
