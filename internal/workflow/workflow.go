// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aibor/fwminimize/internal/config"
	"github.com/aibor/fwminimize/internal/filter"
	"github.com/aibor/fwminimize/internal/pattern"
	"github.com/aibor/fwminimize/internal/rpm"
)

// FirmwareRoot is the firmware directory relative to the extracted package.
const FirmwareRoot = "lib/firmware"

// Fetcher provides the package to minimize.
type Fetcher interface {
	// Fetch places the package file in dir and returns its path.
	Fetch(ctx context.Context, dir string) (string, error)
}

// Extractor unpacks a package file.
type Extractor interface {
	// Extract unpacks the archive into dir.
	Extract(ctx context.Context, archive, dir string) error
}

// Packager builds the reduced package.
type Packager interface {
	// Name of the packager used in logs.
	Name() string
	// Package builds the package and writes it to [rpm.Request.Output].
	Package(ctx context.Context, req rpm.Request) error
}

var (
	_ Fetcher   = (*rpm.DNFFetcher)(nil)
	_ Fetcher   = (*rpm.LocalFetcher)(nil)
	_ Extractor = (*rpm.CPIOExtractor)(nil)
	_ Extractor = rpm.NativeExtractor{}
	_ Packager  = (*rpm.RPMBuildPackager)(nil)
	_ Packager  = (*rpm.FPMPackager)(nil)
)

// Spec describes a single [Workflow.Run].
type Spec struct {
	// DriversFile is the path of the YAML file with the driver patterns.
	DriversFile string
	// Output is the path the built package is written to.
	Output string
	// Version of the built package.
	Version string
	// TempDir is the parent directory of the workspace. Empty for the
	// default temporary directory.
	TempDir string
	// DryRun only reports what would be kept and removed.
	DryRun bool
	// KeepTemp preserves the workspace.
	KeepTemp bool
}

// Workflow runs the minimization with the given collaborators.
type Workflow struct {
	Fetcher   Fetcher
	Extractor Extractor
	// Packagers are tried in order until one succeeds.
	Packagers []Packager
	// Now returns the build date. [time.Now] if nil.
	Now func() time.Time
}

// Run runs a complete minimization as described by spec.
//
// Driver patterns are loaded and compiled before anything else, so an
// invalid configuration never causes any side effects. The workspace is
// released on every return path.
//
// The returned [Report] is never nil. If an error is returned, its State is
// [StateFailed].
func (w *Workflow) Run(ctx context.Context, spec Spec) (*Report, error) {
	report := &Report{State: StateInit, DryRun: spec.DryRun}

	err := w.run(ctx, spec, report)
	if err != nil {
		slog.Debug("Run failed", slog.String("state", report.State.String()))
		report.Reached = report.State
		report.State = StateFailed

		// Tools killed on interruption fail with their own error.
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}

		return report, err
	}

	return report, nil
}

func (w *Workflow) run(ctx context.Context, spec Spec, report *Report) (err error) {
	if !spec.DryRun && spec.Output == "" {
		return ErrNoOutput
	}

	matchers, err := loadPatterns(spec.DriversFile)
	if err != nil {
		return err
	}

	report.State = StatePatternsLoaded

	ws, err := NewWorkspace(spec.TempDir, spec.KeepTemp)
	if err != nil {
		return err
	}

	report.Workspace = ws.Root
	report.Preserved = ws.Preserved()

	defer func() {
		releaseErr := ws.Release()
		if releaseErr != nil {
			slog.Warn("Cleanup failed", slog.Any("error", releaseErr))
		}

		if err == nil {
			report.Reached = report.State
			report.State = StateCleanedUp
		}
	}()

	return w.stages(ctx, spec, ws, matchers, report)
}

func (w *Workflow) stages(
	ctx context.Context,
	spec Spec,
	ws *Workspace,
	matchers pattern.List,
	report *Report,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	archive, err := w.Fetcher.Fetch(ctx, ws.DownloadDir)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	report.Archive = archive
	report.ArchiveSize = fileSize(archive)
	report.State = StateFetched

	logPackageInfo(archive, report.ArchiveSize)

	if err := ctx.Err(); err != nil {
		return err
	}

	err = w.Extractor.Extract(ctx, archive, ws.ExtractDir)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	report.State = StateExtracted

	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := filterFirmware(ctx, ws.ExtractDir, matchers, spec.DryRun)
	if err != nil {
		return err
	}

	report.Result = result
	report.State = StateFiltered

	if spec.DryRun {
		report.State = StateDryRunDone
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	output, err := filepath.Abs(spec.Output)
	if err != nil {
		return fmt.Errorf("output path: %w", err)
	}

	req := rpm.Request{
		Tree:    ws.ExtractDir,
		Output:  output,
		Version: spec.Version,
		WorkDir: ws.BuildDir,
		Date:    w.now(),
	}

	err = w.pack(ctx, req)
	if err != nil {
		return err
	}

	report.Output = output
	report.OutputSize = fileSize(output)
	report.State = StatePackaged

	return nil
}

func (w *Workflow) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}

	return w.Now()
}

// pack tries all packagers in order until one succeeds.
func (w *Workflow) pack(ctx context.Context, req rpm.Request) error {
	errs := make([]error, 0, len(w.Packagers))

	for _, packager := range w.Packagers {
		if err := ctx.Err(); err != nil {
			return err
		}

		slog.Info("Build package", slog.String("packager", packager.Name()))

		err := packager.Package(ctx, req)
		if err == nil {
			slog.Info("Package built",
				slog.String("packager", packager.Name()),
				slog.String("path", req.Output),
			)

			return nil
		}

		if ctx.Err() != nil {
			return err
		}

		slog.Warn("Packager failed",
			slog.String("packager", packager.Name()),
			slog.Any("error", err),
		)

		errs = append(errs, fmt.Errorf("%s: %w", packager.Name(), err))
	}

	if len(errs) == 0 {
		return fmt.Errorf("%w: no packagers", ErrPackagingFailed)
	}

	return fmt.Errorf("%w: %w", ErrPackagingFailed, errors.Join(errs...))
}

func loadPatterns(path string) (pattern.List, error) {
	drivers, err := config.LoadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	matchers, err := pattern.Compile(drivers.Drivers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("Driver patterns loaded",
		slog.String("file", path),
		slog.Any("patterns", matchers.Strings()),
	)

	return matchers, nil
}

func filterFirmware(
	ctx context.Context,
	extractDir string,
	matchers pattern.List,
	dryRun bool,
) (*filter.Result, error) {
	mode := filter.ModeApply
	if dryRun {
		mode = filter.ModeDryRun
	}

	root := filepath.Join(extractDir, FirmwareRoot)

	result, err := filter.Run(ctx, root, matchers, mode)
	if errors.Is(err, filter.ErrRootNotFound) {
		return nil, fmt.Errorf("%w: %s: %w", ErrFirmwareRootNotFound, FirmwareRoot, err)
	} else if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	slog.Info("Firmware filtered",
		slog.String("mode", mode.String()),
		slog.Int("kept", len(result.Kept)),
		slog.Int("removed", len(result.Removed)),
		slog.Int("pruned_dirs", len(result.PrunedDirs)),
	)

	return result, nil
}

func logPackageInfo(archive string, size int64) {
	info, err := rpm.ReadInfo(archive)
	if err != nil {
		slog.Debug("Package info not available", slog.Any("error", err))
		slog.Info("Package fetched",
			slog.String("path", archive),
			slog.Int64("size", size),
		)

		return
	}

	slog.Info("Package fetched",
		slog.String("package", info.String()),
		slog.String("path", archive),
		slog.Int64("size", size),
	)
}

// fileSize returns the size of the file at path or 0 if it can not be read.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("Stat file", slog.String("path", path), slog.Any("error", err))
		return 0
	}

	return info.Size()
}
