// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aibor/fwminimize/internal/command"
	"github.com/otiai10/copy"
)

const defaultRelease = "1"

// Request is the input for building the reduced package. All packagers get
// the same request and must write the resulting package to Output.
type Request struct {
	// Tree is the directory containing the lib/firmware tree to package.
	Tree string
	// Output is the path the package file is written to.
	Output string
	// Version of the built package.
	Version string
	// WorkDir is a scratch directory the packager may use.
	WorkDir string
	// Date used for the package changelog.
	Date time.Time
}

// RPMBuildPackager builds the package with rpmbuild using a generated spec
// file.
type RPMBuildPackager struct {
	Runner command.Runner
}

// Name returns the name of the packaging tool.
func (*RPMBuildPackager) Name() string {
	return "rpmbuild"
}

// Package builds the package and copies it to [Request.Output].
func (p *RPMBuildPackager) Package(ctx context.Context, req Request) error {
	topDir := filepath.Join(req.WorkDir, "rpmbuild")
	buildRoot := filepath.Join(req.WorkDir, "buildroot")
	specPath := filepath.Join(req.WorkDir, PackageName+".spec")

	err := writeSpecFile(specPath, SpecFile{
		Name:    PackageName,
		Version: req.Version,
		Release: defaultRelease,
		Date:    req.Date,
		Tree:    req.Tree,
	})
	if err != nil {
		return err
	}

	cmd := command.New("rpmbuild", "-bb",
		"--define", "_topdir "+topDir,
		"--buildroot", buildRoot,
		specPath,
	)

	_, err = p.Runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("rpmbuild: %w", err)
	}

	built, err := findBuilt(filepath.Join(topDir, "RPMS"), PackageName+"-")
	if err != nil {
		return err
	}

	slog.Debug("Deliver built package",
		slog.String("built", built),
		slog.String("output", req.Output),
	)

	err = copy.Copy(built, req.Output)
	if err != nil {
		return fmt.Errorf("deliver package: %w", err)
	}

	return nil
}

func writeSpecFile(path string, spec SpecFile) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create spec file: %w", err)
	}

	_, err = spec.WriteTo(file)
	if err != nil {
		_ = file.Close()
		return err
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close spec file: %w", err)
	}

	return nil
}

// findBuilt returns the lexically last RPM file with the given prefix below
// dir.
func findBuilt(dir, prefix string) (string, error) {
	var found []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if entry.Type().IsRegular() &&
			strings.HasPrefix(name, prefix) &&
			strings.HasSuffix(name, ".rpm") {
			found = append(found, path)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: search %s: %w", ErrArchiveNotFound, dir, err)
	}

	if len(found) == 0 {
		return "", fmt.Errorf("%w: %s*.rpm below %s", ErrArchiveNotFound, prefix, dir)
	}

	slices.Sort(found)

	return found[len(found)-1], nil
}

// FPMPackager builds the package with fpm directly from the directory tree.
type FPMPackager struct {
	Runner command.Runner
}

// Name returns the name of the packaging tool.
func (*FPMPackager) Name() string {
	return "fpm"
}

// Package builds the package at [Request.Output].
func (p *FPMPackager) Package(ctx context.Context, req Request) error {
	cmd := command.New("fpm",
		"-s", "dir",
		"-t", "rpm",
		"-f",
		"-n", PackageName,
		"-v", req.Version,
		"--prefix", "/",
		"-C", req.Tree,
		"-p", req.Output,
		"lib/firmware",
	)

	_, err := p.Runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("fpm: %w", err)
	}

	return nil
}
