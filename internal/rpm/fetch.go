// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aibor/fwminimize/internal/command"
	"github.com/otiai10/copy"
)

// DefaultPackage is the package fetched by [DNFFetcher] if none is set.
const DefaultPackage = "linux-firmware"

// DNFFetcher downloads a package with "dnf download".
type DNFFetcher struct {
	Runner  command.Runner
	Package string
}

func (f *DNFFetcher) pkg() string {
	if f.Package == "" {
		return DefaultPackage
	}

	return f.Package
}

// Fetch downloads the package into dir and returns the path of the
// downloaded file.
func (f *DNFFetcher) Fetch(ctx context.Context, dir string) (string, error) {
	pkg := f.pkg()

	cmd := command.New("dnf", "download", "--downloadonly", "--downloaddir", dir, pkg)

	_, err := f.Runner.Run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", pkg, err)
	}

	return findArchive(dir, pkg+"-")
}

// findArchive returns the lexically first RPM file in dir with the given
// name prefix.
func findArchive(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read download directory: %w", err)
	}

	var names []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() &&
			strings.HasPrefix(name, prefix) &&
			strings.HasSuffix(name, ".rpm") {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s*.rpm in %s", ErrArchiveNotFound, prefix, dir)
	}

	slices.Sort(names)

	return filepath.Join(dir, names[0]), nil
}

// LocalFetcher provides an already present package file.
type LocalFetcher struct {
	Path string
}

// Fetch copies the package file into dir and returns the path of the copy.
func (f *LocalFetcher) Fetch(ctx context.Context, dir string) (string, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchiveNotFound, err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrArchiveNotFound, f.Path)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, filepath.Base(f.Path))

	err = copy.Copy(f.Path, dest)
	if err != nil {
		return "", fmt.Errorf("copy package: %w", err)
	}

	return dest, nil
}
