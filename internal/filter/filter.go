// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/aibor/fwminimize/internal/pattern"
)

// Run filters the directory tree at root with the given matchers.
//
// In [ModeDryRun] the file system is not touched. In [ModeApply] all removed
// files are deleted and empty directories are pruned afterwards. The root
// directory itself is never removed.
func Run(
	ctx context.Context,
	root string,
	matchers pattern.List,
	mode Mode,
) (*Result, error) {
	err := checkRoot(root)
	if err != nil {
		return nil, err
	}

	result, err := Classify(ctx, os.DirFS(root), matchers)
	if err != nil {
		return nil, err
	}

	slog.Debug("Classified firmware files",
		slog.String("root", root),
		slog.String("mode", mode.String()),
		slog.Int("kept", len(result.Kept)),
		slog.Int("removed", len(result.Removed)),
	)

	if mode != ModeApply {
		return result, nil
	}

	err = RemoveFiles(ctx, root, result.Removed)
	if err != nil {
		return nil, err
	}

	result.PrunedDirs, err = PruneEmptyDirs(ctx, root)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}

		return fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	return nil
}

// Classify walks fsys and classifies each regular file. A file is kept if
// any of the matchers matches its path. Directories, symbolic links and
// special files are not classified.
func Classify(
	ctx context.Context,
	fsys fs.FS,
	matchers pattern.List,
) (*Result, error) {
	result := &Result{
		Kept:    []string{},
		Removed: []string{},
	}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if matchers.Match(path) {
			result.Kept = append(result.Kept, path)
		} else {
			result.Removed = append(result.Removed, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	result.sort()

	return result, nil
}

// RemoveFiles deletes the given slash separated paths relative to root. The
// context is checked before each deletion, so an interruption leaves the
// tree with a consistent subset of files removed.
func RemoveFiles(ctx context.Context, root string, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		err := os.Remove(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			return fmt.Errorf("remove file: %w", err)
		}
	}

	slog.Debug("Removed files", slog.Int("count", len(paths)))

	return nil
}

// PruneEmptyDirs removes all directories below root that do not contain any
// entries. Directories are visited deepest first, so a directory that only
// contained empty directories is empty by the time it is visited. It
// returns the slash separated relative paths of the removed directories.
func PruneEmptyDirs(ctx context.Context, root string) ([]string, error) {
	var dirs []string

	err := fs.WalkDir(os.DirFS(root), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() && path != "." {
			dirs = append(dirs, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	// In reverse lexical order every directory comes before its parent.
	slices.Sort(dirs)
	slices.Reverse(dirs)

	pruned := []string{}

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck
		}

		path := filepath.Join(root, filepath.FromSlash(dir))

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read dir: %w", err)
		}

		if len(entries) > 0 {
			continue
		}

		err = os.Remove(path)
		if err != nil {
			return nil, fmt.Errorf("remove dir: %w", err)
		}

		pruned = append(pruned, dir)
	}

	slices.Sort(pruned)

	return pruned, nil
}
