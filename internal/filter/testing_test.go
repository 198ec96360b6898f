// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filter_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTree creates the given slash separated files with some content
// below a new temporary directory and returns its path.
func createTree(tb testing.TB, files ...string) string {
	tb.Helper()

	root := tb.TempDir()

	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(tb, os.WriteFile(path, []byte(file), 0o600))
	}

	return root
}

// listTree returns all slash separated files and directories below root.
func listTree(tb testing.TB, root string) (files, dirs []string) {
	tb.Helper()

	files, dirs = []string{}, []string{}

	err := fs.WalkDir(os.DirFS(root), ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(tb, err)

		switch {
		case path == ".":
		case d.IsDir():
			dirs = append(dirs, path)
		default:
			files = append(files, path)
		}

		return nil
	})
	require.NoError(tb, err)

	slices.Sort(files)
	slices.Sort(dirs)

	return files, dirs
}
