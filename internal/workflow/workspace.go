// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const workspacePattern = "fwminimize-"

// Workspace is a temporary directory holding all intermediate artifacts of a
// run.
type Workspace struct {
	Root        string
	DownloadDir string
	ExtractDir  string
	BuildDir    string

	keep bool
}

// NewWorkspace creates a new workspace below parent. If parent is empty, the
// default directory for temporary files is used. If keep is true, [Release]
// leaves the workspace in place.
func NewWorkspace(parent string, keep bool) (*Workspace, error) {
	root, err := os.MkdirTemp(parent, workspacePattern)
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	ws := &Workspace{
		Root:        root,
		DownloadDir: filepath.Join(root, "download"),
		ExtractDir:  filepath.Join(root, "extract"),
		BuildDir:    filepath.Join(root, "build"),
		keep:        keep,
	}

	for _, dir := range []string{ws.DownloadDir, ws.ExtractDir, ws.BuildDir} {
		err := os.Mkdir(dir, 0o755)
		if err != nil {
			_ = os.RemoveAll(root)
			return nil, fmt.Errorf("create working directory: %w", err)
		}
	}

	slog.Debug("Working directory created", slog.String("path", root))

	return ws, nil
}

// Preserved returns true if the workspace is kept on [Workspace.Release].
func (w *Workspace) Preserved() bool {
	return w.keep
}

// Release removes the workspace, unless it is preserved.
func (w *Workspace) Release() error {
	if w.keep {
		slog.Info("Preserving working directory", slog.String("path", w.Root))
		return nil
	}

	slog.Debug("Remove working directory", slog.String("path", w.Root))

	err := os.RemoveAll(w.Root)
	if err != nil {
		return fmt.Errorf("remove working directory: %w", err)
	}

	return nil
}
