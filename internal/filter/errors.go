// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filter

import "errors"

var (
	// ErrRootNotFound is returned if the root directory to filter does not
	// exist.
	ErrRootNotFound = errors.New("root directory not found")

	// ErrRootNotDirectory is returned if the root to filter is not a
	// directory.
	ErrRootNotDirectory = errors.New("root is not a directory")
)
