// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import "errors"

var (
	// ErrFirmwareRootNotFound is returned if the extracted package does not
	// contain the firmware directory.
	ErrFirmwareRootNotFound = errors.New("firmware root not found")

	// ErrPackagingFailed is returned if no packager succeeded. It is joined
	// with the errors of all packagers.
	ErrPackagingFailed = errors.New("packaging failed")

	// ErrNoOutput is returned if packaging is requested without output path.
	ErrNoOutput = errors.New("no output path")
)
