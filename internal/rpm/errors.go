// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import "errors"

var (
	// ErrArchiveNotFound is returned if no package file is found where one
	// is expected.
	ErrArchiveNotFound = errors.New("package file not found")

	// ErrNotRPM is returned if a file does not start with the RPM lead magic.
	ErrNotRPM = errors.New("not an RPM file")

	// ErrInvalidHeader is returned if an RPM header structure is malformed.
	ErrInvalidHeader = errors.New("invalid RPM header")

	// ErrUnsupportedCompressor is returned if the payload compression of an
	// RPM is not supported.
	ErrUnsupportedCompressor = errors.New("unsupported payload compressor")

	// ErrUnsupportedFormat is returned if the payload format of an RPM is not
	// cpio.
	ErrUnsupportedFormat = errors.New("unsupported payload format")

	// ErrUnsafePath is returned if an archive entry would be written outside
	// of the target directory.
	ErrUnsafePath = errors.New("unsafe path in archive")

	// ErrIncompleteHardlink is returned if an archive ends or changes to a
	// different hardlink set before the entry carrying the data of the set.
	ErrIncompleteHardlink = errors.New("incomplete hardlink set in archive")
)
