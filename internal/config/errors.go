// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "errors"

var (
	// ErrNotFound is returned if the drivers document does not exist.
	ErrNotFound = errors.New("drivers file not found")

	// ErrMalformed is returned if the drivers document can not be parsed or
	// does not have the expected structure.
	ErrMalformed = errors.New("drivers file malformed")
)
