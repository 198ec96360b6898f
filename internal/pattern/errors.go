// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned if a driver pattern can not be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrEmptyPattern is the cause of an [ErrInvalidPattern] for empty
	// patterns, which could never match a file.
	ErrEmptyPattern = errors.New("empty pattern")
)

// CompileError wraps errors that occur while compiling a single pattern.
type CompileError struct {
	Index   int
	Pattern string
	Err     error
}

// Error implements the [error] interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

// Is implements the [errors.Is] interface.
func (*CompileError) Is(other error) bool {
	return other == ErrInvalidPattern
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CompileError) Unwrap() error {
	return e.Err
}
