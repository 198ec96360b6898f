// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

var (
	// ErrHelp is returned if help was requested.
	ErrHelp = pflag.ErrHelp

	// ErrEmptyFilePath is returned if an empty string is given as path.
	ErrEmptyFilePath = errors.New("empty file path")

	// ErrUnknownExtractor is returned for unsupported extractor names.
	ErrUnknownExtractor = errors.New("unknown extractor")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
