// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package command

import (
	"errors"
	"os/exec"
	"strconv"
	"strings"
)

// ErrEmptyCommand is returned if a [Command] has no name.
var ErrEmptyCommand = errors.New("empty command")

// Error wraps any error of a failed command execution along with its
// captured output.
type Error struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("command failed: ")
	msg.WriteString(strings.Join(e.Args, " "))
	msg.WriteString("\nexit code: ")
	msg.WriteString(strconv.Itoa(e.ExitCode))

	if e.ExitCode < 0 && e.Err != nil {
		msg.WriteString("\nerror: ")
		msg.WriteString(e.Err.Error())
	}

	if stdout := strings.TrimSpace(e.Stdout); stdout != "" {
		msg.WriteString("\nstdout:\n")
		msg.WriteString(stdout)
	}

	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg.WriteString("\nstderr:\n")
		msg.WriteString(stderr)
	}

	return msg.String()
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

func newError(cmd *Command, err error, stdout, stderr string) *Error {
	return &Error{
		Args:     cmd.Argv(),
		ExitCode: exitCode(err),
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}
