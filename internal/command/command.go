// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Command describes a single program invocation.
type Command struct {
	// Name of the program. Looked up in PATH if it contains no separator.
	Name string
	// Arguments passed to the program.
	Args []string
	// Working directory. Current directory if empty.
	Dir string
	// Standard input. No input if nil.
	Stdin io.Reader
}

// New creates a new [Command] for the given program and arguments.
func New(name string, args ...string) *Command {
	return &Command{Name: name, Args: args}
}

// InDir sets the working directory and returns the [Command].
func (c *Command) InDir(dir string) *Command {
	c.Dir = dir
	return c
}

// Argv returns the program name followed by all arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String returns the command line as it would be typed into a shell. It is
// meant for logging only, no quoting is applied.
func (c *Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Runner runs [Command]s.
type Runner interface {
	// Run runs the command and returns its stdout.
	Run(ctx context.Context, cmd *Command) ([]byte, error)
	// Pipe runs both commands with the producer's stdout connected to the
	// consumer's stdin.
	Pipe(ctx context.Context, producer, consumer *Command) error
}

// Exec is a [Runner] that executes programs on the host.
type Exec struct{}

var _ Runner = Exec{}

// Run runs the command and waits for it to exit.
//
// On failure, an [Error] is returned that carries the exit code and the
// captured output.
func (Exec) Run(ctx context.Context, cmd *Command) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	execCmd, err := cmd.exec(ctx)
	if err != nil {
		return nil, err
	}

	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	slog.Debug("Run command", slog.String("command", cmd.String()))

	err = execCmd.Run()
	if err != nil {
		return nil, newError(cmd, err, stdout.String(), stderr.String())
	}

	return stdout.Bytes(), nil
}

// Pipe runs producer and consumer concurrently with the producer's stdout
// connected to the consumer's stdin, like a shell pipeline does. It waits for
// both to exit. Errors of both commands are joined.
func (Exec) Pipe(ctx context.Context, producer, consumer *Command) error {
	var producerStderr, consumerStdout, consumerStderr bytes.Buffer

	producerCmd, err := producer.exec(ctx)
	if err != nil {
		return err
	}

	consumerCmd, err := consumer.exec(ctx)
	if err != nil {
		return err
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create pipe: %w", err)
	}

	producerCmd.Stdout = writer
	producerCmd.Stderr = &producerStderr
	consumerCmd.Stdin = reader
	consumerCmd.Stdout = &consumerStdout
	consumerCmd.Stderr = &consumerStderr

	slog.Debug("Run pipe",
		slog.String("producer", producer.String()),
		slog.String("consumer", consumer.String()),
	)

	err = consumerCmd.Start()
	if err != nil {
		_ = reader.Close()
		_ = writer.Close()

		return newError(consumer, err, "", "")
	}

	err = producerCmd.Start()
	// The children hold their own copies of the pipe ends. Closing ours makes
	// the consumer see EOF once the producer is done and the producer fail
	// on write once the consumer is gone.
	_ = reader.Close()
	_ = writer.Close()

	if err != nil {
		_ = consumerCmd.Wait()
		return newError(producer, err, "", "")
	}

	var (
		eg          errgroup.Group
		producerErr error
		consumerErr error
	)

	eg.Go(func() error {
		if err := producerCmd.Wait(); err != nil {
			producerErr = newError(producer, err, "", producerStderr.String())
		}

		return producerErr
	})

	eg.Go(func() error {
		if err := consumerCmd.Wait(); err != nil {
			consumerErr = newError(consumer, err,
				consumerStdout.String(), consumerStderr.String())
		}

		return consumerErr
	})

	_ = eg.Wait()

	return errors.Join(producerErr, consumerErr)
}

func (c *Command) exec(ctx context.Context) (*exec.Cmd, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("%w: %v", ErrEmptyCommand, c.Args)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	return cmd, nil
}
