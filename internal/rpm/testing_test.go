// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm_test

import (
	"context"
	"sync"

	"github.com/aibor/fwminimize/internal/command"
)

// fakeRunner records commands instead of executing them.
type fakeRunner struct {
	mu       sync.Mutex
	commands []*command.Command
	run      func(cmd *command.Command) ([]byte, error)
	pipe     func(producer, consumer *command.Command) error
}

var _ command.Runner = (*fakeRunner)(nil)

func (r *fakeRunner) Run(_ context.Context, cmd *command.Command) ([]byte, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.run == nil {
		return nil, nil
	}

	return r.run(cmd)
}

func (r *fakeRunner) Pipe(_ context.Context, producer, consumer *command.Command) error {
	r.mu.Lock()
	r.commands = append(r.commands, producer, consumer)
	r.mu.Unlock()

	if r.pipe == nil {
		return nil
	}

	return r.pipe(producer, consumer)
}
