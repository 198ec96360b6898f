// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/fwminimize/internal/rpm"
	"github.com/stretchr/testify/require"
)

var errFake = errors.New("fake failure")

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, dir string) (string, error) {
	f.calls++

	if f.err != nil {
		return "", f.err
	}

	path := filepath.Join(dir, "linux-firmware-20240909-1.noarch.rpm")

	err := os.WriteFile(path, make([]byte, 1000), 0o600)
	if err != nil {
		return "", err
	}

	return path, nil
}

type fakeExtractor struct {
	calls int
	files []string
	err   error
}

func (e *fakeExtractor) Extract(_ context.Context, _, dir string) error {
	e.calls++

	if e.err != nil {
		return e.err
	}

	for _, file := range e.files {
		path := filepath.Join(dir, file)

		err := os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			return err
		}

		err = os.WriteFile(path, []byte(file), 0o600)
		if err != nil {
			return err
		}
	}

	return nil
}

type fakePackager struct {
	name     string
	err      error
	requests []rpm.Request
	kept     []string
}

func (p *fakePackager) Name() string {
	return p.name
}

func (p *fakePackager) Package(_ context.Context, req rpm.Request) error {
	p.requests = append(p.requests, req)

	if p.err != nil {
		return p.err
	}

	entries, err := os.ReadDir(filepath.Join(req.Tree, "lib", "firmware"))
	if err != nil {
		return err
	}

	for _, entry := range entries {
		p.kept = append(p.kept, entry.Name())
	}

	return os.WriteFile(req.Output, make([]byte, 200), 0o600)
}

func firmwareFiles() []string {
	return []string{
		"lib/firmware/iwlwifi-ty-a0-gf-a0-89.ucode",
		"lib/firmware/i915/tgl_dmc.bin",
		"lib/firmware/amdgpu/navi10_sos.bin",
		"lib/firmware/rtl_nic/rtl8168h-2.fw",
		"usr/share/licenses/linux-firmware/LICENCE.iwlwifi",
	}
}

func writeDrivers(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "drivers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "directory %s not empty", dir)
}
