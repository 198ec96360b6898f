// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the drivers document used if none is given.
const DefaultFile = "drivers.yaml"

// Example is a drivers document shown to users that do not have one yet.
const Example = `drivers:
  - iwlwifi-*           # Intel WiFi drivers
  - rtl_nic/*           # Realtek network drivers
  - i915/*              # Intel graphics
  - amdgpu/*            # AMD graphics
  - nvidia/*            # NVIDIA graphics
  - rtw88/*             # Realtek WiFi
`

// Drivers is the content of a drivers document.
type Drivers struct {
	// Patterns of firmware files to keep, relative to the firmware root.
	Drivers []string `yaml:"drivers"`
}

// LoadFile reads the drivers document at the given path.
func LoadFile(path string) (*Drivers, error) {
	return Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Load reads the drivers document with the given name from fsys.
//
// The document must be a mapping with the only key "drivers" whose value is
// a sequence of scalars. An empty document is valid and results in no
// patterns at all.
func Load(fsys fs.FS, name string) (*Drivers, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	drivers, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}

	if len(drivers.Drivers) == 0 {
		slog.Warn("No drivers given, all firmware files will be removed",
			slog.String("file", name))
	}

	return drivers, nil
}

func parse(data []byte) (*Drivers, error) {
	var drivers Drivers

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&drivers)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err //nolint:wrapcheck
	}

	return &drivers, nil
}

// PrintExample writes a hint how to create the drivers document with the
// given name, followed by [Example].
func PrintExample(w io.Writer, name string) {
	fmt.Fprintf(w, "Create a %s file first with this structure:\n\n", name)
	fmt.Fprint(w, Example)
}
