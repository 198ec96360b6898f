// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"testing"

	"github.com/aibor/fwminimize/internal/filter"
	"github.com/aibor/fwminimize/internal/workflow"
	"github.com/stretchr/testify/assert"
)

func TestPrintReport(t *testing.T) {
	result := &filter.Result{
		Kept:    []string{"i915/tgl_dmc.bin", "iwlwifi-ty-a0-gf-a0-89.ucode"},
		Removed: []string{"amdgpu/navi10_sos.bin"},
	}

	tests := []struct {
		name      string
		report    *workflow.Report
		listFiles bool
		expected  string
	}{
		{
			name:   "dry run",
			report: &workflow.Report{DryRun: true, Result: result},
			expected: "Kept: 2 files\n" +
				"Removed: 1 files\n" +
				"Dry run, no package built\n",
		},
		{
			name:      "dry run with file list",
			report:    &workflow.Report{DryRun: true, Result: result},
			listFiles: true,
			expected: "Kept files:\n" +
				"  i915/tgl_dmc.bin\n" +
				"  iwlwifi-ty-a0-gf-a0-89.ucode\n" +
				"Removed files:\n" +
				"  amdgpu/navi10_sos.bin\n" +
				"Kept: 2 files\n" +
				"Removed: 1 files\n" +
				"Dry run, no package built\n",
		},
		{
			name: "packaged",
			report: &workflow.Report{
				Result:      result,
				Output:      "/tmp/linux-firmware-minimal.rpm",
				ArchiveSize: 400 * 1024 * 1024,
				OutputSize:  100 * 1024 * 1024,
			},
			expected: "Kept: 2 files\n" +
				"Removed: 1 files\n" +
				"Package: /tmp/linux-firmware-minimal.rpm\n" +
				"Original size: 400 MiB\n" +
				"New size: 100 MiB\n" +
				"Saved: 300 MiB (75.0%)\n",
		},
		{
			name: "grown",
			report: &workflow.Report{
				Result:      result,
				Output:      "/tmp/linux-firmware-minimal.rpm",
				ArchiveSize: 1024,
				OutputSize:  2048,
			},
			expected: "Kept: 2 files\n" +
				"Removed: 1 files\n" +
				"Package: /tmp/linux-firmware-minimal.rpm\n" +
				"Original size: 1.0 KiB\n" +
				"New size: 2.0 KiB\n" +
				"Grown: 1.0 KiB (100.0%)\n",
		},
		{
			name: "unknown sizes",
			report: &workflow.Report{
				Result: result,
				Output: "/tmp/linux-firmware-minimal.rpm",
			},
			expected: "Kept: 2 files\n" +
				"Removed: 1 files\n" +
				"Package: /tmp/linux-firmware-minimal.rpm\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			printReport(&buf, tt.report, tt.listFiles)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}
