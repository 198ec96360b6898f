// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import "github.com/aibor/fwminimize/internal/filter"

// Report describes the outcome of a run.
type Report struct {
	// State reached by the run. [StateCleanedUp] on success, [StateFailed]
	// on error.
	State State
	// Reached is the last stage state before the final one: [StateDryRunDone]
	// or [StatePackaged] on success, the last completed stage on error.
	Reached State
	// DryRun is true if no package was built.
	DryRun bool
	// Result of filtering the firmware tree. Nil if the run failed before.
	Result *filter.Result
	// Archive is the path of the fetched package inside the workspace.
	Archive     string
	ArchiveSize int64
	// Output is the path of the built package.
	Output     string
	OutputSize int64
	// Workspace is the path of the working directory.
	Workspace string
	// Preserved is true if the working directory was not removed.
	Preserved bool
}

// Reduction returns the number of bytes the built package is smaller than
// the fetched one and the percentage relative to the fetched package. It
// returns false if either size is unknown.
func (r *Report) Reduction() (int64, float64, bool) {
	if r.ArchiveSize <= 0 || r.OutputSize <= 0 {
		return 0, 0, false
	}

	saved := r.ArchiveSize - r.OutputSize
	percent := float64(saved) / float64(r.ArchiveSize) * 100 //nolint:mnd

	return saved, percent, true
}
