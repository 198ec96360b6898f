// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

// State is the progress of a workflow run.
type State int

// States in the order a successful run passes them. [StateDryRunDone] and
// [StatePackaged] are alternatives. Any failure moves the run into
// [StateFailed].
const (
	StateInit State = iota
	StatePatternsLoaded
	StateFetched
	StateExtracted
	StateFiltered
	StateDryRunDone
	StatePackaged
	StateCleanedUp
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePatternsLoaded:
		return "patterns-loaded"
	case StateFetched:
		return "fetched"
	case StateExtracted:
		return "extracted"
	case StateFiltered:
		return "filtered"
	case StateDryRunDone:
		return "dry-run-done"
	case StatePackaged:
		return "packaged"
	case StateCleanedUp:
		return "cleaned-up"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
