// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filter

// Mode defines if a filter run mutates the file system.
type Mode int

const (
	// ModeDryRun only computes the partition.
	ModeDryRun Mode = iota
	// ModeApply deletes removed files and prunes empty directories.
	ModeApply
)

func (m Mode) String() string {
	switch m {
	case ModeDryRun:
		return "dry-run"
	case ModeApply:
		return "apply"
	default:
		return "unknown"
	}
}
