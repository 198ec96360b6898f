// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filter

import "slices"

// Result is the outcome of a filter run. All paths are slash separated and
// relative to the filtered root. Each list is sorted.
type Result struct {
	Kept       []string
	Removed    []string
	PrunedDirs []string
}

// Total returns the number of classified files.
func (r *Result) Total() int {
	return len(r.Kept) + len(r.Removed)
}

func (r *Result) sort() {
	slices.Sort(r.Kept)
	slices.Sort(r.Removed)
	slices.Sort(r.PrunedDirs)
}
