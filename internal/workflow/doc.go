// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package workflow drives a complete minimization run: load the driver
// patterns, fetch and extract the firmware package, filter the firmware tree
// and build the reduced package.
//
// All intermediate artifacts live in a [Workspace] that is removed when the
// run ends, no matter how it ends, unless it is explicitly preserved.
package workflow
