// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package filter partitions the regular files of a directory tree into kept
// and removed files by matching their relative paths against a
// [pattern.List].
//
// In [ModeApply], removed files are deleted and directories left empty are
// pruned bottom-up. Directories are never deleted otherwise. The partition
// only depends on the set of paths and patterns, never on the order the
// file system returns directory entries in.
package filter
