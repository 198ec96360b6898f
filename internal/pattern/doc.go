// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pattern compiles driver patterns into matchers for firmware file
// paths.
//
// A driver pattern knows two wildcards: "*" matches any sequence of
// characters, including the path separator, and "?" matches exactly one
// character. Every other character matches itself. Matching is always done
// against the complete relative path, so "foo" neither matches "barfoo" nor
// "foobar".
package pattern
