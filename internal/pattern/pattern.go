// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pattern

import (
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// Escaped forms of the only two wildcards a driver pattern supports.
var wildcardReplacer = strings.NewReplacer(
	`\*`, "*",
	`\?`, "?",
)

// Matcher is a single compiled driver pattern.
//
// It is immutable once created by [Compile].
type Matcher struct {
	pattern string
	glob    glob.Glob
	// minLen is the number of runes any matching path has at least: every
	// rune of the pattern except "*".
	minLen int
}

// String returns the raw driver pattern the [Matcher] was compiled from.
func (m *Matcher) String() string {
	return m.pattern
}

// Match reports whether the given slash separated relative path matches the
// pattern in full.
func (m *Matcher) Match(path string) bool {
	// glob reduces "P*S" to a prefix and suffix check that accepts paths
	// where P and S overlap.
	if utf8.RuneCountInString(path) < m.minLen {
		return false
	}

	return m.glob.Match(path)
}

// List is an ordered list of [Matcher]s.
type List []*Matcher

// Match reports whether any [Matcher] in the list matches the given path.
func (l List) Match(path string) bool {
	_, found := l.First(path)
	return found
}

// First returns the first [Matcher] that matches the given path.
func (l List) First(path string) (*Matcher, bool) {
	for _, matcher := range l {
		if matcher.Match(path) {
			return matcher, true
		}
	}

	return nil, false
}

// Strings returns the raw patterns of all matchers in order.
func (l List) Strings() []string {
	patterns := make([]string, len(l))
	for idx, matcher := range l {
		patterns[idx] = matcher.pattern
	}

	return patterns
}

// Compile compiles the given driver patterns. The returned [List] has the
// same order and length as the input. Duplicates are kept.
func Compile(patterns []string) (List, error) {
	list := make(List, 0, len(patterns))

	for idx, pattern := range patterns {
		matcher, err := compile(pattern)
		if err != nil {
			return nil, &CompileError{Index: idx, Pattern: pattern, Err: err}
		}

		list = append(list, matcher)
	}

	return list, nil
}

// MustCompile is like [Compile] but panics on error.
func MustCompile(patterns ...string) List {
	list, err := Compile(patterns)
	if err != nil {
		panic(err)
	}

	return list
}

func compile(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	// Escape everything glob would interpret, then bring back the wildcards.
	// No separators are passed, so "*" also matches across "/".
	expr := wildcardReplacer.Replace(glob.QuoteMeta(pattern))

	compiled, err := glob.Compile(expr)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Matcher{
		pattern: pattern,
		glob:    compiled,
		minLen:  utf8.RuneCountInString(pattern) - strings.Count(pattern, "*"),
	}, nil
}
