// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// entryMatcher holds compiled include/exclude rules over entry paths.
type entryMatcher struct {
	matcher *pathrules.Matcher
}

// newEntryMatcher compiles selection rules. No usable rules yields a nil matcher.
func newEntryMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entryMatcher, error) {
	rules = normalizeSelectRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	if opts == (pathrules.MatcherOptions{}) {
		opts.CaseInsensitive = true
	}
	if opts.DefaultAction == pathrules.ActionUnknown {
		opts.DefaultAction = pathrules.ActionInclude
		if hasIncludeRule(rules) {
			opts.DefaultAction = pathrules.ActionExclude
		}
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidSelectRule, err)
	}

	return &entryMatcher{matcher: matcher}, nil
}

// normalizeSelectRules normalizes rule patterns and drops empty patterns.
func normalizeSelectRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// hasIncludeRule reports whether any rule is an include rule.
func hasIncludeRule(rules []pathrules.Rule) bool {
	for _, rule := range rules {
		if rule.Action == pathrules.ActionInclude {
			return true
		}
	}

	return false
}

// Match reports whether entry path is selected. A nil matcher selects everything.
func (m *entryMatcher) Match(entry Entry) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(entry.Path())
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// SelectEntries keeps entries matched by ordered include/exclude rules, preserving order.
// Zero-valued opts match case-insensitively. Without an explicit default action,
// unmatched entries are excluded when any include rule exists and included otherwise.
func SelectEntries(entries []Entry, rules []pathrules.Rule, opts pathrules.MatcherOptions) ([]Entry, error) {
	matcher, err := newEntryMatcher(rules, opts)
	if err != nil {
		return nil, err
	}

	return filterEntriesByMatcher(entries, matcher), nil
}

// filterEntriesByMatcher keeps entries accepted by matcher.
func filterEntriesByMatcher(entries []Entry, matcher *entryMatcher) []Entry {
	if matcher == nil {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if matcher.Match(entry) {
			out = append(out, entry)
		}
	}

	return out
}

// FilterByPrefix keeps entries under folder prefix (or exact match if it points to a file).
func FilterByPrefix(entries []Entry, prefix string) []Entry {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return entries
	}

	lowerPrefix := strings.ToLower(prefix)
	withSlash := lowerPrefix + "/"
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		entryPath := strings.ToLower(NormalizePath(entry.Path()))
		if entryPath == lowerPrefix || strings.HasPrefix(entryPath, withSlash) {
			out = append(out, entry)
		}
	}

	return out
}
