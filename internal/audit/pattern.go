// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import "strings"

// Pattern is one fixed "idiom query" the aggregation pass looks for.
type Pattern struct {
	Name      string
	MinCount  int
	substrs   []string // any-of substring match against a unit's source text, a pragmatic stand-in for a compiled query
}

// DefaultPatterns is the fixed set of idiom queries plus room for
// user-added templates.
func DefaultPatterns(userTemplates []Pattern) []Pattern {
	fixed := []Pattern{
		{Name: "process_spawn_with_pipe", MinCount: 3, substrs: []string{"exec.Command", "StdoutPipe", "subprocess.Popen"}},
		{Name: "option_result_chaining", MinCount: 4, substrs: []string{".Unwrap()", "?.", "Option<", "Result<"}},
		{Name: "error_context_wrapping", MinCount: 4, substrs: []string{"fmt.Errorf(\"%w", "errors.Wrap(", ".context("}},
		{Name: "string_format_macro", MinCount: 5, substrs: []string{"fmt.Sprintf(", "format!(", "f\"{"}},
		{Name: "conversion_trait_impl", MinCount: 3, substrs: []string{"impl From<", "impl TryFrom<", "func (", ") To"}},
		{Name: "match_on_result", MinCount: 4, substrs: []string{"match result", "switch err", "if err != nil"}},
		{Name: "iterator_collect", MinCount: 4, substrs: []string{".collect()", "[x for x in", ".map(", ".filter("}},
		{Name: "move_closure", MinCount: 3, substrs: []string{"move |", "func() {"}},
	}
	return append(fixed, userTemplates...)
}

// RepeatedPattern is a pattern whose match count met its threshold.
type RepeatedPattern struct {
	Pattern Pattern
	Count   int
	Matches []string // unit keys
}

// AggregatePatterns scans each unit's source text for every pattern and
// returns the patterns meeting their minimum-occurrence threshold.
func AggregatePatterns(units []Unit, sourceByFile map[string][]byte, patterns []Pattern) []RepeatedPattern {
	var results []RepeatedPattern
	for _, p := range patterns {
		var matches []string
		for _, u := range units {
			src, ok := sourceByFile[u.File]
			if !ok {
				continue
			}
			snippet := unitSnippet(src, u)
			if containsAny(snippet, p.substrs) {
				matches = append(matches, u.Key())
			}
		}
		if len(matches) >= p.MinCount {
			results = append(results, RepeatedPattern{Pattern: p, Count: len(matches), Matches: matches})
		}
	}
	return results
}

func unitSnippet(src []byte, u Unit) string {
	lines := strings.Split(string(src), "\n")
	start := u.StartLine - 1
	end := u.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
