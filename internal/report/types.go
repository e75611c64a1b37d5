// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report defines the data model shared by every producer in neti:
// violations, per-file and scan-level reports, and their console/JSON
// rendering.
package report

import (
	"fmt"
	"sort"
)

// Confidence is the tier a detector assigns to a Violation.
type Confidence int

const (
	// ConfidenceInfo is a style preference; never blocks.
	ConfidenceInfo Confidence = iota
	// ConfidenceMedium observed a necessary but unproven condition; carries a Reason.
	ConfidenceMedium
	// ConfidenceHigh proves the property from the AST alone.
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "info"
	}
}

// Violation is one detector finding. Ordering among violations in a list
// is unspecified; reporting imposes its own order.
type Violation struct {
	Line       int
	Message    string
	RuleCode   string
	Confidence Confidence
	Detail     map[string]string // optional machine-readable detail
	Reason     string            // required non-empty when Confidence is Medium
}

// Valid reports whether v satisfies the data-model invariant that
// Medium confidence carries a reason.
func (v Violation) Valid() bool {
	if v.Confidence == ConfidenceMedium && v.Reason == "" {
		return false
	}
	return v.RuleCode != "" && v.Message != ""
}

// FileReport is the per-file output of Phase 1 (and, when whole-program
// analysis ran, the Inspector violations routed back from Phase 2).
type FileReport struct {
	Path            string
	TokenCount      int
	MaxCognitive    int
	Violations      []Violation
	HasFileAnalysis bool
}

// ScanReport aggregates every FileReport from one engine invocation. ID
// is a random UUID assigned per scan and emitted in the JSON output; it
// is not attached to trace spans or to the plain-text log file.
type ScanReport struct {
	ID             string
	Files          []FileReport
	TotalTokens    int
	DurationMillis int64
}

// TotalViolations sums violation counts across all files.
func (r *ScanReport) TotalViolations() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Violations)
	}
	return n
}

// CountByConfidence returns the number of violations at tier c.
func (r *ScanReport) CountByConfidence(c Confidence) int {
	n := 0
	for _, f := range r.Files {
		for _, v := range f.Violations {
			if v.Confidence == c {
				n++
			}
		}
	}
	return n
}

// HasBlockingViolations reports whether any High-confidence violation
// exists, the condition that makes the tool exit non-zero.
func (r *ScanReport) HasBlockingViolations() bool {
	return r.CountByConfidence(ConfidenceHigh) > 0
}

// SortedViolations returns a flat, stably ordered view: by confidence
// (High first), then by file path, then by row.
func (r *ScanReport) SortedViolations() []struct {
	Path string
	Violation
} {
	type entry struct {
		Path string
		Violation
	}
	var flat []entry
	for _, f := range r.Files {
		for _, v := range f.Violations {
			flat = append(flat, entry{Path: f.Path, Violation: v})
		}
	}
	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].Confidence != flat[j].Confidence {
			return flat[i].Confidence > flat[j].Confidence
		}
		if flat[i].Path != flat[j].Path {
			return flat[i].Path < flat[j].Path
		}
		return flat[i].Line < flat[j].Line
	})
	out := make([]struct {
		Path string
		Violation
	}, len(flat))
	for i, e := range flat {
		out[i] = struct {
			Path string
			Violation
		}{Path: e.Path, Violation: e.Violation}
	}
	return out
}

// String renders a one-line summary suitable for the console footer.
func (r *ScanReport) String() string {
	return fmt.Sprintf("%d files, %d tokens, %d violations (high=%d medium=%d info=%d) in %dms",
		len(r.Files), r.TotalTokens, r.TotalViolations(),
		r.CountByConfidence(ConfidenceHigh), r.CountByConfidence(ConfidenceMedium), r.CountByConfidence(ConfidenceInfo),
		r.DurationMillis)
}
