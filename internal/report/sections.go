// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"fmt"
	"io"

	"github.com/neti-lang/neti/internal/audit"
	"github.com/neti-lang/neti/internal/locality"
)

// RenderLocalitySection writes the titled locality report: edge counts,
// entropy, cycles, and deep-analysis findings.
func RenderLocalitySection(w io.Writer, res *locality.Result) { // res is nil when locality.mode is "off"
	fmt.Fprintln(w, styleRule.Render("== LOCALITY =="))
	if res == nil {
		fmt.Fprintln(w, styleMuted.Render("locality.mode is off"))
		return
	}
	rep := res.Report
	fmt.Fprintf(w, "edges: %d passed, %d failed, entropy=%.3f, mode=%s\n", len(rep.Passed), len(rep.Failed), rep.Entropy, rep.Mode)
	for _, v := range rep.Failed {
		fmt.Fprintf(w, "  %s %s -> %s: %s (%s)\n", styleMedium.Render("[fail]"), v.Edge.From, v.Edge.To, v.Reason, v.Suggestion)
	}
	for _, c := range rep.Cycles {
		fmt.Fprintf(w, "  %s %v\n", styleHigh.Render("[cycle]"), c)
	}
	for _, d := range res.Deep {
		fmt.Fprintf(w, "  %s %s -> %s: %s\n", styleMuted.Render("["+d.Category.String()+"]"), d.From, d.To, d.Suggestion)
	}
}

// RenderAuditSection writes the titled consolidation-audit report:
// clusters, dead code, repeated patterns, and ranked opportunities.
func RenderAuditSection(w io.Writer, res *audit.Result) {
	fmt.Fprintln(w, styleRule.Render("== CONSOLIDATION AUDIT =="))
	fmt.Fprintf(w, "%d units, %d clusters, %d dead-code findings, %d repeated patterns\n",
		len(res.Units), len(res.Clusters), len(res.DeadCode), len(res.Patterns))
	for _, o := range res.Opportunities {
		plan := ""
		if o.Plan != "" {
			plan = " plan: " + o.Plan
		}
		fmt.Fprintf(w, "  [%s] score=%.1f lines_saved=%d confidence=%.2f subject=%s%s\n",
			o.Kind, o.Score, o.LinesSaved, o.Confidence, o.Subject, plan)
	}
}

// RenderExternalCommandsSection writes the titled section reporting the
// outcome of collaborator-run shell commands (configured under
// "commands", interpreted only by the verifier collaborator).
func RenderExternalCommandsSection(w io.Writer, results map[string]bool) {
	fmt.Fprintln(w, styleRule.Render("== EXTERNAL COMMANDS =="))
	if len(results) == 0 {
		fmt.Fprintln(w, styleMuted.Render("no commands configured"))
		return
	}
	for name, ok := range results {
		status := styleHigh.Render("FAIL")
		if ok {
			status = styleInfo.Render("PASS")
		}
		fmt.Fprintf(w, "  %s %s\n", status, name)
	}
}
