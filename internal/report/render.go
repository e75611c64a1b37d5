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
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorHigh   = lipgloss.Color("#E74C3C")
	colorMedium = lipgloss.Color("#F4D03F")
	colorInfo   = lipgloss.Color("#2C4A54")
	colorRule   = lipgloss.Color("#20B9B4")

	styleHigh    = lipgloss.NewStyle().Bold(true).Foreground(colorHigh)
	styleMedium  = lipgloss.NewStyle().Foreground(colorMedium)
	styleInfo    = lipgloss.NewStyle().Foreground(colorInfo)
	styleRule    = lipgloss.NewStyle().Bold(true).Foreground(colorRule)
	styleMuted   = lipgloss.NewStyle().Foreground(colorInfo)
	styleSummary = lipgloss.NewStyle().Bold(true)
)

func styleFor(c Confidence) lipgloss.Style {
	switch c {
	case ConfidenceHigh:
		return styleHigh
	case ConfidenceMedium:
		return styleMedium
	default:
		return styleInfo
	}
}

// RenderConsole writes the grouped, human-readable report to w: violations
// grouped by rule code, first occurrence in full detail, subsequent
// occurrences collapsed to a one-line reference, ending with a
// per-confidence-tier summary line.
func RenderConsole(w io.Writer, r *ScanReport) {
	flat := r.SortedViolations()
	byRule := make(map[string][]int)
	order := make([]string, 0)
	for i, v := range flat {
		if _, seen := byRule[v.RuleCode]; !seen {
			order = append(order, v.RuleCode)
		}
		byRule[v.RuleCode] = append(byRule[v.RuleCode], i)
	}

	for _, rule := range order {
		fmt.Fprintln(w, styleRule.Render(rule))
		for n, idx := range byRule[rule] {
			v := flat[idx]
			if n == 0 {
				fmt.Fprintf(w, "  %s %s:%d %s\n", styleFor(v.Confidence).Render("["+v.Confidence.String()+"]"), v.Path, v.Line, v.Message)
				if v.Reason != "" {
					fmt.Fprintln(w, styleMuted.Render("    why: "+v.Reason))
				}
				fmt.Fprintln(w, styleMuted.Render(fmt.Sprintf("    suppress: // neti:allow(%s)", rule)))
			} else {
				fmt.Fprintf(w, "  %s %s:%d\n", styleMuted.Render("..."), v.Path, v.Line)
			}
		}
	}

	fmt.Fprintln(w, styleSummary.Render(r.String()))
}

// RenderPlainText is RenderConsole without ANSI styling, used for the
// fixed-filename log file output.
func RenderPlainText(w io.Writer, r *ScanReport) {
	var sb strings.Builder
	RenderConsole(&sb, r)
	fmt.Fprint(w, stripANSI(sb.String()))
}

func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
