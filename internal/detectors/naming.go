// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detectors

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/report"
)

// NamingCheck counts each function identifier's word count, splitting on
// underscores and camel-case boundaries, and emits a violation per
// identifier exceeding maxWords.
func NamingCheck(ctx Context, maxWords int) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "function_declaration" && n.Type() != "method_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		name := text(nameNode, ctx.Content)
		words := splitWords(name)
		if len(words) > maxWords {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "LAW OF COMPLEXITY", Confidence: report.ConfidenceInfo,
				Message: "function identifier exceeds the configured word-count limit",
			})
		}
		return true
	})
	return out
}

func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	for i, r := range name {
		switch {
		case r == '_':
			flush()
		case r >= 'A' && r <= 'Z' && i > 0:
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}
