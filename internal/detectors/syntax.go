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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/report"
)

// grammarGapSuppressions matches error-node text (or an enclosing
// attribute-like ancestor's text) that is known valid syntax the current
// grammar version does not yet model. Prefer silence over a false
// positive on valid code.
var grammarGapSuppressions = []string{
	"//go:build", "//go:generate", "//go:embed",
}

// SyntaxIntegrity emits a violation for each AST error node and each
// missing expected node, skipping known grammar-gap patterns.
func SyntaxIntegrity(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if !n.IsError() && !n.IsMissing() {
			return true
		}
		t := text(n, ctx.Content)
		if suppressedByGrammarGap(n, t, ctx.Content) {
			return true
		}
		code := "LAW OF INTEGRITY"
		msg := "syntax error"
		if n.IsMissing() {
			msg = "missing expected syntax node"
		}
		out = append(out, report.Violation{
			Line: line(n), RuleCode: code, Confidence: report.ConfidenceHigh,
			Message: msg,
		})
		return true
	})
	return out
}

func suppressedByGrammarGap(n *sitter.Node, nodeText string, content []byte) bool {
	for _, pattern := range grammarGapSuppressions {
		if strings.Contains(nodeText, pattern) {
			return true
		}
	}
	parent := n.Parent()
	for parent != nil {
		if strings.Contains(text(parent, content), "attribute") {
			for _, pattern := range grammarGapSuppressions {
				if strings.Contains(text(parent, content), pattern) {
					return true
				}
			}
		}
		parent = parent.Parent()
	}
	return false
}
