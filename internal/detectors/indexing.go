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

var indexNameHints = []string{"idx", "index", "i", "pos", "offset"}

// DetectIndexBoundary is L02: a <= / >= comparison against a .len()-like
// expression.
func DetectIndexBoundary(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "binary_expression" {
			return true
		}
		op := opText(n, ctx.Content)
		if op != "<=" && op != ">=" {
			return true
		}
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		lenSide, varSide := classifySides(left, right, ctx.Content)
		if lenSide == nil || varSide == nil {
			return true
		}
		if varSide.Type() == "identifier" && looksLikeCanonicalGuard(n, ctx.Content) {
			return true
		}
		name := text(varSide, ctx.Content)
		suggestsIndex := false
		for _, hint := range indexNameHints {
			if strings.Contains(strings.ToLower(name), hint) {
				suggestsIndex = true
				break
			}
		}
		if varSide.Type() == "identifier" && suggestsIndex {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "L02", Confidence: report.ConfidenceHigh,
				Message: "index boundary comparison against a length expression using <=/>=",
			})
		}
		return true
	})
	return out
}

func opText(n *sitter.Node, content []byte) string {
	op := n.ChildByFieldName("operator")
	if op != nil {
		return text(op, content)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "<=", ">=", "==", "!=", "<", ">":
			return c.Type()
		}
	}
	return ""
}

func classifySides(a, b *sitter.Node, content []byte) (lenSide, varSide *sitter.Node) {
	if isLenLike(a, content) {
		return a, b
	}
	if isLenLike(b, content) {
		return b, a
	}
	return nil, nil
}

func isLenLike(n *sitter.Node, content []byte) bool {
	if n == nil {
		return false
	}
	t := text(n, content)
	return strings.Contains(t, ".len()") || strings.Contains(t, ".Len()") || strings.Contains(t, "len(")
}

func looksLikeCanonicalGuard(n *sitter.Node, content []byte) bool {
	parent := ancestorOfType(n, "if_statement")
	if parent == nil {
		return false
	}
	consequence := parent.ChildByFieldName("consequence")
	if consequence == nil {
		return false
	}
	return strings.Contains(text(consequence, content), "return")
}

// DetectUnguardedIndex is L03: a constant-zero index without a preceding
// emptiness guard. first/last calls followed by an unwrap are not checked.
func DetectUnguardedIndex(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "index_expression" {
			return true
		}
		idx := n.ChildByFieldName("index")
		if idx == nil || text(idx, ctx.Content) != "0" {
			return true
		}
		operand := n.ChildByFieldName("operand")
		if operand == nil {
			return true
		}
		if isFixedSize(operand, ctx.Content) {
			return true
		}
		if hasEmptinessGuardBefore(n, ctx.Content) {
			return true
		}
		conf := report.ConfidenceHigh
		reason := ""
		if operand.Type() == "selector_expression" || operand.Type() == "call_expression" {
			conf = report.ConfidenceMedium
			reason = "receiver is a member-access or method-return expression whose emptiness cannot be proven"
		}
		out = append(out, report.Violation{
			Line: line(n), RuleCode: "L03", Confidence: conf, Reason: reason,
			Message: "constant-zero index without a preceding emptiness guard",
		})
		return true
	})
	return out
}

func isFixedSize(n *sitter.Node, content []byte) bool {
	t := text(n, content)
	return strings.Contains(t, "[") && strings.Contains(t, "]") && strings.Contains(t, ";")
}

func hasEmptinessGuardBefore(n *sitter.Node, content []byte) bool {
	fnBody := ancestorOfType(n, "block", "function_declaration", "method_declaration")
	if fnBody == nil {
		return false
	}
	found := false
	walk(fnBody, func(c *sitter.Node) bool {
		if c.StartByte() >= n.StartByte() {
			return false
		}
		if c.Type() == "if_statement" {
			cond := c.ChildByFieldName("condition")
			if cond != nil {
				t := text(cond, content)
				if strings.Contains(t, "len(") || strings.Contains(t, ".Len()") || strings.Contains(t, "empty") {
					found = true
				}
			}
		}
		return true
	})
	return found
}
