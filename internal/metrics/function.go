// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metrics computes per-function and per-type structural metrics:
// cyclomatic and cognitive complexity, nesting depth, arity at the function
// level; LCOM4, AHF, CBO, and SFOUT at the type/scope level.
package metrics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/langs"
)

// FunctionMetrics holds the structural measurements for one function body.
type FunctionMetrics struct {
	CyclomaticComplexity int
	CognitiveComplexity  int
	NestingDepth         int
	Arity                int
	LineCount            int
	NodeCount            int
}

var logicalOperators = map[string]bool{"&&": true, "||": true, "and": true, "or": true}

var logicalExpressionKinds = map[string]bool{"binary_expression": true, "boolean_operator": true}

// ComputeFunction walks node (a function/method declaration) and computes
// its structural metrics against grammar's complexity/nesting node-kind
// sets. Cyclomatic complexity starts at 1 (base path) and is incremented
// once per decision point; cognitive complexity additionally weights
// structural decision points by nesting depth, matching the "deeper
// conditionals cost more" rule, and adds three flat (non-nesting-weighted)
// increments: a logical operator beyond the first in a compound
// condition, a labeled break/continue, and a self-call (recursion).
// selfName identifies the enclosing function/method for recursion
// detection; pass "" if the caller doesn't track one. content is the
// full source the node was parsed from, needed to resolve call callees
// by name.
func ComputeFunction(node *sitter.Node, grammar *langs.Grammar, arity int, selfName string, content []byte) FunctionMetrics {
	fm := FunctionMetrics{CyclomaticComplexity: 1, Arity: arity}
	if node == nil {
		return fm
	}
	fm.LineCount = int(node.EndPoint().Row-node.StartPoint().Row) + 1

	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		fm.NodeCount++
		kind := n.Type()
		isComplexity := grammar.ComplexityNodes[kind]
		isNesting := grammar.NestingNodes[kind]

		if isComplexity {
			fm.CyclomaticComplexity++
			fm.CognitiveComplexity += 1 + depth
		}
		if isLogicalOperatorContinuation(n) {
			fm.CognitiveComplexity++
		}
		if isLabeledLoopControl(n) {
			fm.CognitiveComplexity++
		}
		if selfName != "" && isSelfCall(n, selfName, content) {
			fm.CognitiveComplexity++
		}
		if depth > fm.NestingDepth {
			fm.NestingDepth = depth
		}

		childDepth := depth
		if isNesting {
			childDepth = depth + 1
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), childDepth)
		}
	}
	walk(node, 0)
	return fm
}

// isLogicalOperatorContinuation reports whether n is a logical and/or
// expression nested directly inside another logical expression, i.e. it
// is not the first operator encountered in its compound condition.
// `a && b && c` parses as two nested binary_expression nodes; the outer
// one is the first (free), the inner one continues the run and counts.
func isLogicalOperatorContinuation(n *sitter.Node) bool {
	if !logicalExpressionKinds[n.Type()] {
		return false
	}
	op := n.ChildByFieldName("operator")
	if op == nil || !logicalOperators[op.Type()] {
		return false
	}
	parent := n.Parent()
	if parent == nil || !logicalExpressionKinds[parent.Type()] {
		return false
	}
	parentOp := parent.ChildByFieldName("operator")
	return parentOp != nil && logicalOperators[parentOp.Type()]
}

var labeledJumpKinds = map[string]bool{"break_statement": true, "continue_statement": true}

// isLabeledLoopControl reports whether n is a break/continue that names
// a label, jumping across more than its immediately enclosing loop. Go's
// grammar exposes the label as a label_name child rather than a field.
func isLabeledLoopControl(n *sitter.Node) bool {
	if !labeledJumpKinds[n.Type()] {
		return false
	}
	if n.ChildByFieldName("label") != nil {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "label_name" {
			return true
		}
	}
	return false
}

var callExpressionKinds = map[string]bool{"call_expression": true, "call": true}

// isSelfCall reports whether n is a call whose callee resolves to
// selfName, i.e. a direct recursive call.
func isSelfCall(n *sitter.Node, selfName string, content []byte) bool {
	if !callExpressionKinds[n.Type()] {
		return false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	return calleeName(fn, content) == selfName
}

// calleeName resolves the identifier text of a call's callee, following
// the same field-name conventions audit.calleeName uses: a bare
// identifier is used directly, a selector/member/attribute expression's
// own identifier field names the call (not its receiver).
func calleeName(fn *sitter.Node, content []byte) string {
	switch fn.Type() {
	case "identifier":
		return text(fn, content)
	case "selector_expression":
		if field := fn.ChildByFieldName("field"); field != nil {
			return text(field, content)
		}
	case "member_expression":
		if prop := fn.ChildByFieldName("property"); prop != nil {
			return text(prop, content)
		}
	case "attribute":
		if attr := fn.ChildByFieldName("attribute"); attr != nil {
			return text(attr, content)
		}
	}
	return ""
}

func text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}
