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
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/report"
)

var loopKinds = map[string]bool{
	"for_statement": true, "while_statement": true, "for_in_statement": true,
}

var ownershipSinks = map[string]bool{
	"push": true, "insert": true, "entry": true, "extend": true, "append": true,
}

// DetectCloneInLoop is P01: a clone-like call inside a loop.
func DetectCloneInLoop(ctx Context) []report.Violation {
	if inPathMatchingAny(ctx.FilePath, ctx.Config.SkipPathSubstrings) {
		return nil
	}
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if !loopKinds[n.Type()] {
			return true
		}
		walk(n, func(c *sitter.Node) bool {
			if c.Type() != "call_expression" {
				return true
			}
			fn := c.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			name, receiverIsCapitalized, receiverIsIndexed := calleeShape(fn, ctx.Content)
			if name != "clone" {
				return true
			}
			if isInTestFunction(c, ctx.Content) || ownershipSinks[enclosingCallName(c, ctx.Content)] {
				return true
			}
			if strings.Contains(text(fn, ctx.Content), "Arc::clone") || strings.Contains(text(fn, ctx.Content), "Rc::clone") {
				return true
			}
			if receiverIsCapitalized {
				out = append(out, report.Violation{
					Line: line(c), RuleCode: "P01", Confidence: report.ConfidenceHigh,
					Message: "clone() call inside a loop on a heap-owning receiver",
				})
			} else if receiverIsIndexed {
				out = append(out, report.Violation{
					Line: line(c), RuleCode: "P01", Confidence: report.ConfidenceMedium,
					Message: "clone() call inside a loop",
					Reason:  "receiver is an indexed expression or member access whose type cannot be proven",
				})
			}
			return true
		})
		return true
	})
	return out
}

// DetectStringCopyInLoop is P02: to_string/to_owned inside a loop.
func DetectStringCopyInLoop(ctx Context) []report.Violation {
	if inPathMatchingAny(ctx.FilePath, ctx.Config.SkipPathSubstrings) {
		return nil
	}
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if !loopKinds[n.Type()] {
			return true
		}
		walk(n, func(c *sitter.Node) bool {
			if c.Type() != "call_expression" {
				return true
			}
			fn := c.ChildByFieldName("function")
			name, _, _ := calleeShape(fn, ctx.Content)
			if name != "to_string" && name != "to_owned" {
				return true
			}
			if ownershipSinks[enclosingCallName(c, ctx.Content)] {
				return true
			}
			out = append(out, report.Violation{
				Line: line(c), RuleCode: "P02", Confidence: report.ConfidenceHigh,
				Message: fmt.Sprintf("%s() call inside a loop", name),
			})
			return true
		})
		return true
	})
	return out
}

// DetectNestedLoop is P04: any control loop nested inside another.
func DetectNestedLoop(ctx Context) []report.Violation {
	if inPathMatchingAny(ctx.FilePath, ctx.Config.SkipPathSubstrings) {
		return nil
	}
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if !loopKinds[n.Type()] {
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			found := false
			walk(n.Child(i), func(c *sitter.Node) bool {
				if loopKinds[c.Type()] {
					found = true
				}
				return true
			})
			if found {
				out = append(out, report.Violation{
					Line: line(n), RuleCode: "P04", Confidence: report.ConfidenceMedium,
					Message: "nested control loop",
					Reason:  "inner loop may be bounded",
				})
				break
			}
		}
		return true
	})
	return out
}

var linearSearchNames = map[string]bool{"find": true, "position": true}

// DetectLinearSearchInLoop is P06: find/position inside a loop.
func DetectLinearSearchInLoop(ctx Context) []report.Violation {
	if inPathMatchingAny(ctx.FilePath, ctx.Config.SkipPathSubstrings) {
		return nil
	}
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if !loopKinds[n.Type()] {
			return true
		}
		walk(n, func(c *sitter.Node) bool {
			if c.Type() != "call_expression" || isInTestFunction(c, ctx.Content) {
				return true
			}
			fn := c.ChildByFieldName("function")
			name, _, _ := calleeShape(fn, ctx.Content)
			if !linearSearchNames[name] {
				return true
			}
			out = append(out, report.Violation{
				Line: line(c), RuleCode: "P06", Confidence: report.ConfidenceMedium,
				Message: fmt.Sprintf("linear search (%s) inside a loop", name),
				Reason:  "collection size at this call site cannot be bounded statically",
			})
			return true
		})
		return true
	})
	return out
}

// calleeShape extracts a call's method name and whether its receiver looks
// heap-owning (capitalized identifier) or is an indexed/member expression
// of unprovable type.
func calleeShape(fn *sitter.Node, content []byte) (name string, capitalizedReceiver, indexedReceiver bool) {
	if fn == nil {
		return "", false, false
	}
	if fn.Type() != "selector_expression" {
		return text(fn, content), false, false
	}
	field := fn.ChildByFieldName("field")
	operand := fn.ChildByFieldName("operand")
	name = text(field, content)
	if operand == nil {
		return name, false, false
	}
	switch operand.Type() {
	case "identifier":
		opText := text(operand, content)
		capitalizedReceiver = len(opText) > 0 && opText[0] >= 'A' && opText[0] <= 'Z'
	case "index_expression", "selector_expression":
		indexedReceiver = true
	}
	return name, capitalizedReceiver, indexedReceiver
}

func enclosingCallName(n *sitter.Node, content []byte) string {
	parent := n.Parent()
	if parent == nil || parent.Type() != "argument_list" {
		return ""
	}
	grandparent := parent.Parent()
	if grandparent == nil || grandparent.Type() != "call_expression" {
		return ""
	}
	fn := grandparent.ChildByFieldName("function")
	name, _, _ := calleeShape(fn, content)
	return name
}
