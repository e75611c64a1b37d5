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

// DetectGlobalMutable is S01: a package-level mutable (var) declaration.
func DetectGlobalMutable(ctx Context) []report.Violation {
	var out []report.Violation
	for i := 0; i < int(ctx.Root.ChildCount()); i++ {
		child := ctx.Root.Child(i)
		if child.Type() != "var_declaration" {
			continue
		}
		walk(child, func(n *sitter.Node) bool {
			if n.Type() != "identifier" {
				return true
			}
			name := text(n, ctx.Content)
			if isExported(name) {
				return true // S02 covers the exported case
			}
			out = append(out, report.Violation{
				Line: line(child), RuleCode: "S01", Confidence: report.ConfidenceMedium,
				Message: "package-level mutable declaration",
				Reason:  "FFI or cgo interop may require a package-level mutable",
			})
			return false
		})
	}
	return out
}

// DetectExportedGlobalMutable is S02: an exported package-level mutable.
func DetectExportedGlobalMutable(ctx Context) []report.Violation {
	var out []report.Violation
	for i := 0; i < int(ctx.Root.ChildCount()); i++ {
		child := ctx.Root.Child(i)
		if child.Type() != "var_declaration" {
			continue
		}
		walk(child, func(n *sitter.Node) bool {
			if n.Type() != "identifier" || !isExported(text(n, ctx.Content)) {
				return true
			}
			out = append(out, report.Violation{
				Line: line(child), RuleCode: "S02", Confidence: report.ConfidenceMedium,
				Message: "exported package-level mutable global",
				Reason:  "may be an intentional part of the package's public API",
			})
			return false
		})
	}
	return out
}

// DetectLazyMutableGlobal is S03: a lazily-initialized global container
// wrapped in a shared-mutable type (sync.Once + pointer/map/slice, or a
// mutex-guarded package var).
func DetectLazyMutableGlobal(ctx Context) []report.Violation {
	var out []report.Violation
	for i := 0; i < int(ctx.Root.ChildCount()); i++ {
		child := ctx.Root.Child(i)
		if child.Type() != "var_declaration" {
			continue
		}
		t := text(child, ctx.Content)
		if strings.Contains(t, "sync.Once") || (strings.Contains(t, "map[") && strings.Contains(t, "sync.")) {
			out = append(out, report.Violation{
				Line: line(child), RuleCode: "S03", Confidence: report.ConfidenceMedium,
				Message: "lazily-initialized global container over a shared-mutable wrapper",
				Reason:  "lazy singleton pattern may be intentional process-wide state",
			})
		}
	}
	return out
}

func isExported(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// DetectUnsafeUsage is the unsafe/escape-hatch rule: flags every use of
// the language's unsafe escape hatch (the `unsafe` package in Go) in ban
// mode, or every one lacking a nearby SAFETY comment in justify mode.
func DetectUnsafeUsage(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "selector_expression" {
			return true
		}
		operand := n.ChildByFieldName("operand")
		if operand == nil || text(operand, ctx.Content) != "unsafe" {
			return true
		}
		if ctx.Config.BanUnsafe {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "LAW OF PARANOIA", Confidence: report.ConfidenceHigh,
				Message: "unsafe escape hatch used; banned by configuration",
			})
			return true
		}
		if ctx.Config.RequireSafetyComment && !hasNearbySafetyComment(n, ctx.Content) {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "LAW OF PARANOIA", Confidence: report.ConfidenceHigh,
				Message: "unsafe escape hatch without a nearby SAFETY: comment",
			})
		}
		return true
	})
	return out
}

// hasNearbySafetyComment climbs from n up to its enclosing statement,
// checking at each level whether the immediately preceding sibling is a
// "SAFETY:" comment. A use nested inside a call chain or assignment still
// counts as justified by a comment directly above the statement.
func hasNearbySafetyComment(n *sitter.Node, content []byte) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if prev := cur.PrevSibling(); prev != nil && prev.Type() == "comment" {
			if strings.Contains(text(prev, content), "SAFETY:") {
				return true
			}
		}
		if cur.Type() == "block" {
			break
		}
	}
	return false
}
