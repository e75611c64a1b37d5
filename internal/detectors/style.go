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

// DetectManualConversion is I01: a manual conversion-from-another-type
// method, reported as style, unless the body handles errors.
func DetectManualConversion(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "method_declaration" && n.Type() != "function_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		name := text(nameNode, ctx.Content)
		if !strings.HasPrefix(name, "From") && !strings.HasPrefix(name, "To") && !strings.HasPrefix(name, "Convert") {
			return true
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			return true
		}
		bodyText := strings.ToLower(text(body, ctx.Content))
		if strings.Contains(bodyText, "error") || strings.Contains(bodyText, "err") {
			return true
		}
		out = append(out, report.Violation{
			Line: line(n), RuleCode: "I01", Confidence: report.ConfidenceInfo,
			Message: "manual type-conversion method; consider a conversion trait/interface",
		})
		return true
	})
	return out
}

// DetectDuplicateMatchArms is I02: a switch/match with two or more arms
// whose body text is identical, unless their patterns destructure
// distinct enum variants (fusion would be impossible).
func DetectDuplicateMatchArms(ctx Context) []report.Violation {
	var out []report.Violation
	switchKinds := map[string]bool{"expression_switch_statement": true, "type_switch_statement": true, "match_expression": true}
	walk(ctx.Root, func(n *sitter.Node) bool {
		if !switchKinds[n.Type()] {
			return true
		}
		bodies := map[string][]string{} // normalized body text -> pattern texts
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() != "expression_case" && c.Type() != "default_case" && c.Type() != "match_arm" {
				continue
			}
			bodyStart := c.StartByte()
			for j := 0; j < int(c.ChildCount()); j++ {
				if sep := c.Child(j); sep.Type() == ":" || sep.Type() == "=>" {
					bodyStart = sep.EndByte()
					break
				}
			}
			bodyText := normalizeWhitespace(string(ctx.Content[bodyStart:c.EndByte()]))
			patternText := casePatternText(c, ctx.Content)
			bodies[bodyText] = append(bodies[bodyText], patternText)
		}
		for _, patterns := range bodies {
			if len(patterns) < 2 {
				continue
			}
			if patternsIncompatible(patterns) {
				continue
			}
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "I02", Confidence: report.ConfidenceHigh,
				Message: "two or more match/switch arms share an identical body",
			})
			break
		}
		return true
	})
	return out
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func casePatternText(n *sitter.Node, content []byte) string {
	val := n.ChildByFieldName("value")
	if val != nil {
		return text(val, content)
	}
	return ""
}

// patternsIncompatible is a coarse approximation of a proper
// pattern-type incompatibility check: if every pattern names a distinct
// leading identifier (an enum-variant-like tag), fusion across arms would
// change behavior, so duplication is not flagged.
func patternsIncompatible(patterns []string) bool {
	seen := map[string]bool{}
	for _, p := range patterns {
		tag := strings.SplitN(strings.TrimSpace(p), "(", 2)[0]
		if tag == "" || !(tag[0] == '_' || (tag[0] >= 'a' && tag[0] <= 'z') || (tag[0] >= 'A' && tag[0] <= 'Z')) {
			return false
		}
		if seen[tag] {
			return false
		}
		seen[tag] = true
	}
	return true
}

// DetectMutatingGetter is M03: a get_*/is_*/has_* method with a mutable
// receiver.
func DetectMutatingGetter(ctx Context) []report.Violation {
	return methodNameReceiverCheck(ctx, "M03", report.ConfidenceHigh,
		func(name string) bool {
			return strings.HasPrefix(name, "Get") || strings.HasPrefix(name, "get_") ||
				strings.HasPrefix(name, "Is") || strings.HasPrefix(name, "is_") ||
				strings.HasPrefix(name, "Has") || strings.HasPrefix(name, "has_")
		},
		"accessor-named method takes a mutable receiver")
}

// DetectMutatingCalculator is M05: a calculate_*/compute_*/count_*/sum_*
// method with a mutable receiver.
func DetectMutatingCalculator(ctx Context) []report.Violation {
	return methodNameReceiverCheck(ctx, "M05", report.ConfidenceHigh,
		func(name string) bool {
			for _, p := range []string{"Calculate", "calculate_", "Compute", "compute_", "Count", "count_", "Sum", "sum_"} {
				if strings.HasPrefix(name, p) {
					return true
				}
			}
			return false
		},
		"computation-named method takes a mutable receiver")
}

func methodNameReceiverCheck(ctx Context, code string, conf report.Confidence, matches func(string) bool, message string) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "method_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil || !matches(text(nameNode, ctx.Content)) {
			return true
		}
		receiver := n.ChildByFieldName("receiver")
		if receiver == nil || !strings.Contains(text(receiver, ctx.Content), "*") {
			return true
		}
		out = append(out, report.Violation{Line: line(n), RuleCode: code, Confidence: conf, Message: message})
		return true
	})
	return out
}

// DetectBoolNamingMismatch is M04: is_*/has_*/can_*/should_* whose return
// type text is not exactly "bool".
func DetectBoolNamingMismatch(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "method_declaration" && n.Type() != "function_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		name := text(nameNode, ctx.Content)
		prefixed := false
		for _, p := range []string{"Is", "is_", "Has", "has_", "Can", "can_", "Should", "should_"} {
			if strings.HasPrefix(name, p) {
				prefixed = true
				break
			}
		}
		if !prefixed {
			return true
		}
		result := n.ChildByFieldName("result")
		if result == nil {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "M04", Confidence: report.ConfidenceHigh,
				Message: "predicate-named function has no declared return type",
			})
			return true
		}
		if strings.TrimSpace(text(result, ctx.Content)) != "bool" {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "M04", Confidence: report.ConfidenceHigh,
				Message: "predicate-named function does not return bool",
			})
		}
		return true
	})
	return out
}

// DetectUnflushedWriter is R07: a buffered-writer construction within a
// function that never calls flush and does not return the writer.
func DetectUnflushedWriter(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "function_declaration" && n.Type() != "method_declaration" {
			return true
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			return true
		}
		bodyText := text(body, ctx.Content)
		if !strings.Contains(bodyText, "bufio.NewWriter") && !strings.Contains(bodyText, "BufWriter") {
			return true
		}
		if strings.Contains(bodyText, "Flush()") || strings.Contains(bodyText, "flush()") {
			return true
		}
		if strings.Contains(bodyText, "return ") && strings.Contains(bodyText, "Writer") {
			return true
		}
		out = append(out, report.Violation{
			Line: line(n), RuleCode: "R07", Confidence: report.ConfidenceHigh,
			Message: "buffered writer constructed but never flushed or returned",
		})
		return true
	})
	return out
}

// DetectTechDebtComment is P07 (supplemented): a self-admitted
// technical-debt marker in a comment (TODO/FIXME/HACK/XXX).
func DetectTechDebtComment(ctx Context) []report.Violation {
	var out []report.Violation
	markers := []string{"TODO", "FIXME", "HACK", "XXX"}
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "comment" {
			return true
		}
		t := text(n, ctx.Content)
		for _, m := range markers {
			if strings.Contains(t, m) {
				out = append(out, report.Violation{
					Line: line(n), RuleCode: "P07", Confidence: report.ConfidenceInfo,
					Message: "self-admitted technical debt marker",
				})
				break
			}
		}
		return true
	})
	return out
}
