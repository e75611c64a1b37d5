// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/config"
	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/metrics"
	"github.com/neti-lang/neti/internal/report"
)

var functionDeclKinds = map[string]bool{
	"function_declaration": true, "method_declaration": true, "function_definition": true,
}

// checkCognitiveComplexity walks every function/method declaration in the
// parsed tree, computes its cognitive complexity, and emits a violation
// for each one exceeding cfg's limit. It returns the file's maximum.
func (e *Engine) checkCognitiveComplexity(parsed *langs.ParseResult, grammar *langs.Grammar, cfg *config.Config) (int, []report.Violation) {
	var violations []report.Violation
	maxCognitive := 0

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if functionDeclKinds[n.Type()] {
			body := n.ChildByFieldName("body")
			nameNode := n.ChildByFieldName("name")
			arity := 0
			if params := n.ChildByFieldName("parameters"); params != nil {
				arity = countParamsGeneric(params)
			}
			name := "function"
			if nameNode != nil {
				name = string(parsed.Content[nameNode.StartByte():nameNode.EndByte()])
			}
			fm := metrics.ComputeFunction(body, grammar, arity, name, parsed.Content)
			if fm.CognitiveComplexity > maxCognitive {
				maxCognitive = fm.CognitiveComplexity
			}
			if fm.CognitiveComplexity > cfg.MaxCognitiveComplexity {
				violations = append(violations, report.Violation{
					Line: int(n.StartPoint().Row) + 1, RuleCode: "LAW OF COMPLEXITY", Confidence: report.ConfidenceHigh,
					Message: fmt.Sprintf("%s has cognitive complexity %d, exceeding the configured limit", name, fm.CognitiveComplexity),
				})
			}
			if fm.CyclomaticComplexity > cfg.MaxCyclomaticComplexity {
				violations = append(violations, report.Violation{
					Line: int(n.StartPoint().Row) + 1, RuleCode: "LAW OF COMPLEXITY", Confidence: report.ConfidenceHigh,
					Message: fmt.Sprintf("cyclomatic complexity %d exceeds the configured limit", fm.CyclomaticComplexity),
				})
			}
			if fm.NestingDepth > cfg.MaxNestingDepth {
				violations = append(violations, report.Violation{
					Line: int(n.StartPoint().Row) + 1, RuleCode: "LAW OF COMPLEXITY", Confidence: report.ConfidenceHigh,
					Message: fmt.Sprintf("nesting depth %d exceeds the configured limit", fm.NestingDepth),
				})
			}
			if arity > cfg.MaxFunctionArgs {
				violations = append(violations, report.Violation{
					Line: int(n.StartPoint().Row) + 1, RuleCode: "LAW OF COMPLEXITY", Confidence: report.ConfidenceHigh,
					Message: fmt.Sprintf("function takes %d arguments, exceeding the configured limit", arity),
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(parsed.Root)
	return maxCognitive, violations
}

func countParamsGeneric(params *sitter.Node) int {
	count := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		switch params.Child(i).Type() {
		case "parameter_declaration", "required_parameter", "optional_parameter", "typed_parameter", "default_parameter", "typed_default_parameter", "identifier":
			count++
		}
	}
	return count
}
