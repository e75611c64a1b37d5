// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package detectors implements the pattern detector bank (rule codes
// P01-P06, L02-L03, X01-X03, C03-C04, I01-I02, M03-M05, R07, S01-S03) plus
// the supplemented P07 and D01 detectors. Each detector is self-contained:
// it receives a Context and appends Violations to its own return slice,
// never reading another detector's output.
package detectors

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/report"
)

// Context is the read-only input every detector receives.
type Context struct {
	FilePath string
	Content  []byte
	Root     *sitter.Node
	Grammar  *langs.Grammar
	Config   Config
}

// Config carries the subset of configuration options that influence
// detector behavior.
type Config struct {
	SkipPathSubstrings []string // UI/CLI/reporting/test path heuristic for P01/P02/P04/P06
	BanUnsafe          bool
	RequireSafetyComment bool
}

// Detector is one independent check.
type Detector func(Context) []report.Violation

// All returns the full bank in a stable, documented order. Detector
// order has no effect on output besides interleaving ties; reporting
// re-sorts by confidence/file/row regardless.
func All() []Detector {
	return []Detector{
		DetectCloneInLoop,         // P01
		DetectStringCopyInLoop,    // P02
		DetectNestedLoop,          // P04
		DetectLinearSearchInLoop,  // P06
		DetectIndexBoundary,       // L02
		DetectUnguardedIndex,      // L03
		DetectSQLStringFormat,     // X01
		DetectProcessSpawn,        // X02
		DetectHardcodedSecret,     // X03
		DetectLockAcrossAwait,     // C03
		DetectUndocumentedMutexField, // C04
		DetectManualConversion,    // I01
		DetectDuplicateMatchArms,  // I02
		DetectMutatingGetter,      // M03
		DetectBoolNamingMismatch,  // M04
		DetectMutatingCalculator,  // M05
		DetectUnflushedWriter,     // R07
		DetectGlobalMutable,       // S01
		DetectExportedGlobalMutable, // S02
		DetectLazyMutableGlobal,   // S03
		DetectTechDebtComment,     // P07 (supplemented)
		DetectDuplicateStatementBlocks, // D01 (supplemented)
		DetectUnsafeUsage,         // unsafe/escape-hatch rule
	}
}

// Run executes every detector in the bank against ctx and concatenates
// their results. A panic inside one detector is isolated so a single bad
// rule cannot abort the scan.
func Run(ctx Context) (violations []report.Violation) {
	for _, d := range All() {
		violations = append(violations, runOne(d, ctx)...)
	}
	return violations
}

func runOne(d Detector, ctx Context) (out []report.Violation) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return d(ctx)
}

func text(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}

func line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func ancestorOfType(n *sitter.Node, kinds ...string) *sitter.Node {
	cur := n.Parent()
	for cur != nil {
		for _, k := range kinds {
			if cur.Type() == k {
				return cur
			}
		}
		cur = cur.Parent()
	}
	return nil
}

func inPathMatchingAny(path string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(path, s) {
			return true
		}
	}
	return false
}

func isInTestFunction(n *sitter.Node, content []byte) bool {
	cur := n.Parent()
	for cur != nil {
		if cur.Type() == "function_declaration" || cur.Type() == "method_declaration" || cur.Type() == "function_definition" {
			nameNode := cur.ChildByFieldName("name")
			if nameNode != nil {
				name := text(nameNode, content)
				if strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "test_") || strings.HasPrefix(name, "Benchmark") {
					return true
				}
			}
		}
		cur = cur.Parent()
	}
	return false
}
