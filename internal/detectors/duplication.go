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
	"hash/fnv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/report"
)

// duplicateWindowSize is the number of consecutive sibling statements
// hashed together; shorter runs are too common to be meaningful signal.
const duplicateWindowSize = 4

var functionLikeKinds = map[string]bool{
	"function_declaration": true, "method_declaration": true, "function_definition": true,
}

var blockLikeKinds = map[string]bool{
	"block": true, "statement_block": true,
}

// DetectDuplicateStatementBlocks is D01: a second duplication signal
// distinct from the consolidation audit's whole-unit clustering. It
// hashes sliding windows of consecutive sibling statements inside every
// block belonging to one function and flags windows that recur
// elsewhere in that same function — the copy-pasted if/else arm a
// unit-level comparison is too coarse to catch.
func DetectDuplicateStatementBlocks(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if functionLikeKinds[n.Type()] {
			out = append(out, duplicateBlocksInFunction(n, ctx.Content)...)
			return false
		}
		return true
	})
	return out
}

func duplicateBlocksInFunction(fn *sitter.Node, content []byte) []report.Violation {
	type window struct {
		hash      uint64
		startLine int
		block     uint32
	}
	var windows []window

	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		if blockLikeKinds[n.Type()] {
			stmts := namedStatementChildren(n)
			for i := 0; i+duplicateWindowSize <= len(stmts); i++ {
				group := stmts[i : i+duplicateWindowSize]
				windows = append(windows, window{
					hash:      hashStatements(group, content),
					startLine: int(group[0].StartPoint().Row) + 1,
					block:     n.StartByte(),
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			collect(n.Child(i))
		}
	}
	collect(fn)

	seen := make(map[uint64]int) // hash -> first-seen line
	reported := make(map[uint64]bool)
	var out []report.Violation
	lastReported := -2
	for i, w := range windows {
		firstLine, ok := seen[w.hash]
		if !ok {
			seen[w.hash] = w.startLine
			continue
		}
		if reported[w.hash] || firstLine == w.startLine {
			continue
		}
		reported[w.hash] = true
		extendsRun := lastReported == i-1 && windows[i-1].block == w.block
		lastReported = i
		if extendsRun {
			continue // same duplicated run as the window just reported
		}
		out = append(out, report.Violation{
			Line: w.startLine, RuleCode: "D01", Confidence: report.ConfidenceMedium,
			Message: "statement block duplicates one starting near the enclosing function's earlier code",
			Reason:  "near-duplicate statement run, not caught by whole-unit clustering",
		})
	}
	return out
}

func namedStatementChildren(block *sitter.Node) []*sitter.Node {
	var stmts []*sitter.Node
	for i := 0; i < int(block.ChildCount()); i++ {
		c := block.Child(i)
		if c.IsNamed() && c.Type() != "comment" {
			stmts = append(stmts, c)
		}
	}
	return stmts
}

// hashStatements normalizes each statement's text (collapsed
// whitespace) and hashes the concatenation with FNV-1a, the same
// window-hashing idiom used for whole-file clone detection.
func hashStatements(stmts []*sitter.Node, content []byte) uint64 {
	h := fnv.New64a()
	for _, s := range stmts {
		h.Write([]byte(normalizeStatementText(text(s, content))))
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}

func normalizeStatementText(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
