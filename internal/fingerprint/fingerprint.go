// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fingerprint reduces an AST subtree to a rename-invariant
// structural signature used for duplicate and near-duplicate detection.
package fingerprint

import (
	"hash/fnv"

	sitter "github.com/smacker/go-tree-sitter"
)

// Fingerprint is the structural signature of one code unit.
type Fingerprint struct {
	StructuralHash uint64
	CFGHash        uint64
	Depth          int
	NodeCount      int
	Branches       int
	Loops          int
	Exits          int
}

// exitKinds names node kinds treated as early-exit control flow: return,
// break, continue, raise/throw equivalents vary per grammar, so this set
// is intentionally broad across the languages neti parses.
var exitKinds = map[string]bool{
	"return_statement":   true,
	"break_statement":    true,
	"continue_statement": true,
	"raise_statement":    true,
	"throw_statement":    true,
	"goto_statement":     true,
}

var loopKinds = map[string]bool{
	"for_statement":       true,
	"while_statement":     true,
	"for_in_statement":    true,
	"for_range_loop":      true,
	"do_statement":        true,
}

var branchKinds = map[string]bool{
	"if_statement":                 true,
	"expression_switch_statement":  true,
	"type_switch_statement":        true,
	"switch_statement":             true,
	"switch_case":                  true,
	"expression_case":              true,
	"default_case":                 true,
	"conditional_expression":       true,
	"ternary_expression":           true,
	"match_expression":             true,
}

// structuralTokenKinds are pure-syntax node kinds (operators, delimiters)
// whose literal text is hashed; everything else hashes only its kind name,
// so identifiers never affect the signature.
var structuralTokenKinds = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&&": true, "||": true, "!": true, "==": true, "!=": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"(": true, ")": true, "{": true, "}": true, "[": true, "]": true,
	",": true, ";": true, ":": true, ".": true,
}

// Compute walks node in deterministic child order and derives its
// Fingerprint. Identifiers are never hashed directly, which is what makes
// the structural hash invariant to renaming.
func Compute(node *sitter.Node, content []byte) Fingerprint {
	structural := fnv.New64a()
	cfg := fnv.New64a()
	fp := Fingerprint{}

	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if n == nil {
			return
		}
		fp.NodeCount++
		if depth > fp.Depth {
			fp.Depth = depth
		}

		kind := n.Type()
		writeString(structural, kind)
		writeInt(structural, depth)

		isControlFlow := branchKinds[kind] || loopKinds[kind] || exitKinds[kind]
		if isControlFlow {
			normalized := normalizeKind(kind)
			writeString(cfg, normalized)
			writeInt(cfg, depth)
			switch {
			case loopKinds[kind]:
				fp.Loops++
			case exitKinds[kind]:
				fp.Exits++
			default:
				fp.Branches++
			}
		}

		if structuralTokenKinds[kind] {
			writeString(structural, string(content[n.StartByte():n.EndByte()]))
		}

		childCount := int(n.ChildCount())
		writeInt(structural, childCount)
		for i := 0; i < childCount; i++ {
			writeInt(structural, i)
			walk(n.Child(i), depth+1)
		}
	}
	walk(node, 0)

	fp.StructuralHash = structural.Sum64()
	fp.CFGHash = cfg.Sum64()
	return fp
}

func normalizeKind(kind string) string {
	switch {
	case branchKinds[kind]:
		return "branch"
	case loopKinds[kind]:
		return "loop"
	case exitKinds[kind]:
		return "exit"
	default:
		return kind
	}
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	h.Write([]byte(s))
	h.Write([]byte{0})
}

func writeInt(h interface{ Write([]byte) (int, error) }, n int) {
	h.Write([]byte{
		byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24),
	})
}

// CounterSimilarity returns 1 - |a-b|/max(a,b), clamped to [0,1]; 1.0 when
// both counters are zero.
func CounterSimilarity(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	max := a
	if b > max {
		max = b
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	sim := 1.0 - float64(diff)/float64(max)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// StructuralCounterSimilarity blends depth and node-count similarity
// equally; used as the "structural ~" term in cluster thresholds.
func StructuralCounterSimilarity(a, b Fingerprint) float64 {
	return 0.5*CounterSimilarity(a.Depth, b.Depth) + 0.5*CounterSimilarity(a.NodeCount, b.NodeCount)
}

// CFGCounterSimilarity blends branch/loop/exit counter similarity with the
// weights branch 0.5, loops 0.3, exits 0.2.
func CFGCounterSimilarity(a, b Fingerprint) float64 {
	return 0.5*CounterSimilarity(a.Branches, b.Branches) +
		0.3*CounterSimilarity(a.Loops, b.Loops) +
		0.2*CounterSimilarity(a.Exits, b.Exits)
}

// Similarity implements the four-band comparison between two fingerprints:
// exact structural match, CFG match, exact-counter match, or a weighted
// blend. Symmetric and reflexive: Similarity(a,a) == 1.0 and
// Similarity(a,b) == Similarity(b,a).
func Similarity(a, b Fingerprint) float64 {
	if a.StructuralHash == b.StructuralHash {
		return 1.0
	}
	if a.CFGHash == b.CFGHash {
		countRatio := CounterSimilarity(a.NodeCount, b.NodeCount)
		return 0.85 + 0.15*countRatio
	}
	if a.Branches == b.Branches && a.Loops == b.Loops && a.Exits == b.Exits {
		return 0.95
	}
	return 0.6*CFGCounterSimilarity(a, b) + 0.4*StructuralCounterSimilarity(a, b)
}

// ByStructuralHash groups a set of (key, fingerprint) pairs by exact
// structural hash, for the Consolidation Audit's exact-clone bucketing
// pass. Bucket order within a hash follows insertion order.
func ByStructuralHash(keys []string, fps []Fingerprint) map[uint64][]string {
	buckets := make(map[uint64][]string)
	for i, fp := range fps {
		buckets[fp.StructuralHash] = append(buckets[fp.StructuralHash], keys[i])
	}
	return buckets
}
