// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSimilarity_Reflexive verifies similarity(fp(A), fp(A)) == 1.0.
func TestSimilarity_Reflexive(t *testing.T) {
	fp := Fingerprint{StructuralHash: 42, CFGHash: 7, Depth: 3, NodeCount: 10, Branches: 1, Loops: 1, Exits: 1}
	assert.Equal(t, 1.0, Similarity(fp, fp))
}

// TestSimilarity_Symmetric verifies similarity(fp(A), fp(B)) == similarity(fp(B), fp(A)).
func TestSimilarity_Symmetric(t *testing.T) {
	a := Fingerprint{StructuralHash: 1, CFGHash: 2, Depth: 3, NodeCount: 10, Branches: 2, Loops: 0, Exits: 1}
	b := Fingerprint{StructuralHash: 9, CFGHash: 2, Depth: 3, NodeCount: 12, Branches: 2, Loops: 0, Exits: 1}
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarity_EqualStructuralHashIsExactClone(t *testing.T) {
	a := Fingerprint{StructuralHash: 5, NodeCount: 4}
	b := Fingerprint{StructuralHash: 5, NodeCount: 999}
	assert.Equal(t, 1.0, Similarity(a, b))
}

func TestSimilarity_EqualCFGHashBand(t *testing.T) {
	a := Fingerprint{StructuralHash: 1, CFGHash: 77, NodeCount: 10}
	b := Fingerprint{StructuralHash: 2, CFGHash: 77, NodeCount: 10}
	sim := Similarity(a, b)
	assert.GreaterOrEqual(t, sim, 0.85)
	assert.LessOrEqual(t, sim, 1.0)
}

func TestSimilarity_MatchingCountersBand(t *testing.T) {
	a := Fingerprint{StructuralHash: 1, CFGHash: 1, Branches: 2, Loops: 1, Exits: 1}
	b := Fingerprint{StructuralHash: 2, CFGHash: 2, Branches: 2, Loops: 1, Exits: 1}
	assert.Equal(t, 0.95, Similarity(a, b))
}

func TestCounterSimilarity_BothZero(t *testing.T) {
	assert.Equal(t, 1.0, CounterSimilarity(0, 0))
}

func TestCounterSimilarity_Ratio(t *testing.T) {
	assert.InDelta(t, 0.5, CounterSimilarity(1, 2), 0.0001)
}
