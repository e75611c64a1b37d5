// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neti-lang/neti/internal/fingerprint"
)

func TestBuild_ExactStructuralHashCluster(t *testing.T) {
	fp := fingerprint.Fingerprint{StructuralHash: 1, NodeCount: 10}
	units := []Unit{
		{Key: "a", Kind: "function", LineCount: 10, Fingerprint: fp},
		{Key: "b", Kind: "function", LineCount: 12, Fingerprint: fp},
		{Key: "c", Kind: "function", LineCount: 8, Fingerprint: fingerprint.Fingerprint{StructuralHash: 2}},
	}

	clusters := Build(units, 0)
	require.Len(t, clusters, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, clusters[0].Members)
	assert.Equal(t, 1.0, clusters[0].Similarity)
}

func TestBuild_SingleUnitNeverClusters(t *testing.T) {
	units := []Unit{{Key: "a", Kind: "function", Fingerprint: fingerprint.Fingerprint{StructuralHash: 1}}}
	assert.Empty(t, Build(units, 0))
}

func TestEnumGatePasses_NonEnumsAlwaysPass(t *testing.T) {
	a := Unit{Key: "a"}
	b := Unit{Key: "b"}
	assert.True(t, enumGatePasses(a, b))
}

func TestEnumGatePasses_OneSidedVariantsFails(t *testing.T) {
	a := Unit{Key: "a", Variants: []string{"Red", "Blue"}}
	b := Unit{Key: "b"}
	assert.False(t, enumGatePasses(a, b))
}

func TestEnumGatePasses_SmallSetsRequireFullOverlap(t *testing.T) {
	a := Unit{Variants: []string{"Red", "Blue"}}
	b := Unit{Variants: []string{"Red", "Green"}}
	assert.False(t, enumGatePasses(a, b))

	c := Unit{Variants: []string{"Red", "Blue"}}
	assert.True(t, enumGatePasses(a, c))
}

func TestVariantOverlapRatio(t *testing.T) {
	ratio := variantOverlapRatio([]string{"A", "B", "C"}, []string{"B", "C", "D"})
	assert.InDelta(t, 0.5, ratio, 0.0001) // 2 shared / 4 union
}
