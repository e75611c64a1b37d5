// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package locality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neti-lang/neti/internal/imports"
)

func TestBuild_CouplingCounts(t *testing.T) {
	edges := []imports.Edge{
		{From: "a.go", To: "hub.go"},
		{From: "b.go", To: "hub.go"},
		{From: "hub.go", To: "c.go"},
	}
	files := []string{"a.go", "b.go", "hub.go", "c.go"}
	g := Build(files, edges, DefaultThresholds())

	assert.Equal(t, 2, g.Coupling["hub.go"].Afferent)
	assert.Equal(t, 1, g.Coupling["hub.go"].Efferent)
	assert.Equal(t, 0, g.Coupling["a.go"].Afferent)
	assert.Equal(t, 1, g.Coupling["a.go"].Efferent)
}

func TestBuild_IsolatedFileHasZeroCoupling(t *testing.T) {
	g := Build([]string{"lonely.go"}, nil, DefaultThresholds())
	c := g.Coupling["lonely.go"]
	assert.Equal(t, 0, c.Total)
	assert.Equal(t, ClassIsolatedDeadwood, g.Classification["lonely.go"])
}

func TestClassify_GodModuleTakesPriority(t *testing.T) {
	th := DefaultThresholds()
	c := Coupling{Afferent: 10, Efferent: 10, Total: 20}
	assert.Equal(t, ClassGodModule, classify(c, th))
}

func TestClassify_StableHub(t *testing.T) {
	th := DefaultThresholds()
	c := Coupling{Afferent: 5, Efferent: 0, Total: 5, Skew: 1}
	assert.Equal(t, ClassStableHub, classify(c, th))
}

func TestPathDistance_IdenticalPathIsZero(t *testing.T) {
	assert.Equal(t, 0, PathDistance("pkg/a/foo.go", "pkg/a/foo.go"))
}

func TestPathDistance_SameDirectoryDifferentFileIsTwo(t *testing.T) {
	assert.Equal(t, 2, PathDistance("pkg/a/foo.go", "pkg/a/bar.go"))
}

func TestPathDistance_CountsUnmatchedSteps(t *testing.T) {
	assert.Equal(t, 4, PathDistance("pkg/a/foo.go", "pkg/b/bar.go"))
}

func TestVerifyEdges_CloseEdgePasses(t *testing.T) {
	g := Build([]string{"pkg/a/foo.go", "pkg/a/bar.go"}, nil, DefaultThresholds())
	edges := []imports.Edge{{From: "pkg/a/foo.go", To: "pkg/a/bar.go"}}
	g.Edges = edges
	verdicts := VerifyEdges(g, DefaultThresholds(), nil)
	assert.True(t, verdicts[0].Pass)
}

func TestVerifyEdges_FarEdgeFails(t *testing.T) {
	th := DefaultThresholds()
	g := Build([]string{"pkg/a/x/y/z/foo.go", "other/deep/path/bar.go"}, nil, th)
	edges := []imports.Edge{{From: "pkg/a/x/y/z/foo.go", To: "other/deep/path/bar.go"}}
	g.Edges = edges
	verdicts := VerifyEdges(g, th, nil)
	assert.False(t, verdicts[0].Pass)
	assert.NotEmpty(t, verdicts[0].Suggestion)
}
