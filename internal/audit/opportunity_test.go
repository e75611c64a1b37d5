// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neti-lang/neti/internal/cluster"
	"github.com/neti-lang/neti/internal/deadcode"
)

func TestScoreDuplication_DifficultyByFileSpread(t *testing.T) {
	byKey := map[string]Unit{
		"a": {File: "x.go", Name: "a"},
		"b": {File: "x.go", Name: "b"},
	}
	clusters := []cluster.Cluster{{Members: []string{"a", "b"}, Similarity: 0.9, PotentialLines: 20}}
	opps := ScoreDuplication(clusters, byKey)
	assert.Equal(t, 1, opps[0].Difficulty)
	assert.Equal(t, 0.9, opps[0].Confidence)
}

func TestScoreDuplication_CrossDirectoryIsHarder(t *testing.T) {
	byKey := map[string]Unit{
		"a": {File: "pkg/x/a.go", Name: "a"},
		"b": {File: "pkg/y/b.go", Name: "b"},
	}
	clusters := []cluster.Cluster{{Members: []string{"a", "b"}, Similarity: 0.9, PotentialLines: 10}}
	opps := ScoreDuplication(clusters, byKey)
	assert.Equal(t, 3, opps[0].Difficulty)
}

func TestScoreDeadCode_UnusedCheapestToFix(t *testing.T) {
	findings := []deadcode.Finding{{Symbol: deadcode.Symbol{File: "a.go", Name: "x"}, Reason: deadcode.ReasonUnused}}
	opps := ScoreDeadCode(findings, map[deadcode.Symbol]int{{File: "a.go", Name: "x"}: 5})
	assert.Equal(t, 1, opps[0].Difficulty)
	assert.Equal(t, 0.9, opps[0].Confidence)
	assert.Equal(t, 5, opps[0].LinesSaved)
}

func TestScoreDeadCode_UnreachableConfidenceIsHigherThanOnlyDeadCallers(t *testing.T) {
	findings := []deadcode.Finding{
		{Symbol: deadcode.Symbol{File: "a.go", Name: "x"}, Reason: deadcode.ReasonUnreachable},
		{Symbol: deadcode.Symbol{File: "a.go", Name: "y"}, Reason: deadcode.ReasonOnlyDeadCallers},
	}
	opps := ScoreDeadCode(findings, map[deadcode.Symbol]int{
		{File: "a.go", Name: "x"}: 5,
		{File: "a.go", Name: "y"}: 5,
	})
	assert.Equal(t, 0.8, opps[0].Confidence)
	assert.Equal(t, 1, opps[0].Difficulty)
	assert.Equal(t, 0.7, opps[1].Confidence)
	assert.Equal(t, 2, opps[1].Difficulty)
}

func TestScorePatterns_DifficultyRampsWithCount(t *testing.T) {
	low := ScorePatterns([]RepeatedPattern{{Pattern: Pattern{Name: "p"}, Count: 3}})
	mid := ScorePatterns([]RepeatedPattern{{Pattern: Pattern{Name: "p"}, Count: 6}})
	high := ScorePatterns([]RepeatedPattern{{Pattern: Pattern{Name: "p"}, Count: 10}})
	assert.Equal(t, 2, low[0].Difficulty)
	assert.Equal(t, 3, mid[0].Difficulty)
	assert.Equal(t, 4, high[0].Difficulty)
}

func TestRank_SortsByScoreDescendingAndTruncates(t *testing.T) {
	all := []Opportunity{
		{Subject: "low", Score: 1},
		{Subject: "high", Score: 100},
		{Subject: "mid", Score: 50},
	}
	ranked := Rank(all, 2, nil, nil)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].Subject)
	assert.Equal(t, "mid", ranked[1].Subject)
}
