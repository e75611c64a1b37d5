// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package deadcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingFor(t *testing.T, findings []Finding, name string) Finding {
	t.Helper()
	for _, f := range findings {
		if f.Symbol.Name == name {
			return f
		}
	}
	require.Fail(t, "no finding for "+name)
	return Finding{}
}

func TestAnalyze_UnusedHasNoIncomingEdges(t *testing.T) {
	symbols := []Symbol{
		{File: "a.go", Name: "main"},
		{File: "a.go", Name: "_helper"},
	}
	findings := Analyze(symbols, nil, EntryPointRules{})
	f := findingFor(t, findings, "_helper")
	assert.Equal(t, ReasonUnused, f.Reason)
}

func TestAnalyze_OnlyDeadCallersClassification(t *testing.T) {
	symbols := []Symbol{
		{File: "a.go", Name: "main"},
		{File: "a.go", Name: "_deadCaller"},
		{File: "a.go", Name: "_target"},
	}
	refs := []Reference{{File: "a.go", Caller: "_deadCaller", Callee: "_target"}}
	findings := Analyze(symbols, refs, EntryPointRules{})
	assert.Equal(t, ReasonOnlyDeadCallers, findingFor(t, findings, "_target").Reason)
	assert.Equal(t, ReasonUnused, findingFor(t, findings, "_deadCaller").Reason)
}

func TestAnalyze_ReachableFromMainIsLive(t *testing.T) {
	symbols := []Symbol{
		{File: "a.go", Name: "main"},
		{File: "a.go", Name: "_helper"},
	}
	refs := []Reference{{File: "a.go", Caller: "main", Callee: "_helper"}}
	findings := Analyze(symbols, refs, EntryPointRules{})
	for _, f := range findings {
		assert.NotEqual(t, "_helper", f.Symbol.Name)
	}
}

func TestAnalyze_PublicSymbolsAreNeverDead(t *testing.T) {
	symbols := []Symbol{{File: "a.go", Name: "Exported"}}
	findings := Analyze(symbols, nil, EntryPointRules{})
	assert.Empty(t, findings)
}
