// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_LCOM4_SingleComponentWhenFieldsShared(t *testing.T) {
	u := TypeUsage{
		Fields: []string{"x", "y"},
		MethodFields: map[string][]string{
			"A": {"x"},
			"B": {"x", "y"},
			"C": {"y"},
		},
	}
	assert.Equal(t, 1, Compute(u).LCOM4)
}

func TestCompute_LCOM4_TwoComponentsWhenDisjoint(t *testing.T) {
	u := TypeUsage{
		Fields: []string{"x", "y"},
		MethodFields: map[string][]string{
			"A": {"x"},
			"B": {"y"},
		},
	}
	assert.Equal(t, 2, Compute(u).LCOM4)
}

func TestCompute_LCOM4_MethodCallEdgeMerges(t *testing.T) {
	u := TypeUsage{
		MethodFields: map[string][]string{
			"A": {"x"},
			"B": {"y"},
		},
		MethodCalls: map[string][]string{
			"A": {"B"},
		},
	}
	assert.Equal(t, 1, Compute(u).LCOM4)
}

func TestCompute_AHF_Percentage(t *testing.T) {
	u := TypeUsage{
		Fields:        []string{"a", "b", "c", "d"},
		PrivateFields: map[string]bool{"a": true, "b": true},
	}
	assert.Equal(t, 50.0, Compute(u).AHF)
}

func TestCompute_AHF_NoFieldsIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Compute(TypeUsage{}).AHF)
}

func TestCompute_CBO_CountsDistinctExternalIdentifiers(t *testing.T) {
	u := TypeUsage{
		ExternalCalls: map[string][]string{
			"A": {"fmt.Println", "strings.Join"},
			"B": {"fmt.Println"},
		},
	}
	assert.Equal(t, 2, Compute(u).CBO)
}

func TestCompute_SFOUT_TakesMaxAcrossMethods(t *testing.T) {
	u := TypeUsage{
		MethodCalls: map[string][]string{
			"A": {"B"},
			"B": {"A", "C"},
		},
		ExternalCalls: map[string][]string{
			"B": {"fmt.Println"},
		},
	}
	assert.Equal(t, 3, Compute(u).SFOUT)
}

func TestShouldReportLCOM4_SkipsUnderFourMethods(t *testing.T) {
	assert.False(t, ShouldReportLCOM4(3, true, false))
	assert.True(t, ShouldReportLCOM4(4, true, false))
}

func TestShouldReportLCOM4_SkipsEnums(t *testing.T) {
	assert.False(t, ShouldReportLCOM4(10, true, true))
}

func TestShouldReportLCOM4_SkipsNoFieldAccess(t *testing.T) {
	assert.False(t, ShouldReportLCOM4(10, false, false))
}

func TestShouldReportAHF_SkipsSimpleContainers(t *testing.T) {
	assert.False(t, ShouldReportAHF(3, 5, 10, false, nil))
	assert.False(t, ShouldReportAHF(5, 5, 2, false, nil))
}

func TestShouldReportAHF_SkipsDataContainerMarkers(t *testing.T) {
	assert.False(t, ShouldReportAHF(5, 5, 10, false, []string{"Serialize"}))
}

func TestShouldReportAHF_ReportsOtherwise(t *testing.T) {
	assert.True(t, ShouldReportAHF(5, 5, 10, false, nil))
}
