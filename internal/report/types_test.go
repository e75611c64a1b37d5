// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolation_Valid_RequiresReasonForMedium(t *testing.T) {
	v := Violation{RuleCode: "P01", Message: "x", Confidence: ConfidenceMedium}
	assert.False(t, v.Valid())
	v.Reason = "substring cue only"
	assert.True(t, v.Valid())
}

func TestViolation_Valid_HighNeedsNoReason(t *testing.T) {
	v := Violation{RuleCode: "P01", Message: "x", Confidence: ConfidenceHigh}
	assert.True(t, v.Valid())
}

func TestScanReport_HasBlockingViolations_OnlyHighBlocks(t *testing.T) {
	r := &ScanReport{Files: []FileReport{{Violations: []Violation{
		{Confidence: ConfidenceMedium, RuleCode: "X", Message: "m", Reason: "r"},
	}}}}
	assert.False(t, r.HasBlockingViolations())

	r.Files[0].Violations = append(r.Files[0].Violations, Violation{Confidence: ConfidenceHigh, RuleCode: "Y", Message: "m"})
	assert.True(t, r.HasBlockingViolations())
}

func TestScanReport_SortedViolations_OrdersByConfidenceThenPathThenLine(t *testing.T) {
	r := &ScanReport{Files: []FileReport{
		{Path: "b.go", Violations: []Violation{
			{Confidence: ConfidenceHigh, Line: 5, RuleCode: "A", Message: "m"},
		}},
		{Path: "a.go", Violations: []Violation{
			{Confidence: ConfidenceHigh, Line: 1, RuleCode: "A", Message: "m"},
			{Confidence: ConfidenceMedium, Line: 2, RuleCode: "A", Message: "m", Reason: "r"},
		}},
	}}
	sorted := r.SortedViolations()
	assert.Len(t, sorted, 3)
	assert.Equal(t, "a.go", sorted[0].Path)
	assert.Equal(t, ConfidenceHigh, sorted[0].Confidence)
	assert.Equal(t, "b.go", sorted[1].Path)
	assert.Equal(t, ConfidenceMedium, sorted[2].Confidence)
}

func TestScanReport_CountByConfidence(t *testing.T) {
	r := &ScanReport{Files: []FileReport{{Violations: []Violation{
		{Confidence: ConfidenceInfo, RuleCode: "A", Message: "m"},
		{Confidence: ConfidenceInfo, RuleCode: "A", Message: "m"},
		{Confidence: ConfidenceHigh, RuleCode: "A", Message: "m"},
	}}}}
	assert.Equal(t, 2, r.CountByConfidence(ConfidenceInfo))
	assert.Equal(t, 1, r.CountByConfidence(ConfidenceHigh))
	assert.Equal(t, 3, r.TotalViolations())
}
