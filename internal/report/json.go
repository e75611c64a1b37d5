// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import "encoding/json"

// MarshalJSON renders the scan report as the machine-readable wire
// format: confidence tiers serialize to their lowercase names so the
// document is stable across internal enum reordering.
func (r *ScanReport) MarshalJSON() ([]byte, error) {
	type violationJSON struct {
		Line       int               `json:"line"`
		Message    string            `json:"message"`
		RuleCode   string            `json:"rule_code"`
		Confidence string            `json:"confidence"`
		Reason     string            `json:"reason,omitempty"`
		Detail     map[string]string `json:"detail,omitempty"`
	}
	type fileJSON struct {
		Path            string          `json:"path"`
		TokenCount      int             `json:"token_count"`
		MaxCognitive    int             `json:"max_cognitive"`
		HasFileAnalysis bool            `json:"has_file_analysis"`
		Violations      []violationJSON `json:"violations"`
	}
	type scanJSON struct {
		ID               string     `json:"id"`
		Files            []fileJSON `json:"files"`
		TotalTokens      int        `json:"total_tokens"`
		TotalViolations  int        `json:"total_violations"`
		DurationMillis   int64      `json:"duration_millis"`
		HighCount        int        `json:"high_count"`
		MediumCount      int        `json:"medium_count"`
		InfoCount        int        `json:"info_count"`
	}

	out := scanJSON{
		ID:              r.ID,
		TotalTokens:     r.TotalTokens,
		TotalViolations: r.TotalViolations(),
		DurationMillis:  r.DurationMillis,
		HighCount:       r.CountByConfidence(ConfidenceHigh),
		MediumCount:     r.CountByConfidence(ConfidenceMedium),
		InfoCount:       r.CountByConfidence(ConfidenceInfo),
	}
	for _, f := range r.Files {
		fj := fileJSON{Path: f.Path, TokenCount: f.TokenCount, MaxCognitive: f.MaxCognitive, HasFileAnalysis: f.HasFileAnalysis}
		for _, v := range f.Violations {
			fj.Violations = append(fj.Violations, violationJSON{
				Line: v.Line, Message: v.Message, RuleCode: v.RuleCode,
				Confidence: v.Confidence.String(), Reason: v.Reason, Detail: v.Detail,
			})
		}
		out.Files = append(out.Files, fj)
	}
	return json.Marshal(out)
}
