// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"fmt"

	"github.com/neti-lang/neti/internal/config"
	"github.com/neti-lang/neti/internal/metrics"
	"github.com/neti-lang/neti/internal/report"
	"github.com/neti-lang/neti/internal/scope"
)

// Inspect runs the whole-program metric checks over one Scope, emitting
// at most one Medium-confidence violation per metric.
func Inspect(s *scope.Scope, cfg *config.Config) []report.Violation {
	var out []report.Violation
	usage := s.ToTypeUsage()
	m := metrics.Compute(usage)

	if metrics.ShouldReportLCOM4(len(s.Methods), s.AnyFieldAccess(), s.IsEnum) && m.LCOM4 > cfg.MaxLCOM4 {
		out = append(out, report.Violation{
			Line: s.DeclLine, RuleCode: "LCOM4", Confidence: report.ConfidenceMedium,
			Message: fmt.Sprintf("%s splits into %d connected components of method/field usage", s.Name, m.LCOM4),
			Reason:  "may be expected for types implementing multiple traits or interfaces",
		})
	}

	if metrics.ShouldReportAHF(len(s.Fields), len(s.Methods), s.SummedCognitive(), s.IsEnum, s.Derives) && m.AHF < cfg.MinAHF {
		privateCount := 0
		for _, f := range s.Fields {
			if f.Private {
				privateCount++
			}
		}
		out = append(out, report.Violation{
			Line: s.DeclLine, RuleCode: "AHF", Confidence: report.ConfidenceMedium,
			Message: fmt.Sprintf("%s has %.0f%% attribute hiding (%d/%d fields private)", s.Name, m.AHF, privateCount, len(s.Fields)),
			Reason:  "public fields may be intentional API surface",
		})
	}

	if m.CBO > cfg.MaxCBO {
		out = append(out, report.Violation{
			Line: s.DeclLine, RuleCode: "CBO", Confidence: report.ConfidenceMedium,
			Message: fmt.Sprintf("%s couples to %d distinct external identifiers", s.Name, m.CBO),
			Reason:  "high coupling may reflect a deliberate facade or adapter role",
		})
	}

	if m.SFOUT > cfg.MaxSFOUT {
		out = append(out, report.Violation{
			Line: s.DeclLine, RuleCode: "SFOUT", Confidence: report.ConfidenceMedium,
			Message: fmt.Sprintf("%s has a method with fan-out %d", s.Name, m.SFOUT),
			Reason:  "orchestration-style methods legitimately call many collaborators",
		})
	}

	return out
}
