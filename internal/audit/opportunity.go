// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import (
	"path/filepath"
	"sort"

	"github.com/neti-lang/neti/internal/cluster"
	"github.com/neti-lang/neti/internal/deadcode"
)

// Kind distinguishes the three opportunity sources.
type Kind int

const (
	KindDuplication Kind = iota
	KindDeadCode
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindDuplication:
		return "duplication"
	case KindDeadCode:
		return "dead_code"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Opportunity is a ranked refactoring suggestion.
type Opportunity struct {
	Kind       Kind
	Difficulty int
	Confidence float64
	LinesSaved int
	Score      float64
	Subject    string // cluster key, symbol, or pattern name
	Plan       string // advisory, only populated for the top N
}

func score(o Opportunity) float64 {
	if o.Difficulty == 0 {
		return 0
	}
	return float64(o.LinesSaved) * o.Confidence / float64(o.Difficulty)
}

// ScoreDuplication converts each cluster into a duplication Opportunity.
func ScoreDuplication(clusters []cluster.Cluster, byKey map[string]Unit) []Opportunity {
	var out []Opportunity
	for _, c := range clusters {
		diff := duplicationDifficulty(c.Members, byKey)
		o := Opportunity{
			Kind: KindDuplication, Difficulty: diff, Confidence: c.Similarity,
			LinesSaved: c.PotentialLines, Subject: c.Members[0],
		}
		o.Score = score(o)
		out = append(out, o)
	}
	return out
}

func duplicationDifficulty(members []string, byKey map[string]Unit) int {
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, m := range members {
		u := byKey[m]
		files[u.File] = true
		dirs[filepath.Dir(u.File)] = true
	}
	switch {
	case len(files) <= 1:
		return 1
	case len(dirs) <= 1:
		return 2
	default:
		return 3
	}
}

// ScoreDeadCode converts each dead-code finding into an Opportunity.
func ScoreDeadCode(findings []deadcode.Finding, lineCounts map[deadcode.Symbol]int) []Opportunity {
	var out []Opportunity
	for _, f := range findings {
		var diff int
		var conf float64
		switch f.Reason {
		case deadcode.ReasonUnused:
			diff, conf = 1, 0.9
		case deadcode.ReasonUnreachable:
			diff, conf = 1, 0.8
		case deadcode.ReasonOnlyDeadCallers:
			diff, conf = 2, 0.7
		default:
			continue
		}
		o := Opportunity{
			Kind: KindDeadCode, Difficulty: diff, Confidence: conf,
			LinesSaved: lineCounts[f.Symbol], Subject: f.Symbol.File + "::" + f.Symbol.Name,
		}
		o.Score = score(o)
		out = append(out, o)
	}
	return out
}

// ScorePatterns converts each repeated pattern into an Opportunity. The
// difficulty ramps 2->3->4 as the match count grows.
func ScorePatterns(patterns []RepeatedPattern) []Opportunity {
	var out []Opportunity
	for _, p := range patterns {
		diff := 2
		switch {
		case p.Count >= 10:
			diff = 4
		case p.Count >= 6:
			diff = 3
		}
		o := Opportunity{
			Kind: KindPattern, Difficulty: diff, Confidence: 0.6,
			LinesSaved: p.Count * 2, Subject: p.Pattern.Name,
		}
		o.Score = score(o)
		out = append(out, o)
	}
	return out
}

// Rank sorts all opportunities by score descending, truncates to max,
// and synthesizes an advisory plan for the top N.
func Rank(all []Opportunity, max int, clusters []cluster.Cluster, byKey map[string]Unit) []Opportunity {
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if max > 0 && len(all) > max {
		all = all[:max]
	}
	for i := range all {
		if all[i].Kind == KindDuplication {
			all[i].Plan = synthesizePlan(all[i], clusters, byKey)
		}
	}
	return all
}

func synthesizePlan(o Opportunity, clusters []cluster.Cluster, byKey map[string]Unit) string {
	for _, c := range clusters {
		if len(c.Members) < 2 || c.Members[0] != o.Subject {
			continue
		}
		a, b := byKey[c.Members[0]], byKey[c.Members[1]]
		return "extract " + a.Name + " and " + b.Name + " into a single parameterized implementation"
	}
	return ""
}
