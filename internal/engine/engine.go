// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine orchestrates the two-phase analysis pipeline: a parallel
// per-file pass over discovered source, followed by a single-threaded
// whole-program metrics pass over the aggregated scope graph.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/neti-lang/neti/internal/config"
	"github.com/neti-lang/neti/internal/detectors"
	"github.com/neti-lang/neti/internal/discovery"
	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/logx"
	"github.com/neti-lang/neti/internal/report"
	"github.com/neti-lang/neti/internal/scope"
	"github.com/neti-lang/neti/internal/tokenizer"
)

// minFilesForPhase2 is the small-codebase threshold below which Phase 2
// is skipped entirely: LCOM4/CBO noise dominates on tiny codebases.
const minFilesForPhase2 = 10

// systemsProfileThreshold triggers relaxed limits for low-level files.
const systemsProfileThreshold = 3

// Engine runs Phase 1 and Phase 2 against a discovered file set.
type Engine struct {
	Registry   *langs.Registry
	Config     *config.Config
	Workers    int
}

// New returns an Engine using the default grammar registry and config.
func New(cfg *config.Config) *Engine {
	workers := 8
	return &Engine{Registry: langs.DefaultRegistry(), Config: cfg, Workers: workers}
}

type perFileResult struct {
	report   report.FileReport
	analysis *scope.FileAnalysis
	path     string
}

// Scan runs the full two-phase pipeline over root and returns the
// assembled ScanReport.
func (e *Engine) Scan(ctx context.Context, root string) (*report.ScanReport, error) {
	start := time.Now()
	files, stats := discovery.Discover(ctx, root, discovery.Config{})
	if stats.InaccessibleCount > 0 {
		logx.Default().Warn("discovery encountered inaccessible entries", "count", stats.InaccessibleCount)
	}

	results := e.runPhase1(ctx, files)

	scanReport := &report.ScanReport{ID: uuid.NewString()}
	scopesByKey := make(map[string]*scope.Scope)
	sourceFileCount := 0

	for _, r := range results {
		scanReport.Files = append(scanReport.Files, r.report)
		scanReport.TotalTokens += r.report.TokenCount
		if !isTestPath(r.path) {
			sourceFileCount++
		}
		if r.analysis != nil {
			for typeName, s := range r.analysis.Scopes {
				scopesByKey[r.path+"::"+typeName] = s
			}
		}
	}

	if sourceFileCount >= minFilesForPhase2 {
		e.runPhase2(scopesByKey, scanReport)
	}

	scanReport.DurationMillis = time.Since(start).Milliseconds()
	return scanReport, nil
}

// runPhase1 processes every file in parallel, bounded by e.Workers, and
// returns per-file results indexed by discovery order.
func (e *Engine) runPhase1(ctx context.Context, files []discovery.Result) []perFileResult {
	results := make([]perFileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i] = e.analyzeFile(gctx, f)
			return nil
		})
	}
	_ = g.Wait() // per-file errors are captured in the result, never propagated
	return results
}

func (e *Engine) analyzeFile(ctx context.Context, f discovery.Result) perFileResult {
	start := time.Now()
	spanCtx, span := logx.StartFileSpan(ctx, f.Path)
	defer span.End()

	fr := report.FileReport{Path: f.Path}
	grammar := e.Registry.Lookup(f.Path)
	content := string(f.Content)

	fr.TokenCount = tokenizer.Count(content)

	relaxedConfig := e.applySystemsProfile(content)

	if fr.TokenCount > relaxedConfig.MaxFileTokens && !matchesAny(f.Path, e.Config.IgnoreTokensOn) {
		fr.Violations = append(fr.Violations, report.Violation{
			Line: 1, RuleCode: "LAW OF ATOMICITY", Confidence: report.ConfidenceHigh,
			Message: "file exceeds the configured token limit",
		})
	}

	if grammar == nil {
		logx.RecordFileMetrics(spanCtx, start, len(fr.Violations), false)
		return perFileResult{report: fr, path: f.Path}
	}

	parsed, err := grammar.Parser.Parse(ctx, f.Content, f.Path)
	if err != nil {
		logx.RecordFileMetrics(spanCtx, start, len(fr.Violations), true)
		return perFileResult{report: fr, path: f.Path}
	}
	defer parsed.Close()

	detectorCtx := detectors.Context{
		FilePath: f.Path,
		Content:  f.Content,
		Root:     parsed.Root,
		Grammar:  grammar,
		Config: detectors.Config{
			SkipPathSubstrings:   e.Config.SkipPathSubstrings,
			BanUnsafe:            e.Config.Safety.BanUnsafe,
			RequireSafetyComment: e.Config.Safety.RequireSafetyComment,
		},
	}
	fr.Violations = append(fr.Violations, detectors.Run(detectorCtx)...)
	fr.Violations = suppressAllowedLines(fr.Violations, f.Content)

	if !matchesAny(f.Path, e.Config.IgnoreNamingOn) {
		fr.Violations = append(fr.Violations, detectors.NamingCheck(detectorCtx, e.Config.MaxFunctionWords)...)
	}

	maxCognitive, cognitiveViolations := e.checkCognitiveComplexity(parsed, grammar, relaxedConfig)
	fr.MaxCognitive = maxCognitive
	fr.Violations = append(fr.Violations, cognitiveViolations...)

	fr.Violations = append(fr.Violations, detectors.SyntaxIntegrity(detectorCtx)...)

	var analysis *scope.FileAnalysis
	if supportsScopeExtraction(grammar.Name) {
		analysis = scope.Extract(parsed.Root, f.Content, grammar, f.Path)
		fr.HasFileAnalysis = true
	}

	logx.RecordFileMetrics(spanCtx, start, len(fr.Violations), false)
	return perFileResult{report: fr, analysis: analysis, path: f.Path}
}

// systemsProfileMarkers and their point values flag low-level,
// systems-programming-style source so its complexity limits can relax.
var systemsProfileMarkers = []struct {
	substr string
	points int
}{
	{"#![no_std]", 5},
	{"unsafe", 1},
	{"transmute", 2},
	{"repr(C)", 2},
	{"repr(packed)", 2},
	{"Atomic", 1},
	{"*mut ", 1},
	{"*const ", 1},
	{"Pin<Box", 1},
}

func (e *Engine) applySystemsProfile(content string) *config.Config {
	score := 0
	for _, m := range systemsProfileMarkers {
		if strings.Contains(content, m.substr) {
			score += m.points
		}
	}
	if score < systemsProfileThreshold {
		return e.Config
	}
	relaxed := *e.Config
	relaxed.MaxFileTokens = 10000
	relaxed.MaxCognitiveComplexity = 50
	relaxed.MaxLCOM4 = 1 << 30
	relaxed.MaxCBO = 1 << 30
	return &relaxed
}

// suppressAllowedLines drops any violation whose source line carries a
// trailing comment naming that violation's rule code in a
// "neti:allow(<CODE>)" directive, e.g. "// neti:allow(X02)".
func suppressAllowedLines(violations []report.Violation, content []byte) []report.Violation {
	if len(violations) == 0 {
		return violations
	}
	lines := sourceLines(content)
	out := violations[:0]
	for _, v := range violations {
		if v.Line >= 1 && v.Line <= len(lines) && lineAllows(lines[v.Line-1], v.RuleCode) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func sourceLines(content []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func lineAllows(line, ruleCode string) bool {
	return strings.Contains(line, fmt.Sprintf("neti:allow(%s)", ruleCode))
}

func matchesAny(path string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(path, s) {
			return true
		}
	}
	return false
}

func isTestPath(path string) bool {
	return strings.Contains(path, "_test.go") || strings.Contains(path, "/test/") || strings.Contains(path, "/tests/")
}

func supportsScopeExtraction(language string) bool {
	switch language {
	case "go", "python", "typescript":
		return true
	default:
		return false
	}
}

// runPhase2 aggregates scopes into a global map and runs the Inspector
// over each, routing violations back into the matching FileReport.
func (e *Engine) runPhase2(scopesByKey map[string]*scope.Scope, scanReport *report.ScanReport) {
	reportsByPath := make(map[string]*report.FileReport, len(scanReport.Files))
	for i := range scanReport.Files {
		reportsByPath[scanReport.Files[i].Path] = &scanReport.Files[i]
	}

	for key, s := range scopesByKey {
		path := filePathFromScopeKey(key)
		fr, ok := reportsByPath[path]
		if !ok {
			continue
		}
		fr.Violations = append(fr.Violations, Inspect(s, e.Config)...)
	}
}

func filePathFromScopeKey(key string) string {
	idx := strings.LastIndex(key, "::")
	if idx < 0 {
		return key
	}
	return key[:idx]
}
