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
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/neti-lang/neti/internal/cluster"
	"github.com/neti-lang/neti/internal/deadcode"
	"github.com/neti-lang/neti/internal/discovery"
	"github.com/neti-lang/neti/internal/langs"
)

// Config parameterizes the consolidation audit run.
type Config struct {
	MaxClusterSize int
	MaxOpportunities int
	Workers        int
	UserPatterns   []Pattern
	EntryPoints    deadcode.EntryPointRules
}

// DefaultConfig returns the documented defaults (cluster size 30, top 5
// opportunities).
func DefaultConfig() Config {
	return Config{MaxClusterSize: 30, MaxOpportunities: 5, Workers: 8}
}

// Result is the full consolidation audit output.
type Result struct {
	Units       []Unit
	Clusters    []cluster.Cluster
	DeadCode    []deadcode.Finding
	Patterns    []RepeatedPattern
	Opportunities []Opportunity
}

type perFileUnits struct {
	units []Unit
	refs  []deadcode.Reference
	path  string
}

// Run executes the full Consolidation Audit: per-file parallel unit
// extraction, then single-threaded clustering, dead-code detection,
// pattern aggregation, and opportunity scoring.
func Run(ctx context.Context, registry *langs.Registry, files []discovery.Result, cfg Config) Result {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	perFile := make([]perFileUnits, len(files))
	sourceByFile := make(map[string][]byte, len(files))
	for _, f := range files {
		sourceByFile[f.Path] = f.Content
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			perFile[i] = extractFileUnits(gctx, registry, f)
			return nil
		})
	}
	_ = g.Wait()

	var allUnits []Unit
	var allRefs []deadcode.Reference
	byKey := make(map[string]Unit)
	lineCounts := make(map[deadcode.Symbol]int)
	for _, pf := range perFile {
		allUnits = append(allUnits, pf.units...)
		allRefs = append(allRefs, pf.refs...)
		for _, u := range pf.units {
			byKey[u.Key()] = u
			lineCounts[deadcode.Symbol{File: u.File, Name: u.Name}] = u.LineCount()
		}
	}

	clusterUnits := make([]cluster.Unit, 0, len(allUnits))
	for _, u := range allUnits {
		clusterUnits = append(clusterUnits, cluster.Unit{
			Key: u.Key(), Kind: u.Kind, LineCount: u.LineCount(),
			Fingerprint: u.Fingerprint, Variants: u.Variants,
		})
	}
	clusters := cluster.Build(clusterUnits, cfg.MaxClusterSize)

	symbols := make([]deadcode.Symbol, 0, len(allUnits))
	for _, u := range allUnits {
		symbols = append(symbols, deadcode.Symbol{File: u.File, Name: u.Name})
	}
	deadFindings := deadcode.Analyze(symbols, allRefs, cfg.EntryPoints)

	patterns := DefaultPatterns(cfg.UserPatterns)
	repeated := AggregatePatterns(allUnits, sourceByFile, patterns)

	var opportunities []Opportunity
	opportunities = append(opportunities, ScoreDuplication(clusters, byKey)...)
	opportunities = append(opportunities, ScoreDeadCode(deadFindings, lineCounts)...)
	opportunities = append(opportunities, ScorePatterns(repeated)...)
	opportunities = Rank(opportunities, cfg.MaxOpportunities, clusters, byKey)

	return Result{
		Units: allUnits, Clusters: clusters, DeadCode: deadFindings,
		Patterns: repeated, Opportunities: opportunities,
	}
}

func extractFileUnits(ctx context.Context, registry *langs.Registry, f discovery.Result) perFileUnits {
	grammar := registry.Lookup(f.Path)
	if grammar == nil {
		return perFileUnits{path: f.Path}
	}
	parsed, err := grammar.Parser.Parse(ctx, f.Content, f.Path)
	if err != nil {
		return perFileUnits{path: f.Path}
	}
	defer parsed.Close()

	units := ExtractUnits(parsed.Root, f.Content, grammar, f.Path)
	refs := extractReferences(parsed.Root, f.Content, f.Path, units)
	return perFileUnits{units: units, refs: refs, path: f.Path}
}
