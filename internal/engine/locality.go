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
	"context"
	"regexp"

	"github.com/neti-lang/neti/internal/config"
	"github.com/neti-lang/neti/internal/discovery"
	"github.com/neti-lang/neti/internal/imports"
	"github.com/neti-lang/neti/internal/locality"
)

// Locality runs import extraction, resolution, and the full locality
// pipeline over root. Returns nil when locality.mode is "off".
func (e *Engine) Locality(ctx context.Context, root string) (*locality.Result, error) {
	mode := localityMode(e.Config.Locality.Mode)
	if mode == locality.ModeOff {
		return nil, nil
	}

	files, _ := discovery.Discover(ctx, root, discovery.Config{})

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	fileSet := imports.BuildFileSet(root, paths)

	var edges []imports.Edge
	for _, f := range files {
		grammar := e.Registry.Lookup(f.Path)
		if grammar == nil {
			continue
		}
		parsed, err := grammar.Parser.Parse(ctx, f.Content, f.Path)
		if err != nil {
			continue
		}
		raw := imports.Extract(parsed.Root, f.Content)
		parsed.Close()
		edges = append(edges, imports.ResolveAll(fileSet, f.Path, raw)...)
	}

	th := locality.DefaultThresholds()
	th.MaxDistance = e.Config.Locality.MaxDistance
	th.Hubs = e.Config.Locality.Hubs
	for _, p := range e.Config.Locality.ExemptionPatterns {
		if re, err := regexp.Compile(p); err == nil {
			th.ExemptPatterns = append(th.ExemptPatterns, re)
		}
	}

	graph := locality.Build(paths, edges, th)
	verdicts := locality.VerifyEdges(graph, th, th.ExemptPatterns)
	rep := locality.BuildReport(graph, verdicts, mode)
	deep := locality.DeepAnalyze(graph, rep.Failed)

	return &locality.Result{Graph: graph, Report: rep, Deep: deep}, nil
}

func localityMode(m config.LocalityMode) locality.Mode {
	switch m {
	case config.LocalityWarn:
		return locality.ModeWarn
	case config.LocalityError:
		return locality.ModeError
	default:
		return locality.ModeOff
	}
}
