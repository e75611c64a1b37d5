// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package deadcode classifies code units as Unused, Unreachable, or
// OnlyDeadCallers by building a per-file call graph from references and
// computing reachability from entry points and public symbols.
package deadcode

import "strings"

// Symbol is a (file, name) pair identifying one code unit.
type Symbol struct {
	File string
	Name string
}

// Reference is a caller-name -> callee-name edge observed within a file.
type Reference struct {
	File   string
	Caller string
	Callee string
}

// Reason classifies why a symbol is dead.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnused
	ReasonUnreachable
	ReasonOnlyDeadCallers
)

func (r Reason) String() string {
	switch r {
	case ReasonUnused:
		return "unused"
	case ReasonUnreachable:
		return "unreachable"
	case ReasonOnlyDeadCallers:
		return "only_dead_callers"
	default:
		return "live"
	}
}

// Finding pairs a Symbol with its dead-code classification.
type Finding struct {
	Symbol Symbol
	Reason Reason
}

// EntryPointRules configures what counts as an entry point beyond the
// built-in main/test/bin/examples heuristics.
type EntryPointRules struct {
	ExtraNames []string
}

// Analyze computes dead-code findings over the given symbols and
// references.
func Analyze(symbols []Symbol, refs []Reference, rules EntryPointRules) []Finding {
	isPublic := make(map[Symbol]bool, len(symbols))
	isEntry := make(map[Symbol]bool, len(symbols))
	for _, s := range symbols {
		isPublic[s] = isPublicName(s.Name)
		isEntry[s] = isEntryPoint(s, rules)
	}

	incoming := make(map[Symbol][]Symbol)
	outgoing := make(map[Symbol][]Symbol)
	bySymbolName := make(map[string][]Symbol) // disambiguate callee by file-local name
	for _, s := range symbols {
		bySymbolName[s.File+"::"+s.Name] = append(bySymbolName[s.File+"::"+s.Name], s)
	}

	for _, r := range refs {
		caller := Symbol{File: r.File, Name: r.Caller}
		callee := Symbol{File: r.File, Name: r.Callee}
		outgoing[caller] = append(outgoing[caller], callee)
		incoming[callee] = append(incoming[callee], caller)
	}

	reachable := make(map[Symbol]bool)
	queue := make([]Symbol, 0)
	for _, s := range symbols {
		if isEntry[s] || isPublic[s] {
			reachable[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range outgoing[cur] {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	var findings []Finding
	for _, s := range symbols {
		if reachable[s] {
			continue
		}
		callers := incoming[s]
		switch {
		case len(callers) == 0:
			findings = append(findings, Finding{Symbol: s, Reason: ReasonUnused})
		case !anyReachable(callers, reachable):
			findings = append(findings, Finding{Symbol: s, Reason: ReasonOnlyDeadCallers})
		default:
			findings = append(findings, Finding{Symbol: s, Reason: ReasonUnreachable})
		}
	}
	return findings
}

func anyReachable(callers []Symbol, reachable map[Symbol]bool) bool {
	for _, c := range callers {
		if reachable[c] {
			return true
		}
	}
	return false
}

func isPublicName(name string) bool {
	return !strings.HasPrefix(name, "_")
}

var defaultEntryNames = map[string]bool{"main": true, "init": true}

func isEntryPoint(s Symbol, rules EntryPointRules) bool {
	if defaultEntryNames[s.Name] {
		return true
	}
	if strings.HasPrefix(s.Name, "test_") || strings.Contains(s.Name, "_test") || strings.HasPrefix(s.Name, "Test") || strings.HasPrefix(s.Name, "Benchmark") {
		return true
	}
	if strings.Contains(s.File, "/bin/") || strings.Contains(s.File, "/examples/") {
		return true
	}
	for _, n := range rules.ExtraNames {
		if s.Name == n {
			return true
		}
	}
	return false
}
