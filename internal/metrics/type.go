// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package metrics

import (
	"sort"
	"strings"
)

// TypeMetrics holds the cohesion/coupling measurements for one struct or
// class scope. Every field is always computed; whether LCOM4 and AHF are
// reported is decided separately by ShouldReportLCOM4 / ShouldReportAHF.
type TypeMetrics struct {
	LCOM4 int     // number of connected components among methods sharing field access; 1 is ideal
	AHF   float64 // attribute hiding factor as a percentage: (private fields / total fields) * 100
	CBO   int     // coupling between objects: count of distinct external identifiers referenced
	SFOUT int     // max over methods of that method's outgoing call-set size
}

// TypeUsage describes one type's internal structure for metric purposes.
type TypeUsage struct {
	Fields        []string            // declared field names
	PrivateFields map[string]bool     // field name -> is-private
	MethodFields  map[string][]string // method name -> fields it reads/writes
	MethodCalls   map[string][]string // method name -> other methods of the same type it calls
	ExternalCalls map[string][]string // method name -> external identifiers it references
}

// Compute derives TypeMetrics from a TypeUsage snapshot collected by the
// scope extractor. LCOM4 and AHF are computed unconditionally; callers
// apply the ShouldReportLCOM4/ShouldReportAHF skip gates (enum,
// data-container annotations, method count, etc.) before surfacing
// them as violations.
func Compute(u TypeUsage) TypeMetrics {
	return TypeMetrics{
		LCOM4: lcom4(u),
		AHF:   ahf(u),
		CBO:   cbo(u),
		SFOUT: sfout(u),
	}
}

// lcom4 counts connected components in the graph where methods are nodes
// and an edge exists between two methods if they share a field access or
// one calls the other. A cohesive type has exactly one component; more
// indicates the type is doing unrelated jobs and is a split candidate.
func lcom4(u TypeUsage) int {
	methods := make([]string, 0, len(u.MethodFields))
	seen := map[string]bool{}
	for m := range u.MethodFields {
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	for m := range u.MethodCalls {
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	if len(methods) == 0 {
		return 0
	}
	sort.Strings(methods)

	uf := newUnionFind(methods)

	fieldOwners := make(map[string][]string)
	for m, fields := range u.MethodFields {
		for _, f := range fields {
			fieldOwners[f] = append(fieldOwners[f], m)
		}
	}
	for _, owners := range fieldOwners {
		for i := 1; i < len(owners); i++ {
			uf.union(owners[0], owners[i])
		}
	}
	for m, calls := range u.MethodCalls {
		for _, c := range calls {
			if seen[c] {
				uf.union(m, c)
			}
		}
	}

	roots := map[string]bool{}
	for _, m := range methods {
		roots[uf.find(m)] = true
	}
	return len(roots)
}

// ahf is (private field count / total field count) * 100.
func ahf(u TypeUsage) float64 {
	if len(u.Fields) == 0 {
		return 0
	}
	private := 0
	for _, f := range u.Fields {
		if u.PrivateFields[f] {
			private++
		}
	}
	return float64(private) / float64(len(u.Fields)) * 100
}

// cbo counts distinct external identifiers referenced by any method body
// that are neither this scope's own methods nor its fields.
func cbo(u TypeUsage) int {
	distinct := map[string]bool{}
	for _, refs := range u.ExternalCalls {
		for _, r := range refs {
			distinct[r] = true
		}
	}
	return len(distinct)
}

// sfout is the max, over methods, of that method's outgoing call-set size
// (same-receiver calls plus external references).
func sfout(u TypeUsage) int {
	max := 0
	methods := map[string]bool{}
	for m := range u.MethodCalls {
		methods[m] = true
	}
	for m := range u.ExternalCalls {
		methods[m] = true
	}
	for m := range methods {
		size := len(u.MethodCalls[m]) + len(u.ExternalCalls[m])
		if size > max {
			max = size
		}
	}
	return max
}

// ShouldReportLCOM4 implements the skip gate: fewer than 4 methods, no
// method accessing any field, or an enum scope all suppress LCOM4.
func ShouldReportLCOM4(methodCount int, anyFieldAccess, isEnum bool) bool {
	return methodCount >= 4 && anyFieldAccess && !isEnum
}

// ShouldReportAHF implements the skip gate: enums, declared data
// containers (by annotation), simple containers (<=3 fields or summed
// method cognitive complexity <=3), behaviorless scopes, and scopes with
// no fields all suppress AHF.
func ShouldReportAHF(fieldCount, methodCount int, summedCognitive int, isEnum bool, derives []string) bool {
	if isEnum || fieldCount == 0 || methodCount == 0 {
		return false
	}
	if fieldCount <= 3 || summedCognitive <= 3 {
		return false
	}
	dataContainerMarkers := []string{"Serialize", "Deserialize", "Parser", "Args"}
	for _, d := range derives {
		for _, marker := range dataContainerMarkers {
			if strings.Contains(d, marker) {
				return false
			}
		}
	}
	return true
}

type unionFind struct {
	parent map[string]string
}

func newUnionFind(items []string) *unionFind {
	uf := &unionFind{parent: make(map[string]string, len(items))}
	for _, it := range items {
		uf.parent[it] = it
	}
	return uf
}

func (uf *unionFind) find(x string) string {
	root, ok := uf.parent[x]
	if !ok {
		uf.parent[x] = x
		return x
	}
	if root == x {
		return x
	}
	root = uf.find(root)
	uf.parent[x] = root
	return root
}

func (uf *unionFind) union(a, b string) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}
