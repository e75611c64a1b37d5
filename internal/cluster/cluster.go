// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cluster groups Code Units into Similarity Clusters via
// structural-hash bucketing plus a union-find pass over near-duplicate
// pairs, per the Consolidation Audit's clustering algorithm.
package cluster

import (
	"github.com/neti-lang/neti/internal/fingerprint"
)

// Unit is the minimal shape cluster needs from a Code Unit.
type Unit struct {
	Key         string // unique identifier, e.g. "path::Name"
	Kind        string
	LineCount   int
	Fingerprint fingerprint.Fingerprint
	Variants    []string // enum variant names, for the enum merge gate; empty for non-enum units
}

// Cluster is a resulting group of similar units, size >= 2.
type Cluster struct {
	Members        []string
	Similarity     float64
	PotentialLines int
}

const defaultMaxClusterSize = 30

// controlFlowThreshold / trivialThreshold are the merge thresholds:
// 0.92 for units with any control flow, 0.97 for trivial ones.
const controlFlowThreshold = 0.92
const trivialThreshold = 0.97

// Build runs the full clustering pipeline over units and returns the
// resulting Similarity Clusters. maxClusterSize bounds exact-duplicate
// buckets (pass 0 to use the default of 30).
func Build(units []Unit, maxClusterSize int) []Cluster {
	if maxClusterSize <= 0 {
		maxClusterSize = defaultMaxClusterSize
	}

	byKey := make(map[string]Unit, len(units))
	for _, u := range units {
		byKey[u.Key] = u
	}

	uf := newUnionFind()
	for _, u := range units {
		uf.add(u.Key)
	}

	exactBuckets := make(map[uint64][]string)
	for _, u := range units {
		exactBuckets[u.Fingerprint.StructuralHash] = append(exactBuckets[u.Fingerprint.StructuralHash], u.Key)
	}

	exactClustered := make(map[string]bool)
	var clusters []Cluster
	for _, bucket := range exactBuckets {
		if len(bucket) < 2 || len(bucket) > maxClusterSize {
			continue
		}
		for i := 1; i < len(bucket); i++ {
			uf.union(bucket[0], bucket[i])
		}
		for _, k := range bucket {
			exactClustered[k] = true
		}
	}

	singletons := make([]Unit, 0, len(units))
	for _, u := range units {
		if !exactClustered[u.Key] {
			singletons = append(singletons, u)
		}
	}

	for i := 0; i < len(singletons); i++ {
		for j := i + 1; j < len(singletons); j++ {
			a, b := singletons[i], singletons[j]
			if a.Kind != b.Kind {
				continue
			}
			if !enumGatePasses(a, b) {
				continue
			}
			structuralSim := fingerprint.StructuralCounterSimilarity(a.Fingerprint, b.Fingerprint)
			if structuralSim < 0.6 {
				continue
			}
			overallSim := fingerprint.Similarity(a.Fingerprint, b.Fingerprint)
			combined := 0.5*overallSim + 0.5*structuralSim
			threshold := controlFlowThreshold
			if isTrivial(a.Fingerprint) && isTrivial(b.Fingerprint) {
				threshold = trivialThreshold
			}
			if combined >= threshold {
				uf.union(a.Key, b.Key)
			}
		}
	}

	groups := uf.groups()
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, buildClusterRecord(members, byKey))
	}
	return clusters
}

func isTrivial(fp fingerprint.Fingerprint) bool {
	return fp.Branches == 0 && fp.Loops == 0 && fp.Exits == 0
}

// enumGatePasses implements the enum-variant semantic gate: only
// relevant when both units are enums (non-empty Variants); non-enum units
// always pass.
func enumGatePasses(a, b Unit) bool {
	if len(a.Variants) == 0 && len(b.Variants) == 0 {
		return true
	}
	if len(a.Variants) == 0 || len(b.Variants) == 0 {
		return false
	}
	overlap := variantOverlapRatio(a.Variants, b.Variants)
	size := len(a.Variants)
	if len(b.Variants) > size {
		size = len(b.Variants)
	}
	switch {
	case size <= 2:
		return overlap >= 1.0
	case size == 3:
		return overlap >= 2.0/3.0
	default:
		return overlap >= 0.5
	}
}

func variantOverlapRatio(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, v := range a {
		setA[v] = true
	}
	shared := 0
	for _, v := range b {
		if setA[v] {
			shared++
		}
	}
	union := len(setA)
	for _, v := range b {
		if !setA[v] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func buildClusterRecord(members []string, byKey map[string]Unit) Cluster {
	totalLines := 0
	var totalSim float64
	count := 0
	for i, m := range members {
		totalLines += byKey[m].LineCount
		if i > 0 {
			totalSim += fingerprint.Similarity(byKey[members[0]].Fingerprint, byKey[m].Fingerprint)
			count++
		}
	}
	sim := 1.0
	if count > 0 {
		sim = totalSim / float64(count)
	}
	avgLines := totalLines / len(members)
	return Cluster{
		Members:        members,
		Similarity:     sim,
		PotentialLines: (len(members) - 1) * avgLines,
	}
}
