// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scope extracts type-like constructs from a parsed tree into
// Scope values the Inspector and metrics packages consume: Go type
// declarations with their methods, and Python and TypeScript classes.
// No extractor detects enums: IsEnum, Derives and Variants are left at
// their zero values.
package scope

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/metrics"
)

// Method records one method's body-derived facts.
type Method struct {
	Name                string
	FieldAccess         map[string]bool
	Calls               map[string]bool // other methods on the same receiver
	ExternalRefs        map[string]bool // identifiers referenced that are neither fields nor sibling methods
	CognitiveComplexity int
	Line                int
}

// Field records one declared field and its visibility.
type Field struct {
	Name    string
	Private bool
}

// Scope is a type-like construct with its fields and methods, as surfaced
// by the Scope Extractor.
type Scope struct {
	Name      string
	IsEnum    bool
	Fields    []Field
	Methods   []Method
	Derives   []string
	DeclLine  int
	Variants  []string // enum variant names; the extractors in this package leave it empty
}

// FileAnalysis maps type name to Scope for one parsed file.
type FileAnalysis struct {
	FilePath string
	Scopes   map[string]*Scope
}

// Behaviorless reports whether s has zero methods.
func (s *Scope) Behaviorless() bool {
	return len(s.Methods) == 0
}

// Extract walks root and returns a FileAnalysis for the file. Extraction
// is idempotent: calling Extract twice on the same tree yields maps equal
// by value.
func Extract(root *sitter.Node, content []byte, grammar *langs.Grammar, filePath string) *FileAnalysis {
	fa := &FileAnalysis{FilePath: filePath, Scopes: make(map[string]*Scope)}
	if root == nil {
		return fa
	}

	switch grammar.Name {
	case "go":
		extractGo(root, content, grammar, fa)
	case "python":
		extractPython(root, content, grammar, fa)
	case "typescript":
		extractTypeScript(root, content, grammar, fa)
	}
	return fa
}

// ToTypeUsage adapts a Scope into the metrics package's input shape.
func (s *Scope) ToTypeUsage() metrics.TypeUsage {
	u := metrics.TypeUsage{
		PrivateFields: make(map[string]bool),
		MethodFields:  make(map[string][]string),
		MethodCalls:   make(map[string][]string),
		ExternalCalls: make(map[string][]string),
	}
	for _, f := range s.Fields {
		u.Fields = append(u.Fields, f.Name)
		if f.Private {
			u.PrivateFields[f.Name] = true
		}
	}
	for _, m := range s.Methods {
		for f := range m.FieldAccess {
			u.MethodFields[m.Name] = append(u.MethodFields[m.Name], f)
		}
		for c := range m.Calls {
			u.MethodCalls[m.Name] = append(u.MethodCalls[m.Name], c)
		}
		for e := range m.ExternalRefs {
			u.ExternalCalls[m.Name] = append(u.ExternalCalls[m.Name], e)
		}
	}
	return u
}

// SummedCognitive returns the sum of cognitive complexity across methods,
// used by the AHF skip gate.
func (s *Scope) SummedCognitive() int {
	total := 0
	for _, m := range s.Methods {
		total += m.CognitiveComplexity
	}
	return total
}

// AnyFieldAccess reports whether any method accesses any field, used by
// the LCOM4 skip gate.
func (s *Scope) AnyFieldAccess() bool {
	for _, m := range s.Methods {
		if len(m.FieldAccess) > 0 {
			return true
		}
	}
	return false
}

func text(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}

func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}
