// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package langs

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Queries groups the five canonical query purposes every Grammar must
// supply, per the grammar-registry contract: function definitions,
// function naming, imports, exports, and cyclomatic-complexity nodes.
//
// The strings double as documentation of the tree-sitter node shapes a
// language's Parser implementation traverses directly — see the per-
// language parser files for why direct traversal is used instead of
// compiling and running these as live tree-sitter queries.
type Queries struct {
	FunctionDefs string
	Naming       string
	Imports      string
	Exports      string
	Complexity   string
}

// Parser extracts symbols, imports, and a parse tree from one file's source.
type Parser interface {
	Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error)
	Language() string
	Extensions() []string
}

// Grammar is one registry entry: a tree-sitter language handle, its query
// strings, the node-kind sets complexity/nesting analysis needs, and the
// Parser that implements extraction for it.
type Grammar struct {
	Name            string
	Extensions      []string
	SitterLanguage  *sitter.Language
	Queries         Queries
	ComplexityNodes map[string]bool
	NestingNodes    map[string]bool
	Parser          Parser
}

// Registry maps file extensions to Grammars. Safe for concurrent read after
// construction; the process-wide instance is built on first use by DefaultRegistry.
type Registry struct {
	mu         sync.RWMutex
	byExt      map[string]*Grammar
	byLanguage map[string]*Grammar
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:      make(map[string]*Grammar),
		byLanguage: make(map[string]*Grammar),
	}
}

// Register adds a Grammar under all of its declared extensions.
func (r *Registry) Register(g *Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range g.Extensions {
		r.byExt[ext] = g
	}
	r.byLanguage[g.Name] = g
}

// Lookup returns the Grammar for a file path's extension, or nil if the
// language is unsupported. Missing-grammar is silent by design.
func (r *Registry) Lookup(path string) *Grammar {
	ext := strings.ToLower(filepath.Ext(path))
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[ext]
}

// LookupLanguage returns the Grammar registered under a language name.
func (r *Registry) LookupLanguage(name string) *Grammar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byLanguage[name]
}

// Languages lists the registered language names, sorted by registration
// order is not guaranteed; callers that need determinism should sort.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byLanguage))
	for name := range r.byLanguage {
		out = append(out, name)
	}
	return out
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry, lazily initialized
// with the built-in grammars (Go, Python, TypeScript/JavaScript). This is
// the only process-wide state the langs package owns; it is immutable
// after first use and safe to share across worker goroutines.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register(goGrammar())
		defaultRegistry.Register(pythonGrammar())
		defaultRegistry.Register(typescriptGrammar())
	})
	return defaultRegistry
}

func goGrammar() *Grammar {
	return &Grammar{
		Name:           "go",
		Extensions:     []string{".go"},
		SitterLanguage: golang.GetLanguage(),
		Queries: Queries{
			FunctionDefs: `(function_declaration name: (identifier) @name) @func
(method_declaration name: (field_identifier) @name) @method`,
			Naming:  `(function_declaration name: (identifier) @name)`,
			Imports: `(import_spec path: (interpreted_string_literal) @path)`,
			Exports: `(function_declaration name: (identifier) @name)`,
			Complexity: `[(if_statement) (for_statement) (expression_switch_statement)
(type_switch_statement) (select_statement) (communication_case)
(expression_case) (default_case) (binary_expression operator: "&&")
(binary_expression operator: "||")] @inc`,
		},
		ComplexityNodes: setOf(
			"if_statement", "for_statement", "expression_switch_statement",
			"type_switch_statement", "select_statement", "communication_case",
			"expression_case", "default_case", "go_statement",
		),
		NestingNodes: setOf(
			"if_statement", "for_statement", "expression_switch_statement",
			"type_switch_statement", "select_statement",
		),
		Parser: NewGoParser(),
	}
}

func pythonGrammar() *Grammar {
	return &Grammar{
		Name:           "python",
		Extensions:     []string{".py"},
		SitterLanguage: python.GetLanguage(),
		Queries: Queries{
			FunctionDefs: `(function_definition name: (identifier) @name) @func`,
			Naming:       `(function_definition name: (identifier) @name)`,
			Imports:      `(import_statement) (import_from_statement)`,
			Exports:      `(function_definition name: (identifier) @name)`,
			Complexity: `[(if_statement) (for_statement) (while_statement)
(try_statement) (except_clause) (with_statement)
(boolean_operator operator: "and") (boolean_operator operator: "or")
(conditional_expression)] @inc`,
		},
		ComplexityNodes: setOf(
			"if_statement", "for_statement", "while_statement", "try_statement",
			"except_clause", "with_statement", "conditional_expression",
		),
		NestingNodes: setOf(
			"if_statement", "for_statement", "while_statement", "try_statement",
			"with_statement",
		),
		Parser: NewPythonParser(),
	}
}

func typescriptGrammar() *Grammar {
	return &Grammar{
		Name:           "typescript",
		Extensions:     []string{".ts", ".tsx", ".js", ".jsx"},
		SitterLanguage: typescript.GetLanguage(),
		Queries: Queries{
			FunctionDefs: `(function_declaration name: (identifier) @name) @func
(method_definition name: (property_identifier) @name) @method`,
			Naming:  `(function_declaration name: (identifier) @name)`,
			Imports: `(import_statement source: (string) @path)`,
			Exports: `(export_statement)`,
			Complexity: `[(if_statement) (for_statement) (for_in_statement)
(while_statement) (switch_case) (catch_clause) (ternary_expression)
(binary_expression operator: "&&") (binary_expression operator: "||")] @inc`,
		},
		ComplexityNodes: setOf(
			"if_statement", "for_statement", "for_in_statement", "while_statement",
			"switch_case", "catch_clause", "ternary_expression",
		),
		NestingNodes: setOf(
			"if_statement", "for_statement", "for_in_statement", "while_statement",
			"switch_statement", "try_statement",
		),
		Parser: NewTypeScriptParser(),
	}
}

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
