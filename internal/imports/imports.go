// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package imports extracts raw import strings from parsed files and
// resolves them against the discovered file set into Dependency Edges.
package imports

import (
	"path"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/langs"
)

// Edge is a resolved file-to-file dependency.
type Edge struct {
	From string
	To   string
}

var importNodeKinds = map[string]bool{
	"import_spec":          true, // Go
	"import_statement":     true, // Python, TypeScript, JS
	"import_from_statement": true, // Python
}

// Extract walks the parsed tree and returns the raw import strings for one
// file, in source order.
func Extract(root *sitter.Node, content []byte) []string {
	var raw []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if importNodeKinds[n.Type()] {
			if s := firstStringLiteral(n, content); s != "" {
				raw = append(raw, s)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return raw
}

func firstStringLiteral(n *sitter.Node, content []byte) string {
	var found string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != "" || n == nil {
			return
		}
		switch n.Type() {
		case "interpreted_string_literal", "raw_string_literal", "string", "string_fragment":
			found = unquote(string(content[n.StartByte():n.EndByte()]))
			return
		case "dotted_name":
			found = string(content[n.StartByte():n.EndByte()])
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(n)
	return found
}

func unquote(s string) string {
	s = strings.Trim(s, `"'`)
	return s
}

// FileSet maps a resolvable import string to the discovered file path it
// refers to, per language-specific resolution rules.
type FileSet struct {
	filesByPath   map[string]bool
	filesByModule map[string]string // dotted module path -> file path, for python/go-ish resolution
	root          string
}

// BuildFileSet indexes the discovered file paths for resolution.
func BuildFileSet(root string, allPaths []string) *FileSet {
	fs := &FileSet{
		filesByPath:   make(map[string]bool, len(allPaths)),
		filesByModule: make(map[string]string, len(allPaths)),
		root:          root,
	}
	for _, p := range allPaths {
		fs.filesByPath[p] = true
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)
		noExt := strings.TrimSuffix(rel, filepath.Ext(rel))
		fs.filesByModule[strings.ReplaceAll(noExt, "/", ".")] = p
	}
	return fs
}

// Resolve attempts to map a raw import string, found within fromFile, to a
// discovered file path. Relative imports are resolved against fromFile's
// directory; dotted/package imports are resolved against the module index.
// Unresolvable imports return ("", false) and are silently dropped.
func (fs *FileSet) Resolve(fromFile, raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, ".") {
		dir := filepath.Dir(fromFile)
		candidate := filepath.Clean(filepath.Join(dir, raw))
		for _, ext := range []string{"", ".go", ".py", ".ts", ".tsx", ".js", ".jsx"} {
			if fs.filesByPath[candidate+ext] {
				return candidate + ext, true
			}
		}
		if p, ok := fs.filesByModule[path.Base(candidate)]; ok {
			return p, true
		}
		return "", false
	}
	key := strings.ReplaceAll(raw, "/", ".")
	if p, ok := fs.filesByModule[key]; ok {
		return p, true
	}
	parts := strings.Split(key, ".")
	for len(parts) > 1 {
		parts = parts[:len(parts)-1]
		if p, ok := fs.filesByModule[strings.Join(parts, ".")]; ok {
			return p, true
		}
	}
	return "", false
}

// ResolveAll resolves every raw import for a file, discarding unresolved
// and self-referential entries.
func ResolveAll(fs *FileSet, fromFile string, rawImports []string) []Edge {
	var edges []Edge
	for _, raw := range rawImports {
		target, ok := fs.Resolve(fromFile, raw)
		if !ok || target == fromFile {
			continue
		}
		edges = append(edges, Edge{From: fromFile, To: target})
	}
	return edges
}

// Registry exposes the grammar lookup imports needs without importing
// the engine package back (avoiding a cycle).
type Registry interface {
	Lookup(path string) *langs.Grammar
}
