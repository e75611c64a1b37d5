// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package langs provides the grammar registry and language-agnostic AST
// types shared by every parser and detector in neti.
//
// All parser implementations (Go, Python, TypeScript) produce output
// conforming to the types in this file. Timestamps are int64 UnixMilli;
// there is no map[string]interface{} anywhere in the model, only concrete
// types, so downstream consumers never need a type switch to read a field.
package langs

import (
	"encoding/json"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// SymbolKind identifies what kind of construct a Symbol represents.
type SymbolKind int

const (
	KindUnknown SymbolKind = iota
	KindPackage
	KindFunction
	KindMethod
	KindInterface
	KindStruct
	KindType
	KindField
	KindVariable
	KindConstant
	KindImport
	KindEnum
	KindEnumMember
	KindParameter
)

var symbolKindNames = map[SymbolKind]string{
	KindUnknown:    "unknown",
	KindPackage:    "package",
	KindFunction:   "function",
	KindMethod:     "method",
	KindInterface:  "interface",
	KindStruct:     "struct",
	KindType:       "type",
	KindField:      "field",
	KindVariable:   "variable",
	KindConstant:   "constant",
	KindImport:     "import",
	KindEnum:       "enum",
	KindEnumMember: "enum_member",
	KindParameter:  "parameter",
}

// String returns the lower-case name of the kind, or "unknown".
func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON serializes the kind as its string name.
func (k SymbolKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Location is a 1-indexed line range within a source file.
type Location struct {
	FilePath  string `json:"file_path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartCol  int    `json:"start_col"`
	EndCol    int    `json:"end_col"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.StartLine, l.StartCol)
}

// Visibility is whether a field or symbol is part of a type's public surface.
type Visibility int

const (
	VisibilityUnknown Visibility = iota
	VisibilityPublic
	VisibilityPrivate
)

// Symbol is any named code construct extracted from a parsed tree: a
// function, method, type, field, import, or top-level variable/constant.
//
// ID has the form "file_path:start_line:name", matching the convention used
// across the rest of the toolchain so symbols can be addressed without
// re-parsing.
type Symbol struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Kind       SymbolKind `json:"kind"`
	Visibility Visibility `json:"visibility"`
	Location   Location   `json:"location"`
	Signature  string     `json:"signature"`
	DocComment string     `json:"doc_comment"`
	Receiver   string     `json:"receiver"`
	Params     int        `json:"params"`
}

// GenerateID builds the canonical symbol ID.
func GenerateID(filePath string, line int, name string) string {
	return fmt.Sprintf("%s:%d:%s", filePath, line, name)
}

// Import is one raw import string extracted from a parsed tree, unresolved.
type Import struct {
	Path  string `json:"path"`
	Alias string `json:"alias"`
	Line  int    `json:"line"`
}

// ParseResult is the per-file output of a Parser.
//
// Tree is owned by the caller of Parse for the duration of one file's
// analysis only; callers must call Tree.Close() when done. No tree is
// retained across files or across scan invocations.
type ParseResult struct {
	FilePath      string
	Language      string
	Hash          string
	ParsedAtMilli int64
	Content       []byte
	Symbols       []*Symbol
	Imports       []Import
	Errors        []string
	Root          *sitter.Node
	Tree          *sitter.Tree
}

// HasSyntaxErrors reports whether the parse produced any error/missing nodes.
func (r *ParseResult) HasSyntaxErrors() bool {
	return len(r.Errors) > 0
}

// Close releases the underlying tree-sitter tree. Safe to call on a nil Tree.
func (r *ParseResult) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}
