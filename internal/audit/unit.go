// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package audit orchestrates the Consolidation Audit: per-file Code Unit
// extraction, clustering, dead-code detection, pattern aggregation, and
// Opportunity scoring.
package audit

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/fingerprint"
	"github.com/neti-lang/neti/internal/langs"
)

// Unit is one extracted Code Unit with its fingerprint.
type Unit struct {
	File        string
	Name        string
	Kind        string // function, method, struct, or trait
	StartLine   int
	EndLine     int
	Fingerprint fingerprint.Fingerprint
	Variants    []string // enum variant names
}

var unitNodeKinds = map[string]string{
	"function_declaration": "function",
	"method_declaration":   "method",
	"function_definition":  "function",
	"type_spec":            "struct", // refined below by child node kind
	"class_declaration":    "struct",
	"class_definition":     "struct",
	"interface_declaration": "trait",
}

// ExtractUnits walks the parsed tree and emits one Unit per function,
// method, Go type spec, and class declaration. Go interface types get
// kind "trait"; every other type spec and every class gets "struct".
// No unit is emitted for enum, impl, or TypeScript interface
// declarations, and Variants is left empty.
func ExtractUnits(root *sitter.Node, content []byte, grammar *langs.Grammar, filePath string) []Unit {
	var units []Unit
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if u, ok := unitFromNode(n, content, filePath); ok {
			units = append(units, u)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return units
}

func unitFromNode(n *sitter.Node, content []byte, filePath string) (Unit, bool) {
	switch n.Type() {
	case "function_declaration", "method_declaration", "function_definition":
		name := nodeText(n.ChildByFieldName("name"), content)
		if name == "" {
			return Unit{}, false
		}
		kind := "function"
		if n.Type() == "method_declaration" {
			kind = "method"
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			body = n
		}
		return Unit{
			File: filePath, Name: name, Kind: kind,
			StartLine: int(n.StartPoint().Row) + 1, EndLine: int(n.EndPoint().Row) + 1,
			Fingerprint: fingerprint.Compute(body, content),
		}, true
	case "type_spec":
		name := nodeText(n.ChildByFieldName("name"), content)
		typeNode := n.ChildByFieldName("type")
		if name == "" || typeNode == nil {
			return Unit{}, false
		}
		kind := "struct"
		if typeNode.Type() == "interface_type" {
			kind = "trait"
		}
		return Unit{
			File: filePath, Name: name, Kind: kind,
			StartLine: int(n.StartPoint().Row) + 1, EndLine: int(n.EndPoint().Row) + 1,
			Fingerprint: fingerprint.Compute(typeNode, content),
		}, true
	case "class_declaration", "class_definition":
		name := nodeText(n.ChildByFieldName("name"), content)
		if name == "" {
			return Unit{}, false
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			body = n
		}
		return Unit{
			File: filePath, Name: name, Kind: "struct",
			StartLine: int(n.StartPoint().Row) + 1, EndLine: int(n.EndPoint().Row) + 1,
			Fingerprint: fingerprint.Compute(body, content),
		}, true
	default:
		return Unit{}, false
	}
}

func nodeText(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}

// Key returns the cluster/dead-code identity string for a unit.
func (u Unit) Key() string {
	return u.File + "::" + u.Name
}

// LineCount returns the unit's source span length.
func (u Unit) LineCount() int {
	n := u.EndLine - u.StartLine + 1
	if n < 1 {
		return 1
	}
	return n
}
