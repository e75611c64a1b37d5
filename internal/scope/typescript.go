// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scope

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/metrics"
)

func extractTypeScript(root *sitter.Node, content []byte, grammar *langs.Grammar, fa *FileAnalysis) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "class_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		name := text(nameNode, content)
		s := &Scope{Name: name, DeclLine: int(n.StartPoint().Row) + 1}

		body := n.ChildByFieldName("body")
		if body != nil {
			tsClassFields(body, content, s)
			tsClassMethods(body, content, grammar, s)
		}
		fa.Scopes[name] = s
		return false
	})
}

func tsClassFields(body *sitter.Node, content []byte, s *Scope) {
	for i := 0; i < int(body.ChildCount()); i++ {
		n := body.Child(i)
		if n.Type() != "public_field_definition" && n.Type() != "property_declaration" {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, content)
		private := false
		for j := 0; j < int(n.ChildCount()); j++ {
			if n.Child(j).Type() == "accessibility_modifier" {
				mod := text(n.Child(j), content)
				private = mod == "private" || mod == "protected"
			}
		}
		s.Fields = append(s.Fields, Field{Name: name, Private: private})
	}
}

func tsClassMethods(body *sitter.Node, content []byte, grammar *langs.Grammar, s *Scope) {
	fieldNames := map[string]bool{}
	for _, f := range s.Fields {
		fieldNames[f.Name] = true
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		n := body.Child(i)
		if n.Type() != "method_definition" {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		m := Method{
			Name:         text(nameNode, content),
			FieldAccess:  make(map[string]bool),
			Calls:        make(map[string]bool),
			ExternalRefs: make(map[string]bool),
			Line:         int(n.StartPoint().Row) + 1,
		}
		methodBody := n.ChildByFieldName("body")
		if methodBody != nil {
			tsWalkMethodBody(methodBody, content, fieldNames, &m)
			fm := metrics.ComputeFunction(methodBody, grammar, 0, m.Name, content)
			m.CognitiveComplexity = fm.CognitiveComplexity
		}
		s.Methods = append(s.Methods, m)
	}
}

func tsWalkMethodBody(body *sitter.Node, content []byte, fieldNames map[string]bool, m *Method) {
	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "member_expression" {
			return true
		}
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj == nil || prop == nil || text(obj, content) != "this" {
			return true
		}
		name := text(prop, content)
		parent := n.Parent()
		if parent != nil && parent.Type() == "call_expression" {
			if fn := parent.ChildByFieldName("function"); fn == n {
				m.Calls[name] = true
				return true
			}
		}
		if fieldNames[name] {
			m.FieldAccess[name] = true
		}
		return true
	})
}
