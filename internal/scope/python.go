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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/metrics"
)

func extractPython(root *sitter.Node, content []byte, grammar *langs.Grammar, fa *FileAnalysis) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "class_definition" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, content)
		s := &Scope{Name: name, DeclLine: int(child.StartPoint().Row) + 1}

		body := child.ChildByFieldName("body")
		if body != nil {
			pythonClassFields(body, content, s)
			pythonClassMethods(body, content, grammar, s)
		}
		fa.Scopes[name] = s
	}
}

func pythonClassFields(body *sitter.Node, content []byte, s *Scope) {
	seen := map[string]bool{}
	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "assignment" {
			return true
		}
		left := n.ChildByFieldName("left")
		if left == nil {
			return true
		}
		var name string
		if left.Type() == "attribute" {
			obj := left.ChildByFieldName("object")
			attr := left.ChildByFieldName("attribute")
			if obj != nil && attr != nil && text(obj, content) == "self" {
				name = text(attr, content)
			}
		} else if left.Type() == "identifier" && left.Parent() == body {
			name = text(left, content)
		}
		if name != "" && !seen[name] {
			seen[name] = true
			s.Fields = append(s.Fields, Field{Name: name, Private: strings.HasPrefix(name, "_")})
		}
		return true
	})
}

func pythonClassMethods(body *sitter.Node, content []byte, grammar *langs.Grammar, s *Scope) {
	fieldNames := map[string]bool{}
	for _, f := range s.Fields {
		fieldNames[f.Name] = true
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		node := body.Child(i)
		if node.Type() == "decorated_definition" {
			for j := 0; j < int(node.ChildCount()); j++ {
				if node.Child(j).Type() == "function_definition" {
					node = node.Child(j)
					break
				}
			}
		}
		if node.Type() != "function_definition" {
			continue
		}
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		m := Method{
			Name:         text(nameNode, content),
			FieldAccess:  make(map[string]bool),
			Calls:        make(map[string]bool),
			ExternalRefs: make(map[string]bool),
			Line:         int(node.StartPoint().Row) + 1,
		}
		funcBody := node.ChildByFieldName("body")
		if funcBody != nil {
			pythonWalkMethodBody(funcBody, content, fieldNames, &m)
			fm := metrics.ComputeFunction(funcBody, grammar, 0, m.Name, content)
			m.CognitiveComplexity = fm.CognitiveComplexity
		}
		s.Methods = append(s.Methods, m)
	}
}

func pythonWalkMethodBody(body *sitter.Node, content []byte, fieldNames map[string]bool, m *Method) {
	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "attribute" {
			return true
		}
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil || text(obj, content) != "self" {
			return true
		}
		name := text(attr, content)
		parent := n.Parent()
		if parent != nil && parent.Type() == "call" {
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
