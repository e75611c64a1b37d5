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

func extractGo(root *sitter.Node, content []byte, grammar *langs.Grammar, fa *FileAnalysis) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "type_declaration" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			spec := child.Child(j)
			if spec.Type() != "type_spec" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			typeNode := spec.ChildByFieldName("type")
			if nameNode == nil || typeNode == nil {
				continue
			}
			name := text(nameNode, content)
			s := &Scope{
				Name:     name,
				DeclLine: int(spec.StartPoint().Row) + 1,
			}
			if typeNode.Type() == "struct_type" {
				s.Fields = goFields(typeNode, content)
			}
			fa.Scopes[name] = s
		}
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "method_declaration" {
			continue
		}
		receiverNode := child.ChildByFieldName("receiver")
		recvVar, recvType := goReceiver(receiverNode, content)
		if recvType == "" {
			continue
		}
		s, ok := fa.Scopes[recvType]
		if !ok {
			s = &Scope{Name: recvType}
			fa.Scopes[recvType] = s
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		body := child.ChildByFieldName("body")
		m := Method{
			Name:         text(nameNode, content),
			FieldAccess:  make(map[string]bool),
			Calls:        make(map[string]bool),
			ExternalRefs: make(map[string]bool),
			Line:         int(child.StartPoint().Row) + 1,
		}
		if body != nil {
			goWalkMethodBody(body, content, recvVar, s, &m)
			fm := metrics.ComputeFunction(body, grammar, 0, m.Name, content)
			m.CognitiveComplexity = fm.CognitiveComplexity
		}
		s.Methods = append(s.Methods, m)
	}
}

func goFields(structType *sitter.Node, content []byte) []Field {
	var fields []Field
	body := structType.ChildByFieldName("body")
	if body == nil {
		return fields
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		decl := body.Child(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		for j := 0; j < int(decl.ChildCount()); j++ {
			n := decl.Child(j)
			if n.Type() != "field_identifier" {
				continue
			}
			name := text(n, content)
			fields = append(fields, Field{Name: name, Private: !isExportedGoName(name)})
		}
	}
	return fields
}

func goReceiver(receiver *sitter.Node, content []byte) (recvVar, recvType string) {
	if receiver == nil {
		return "", ""
	}
	for i := 0; i < int(receiver.ChildCount()); i++ {
		param := receiver.Child(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		for j := 0; j < int(param.ChildCount()); j++ {
			n := param.Child(j)
			switch n.Type() {
			case "identifier":
				recvVar = text(n, content)
			case "type_identifier":
				recvType = text(n, content)
			case "pointer_type":
				for k := 0; k < int(n.ChildCount()); k++ {
					if n.Child(k).Type() == "type_identifier" {
						recvType = text(n.Child(k), content)
					}
				}
			}
		}
	}
	return recvVar, recvType
}

// goWalkMethodBody records field accesses (recvVar.field), sibling-method
// calls (recvVar.Method(...)), and external references (a selector on any
// identifier other than the receiver, e.g. fmt.Println, or a bare
// identifier call) within one method body.
func goWalkMethodBody(body *sitter.Node, content []byte, recvVar string, s *Scope, m *Method) {
	fieldNames := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		fieldNames[f.Name] = true
	}

	walk(body, func(n *sitter.Node) bool {
		switch n.Type() {
		case "selector_expression":
			operand := n.ChildByFieldName("operand")
			field := n.ChildByFieldName("field")
			if operand == nil || field == nil {
				return true
			}
			if recvVar == "" || text(operand, content) != recvVar {
				if operand.Type() == "identifier" {
					m.ExternalRefs[text(n, content)] = true
				}
				return true
			}
			name := text(field, content)
			parent := n.Parent()
			if parent != nil && parent.Type() == "call_expression" {
				if callFn := parent.ChildByFieldName("function"); callFn == n {
					m.Calls[name] = true
					return true
				}
			}
			if fieldNames[name] {
				m.FieldAccess[name] = true
			}
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "identifier" {
				name := text(fn, content)
				if name != m.Name {
					m.ExternalRefs[name] = true
				}
			}
		}
		return true
	})
}

func isExportedGoName(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}
