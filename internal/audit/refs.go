// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/deadcode"
)

// extractReferences walks each unit's body and records a caller->callee
// reference for every call expression found within it, feeding the
// dead-code reachability worklist.
func extractReferences(root *sitter.Node, content []byte, filePath string, units []Unit) []deadcode.Reference {
	var refs []deadcode.Reference
	for _, u := range units {
		node := unitNodeByKey(root, content, u)
		if node == nil {
			continue
		}
		var walk func(n *sitter.Node)
		walk = func(n *sitter.Node) {
			if n == nil {
				return
			}
			if n.Type() == "call_expression" {
				if callee := calleeName(n, content); callee != "" {
					refs = append(refs, deadcode.Reference{File: filePath, Caller: u.Name, Callee: callee})
				}
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
		}
		walk(node)
	}
	return refs
}

// unitNodeByKey relocates the AST node matching a unit's name and line
// span by a fresh depth-first search from the root.
func unitNodeByKey(root *sitter.Node, content []byte, u Unit) *sitter.Node {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if int(n.StartPoint().Row)+1 == u.StartLine {
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				if string(content[nameNode.StartByte():nameNode.EndByte()]) == u.Name {
					found = n
					return
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return found
}

func calleeName(call *sitter.Node, content []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return string(content[fn.StartByte():fn.EndByte()])
	case "selector_expression", "member_expression", "attribute":
		field := fn.ChildByFieldName("field")
		if field == nil {
			field = fn.ChildByFieldName("property")
		}
		if field == nil {
			field = fn.ChildByFieldName("attribute")
		}
		if field != nil {
			return string(content[field.StartByte():field.EndByte()])
		}
	}
	return ""
}
