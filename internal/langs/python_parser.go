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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonParser implements Parser for Python source.
type PythonParser struct {
	maxFileSize int64
}

// NewPythonParser returns a PythonParser with default limits.
func NewPythonParser() *PythonParser {
	return &PythonParser{maxFileSize: DefaultMaxFileSize}
}

func (p *PythonParser) Language() string     { return "python" }
func (p *PythonParser) Extensions() []string { return []string{".py"} }

func (p *PythonParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file", slog.String("file", filePath), slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w", ErrInvalidContent)
	}

	hash := sha256.Sum256(content)

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	result := &ParseResult{
		FilePath:      filePath,
		Language:      "python",
		Hash:          hex.EncodeToString(hash[:]),
		ParsedAtMilli: time.Now().UnixMilli(),
		Content:       content,
		Symbols:       make([]*Symbol, 0),
		Imports:       make([]Import, 0),
		Errors:        make([]string, 0),
		Tree:          tree,
	}

	root := tree.RootNode()
	result.Root = root
	if root == nil {
		result.Errors = append(result.Errors, "tree-sitter returned nil root node")
		return result, nil
	}
	if root.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	p.extractImports(root, content, result)
	p.extractDefs(root, content, filePath, "", result)

	return result, nil
}

func (p *PythonParser) extractImports(root *sitter.Node, content []byte, result *ParseResult) {
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.ChildCount()); i++ {
				c := n.Child(i)
				if c.Type() == "dotted_name" || c.Type() == "aliased_import" {
					result.Imports = append(result.Imports, Import{
						Path: text(c, content),
						Line: int(n.StartPoint().Row) + 1,
					})
				}
			}
			return false
		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			if moduleNode != nil {
				result.Imports = append(result.Imports, Import{
					Path: text(moduleNode, content),
					Line: int(n.StartPoint().Row) + 1,
				})
			}
			return false
		}
		return true
	})
}

// extractDefs walks top-level and class-nested function/class definitions.
// owner is the enclosing class name, or "" at module scope; methods get
// Kind=KindMethod with Receiver=owner, module functions get KindFunction.
func (p *PythonParser) extractDefs(node *sitter.Node, content []byte, filePath, owner string, result *ParseResult) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_definition":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			name := text(nameNode, content)
			kind := KindFunction
			if owner != "" {
				kind = KindMethod
			}
			params := child.ChildByFieldName("parameters")
			sym := &Symbol{
				ID:         GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
				Name:       name,
				Kind:       kind,
				Visibility: pythonVisibility(name),
				Location:   nodeLocation(child, filePath),
				Receiver:   owner,
				Params:     countPythonParams(params),
			}
			result.Symbols = append(result.Symbols, sym)
		case "class_definition":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			name := text(nameNode, content)
			sym := &Symbol{
				ID:         GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
				Name:       name,
				Kind:       KindStruct,
				Visibility: pythonVisibility(name),
				Location:   nodeLocation(child, filePath),
			}
			result.Symbols = append(result.Symbols, sym)
			body := child.ChildByFieldName("body")
			if body != nil {
				p.extractDefs(body, content, filePath, name, result)
			}
		case "decorated_definition":
			p.extractDefs(child, content, filePath, owner, result)
		}
	}
}

func pythonVisibility(name string) Visibility {
	if strings.HasPrefix(name, "_") {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

func countPythonParams(params *sitter.Node) int {
	if params == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		switch params.Child(i).Type() {
		case "identifier", "typed_parameter", "default_parameter", "typed_default_parameter":
			count++
		}
	}
	return count
}
