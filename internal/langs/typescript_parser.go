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
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser implements Parser for TypeScript/JavaScript source.
type TypeScriptParser struct {
	maxFileSize int64
}

// NewTypeScriptParser returns a TypeScriptParser with default limits.
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{maxFileSize: DefaultMaxFileSize}
}

func (p *TypeScriptParser) Language() string     { return "typescript" }
func (p *TypeScriptParser) Extensions() []string { return []string{".ts", ".tsx", ".js", ".jsx"} }

func (p *TypeScriptParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
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
	parser.SetLanguage(typescript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	result := &ParseResult{
		FilePath:      filePath,
		Language:      "typescript",
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
	p.extractFunctions(root, content, filePath, result)
	p.extractClasses(root, content, filePath, result)

	return result, nil
}

func (p *TypeScriptParser) extractImports(root *sitter.Node, content []byte, result *ParseResult) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "import_statement" {
			return true
		}
		sourceNode := n.ChildByFieldName("source")
		if sourceNode != nil {
			result.Imports = append(result.Imports, Import{
				Path: strings.Trim(text(sourceNode, content), "\"'`"),
				Line: int(n.StartPoint().Row) + 1,
			})
		}
		return false
	})
}

func (p *TypeScriptParser) extractFunctions(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := text(nameNode, content)
			result.Symbols = append(result.Symbols, &Symbol{
				ID:         GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
				Name:       name,
				Kind:       KindFunction,
				Visibility: VisibilityPublic,
				Location:   nodeLocation(n, filePath),
				Params:     countTSParams(n.ChildByFieldName("parameters")),
			})
		case "method_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := text(nameNode, content)
			owner := enclosingClassName(n, content)
			result.Symbols = append(result.Symbols, &Symbol{
				ID:         GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
				Name:       name,
				Kind:       KindMethod,
				Visibility: tsVisibility(n, content),
				Location:   nodeLocation(n, filePath),
				Receiver:   owner,
				Params:     countTSParams(n.ChildByFieldName("parameters")),
			})
		}
		return true
	})
}

func (p *TypeScriptParser) extractClasses(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "class_declaration" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		name := text(nameNode, content)
		result.Symbols = append(result.Symbols, &Symbol{
			ID:         GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
			Name:       name,
			Kind:       KindStruct,
			Visibility: VisibilityPublic,
			Location:   nodeLocation(n, filePath),
		})
		return true
	})
}

func enclosingClassName(n *sitter.Node, content []byte) string {
	cur := n.Parent()
	for cur != nil {
		if cur.Type() == "class_declaration" || cur.Type() == "class" {
			nameNode := cur.ChildByFieldName("name")
			if nameNode != nil {
				return text(nameNode, content)
			}
		}
		cur = cur.Parent()
	}
	return ""
}

func tsVisibility(method *sitter.Node, content []byte) Visibility {
	for i := 0; i < int(method.ChildCount()); i++ {
		c := method.Child(i)
		if c.Type() == "accessibility_modifier" {
			mod := text(c, content)
			if mod == "private" || mod == "protected" {
				return VisibilityPrivate
			}
		}
	}
	return VisibilityPublic
}

func countTSParams(params *sitter.Node) int {
	if params == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		switch params.Child(i).Type() {
		case "required_parameter", "optional_parameter", "identifier":
			count++
		}
	}
	return count
}
