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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// DefaultMaxFileSize is the maximum file size a Parser will accept (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// WarnFileSize is the threshold at which a large-file warning is logged (1MB).
const WarnFileSize = 1 * 1024 * 1024

// ErrFileTooLarge is returned when input content exceeds the size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// ErrInvalidContent is returned when input content is not valid UTF-8.
var ErrInvalidContent = errors.New("content is not valid UTF-8")

// GoParser implements Parser for Go source, using tree-sitter with direct
// node traversal rather than compiled queries: traversal gives precise
// control over the receiver/field-access resolution the scope extractor
// needs and is easier to keep correct across grammar-version skew.
type GoParser struct {
	maxFileSize int64
}

// NewGoParser returns a GoParser with default limits.
func NewGoParser() *GoParser {
	return &GoParser{maxFileSize: DefaultMaxFileSize}
}

func (p *GoParser) Language() string     { return "go" }
func (p *GoParser) Extensions() []string { return []string{".go"} }

// Parse extracts imports, functions, methods, types (with struct fields), and top-level
// variables/constants from Go source. It is error-tolerant: syntactically
// invalid input yields a partial ParseResult with Errors populated rather
// than a non-nil error.
func (p *GoParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
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
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	result := &ParseResult{
		FilePath:      filePath,
		Language:      "go",
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

	p.extractImports(root, content, filePath, result)
	p.extractFunctions(root, content, filePath, result)
	p.extractMethods(root, content, filePath, result)
	p.extractTypes(root, content, filePath, result)
	p.extractTopLevelVars(root, content, filePath, result)

	return result, nil
}

func text(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}

func (p *GoParser) extractImports(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "import_spec" {
			return true
		}
		var path, alias string
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "interpreted_string_literal", "raw_string_literal":
				path = strings.Trim(text(c, content), "\"`")
			case "package_identifier", "dot", "blank_identifier":
				alias = text(c, content)
			}
		}
		if path != "" {
			result.Imports = append(result.Imports, Import{
				Path:  path,
				Alias: alias,
				Line:  int(n.StartPoint().Row) + 1,
			})
		}
		return true
	})
}

func (p *GoParser) extractFunctions(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "function_declaration" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, content)
		params := child.ChildByFieldName("parameters")
		sym := &Symbol{
			ID:       GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
			Name:     name,
			Kind:     KindFunction,
			Location: nodeLocation(child, filePath),
			Params:   countParams(params),
		}
		if isExportedGo(name) {
			sym.Visibility = VisibilityPublic
		} else {
			sym.Visibility = VisibilityPrivate
		}
		result.Symbols = append(result.Symbols, sym)
	}
}

func (p *GoParser) extractMethods(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "method_declaration" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := text(nameNode, content)
		receiver := child.ChildByFieldName("receiver")
		recvType := receiverTypeName(receiver, content)
		params := child.ChildByFieldName("parameters")
		sym := &Symbol{
			ID:       GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
			Name:     name,
			Kind:     KindMethod,
			Location: nodeLocation(child, filePath),
			Receiver: recvType,
			Params:   countParams(params),
		}
		if isExportedGo(name) {
			sym.Visibility = VisibilityPublic
		} else {
			sym.Visibility = VisibilityPrivate
		}
		result.Symbols = append(result.Symbols, sym)
	}
}

func receiverTypeName(receiver *sitter.Node, content []byte) string {
	if receiver == nil {
		return ""
	}
	var typeName string
	walk(receiver, func(n *sitter.Node) bool {
		switch n.Type() {
		case "type_identifier":
			typeName = text(n, content)
		}
		return true
	})
	return typeName
}

func (p *GoParser) extractTypes(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
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
			if nameNode == nil {
				continue
			}
			name := text(nameNode, content)
			kind := KindType
			if typeNode != nil {
				switch typeNode.Type() {
				case "struct_type":
					kind = KindStruct
				case "interface_type":
					kind = KindInterface
				}
			}
			sym := &Symbol{
				ID:       GenerateID(filePath, int(nameNode.StartPoint().Row)+1, name),
				Name:     name,
				Kind:     kind,
				Location: nodeLocation(spec, filePath),
			}
			if isExportedGo(name) {
				sym.Visibility = VisibilityPublic
			} else {
				sym.Visibility = VisibilityPrivate
			}
			result.Symbols = append(result.Symbols, sym)

			if kind == KindStruct && typeNode != nil {
				p.extractFields(typeNode, content, filePath, name, result)
			}
		}
	}
}

func (p *GoParser) extractFields(structType *sitter.Node, content []byte, filePath, ownerType string, result *ParseResult) {
	fieldList := structType.ChildByFieldName("body")
	if fieldList == nil {
		return
	}
	for i := 0; i < int(fieldList.ChildCount()); i++ {
		decl := fieldList.Child(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		for j := 0; j < int(decl.ChildCount()); j++ {
			n := decl.Child(j)
			if n.Type() != "field_identifier" {
				continue
			}
			name := text(n, content)
			sym := &Symbol{
				ID:       GenerateID(filePath, int(n.StartPoint().Row)+1, name),
				Name:     name,
				Kind:     KindField,
				Receiver: ownerType,
				Location: nodeLocation(decl, filePath),
			}
			if isExportedGo(name) {
				sym.Visibility = VisibilityPublic
			} else {
				sym.Visibility = VisibilityPrivate
			}
			result.Symbols = append(result.Symbols, sym)
		}
	}
}

func (p *GoParser) extractTopLevelVars(root *sitter.Node, content []byte, filePath string, result *ParseResult) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		var kind SymbolKind
		switch child.Type() {
		case "var_declaration":
			kind = KindVariable
		case "const_declaration":
			kind = KindConstant
		default:
			continue
		}
		walk(child, func(n *sitter.Node) bool {
			if n.Type() != "identifier" {
				return true
			}
			name := text(n, content)
			sym := &Symbol{
				ID:       GenerateID(filePath, int(n.StartPoint().Row)+1, name),
				Name:     name,
				Kind:     kind,
				Location: nodeLocation(n, filePath),
			}
			if isExportedGo(name) {
				sym.Visibility = VisibilityPublic
			} else {
				sym.Visibility = VisibilityPrivate
			}
			result.Symbols = append(result.Symbols, sym)
			return false
		})
	}
}

func countParams(params *sitter.Node) int {
	if params == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		if params.Child(i).Type() == "parameter_declaration" {
			// A single parameter_declaration may declare multiple names
			// sharing one type, e.g. "a, b int" -> 2 identifiers.
			decl := params.Child(i)
			names := 0
			for j := 0; j < int(decl.ChildCount()); j++ {
				if decl.Child(j).Type() == "identifier" {
					names++
				}
			}
			if names == 0 {
				names = 1
			}
			count += names
		}
	}
	return count
}

func isExportedGo(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func nodeLocation(n *sitter.Node, filePath string) Location {
	return Location{
		FilePath:  filePath,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		StartCol:  int(n.StartPoint().Column),
		EndCol:    int(n.EndPoint().Column),
	}
}

// walk performs a pre-order traversal of the tree rooted at n, calling fn
// for every node. If fn returns false, n's children are not visited.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}
