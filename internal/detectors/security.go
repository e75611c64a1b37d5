// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detectors

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/neti-lang/neti/internal/report"
)

var sqlVerbs = []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "DROP "}

// DetectSQLStringFormat is X01: a formatting macro whose content contains
// a SQL verb and an interpolation placeholder.
func DetectSQLStringFormat(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "interpreted_string_literal" && n.Type() != "raw_string_literal" && n.Type() != "string" {
			return true
		}
		t := text(n, ctx.Content)
		upper := strings.ToUpper(t)
		hasVerb := false
		for _, v := range sqlVerbs {
			if strings.Contains(upper, v) {
				hasVerb = true
				break
			}
		}
		if !hasVerb {
			return true
		}
		if strings.Contains(t, "%s") || strings.Contains(t, "%v") || strings.Contains(t, "{}") || strings.Contains(t, "${") {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "X01", Confidence: report.ConfidenceHigh,
				Message: "SQL string built via format interpolation",
			})
		}
		return true
	})
	return out
}

var shellInterpreters = map[string]bool{"sh": true, "bash": true, "cmd": true, "cmd.exe": true, "powershell": true}

// DetectProcessSpawn is X02: a process-spawn call whose executable
// argument is a variable.
func DetectProcessSpawn(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "call_expression" {
			return true
		}
		fn := n.ChildByFieldName("function")
		name := text(fn, ctx.Content)
		if !strings.Contains(name, "Command") && !strings.Contains(name, "exec.") && !strings.Contains(name, "subprocess") {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.ChildCount() == 0 {
			return true
		}
		firstArg := firstArgNode(args)
		if firstArg == nil || firstArg.Type() != "identifier" {
			return true
		}
		if isDeclaredConstant(firstArg, ctx.Content) || isInConfigLoadingFunction(firstArg, ctx.Content) {
			return true
		}
		argText := strings.ToLower(text(firstArg, ctx.Content))
		if shellInterpreters[argText] || hasShellFlag(args, ctx.Content) {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "X02", Confidence: report.ConfidenceHigh,
				Message: "Shell Injection: process spawned with a variable interpreter argument",
			})
			return true
		}
		out = append(out, report.Violation{
			Line: line(n), RuleCode: "X02", Confidence: report.ConfidenceMedium,
			Message: "process spawn executable argument has untrusted provenance",
			Reason:  "argument is a variable whose origin cannot be traced to a literal or allowlist",
		})
		return true
	})
	return out
}

func firstArgNode(args *sitter.Node) *sitter.Node {
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		if c.Type() != "(" && c.Type() != ")" && c.Type() != "," {
			return c
		}
	}
	return nil
}

func hasShellFlag(args *sitter.Node, content []byte) bool {
	t := text(args, content)
	return strings.Contains(t, "\"-c\"") || strings.Contains(t, "\"/C\"")
}

func isDeclaredConstant(n *sitter.Node, content []byte) bool {
	fnBody := ancestorOfType(n, "source_file")
	if fnBody == nil {
		return false
	}
	name := text(n, content)
	found := false
	walk(fnBody, func(c *sitter.Node) bool {
		if c.Type() == "const_declaration" && strings.Contains(text(c, content), name) {
			found = true
		}
		return true
	})
	return found
}

func isInConfigLoadingFunction(n *sitter.Node, content []byte) bool {
	fn := ancestorOfType(n, "function_declaration", "method_declaration", "function_definition")
	if fn == nil {
		return false
	}
	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return false
	}
	name := strings.ToLower(text(nameNode, content))
	return strings.Contains(name, "config") || strings.Contains(name, "loadconfig")
}

var secretNameHints = []string{"key", "secret", "token", "password", "auth"}
var placeholderValues = map[string]bool{
	"": true, "changeme": true, "xxx": true, "placeholder": true, "todo": true, "your-key-here": true,
}

// DetectHardcodedSecret is X03: a declaration whose name suggests a
// credential, bound to a non-trivial string literal.
func DetectHardcodedSecret(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "var_declaration" && n.Type() != "const_declaration" && n.Type() != "assignment" {
			return true
		}
		walkDeclPairs(n, ctx.Content, func(nameNode, valueNode *sitter.Node) {
			if nameNode == nil || valueNode == nil {
				return
			}
			name := strings.ToLower(text(nameNode, ctx.Content))
			matches := false
			for _, hint := range secretNameHints {
				if strings.Contains(name, hint) {
					matches = true
					break
				}
			}
			if !matches {
				return
			}
			if valueNode.Type() != "interpreted_string_literal" && valueNode.Type() != "raw_string_literal" && valueNode.Type() != "string" {
				return
			}
			val := strings.Trim(text(valueNode, ctx.Content), "\"'`")
			if len(val) < 6 || placeholderValues[strings.ToLower(val)] {
				return
			}
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "X03", Confidence: report.ConfidenceHigh,
				Message: "declaration name suggests a credential, bound to a literal string",
			})
		})
		return true
	})
	return out
}

func walkDeclPairs(n *sitter.Node, content []byte, fn func(nameNode, valueNode *sitter.Node)) {
	switch n.Type() {
	case "var_declaration", "const_declaration":
		walk(n, func(c *sitter.Node) bool {
			if c.Type() != "var_spec" && c.Type() != "const_spec" {
				return true
			}
			names := c.ChildByFieldName("name")
			value := c.ChildByFieldName("value")
			fn(names, value)
			return true
		})
	case "assignment":
		fn(n.ChildByFieldName("left"), n.ChildByFieldName("right"))
	}
}

// DetectLockAcrossAwait is C03: a lock acquisition that lexically spans a
// suspension point within an async function.
func DetectLockAcrossAwait(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "call_expression" {
			return true
		}
		fn := n.ChildByFieldName("function")
		name := text(fn, ctx.Content)
		if !strings.HasSuffix(name, "Lock") && !strings.HasSuffix(name, ".lock") {
			return true
		}
		enclosing := ancestorOfType(n, "function_declaration", "method_declaration", "function_definition")
		if enclosing == nil {
			return true
		}
		if !containsSuspensionAfter(enclosing, n, ctx.Content) {
			return true
		}
		if guardExplicitlyDropped(enclosing, n, ctx.Content) {
			return true
		}
		usesAsyncMutex := strings.Contains(string(ctx.Content), "tokio::sync::Mutex") || strings.Contains(string(ctx.Content), "asyncio.Lock")
		if usesAsyncMutex {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "C03", Confidence: report.ConfidenceMedium,
				Message: "lock held across a suspension point",
				Reason:  "async-mutex context detected; this causes head-of-line blocking rather than deadlock",
			})
		} else {
			out = append(out, report.Violation{
				Line: line(n), RuleCode: "C03", Confidence: report.ConfidenceHigh,
				Message: "sync mutex held across an await point risks deadlock",
			})
		}
		return true
	})
	return out
}

func containsSuspensionAfter(fn, lockCall *sitter.Node, content []byte) bool {
	found := false
	walk(fn, func(c *sitter.Node) bool {
		if c.StartByte() <= lockCall.StartByte() {
			return true
		}
		if strings.Contains(text(c, content), "await") {
			found = true
		}
		return true
	})
	return found
}

func guardExplicitlyDropped(fn, lockCall *sitter.Node, content []byte) bool {
	found := false
	walk(fn, func(c *sitter.Node) bool {
		if c.StartByte() <= lockCall.StartByte() {
			return true
		}
		t := text(c, content)
		if strings.Contains(t, "drop(") || strings.Contains(t, ".Unlock()") {
			found = true
		}
		return true
	})
	return found
}

// DetectUndocumentedMutexField is C04: a shared-ownership + mutex field
// without an adjacent doc comment.
func DetectUndocumentedMutexField(ctx Context) []report.Violation {
	var out []report.Violation
	walk(ctx.Root, func(n *sitter.Node) bool {
		if n.Type() != "field_declaration" {
			return true
		}
		t := text(n, ctx.Content)
		if !strings.Contains(t, "sync.Mutex") && !strings.Contains(t, "sync.RWMutex") && !strings.Contains(t, "Arc<Mutex") {
			return true
		}
		if hasPrecedingComment(n, ctx.Content) {
			return true
		}
		out = append(out, report.Violation{
			Line: line(n), RuleCode: "C04", Confidence: report.ConfidenceHigh,
			Message: "shared-ownership mutex field lacks an explanatory doc comment",
		})
		return true
	})
	return out
}

func hasPrecedingComment(n *sitter.Node, content []byte) bool {
	prev := n.PrevSibling()
	return prev != nil && prev.Type() == "comment"
}
