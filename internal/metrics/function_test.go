// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"

	"github.com/neti-lang/neti/internal/langs"
)

func parseGoFunc(t *testing.T, src string) (*sitter.Node, *langs.Grammar, []byte) {
	t.Helper()
	grammar := langs.DefaultRegistry().Lookup("x.go")
	require.NotNil(t, grammar)
	res, err := grammar.Parser.Parse(context.Background(), []byte(src), "x.go")
	require.NoError(t, err)
	t.Cleanup(res.Close)

	var fn *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || fn != nil {
			return
		}
		if n.Type() == "function_declaration" {
			fn = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(res.Root)
	require.NotNil(t, fn, "expected a function_declaration in source")
	return fn.ChildByFieldName("body"), grammar, res.Content
}

func TestComputeFunction_LogicalOperatorChainAddsPastFirst(t *testing.T) {
	src := `package p
func f(a, b, c bool) bool {
	if a && b && c {
		return true
	}
	return false
}`
	body, grammar, content := parseGoFunc(t, src)
	fm := ComputeFunction(body, grammar, 3, "f", content)
	// if_statement: +1 structural (depth 0) = 1; second && is a
	// continuation of the chain: +1 flat. Cognitive starts at 0, so 2.
	require.Equal(t, 2, fm.CognitiveComplexity)
}

func TestComputeFunction_SingleConditionNoChainBonus(t *testing.T) {
	src := `package p
func f(a bool) bool {
	if a {
		return true
	}
	return false
}`
	body, grammar, content := parseGoFunc(t, src)
	fm := ComputeFunction(body, grammar, 1, "f", content)
	require.Equal(t, 1, fm.CognitiveComplexity)
}

func TestComputeFunction_LabeledBreakAddsFlatIncrement(t *testing.T) {
	src := `package p
func f() {
outer:
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			if j == 5 {
				break outer
			}
		}
	}
}`
	body, grammar, content := parseGoFunc(t, src)
	fm := ComputeFunction(body, grammar, 0, "f", content)
	// outer for (depth 0, +1), inner for (depth 1, +2), if (depth 2, +3),
	// labeled break (+1 flat) = 7.
	require.Equal(t, 7, fm.CognitiveComplexity)
}

func TestComputeFunction_UnlabeledBreakNoBonus(t *testing.T) {
	src := `package p
func f() {
	for i := 0; i < 10; i++ {
		if i == 5 {
			break
		}
	}
}`
	body, grammar, content := parseGoFunc(t, src)
	fm := ComputeFunction(body, grammar, 0, "f", content)
	// for (depth 0, +1), if (depth 1, +2) = 3, no label bonus.
	require.Equal(t, 3, fm.CognitiveComplexity)
}

func TestComputeFunction_SelfRecursionAddsFlatIncrement(t *testing.T) {
	src := `package p
func fact(n int) int {
	if n <= 1 {
		return 1
	}
	return n * fact(n-1)
}`
	body, grammar, content := parseGoFunc(t, src)
	fm := ComputeFunction(body, grammar, 1, "fact", content)
	// if (depth 0, +1) + recursive call (+1 flat) = 2.
	require.Equal(t, 2, fm.CognitiveComplexity)
}

func TestComputeFunction_CallToOtherFunctionNoBonus(t *testing.T) {
	src := `package p
func f(n int) int {
	return helper(n)
}`
	body, grammar, content := parseGoFunc(t, src)
	fm := ComputeFunction(body, grammar, 1, "f", content)
	require.Equal(t, 0, fm.CognitiveComplexity)
}
