// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/report"
)

func parseGo(t *testing.T, src string) Context {
	t.Helper()
	reg := langs.DefaultRegistry()
	grammar := reg.Lookup("x.go")
	require.NotNil(t, grammar)
	res, err := grammar.Parser.Parse(context.Background(), []byte(src), "x.go")
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return Context{FilePath: "x.go", Content: res.Content, Root: res.Root, Grammar: grammar}
}

func TestDetectGlobalMutable_FlagsUnexportedPackageVar(t *testing.T) {
	ctx := parseGo(t, "package main\n\nvar counter int\n")
	violations := DetectGlobalMutable(ctx)
	require.Len(t, violations, 1)
	require.Equal(t, "S01", violations[0].RuleCode)
}

func TestDetectGlobalMutable_SkipsExportedVar(t *testing.T) {
	ctx := parseGo(t, "package main\n\nvar Counter int\n")
	require.Empty(t, DetectGlobalMutable(ctx))
}

func TestDetectExportedGlobalMutable_FlagsExportedVar(t *testing.T) {
	ctx := parseGo(t, "package main\n\nvar Counter int\n")
	violations := DetectExportedGlobalMutable(ctx)
	require.Len(t, violations, 1)
	require.Equal(t, "S02", violations[0].RuleCode)
}

func TestDetectLazyMutableGlobal_FlagsSyncOnce(t *testing.T) {
	ctx := parseGo(t, "package main\n\nimport \"sync\"\n\nvar once sync.Once\n")
	violations := DetectLazyMutableGlobal(ctx)
	require.Len(t, violations, 1)
	require.Equal(t, "S03", violations[0].RuleCode)
}

func TestDetectUnsafeUsage_BanModeFlagsEveryUse(t *testing.T) {
	ctx := parseGo(t, "package main\n\nimport \"unsafe\"\n\nfunc f() { _ = unsafe.Pointer(nil) }\n")
	ctx.Config.BanUnsafe = true
	violations := DetectUnsafeUsage(ctx)
	require.Len(t, violations, 1)
	require.Equal(t, report.ConfidenceHigh, violations[0].Confidence)
}

func TestDetectUnsafeUsage_JustifyModeAllowsSafetyComment(t *testing.T) {
	src := "package main\n\nimport \"unsafe\"\n\nfunc f() {\n\t// SAFETY: reviewed\n\t_ = unsafe.Pointer(nil)\n}\n"
	ctx := parseGo(t, src)
	ctx.Config.RequireSafetyComment = true
	require.Empty(t, DetectUnsafeUsage(ctx))
}

func TestNamingCheck_FlagsOverlongIdentifiers(t *testing.T) {
	ctx := parseGo(t, "package main\n\nfunc getUserAccountBalanceFromRemoteDatabase() {}\n")
	violations := NamingCheck(ctx, 3)
	require.Len(t, violations, 1)
}

func TestNamingCheck_AllowsShortIdentifiers(t *testing.T) {
	ctx := parseGo(t, "package main\n\nfunc getUser() {}\n")
	require.Empty(t, NamingCheck(ctx, 3))
}

func TestDetectDuplicateStatementBlocks_FlagsRepeatedIfElseArm(t *testing.T) {
	src := `package main

func f(cond bool) int {
	if cond {
		a := 1
		b := 2
		c := 3
		d := 4
		return a + b + c + d
	} else {
		a := 1
		b := 2
		c := 3
		d := 4
		return a + b + c + d
	}
}
`
	ctx := parseGo(t, src)
	violations := DetectDuplicateStatementBlocks(ctx)
	require.Len(t, violations, 1)
	require.Equal(t, "D01", violations[0].RuleCode)
}

func TestDetectDuplicateStatementBlocks_NoDuplicateNoViolation(t *testing.T) {
	src := `package main

func f(cond bool) int {
	if cond {
		a := 1
		b := 2
		return a + b
	}
	c := 3
	d := 4
	return c - d
}
`
	ctx := parseGo(t, src)
	require.Empty(t, DetectDuplicateStatementBlocks(ctx))
}
