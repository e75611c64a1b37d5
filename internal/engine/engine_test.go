// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neti-lang/neti/internal/config"
)

func TestScan_FlagsOverComplexFunction(t *testing.T) {
	dir := t.TempDir()
	src := `package main

func deeplyNested(a, b, c int) int {
	if a > 0 {
		if b > 0 {
			if c > 0 {
				if a > b {
					if b > c {
						if a > c {
							return a + b + c
						}
					}
				}
			}
		}
	}
	return 0
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	cfg := config.Default()
	e := New(cfg)
	rep, err := e.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, rep.Files, 1)
	assert.True(t, rep.HasBlockingViolations())
	assert.NotEmpty(t, rep.ID)
}

func TestScan_CleanFileHasNoViolations(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	e := New(config.Default())
	rep, err := e.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, rep.HasBlockingViolations())
}

func TestScan_SuppressesViolationWithTrailingAllowComment(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nvar counter int // neti:allow(S01)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	e := New(config.Default())
	rep, err := e.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, rep.Files, 1)
	for _, v := range rep.Files[0].Violations {
		assert.NotEqual(t, "S01", v.RuleCode)
	}
}

func TestScan_UnsuppressedViolationStillReported(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nvar counter int\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	e := New(config.Default())
	rep, err := e.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, rep.Files, 1)
	found := false
	for _, v := range rep.Files[0].Violations {
		if v.RuleCode == "S01" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScan_EmptyDirectoryProducesEmptyReport(t *testing.T) {
	dir := t.TempDir()
	e := New(config.Default())
	rep, err := e.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, rep.Files)
	assert.Equal(t, 0, rep.TotalViolations())
}
