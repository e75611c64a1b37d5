// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDiscover_RetainsCodeExtensionsOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "logo.png", "not-really-a-png")

	results, _ := Discover(context.Background(), dir, Config{})
	assert.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "main.go"), results[0].Path)
}

func TestDiscover_PrunesVendorAndNodeModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "vendor/dep/dep.go", "package dep\n")
	writeFile(t, dir, "node_modules/pkg/index.js", "module.exports = {}\n")

	results, _ := Discover(context.Background(), dir, Config{})
	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	assert.Contains(t, paths, filepath.Join(dir, "main.go"))
	assert.NotContains(t, paths, filepath.Join(dir, "vendor/dep/dep.go"))
	assert.NotContains(t, paths, filepath.Join(dir, "node_modules/pkg/index.js"))
}

func TestDiscover_ExcludesSecretLikeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "SECRET=1\n")
	writeFile(t, dir, "server.pem", "----BEGIN----\n")
	writeFile(t, dir, "main.go", "package main\n")

	results, _ := Discover(context.Background(), dir, Config{})
	assert.Len(t, results, 1)
}

func TestDiscover_HonorsIgnoreDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skip.go", "// slopchop:ignore\npackage main\n")
	writeFile(t, dir, "keep.go", "package main\n")

	results, _ := Discover(context.Background(), dir, Config{})
	assert.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "keep.go"), results[0].Path)
}

func TestDiscover_RetainsShebangScripts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run", "#!/bin/bash\necho hi\n")

	results, _ := Discover(context.Background(), dir, Config{})
	assert.Len(t, results, 1)
}

func TestDiscover_ResultsAreSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.go", "package main\n")
	writeFile(t, dir, "a.go", "package main\n")

	results, _ := Discover(context.Background(), dir, Config{})
	require.Len(t, results, 2)
	assert.True(t, results[0].Path < results[1].Path)
}
