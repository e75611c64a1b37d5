// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFileSet_IndexesDottedModulePath(t *testing.T) {
	fs := BuildFileSet("/repo", []string{"/repo/pkg/util/helper.go"})
	target, ok := fs.Resolve("/repo/cmd/main.go", "pkg.util.helper")
	assert.True(t, ok)
	assert.Equal(t, "/repo/pkg/util/helper.go", target)
}

func TestResolve_RelativeImportProbesExtensions(t *testing.T) {
	fs := BuildFileSet("/repo", []string{"/repo/pkg/sibling.py"})
	target, ok := fs.Resolve("/repo/pkg/main.py", "./sibling")
	assert.True(t, ok)
	assert.Equal(t, "/repo/pkg/sibling.py", target)
}

func TestResolve_UnresolvableImportReturnsFalse(t *testing.T) {
	fs := BuildFileSet("/repo", []string{"/repo/pkg/util/helper.go"})
	_, ok := fs.Resolve("/repo/cmd/main.go", "totally.unknown.module")
	assert.False(t, ok)
}

func TestResolve_ProgressiveSuffixStrippingFallback(t *testing.T) {
	fs := BuildFileSet("/repo", []string{"/repo/pkg/util.go"})
	target, ok := fs.Resolve("/repo/cmd/main.go", "pkg.util.SomeSymbol")
	assert.True(t, ok)
	assert.Equal(t, "/repo/pkg/util.go", target)
}

func TestResolveAll_DropsUnresolvedAndSelfEdges(t *testing.T) {
	fs := BuildFileSet("/repo", []string{"/repo/a.go", "/repo/b.go"})
	edges := ResolveAll(fs, "/repo/a.go", []string{"a", "b", "nowhere.module"})
	assert.Len(t, edges, 1)
	assert.Equal(t, Edge{From: "/repo/a.go", To: "/repo/b.go"}, edges[0])
}
