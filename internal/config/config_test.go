// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasDocumentedThresholds(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8000, cfg.MaxFileTokens)
	assert.Equal(t, 15, cfg.MaxCognitiveComplexity)
	assert.Equal(t, LocalityWarn, cfg.Locality.Mode)
}

func TestLoad_InvalidLocalityModeFailsAtLoadTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neti.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locality:\n  mode: sideways\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidRegexFailsAtLoadTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neti.yaml")
	require.NoError(t, os.WriteFile(path, []byte("include_patterns:\n  - \"(unclosed\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_AppliesOverridesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neti.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_tokens: 2000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.MaxFileTokens)
	assert.Equal(t, 15, cfg.MaxCognitiveComplexity) // untouched default survives
}

func TestMatchesInclude_EmptyMeansIncludeEverything(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.MatchesInclude("anything.go"))
}
