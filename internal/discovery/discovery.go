// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package discovery implements the file-discovery protocol: directory
// walk, pruning, binary/secret exclusion, and a preference for git's
// tracked-files listing when available.
package discovery

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

var prunedDirNames = map[string]bool{
	".git": true, "node_modules": true, "dist": true, "build": true,
	"target": true, ".venv": true, "venv": true, "__tests__": true,
	"vendor": true, ".idea": true, ".vscode": true,
}

var binaryLikeExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".o": true, ".a": true,
	".pdf": true, ".mp4": true, ".mp3": true, ".wasm": true,
}

var secretLikeNames = map[string]bool{
	".env": true, "id_rsa": true, "id_ed25519": true, "id_dsa": true,
}

var secretLikeSuffixes = []string{".pem", ".key", ".p12", ".pfx"}

// codeExtensions are retained by default; callers may extend via Config.
var defaultCodeExtensions = map[string]bool{
	".go": true, ".py": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
}

var namedCodeFiles = map[string]bool{
	"Makefile": true, "Dockerfile": true, "CMakeLists.txt": true,
}

// Config parameterizes discovery beyond the hardcoded defaults above.
type Config struct {
	ExtraCodeExtensions []string
	IgnoreDirective     string // default "slopchop:ignore"
}

// Result is one discovered file: its path and content.
type Result struct {
	Path    string
	Content []byte
}

// Stats tracks discovery-time I/O failures; these are counted and
// reported but never abort a scan.
type Stats struct {
	InaccessibleCount int
}

const defaultIgnoreDirective = "slopchop:ignore"

// Discover walks root, applying pruning/exclusion/inclusion rules, and
// returns the retained files plus a Stats summary of I/O failures. It
// prefers git's tracked-files listing when root is inside a repository.
func Discover(ctx context.Context, root string, cfg Config) ([]Result, Stats) {
	var stats Stats
	codeExt := make(map[string]bool, len(defaultCodeExtensions)+len(cfg.ExtraCodeExtensions))
	for k := range defaultCodeExtensions {
		codeExt[k] = true
	}
	for _, e := range cfg.ExtraCodeExtensions {
		codeExt[e] = true
	}
	ignoreDirective := cfg.IgnoreDirective
	if ignoreDirective == "" {
		ignoreDirective = defaultIgnoreDirective
	}

	var candidates []string
	if tracked, ok := gitTrackedFiles(ctx, root); ok {
		candidates = tracked
	} else {
		candidates = walkTree(root, &stats)
	}

	results := make([]Result, 0, len(candidates))
	for _, path := range candidates {
		if !shouldRetain(path, codeExt) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			stats.InaccessibleCount++
			continue
		}
		if isIgnoredByDirective(content, ignoreDirective) {
			continue
		}
		results = append(results, Result{Path: path, Content: content})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, stats
}

func walkTree(root string, stats *Stats) []string {
	var paths []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			stats.InaccessibleCount++
			return nil
		}
		if info.IsDir() {
			if prunedDirNames[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths
}

func gitTrackedFiles(ctx context.Context, root string) ([]string, bool) {
	cmd := exec.CommandContext(ctx, "git", "-C", root, "ls-files")
	out, err := cmd.Output()
	if err != nil {
		return nil, false
	}
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, filepath.Join(root, line))
	}
	return paths, true
}

func shouldRetain(path string, codeExt map[string]bool) bool {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	if binaryLikeExtensions[ext] {
		return false
	}
	if secretLikeNames[base] {
		return false
	}
	for _, suffix := range secretLikeSuffixes {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}

	if codeExt[ext] {
		return true
	}
	if namedCodeFiles[base] {
		return true
	}
	return hasShebang(path)
}

func hasShebang(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 2)
	n, _ := f.Read(buf)
	return n == 2 && buf[0] == '#' && buf[1] == '!'
}

func isIgnoredByDirective(content []byte, directive string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for i := 0; i < 5 && scanner.Scan(); i++ {
		if strings.Contains(scanner.Text(), directive) {
			return true
		}
	}
	return false
}
