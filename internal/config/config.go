// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the YAML configuration that parameterizes every
// threshold, mode, and path pattern the core consults.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// LocalityMode gates how seriously the locality check is taken.
type LocalityMode string

const (
	LocalityOff   LocalityMode = "off"
	LocalityWarn  LocalityMode = "warn"
	LocalityError LocalityMode = "error"
)

// UnmarshalYAML validates the mode against the fixed {off,warn,error} set.
func (m *LocalityMode) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch LocalityMode(raw) {
	case LocalityOff, LocalityWarn, LocalityError:
		*m = LocalityMode(raw)
		return nil
	default:
		return fmt.Errorf("locality.mode: invalid value %q, want one of off/warn/error", raw)
	}
}

// LocalityConfig groups the locality/dependency-graph check's options.
type LocalityConfig struct {
	Mode             LocalityMode `yaml:"mode"`
	MaxDistance      int          `yaml:"max_distance"`
	Hubs             []string     `yaml:"hubs"`
	ExemptionPatterns []string    `yaml:"exemption_patterns"`
}

// SafetyConfig groups the unsafe/escape-hatch options.
type SafetyConfig struct {
	BanUnsafe            bool `yaml:"ban_unsafe"`
	RequireSafetyComment bool `yaml:"require_safety_comment"`
}

// Config is the top-level configuration object covering every
// externally tunable option the CLI exposes.
type Config struct {
	MaxFileTokens          int      `yaml:"max_file_tokens"`
	MaxCognitiveComplexity int      `yaml:"max_cognitive_complexity"`
	MaxCyclomaticComplexity int     `yaml:"max_cyclomatic_complexity"`
	MaxNestingDepth        int      `yaml:"max_nesting_depth"`
	MaxFunctionArgs        int      `yaml:"max_function_args"`
	MaxFunctionWords       int      `yaml:"max_function_words"`
	MaxLCOM4               int      `yaml:"max_lcom4"`
	MinAHF                 float64  `yaml:"min_ahf"`
	MaxCBO                 int      `yaml:"max_cbo"`
	MaxSFOUT               int      `yaml:"max_sfout"`
	Safety                 SafetyConfig    `yaml:"safety"`
	Locality               LocalityConfig  `yaml:"locality"`
	IgnoreTokensOn         []string `yaml:"ignore_tokens_on"`
	IgnoreNamingOn         []string `yaml:"ignore_naming_on"`
	IncludePatterns        []string `yaml:"include_patterns"`
	ExcludePatterns        []string `yaml:"exclude_patterns"`
	SkipPathSubstrings     []string `yaml:"skip_path_substrings"`
	Commands               map[string][]string `yaml:"commands"`
	Preferences            map[string]string   `yaml:"preferences"`

	compiledInclude []*regexp.Regexp
	compiledExclude []*regexp.Regexp
}

// Default returns a Config populated with the documented default
// thresholds.
func Default() *Config {
	return &Config{
		MaxFileTokens:           8000,
		MaxCognitiveComplexity:  15,
		MaxCyclomaticComplexity: 10,
		MaxNestingDepth:         4,
		MaxFunctionArgs:         5,
		MaxFunctionWords:        6,
		MaxLCOM4:                1,
		MinAHF:                  50,
		MaxCBO:                  10,
		MaxSFOUT:                8,
		Safety:                  SafetyConfig{},
		Locality: LocalityConfig{
			Mode:        LocalityWarn,
			MaxDistance: 4,
		},
		SkipPathSubstrings: []string{"/cmd/", "/ui/", "/cli/", "_test.go", "/test/", "/tests/"},
	}
}

// Load reads and parses a YAML configuration file. Values in the file
// override those of Default(); every field the file omits keeps its
// default. Include/exclude patterns are compiled here. Configuration
// errors fail at load time with a user-facing message; no scan runs on
// error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.compile(); err != nil {
		return nil, fmt.Errorf("compiling config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) compile() error {
	for _, p := range c.IncludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("include_patterns %q: %w", p, err)
		}
		c.compiledInclude = append(c.compiledInclude, re)
	}
	for _, p := range c.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("exclude_patterns %q: %w", p, err)
		}
		c.compiledExclude = append(c.compiledExclude, re)
	}
	return nil
}

// MatchesInclude reports whether path matches an include pattern, or
// true when no include patterns are configured (include-everything).
func (c *Config) MatchesInclude(path string) bool {
	if len(c.compiledInclude) == 0 {
		return true
	}
	for _, re := range c.compiledInclude {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// MatchesExclude reports whether path matches any exclude pattern.
func (c *Config) MatchesExclude(path string) bool {
	for _, re := range c.compiledExclude {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
