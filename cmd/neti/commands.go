// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"

	"github.com/neti-lang/neti/internal/config"
)

// --- Global flags ---
var (
	configPath string
	jsonOut    bool
	logFile    string
	maxOpps    int

	rootCmd = &cobra.Command{
		Use:   "neti",
		Short: "neti scans a repository for AST-proven violations, architectural locality issues, and consolidation opportunities",
	}

	scanCmd = &cobra.Command{
		Use:   "scan [path]",
		Short: "Run the per-file and whole-program analysis engine over a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}

	localityCmd = &cobra.Command{
		Use:   "locality [path]",
		Short: "Build and verify the dependency locality graph",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLocality,
	}

	auditCmd = &cobra.Command{
		Use:   "audit [path]",
		Short: "Run the consolidation audit: clustering, dead code, patterns, opportunities",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAudit,
	}

	reportCmd = &cobra.Command{
		Use:   "report [path]",
		Short: "Run scan, locality, and audit together and write the combined report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReport,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit the machine-readable JSON report instead of the console report")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write a plain-text report to this path (the report command writes neti-report.txt when this is unset)")
	reportCmd.Flags().IntVar(&maxOpps, "max-opportunities", 5, "maximum ranked opportunities to report")

	rootCmd.AddCommand(scanCmd, localityCmd, auditCmd, reportCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func targetPath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// exitError carries an implementation-defined exit code alongside the
// wrapped error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

const (
	exitScanFailed    = 1
	exitInvalidInput  = 2
	exitIOError       = 3
	exitPatchFailed   = 4
)

func exitCodeFor(err error) int {
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return 1
}
