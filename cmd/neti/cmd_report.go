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
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neti-lang/neti/internal/audit"
	"github.com/neti-lang/neti/internal/discovery"
	"github.com/neti-lang/neti/internal/engine"
	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/report"
)

const defaultReportFilename = "neti-report.txt"

// runReport runs scan, locality, and the consolidation audit together,
// renders a combined console report, and writes the fixed-filename
// plain-text log when --log-file is set (or always, using the default
// name, to match the verifier collaborator's expectations).
func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}
	root := targetPath(args)

	eng := engine.New(cfg)
	scanReport, err := eng.Scan(cmd.Context(), root)
	if err != nil {
		return &exitError{code: exitIOError, err: err}
	}

	localityResult, err := eng.Locality(cmd.Context(), root)
	if err != nil {
		return &exitError{code: exitIOError, err: err}
	}

	files, _ := discovery.Discover(cmd.Context(), root, discovery.Config{})
	auditCfg := audit.DefaultConfig()
	auditCfg.MaxOpportunities = maxOpps
	auditResult := audit.Run(cmd.Context(), langs.DefaultRegistry(), files, auditCfg)

	commandResults := runConfiguredCommands(cfg.Commands)

	report.RenderConsole(os.Stdout, scanReport)
	report.RenderLocalitySection(os.Stdout, localityResult)
	report.RenderAuditSection(os.Stdout, &auditResult)
	report.RenderExternalCommandsSection(os.Stdout, commandResults)

	path := logFile
	if path == "" {
		path = defaultReportFilename
	}
	if f, err := os.Create(path); err == nil {
		defer f.Close()
		report.RenderPlainText(f, scanReport)
		report.RenderLocalitySection(f, localityResult)
		report.RenderAuditSection(f, &auditResult)
		report.RenderExternalCommandsSection(f, commandResults)
	}

	allCommandsPassed := true
	for _, ok := range commandResults {
		if !ok {
			allCommandsPassed = false
		}
	}
	localityBlocks := localityResult != nil && localityResult.Report.Blocks
	if scanReport.HasBlockingViolations() || localityBlocks || !allCommandsPassed {
		return &exitError{code: exitScanFailed, err: fmt.Errorf("report found blocking conditions")}
	}
	return nil
}

// runConfiguredCommands executes each "commands" entry as a shell
// pipeline, opaque to the core: the core only records pass/fail.
func runConfiguredCommands(commands map[string][]string) map[string]bool {
	results := make(map[string]bool, len(commands))
	for name, steps := range commands {
		ok := true
		for _, step := range steps {
			parts := strings.Fields(step)
			if len(parts) == 0 {
				continue
			}
			if err := exec.Command(parts[0], parts[1:]...).Run(); err != nil {
				ok = false
				break
			}
		}
		results[name] = ok
	}
	return results
}
