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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neti-lang/neti/internal/engine"
	"github.com/neti-lang/neti/internal/report"
)

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}

	eng := engine.New(cfg)
	scanReport, err := eng.Scan(cmd.Context(), targetPath(args))
	if err != nil {
		return &exitError{code: exitIOError, err: err}
	}

	if err := emitScan(scanReport); err != nil {
		return &exitError{code: exitIOError, err: err}
	}

	if scanReport.HasBlockingViolations() {
		return &exitError{code: exitScanFailed, err: fmt.Errorf("scan found blocking violations")}
	}
	return nil
}

func emitScan(scanReport *report.ScanReport) error {
	if jsonOut {
		data, err := json.MarshalIndent(scanReport, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		report.RenderConsole(os.Stdout, scanReport)
	}
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		report.RenderPlainText(f, scanReport)
	}
	return nil
}
