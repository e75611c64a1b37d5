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

	"github.com/spf13/cobra"

	"github.com/neti-lang/neti/internal/config"
	"github.com/neti-lang/neti/internal/engine"
	"github.com/neti-lang/neti/internal/report"
)

func runLocality(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}

	eng := engine.New(cfg)
	res, err := eng.Locality(cmd.Context(), targetPath(args))
	if err != nil {
		return &exitError{code: exitIOError, err: err}
	}

	report.RenderLocalitySection(os.Stdout, res)

	if res != nil && res.Report.Blocks && cfg.Locality.Mode == config.LocalityError {
		return &exitError{code: exitScanFailed, err: fmt.Errorf("locality check failed in error mode")}
	}
	return nil
}
