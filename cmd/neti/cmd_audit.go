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
	"os"

	"github.com/spf13/cobra"

	"github.com/neti-lang/neti/internal/audit"
	"github.com/neti-lang/neti/internal/discovery"
	"github.com/neti-lang/neti/internal/langs"
	"github.com/neti-lang/neti/internal/report"
)

func runAudit(cmd *cobra.Command, args []string) error {
	_, err := loadConfig()
	if err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}

	root := targetPath(args)
	files, _ := discovery.Discover(cmd.Context(), root, discovery.Config{})

	auditCfg := audit.DefaultConfig()
	auditCfg.MaxOpportunities = maxOpps
	res := audit.Run(cmd.Context(), langs.DefaultRegistry(), files, auditCfg)

	report.RenderAuditSection(os.Stdout, &res)
	return nil
}
