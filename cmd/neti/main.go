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
	"context"
	"os"

	"github.com/neti-lang/neti/internal/logx"
)

func main() {
	shutdown := logx.InitTelemetry("neti")
	defer shutdown(context.Background())

	if err := rootCmd.Execute(); err != nil {
		logx.Default().Error("command failed", "error", err)
		os.Exit(exitCodeFor(err))
	}
}
