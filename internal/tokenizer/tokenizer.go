// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tokenizer provides BPE token counting used to size pattern
// detector windows and fingerprint inputs consistently across languages.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

var (
	shared     *tiktoken.Tiktoken
	sharedOnce sync.Once
	sharedErr  error
)

// Shared returns the process-wide tokenizer encoding, initialized once and
// safe to call from any goroutine. If cl100k_base cannot be loaded the
// error is cached and every caller receives it.
func Shared() (*tiktoken.Tiktoken, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = tiktoken.GetEncoding(fallbackEncoding)
	})
	return shared, sharedErr
}

// ForModel returns an encoding tuned for model, falling back to the shared
// cl100k_base encoding when the model name is unrecognized (e.g. a local
// Ollama alias with no registered BPE table).
func ForModel(model string) (*tiktoken.Tiktoken, error) {
	if model == "" {
		return Shared()
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return Shared()
	}
	return enc, nil
}

// Count returns the number of BPE tokens in s using the shared encoding.
// A tokenizer failure degrades to a byte-length estimate (estimateTokens)
// rather than aborting the caller's analysis.
func Count(s string) int {
	enc, err := Shared()
	if err != nil {
		return estimateTokens(s)
	}
	return len(enc.Encode(s, nil, nil))
}

// CountWithModel is like Count but uses the encoding appropriate for model.
func CountWithModel(s, model string) int {
	enc, err := ForModel(model)
	if err != nil {
		return estimateTokens(s)
	}
	return len(enc.Encode(s, nil, nil))
}

// estimateTokens approximates token count at ~4 bytes/token when no
// tokenizer is available, matching the heuristic used for truncation
// fallback elsewhere in the pipeline.
func estimateTokens(s string) int {
	n := len(s) / 4
	if n == 0 && len(s) > 0 {
		n = 1
	}
	return n
}
