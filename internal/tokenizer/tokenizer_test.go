// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCount_Deterministic verifies count(s) == count(s).
func TestCount_Deterministic(t *testing.T) {
	s := "func main() { fmt.Println(\"hello world\") }"
	assert.Equal(t, Count(s), Count(s))
}

func TestCount_EmptyStringIsZero(t *testing.T) {
	assert.Equal(t, 0, Count(""))
}

func TestEstimateTokens_ScalesWithLength(t *testing.T) {
	short := estimateTokens("abcd")
	long := estimateTokens("abcdabcdabcdabcd")
	assert.Less(t, short, long)
}
