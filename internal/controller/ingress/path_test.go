// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package ingress

import "testing"

func TestEscapePath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "/api/v1", `/api/v1`},
		{"dot", "/v1.0/status", `/v1\.0/status`},
		{"backslash_first", `a\b`, `a\\b`},
		{"every_metacharacter", `\*+?{}()[]^$-|.`, `\\\*\+\?\{\}\(\)\[\]\^\$\-\|\.`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := escapePath(tc.in)
			if got != tc.want {
				t.Errorf("escapePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEscapePathBackslashOrdering(t *testing.T) {
	// If backslash were escaped after another metacharacter, the
	// backslash introduced by that earlier escape would itself get
	// re-escaped, doubling it again.
	got := escapePath(`a.b`)
	want := `a\.b`
	if got != want {
		t.Fatalf("escapePath(%q) = %q, want %q", `a.b`, got, want)
	}
}
