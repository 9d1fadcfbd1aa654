// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package ingress

import "strings"

// metacharacters are the cloudflared path-pattern characters that must be
// backslash-escaped to match literally. Order matters: backslash itself is
// escaped first, or every other escape introduced below would be re-escaped.
var metacharacters = []string{`\`, `*`, `+`, `?`, `{`, `}`, `(`, `)`, `[`, `]`, `^`, `$`, `-`, `|`, `.`}

// escapePath backslash-escapes every cloudflared path metacharacter in p so
// the resulting pattern matches p literally.
func escapePath(p string) string {
	out := p
	for _, c := range metacharacters {
		out = strings.ReplaceAll(out, c, `\`+c)
	}
	return out
}
