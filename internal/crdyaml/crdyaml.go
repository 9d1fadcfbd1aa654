// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package crdyaml embeds the CloudflaredTunnel CustomResourceDefinition
// manifest so the CLI can print it without a cluster connection.
package crdyaml

import _ "embed"

//go:embed cloudflaredtunnels.yaml
var CloudflaredTunnel []byte
