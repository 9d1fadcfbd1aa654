// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package ingress

import "time"

// FieldManager is the server-side apply field manager for every object this
// controller owns. Unlike the Tunnel Controller, its apply of the
// synthesized CloudflaredTunnel uses force=false so a user who hand-edits
// the CR keeps their overrides on the next Ingress-driven reconcile.
const FieldManager = "cloudflared-ingress.chalharu.top"

// requeueAfterSuccess and requeueAfterError are the reconcile cadences from
// the event-wiring contract: a slow poll on success, a faster retry on
// error.
const (
	requeueAfterSuccess = time.Hour
	requeueAfterError   = 5 * time.Minute
)
