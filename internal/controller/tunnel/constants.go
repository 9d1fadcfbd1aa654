// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

const (
	// FinalizerName is set on every CloudflaredTunnel so deletion can drain
	// the Cloudflare tunnel and its CNAME records before the object is
	// removed from the API server.
	FinalizerName = "cloudflaredtunnel.chalharu.top/finalizer"

	// FieldManager is the server-side apply field manager used for every
	// object this controller owns (the credential Secret, the config
	// Secret, and the cloudflared Deployment).
	FieldManager = "cloudflaredtunnel.chalharu.top"

	// TunnelSecretKey is the key inside the credential Secret holding the
	// raw (unencoded) 32-byte tunnel secret.
	TunnelSecretKey = "tunnel_secret"

	// tunnelSecretByteLength is the minimum acceptable length for a
	// user-supplied tunnel secret; shorter secrets are rejected as an
	// illegal document rather than silently accepted by Cloudflare.
	tunnelSecretByteLength = 32
)
