// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

//go:generate mockgen -destination=mock/mock_client.go -package=mock github.com/chalharu/cloudflared-ingress/internal/clients/cf CloudflareClient

package cf

import (
	"context"
)

// Zone is a Cloudflare DNS zone.
type Zone struct {
	ID   string
	Name string
}

// Tunnel is a Cloudflare Tunnel.
type Tunnel struct {
	ID   string
	Name string
}

// DNSRecord is a Cloudflare DNS record. Only the fields the ingress-routing
// logic needs to classify a record are carried.
type DNSRecord struct {
	ID      string
	Type    string
	Name    string
	Content string
	Proxied bool
}

// CloudflareClient is the narrow surface the Tunnel Controller and Ingress
// Controller need from the Cloudflare API: tunnel lifecycle, zone discovery,
// and CNAME record management. It intentionally omits every other Cloudflare
// product surface (Access, Gateway, R2, WARP, Pages, ...).
type CloudflareClient interface {
	// ListTunnels returns non-deleted tunnels whose name starts with namePrefix.
	// An empty namePrefix returns every non-deleted tunnel.
	ListTunnels(ctx context.Context, namePrefix string) ([]Tunnel, error)
	// GetTunnel returns a single non-deleted tunnel by ID.
	GetTunnel(ctx context.Context, tunnelID string) (Tunnel, error)
	// CreateTunnel creates a locally-configured tunnel registered with the
	// given raw tunnel secret, so the credential Secret written to the
	// cluster always matches what Cloudflare has on file for the tunnel.
	CreateTunnel(ctx context.Context, name string, secret []byte) (Tunnel, error)
	// DeleteTunnel deletes a tunnel and cleans up its connections. It is
	// idempotent: deleting an already-deleted tunnel returns nil.
	DeleteTunnel(ctx context.Context, tunnelID string) error

	// ListZones returns every zone visible to the account credential.
	ListZones(ctx context.Context) ([]Zone, error)
	// ListDNSRecords returns every DNS record in the given zone.
	ListDNSRecords(ctx context.Context, zoneID string) ([]DNSRecord, error)
	// CreateDNSCNAME creates a proxied CNAME record in zoneID named hostname,
	// pointing at tunnelID's `<id>.cfargotunnel.com` target.
	CreateDNSCNAME(ctx context.Context, zoneID, hostname, tunnelID string) (DNSRecord, error)
	// DeleteDNSRecord deletes a DNS record by ID. It is idempotent: deleting
	// an already-deleted record returns nil.
	DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error
}

var _ CloudflareClient = (*API)(nil)
