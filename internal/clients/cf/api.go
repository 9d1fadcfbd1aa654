// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cloudflare/cloudflare-go"
	"github.com/go-logr/logr"
	"k8s.io/utils/ptr"
)

// tunnelCNAMETarget is the domain suffix a tunnel CNAME must point at.
const tunnelCNAMETarget = "cfargotunnel.com"

// API is the concrete CloudflareClient backed by the Cloudflare Go SDK.
// Unlike the legacy per-object client shape, API takes zone/account/tunnel
// identifiers as explicit call parameters so a single instance can be shared
// across the concurrent, multi-zone reconciliation the Tunnel Controller
// performs.
type API struct {
	Log       logr.Logger
	AccountID string
	Client    *cloudflare.API
}

// ListTunnels returns non-deleted tunnels, optionally filtered by name prefix.
func (a *API) ListTunnels(ctx context.Context, namePrefix string) ([]Tunnel, error) {
	rc := cloudflare.AccountIdentifier(a.AccountID)
	params := cloudflare.TunnelListParams{
		IsDeleted: ptr.To(false),
	}
	if namePrefix != "" {
		params.Name = namePrefix
	}

	result, _, err := a.Client.ListTunnels(ctx, rc, params)
	if err != nil {
		return nil, fmt.Errorf("list tunnels: %w", err)
	}

	tunnels := make([]Tunnel, 0, len(result))
	for _, t := range result {
		tunnels = append(tunnels, Tunnel{ID: t.ID, Name: t.Name})
	}
	return tunnels, nil
}

// GetTunnel returns a single non-deleted tunnel by ID.
func (a *API) GetTunnel(ctx context.Context, tunnelID string) (Tunnel, error) {
	rc := cloudflare.AccountIdentifier(a.AccountID)
	t, err := a.Client.GetTunnel(ctx, rc, tunnelID)
	if err != nil {
		return Tunnel{}, fmt.Errorf("get tunnel %s: %w", tunnelID, err)
	}
	if !t.DeletedAt.IsZero() {
		return Tunnel{}, fmt.Errorf("tunnel %s: %w", tunnelID, ErrResourceNotFound)
	}
	return Tunnel{ID: t.ID, Name: t.Name}, nil
}

// CreateTunnel creates a locally-configured tunnel registered with secret,
// so the credential Secret the controller writes to the cluster always
// matches what Cloudflare has on file for the tunnel.
func (a *API) CreateTunnel(ctx context.Context, name string, secret []byte) (Tunnel, error) {
	rc := cloudflare.AccountIdentifier(a.AccountID)
	params := cloudflare.TunnelCreateParams{
		Name:      name,
		Secret:    base64.StdEncoding.EncodeToString(secret),
		ConfigSrc: "local",
	}

	t, err := a.Client.CreateTunnel(ctx, rc, params)
	if err != nil {
		return Tunnel{}, fmt.Errorf("create tunnel %s: %w", name, err)
	}

	a.Log.Info("created tunnel", "tunnelId", t.ID, "tunnelName", t.Name)
	return Tunnel{ID: t.ID, Name: t.Name}, nil
}

// DeleteTunnel deletes a tunnel, cleaning up its connections first. A decode
// failure on an already-deleted tunnel (the legacy SDK's empty-body response)
// and a not-found response are both treated as success.
func (a *API) DeleteTunnel(ctx context.Context, tunnelID string) error {
	rc := cloudflare.AccountIdentifier(a.AccountID)

	if err := a.Client.CleanupTunnelConnections(ctx, rc, tunnelID); err != nil {
		if !IsAlreadyDeleted(err) {
			return fmt.Errorf("cleanup tunnel connections %s: %w", tunnelID, err)
		}
	}

	if err := a.Client.DeleteTunnel(ctx, rc, tunnelID); err != nil {
		if IsAlreadyDeleted(err) {
			a.Log.V(1).Info("tunnel already deleted", "tunnelId", tunnelID)
			return nil
		}
		return fmt.Errorf("delete tunnel %s: %w", tunnelID, err)
	}

	a.Log.Info("deleted tunnel", "tunnelId", tunnelID)
	return nil
}

// ListZones returns every zone visible to the account credential.
func (a *API) ListZones(ctx context.Context) ([]Zone, error) {
	zones, err := a.Client.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	result := make([]Zone, 0, len(zones))
	for _, z := range zones {
		result = append(result, Zone{ID: z.ID, Name: z.Name})
	}
	return result, nil
}

// ListDNSRecords returns every DNS record in the given zone.
func (a *API) ListDNSRecords(ctx context.Context, zoneID string) ([]DNSRecord, error) {
	rc := cloudflare.ZoneIdentifier(zoneID)
	records, _, err := a.Client.ListDNSRecords(ctx, rc, cloudflare.ListDNSRecordsParams{})
	if err != nil {
		return nil, fmt.Errorf("list dns records in zone %s: %w", zoneID, err)
	}

	result := make([]DNSRecord, 0, len(records))
	for _, r := range records {
		proxied := r.Proxied != nil && *r.Proxied
		result = append(result, DNSRecord{ID: r.ID, Type: r.Type, Name: r.Name, Content: r.Content, Proxied: proxied})
	}
	return result, nil
}

// CreateDNSCNAME creates a proxied CNAME record pointing at the tunnel.
func (a *API) CreateDNSCNAME(ctx context.Context, zoneID, hostname, tunnelID string) (DNSRecord, error) {
	rc := cloudflare.ZoneIdentifier(zoneID)
	params := cloudflare.CreateDNSRecordParams{
		Type:    "CNAME",
		Name:    hostname,
		Content: fmt.Sprintf("%s.%s", tunnelID, tunnelCNAMETarget),
		Comment: "managed by cloudflared-ingress",
		TTL:     1,
		Proxied: ptr.To(true),
	}

	r, err := a.Client.CreateDNSRecord(ctx, rc, params)
	if err != nil {
		return DNSRecord{}, fmt.Errorf("create dns cname %s: %w", hostname, err)
	}

	return DNSRecord{ID: r.ID, Type: r.Type, Name: r.Name, Content: r.Content, Proxied: true}, nil
}

// DeleteDNSRecord deletes a DNS record by ID. Deleting an already-deleted
// record is treated as success.
func (a *API) DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error {
	rc := cloudflare.ZoneIdentifier(zoneID)
	if err := a.Client.DeleteDNSRecord(ctx, rc, recordID); err != nil {
		if IsAlreadyDeleted(err) {
			return nil
		}
		return fmt.Errorf("delete dns record %s: %w", recordID, err)
	}
	return nil
}

// IsTunnelCNAME reports whether a DNS record is a CNAME pointing at the
// given tunnel's cfargotunnel.com target.
func IsTunnelCNAME(r DNSRecord, tunnelID string) bool {
	return r.Type == "CNAME" && r.Content == fmt.Sprintf("%s.%s", tunnelID, tunnelCNAMETarget)
}
