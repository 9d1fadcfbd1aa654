// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
	"github.com/chalharu/cloudflared-ingress/internal/clients/cf"
)

// ZoneMatch pairs a hostname from the spec with the zone that owns it.
type ZoneMatch struct {
	Hostname string
	ZoneID   string
	ZoneName string
}

// MatchZone returns the zone among zones whose name is hostname itself or a
// dot-suffix of it, preferring the longest (most specific) match. It returns
// cferrors.ErrNoMatchingZone wrapped in an illegal-document error when no
// zone owns the hostname.
func MatchZone(hostname string, zones []cf.Zone) (cf.Zone, error) {
	var best cf.Zone
	bestLen := -1
	for _, z := range zones {
		if hostname != z.Name && !strings.HasSuffix(hostname, "."+z.Name) {
			continue
		}
		if len(z.Name) > bestLen {
			best = z
			bestLen = len(z.Name)
		}
	}
	if bestLen < 0 {
		return cf.Zone{}, cferrors.IllegalDocument("ingress", fmt.Sprintf("hostname %q matches no zone", hostname), cferrors.ErrNoMatchingZone)
	}
	return best, nil
}

// ResolveHostnameZones matches every hostname to its owning zone. It fails
// the whole call with an illegal-document error on the first unmatched
// hostname, since an unroutable hostname makes the spec invalid as a whole.
func ResolveHostnameZones(hostnames []string, zones []cf.Zone) (map[string]ZoneMatch, error) {
	out := make(map[string]ZoneMatch, len(hostnames))
	for _, h := range hostnames {
		if _, ok := out[h]; ok {
			continue
		}
		z, err := MatchZone(h, zones)
		if err != nil {
			return nil, err
		}
		out[h] = ZoneMatch{Hostname: h, ZoneID: z.ID, ZoneName: z.Name}
	}
	return out, nil
}

// FetchZoneDNSRecords concurrently lists DNS records for each distinct zone
// ID in zoneIDs, fanning out with errgroup so a multi-zone CloudflaredTunnel
// converges in roughly one zone's round-trip time rather than the sum of
// all of them.
func FetchZoneDNSRecords(ctx context.Context, client cf.CloudflareClient, zoneIDs []string) (map[string][]cf.DNSRecord, error) {
	unique := make(map[string]struct{}, len(zoneIDs))
	var ordered []string
	for _, id := range zoneIDs {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		ordered = append(ordered, id)
	}

	results := make([][]cf.DNSRecord, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	for i, zoneID := range ordered {
		i, zoneID := i, zoneID
		g.Go(func() error {
			records, err := client.ListDNSRecords(gctx, zoneID)
			if err != nil {
				return fmt.Errorf("list dns records for zone %s: %w", zoneID, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]cf.DNSRecord, len(ordered))
	for i, zoneID := range ordered {
		out[zoneID] = results[i]
	}
	return out, nil
}
