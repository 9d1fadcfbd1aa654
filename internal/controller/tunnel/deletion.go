// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/clients/cf"
	ctrlcommon "github.com/chalharu/cloudflared-ingress/internal/controller"
)

// Finalize drains a CloudflaredTunnel being deleted: every CNAME record the
// tunnel owns is removed from every zone before the tunnel itself is
// deleted, so the delete order never leaves a dangling DNS record pointing
// at a tunnel that no longer exists.
func Finalize(ctx context.Context, cfClient cf.CloudflareClient, cr *cfdv1alpha1.CloudflaredTunnel) error {
	logger := log.FromContext(ctx)

	if cr.Status.TunnelID == "" {
		return nil
	}
	tunnelID := cr.Status.TunnelID

	zones, err := cfClient.ListZones(ctx)
	if err != nil {
		return fmt.Errorf("list zones: %w", err)
	}

	for _, z := range zones {
		records, err := cfClient.ListDNSRecords(ctx, z.ID)
		if err != nil {
			return fmt.Errorf("list dns records in zone %s: %w", z.Name, err)
		}
		for _, r := range records {
			if !cf.IsTunnelCNAME(r, tunnelID) {
				continue
			}
			if err := cfClient.DeleteDNSRecord(ctx, z.ID, r.ID); err != nil {
				return fmt.Errorf("delete cname %s in zone %s: %w", r.Name, z.Name, err)
			}
			logger.Info("deleted cname for deleted tunnel", "hostname", r.Name, "tunnelId", tunnelID)
		}
	}

	if err := cfClient.DeleteTunnel(ctx, tunnelID); err != nil {
		return fmt.Errorf("delete tunnel %s: %w", tunnelID, err)
	}
	logger.Info("deleted tunnel", "tunnelId", tunnelID)

	return nil
}

// ensureFinalizer adds FinalizerName to cr if absent, persisting the change
// with the shared conflict-retry helper so a concurrent status writer never
// turns finalizer registration into a lost update.
func ensureFinalizer(ctx context.Context, c client.Client, cr *cfdv1alpha1.CloudflaredTunnel) (bool, error) {
	return ctrlcommon.EnsureFinalizer(ctx, c, cr, FinalizerName)
}

// removeFinalizer drops FinalizerName from cr, persisting the change.
func removeFinalizer(ctx context.Context, c client.Client, cr *cfdv1alpha1.CloudflaredTunnel) error {
	_, err := ctrlcommon.RemoveFinalizerSafely(ctx, c, cr, FinalizerName)
	return err
}
