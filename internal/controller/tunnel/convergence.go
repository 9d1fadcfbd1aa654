// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/uuid"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
	"github.com/chalharu/cloudflared-ingress/internal/clients/cf"
)

// Converge runs the full per-CR convergence algorithm: zone/DNS discovery,
// credential resolution, tunnel resolution, CNAME convergence, config Secret
// rendering, Deployment apply, and the secret-driven restart policy.
func Converge(ctx context.Context, c client.Client, cfClient cf.CloudflareClient, accountID, tunnelPrefix string, cr *cfdv1alpha1.CloudflaredTunnel) error {
	logger := log.FromContext(ctx)

	hostnames := make([]string, 0, len(cr.Spec.Ingress))
	for _, rule := range cr.Spec.Ingress {
		if rule.Hostname == "" {
			continue
		}
		hostnames = append(hostnames, rule.Hostname)
	}

	zones, err := cfClient.ListZones(ctx)
	if err != nil {
		return fmt.Errorf("list zones: %w", err)
	}

	matches, err := ResolveHostnameZones(hostnames, zones)
	if err != nil {
		return err
	}

	zoneIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		zoneIDs = append(zoneIDs, m.ZoneID)
	}
	zoneDNS, err := FetchZoneDNSRecords(ctx, cfClient, zoneIDs)
	if err != nil {
		return err
	}

	tunnelSecret, err := ResolveCredentialSecret(ctx, c, cr)
	if err != nil {
		return err
	}

	tunnelID, err := resolveTunnel(ctx, c, cfClient, tunnelPrefix, cr, tunnelSecret)
	if err != nil {
		return err
	}

	if err := convergeCNAMEs(ctx, cfClient, tunnelID, cr.Spec.Ingress, matches, zoneDNS); err != nil {
		return err
	}

	configYAML, err := MarshalConfig(BuildConfig(tunnelID, cr.Spec))
	if err != nil {
		return fmt.Errorf("marshal config.yml: %w", err)
	}
	credentialsJSON, err := MarshalCredentials(accountID, tunnelID, tunnelSecret)
	if err != nil {
		return fmt.Errorf("marshal credentials json: %w", err)
	}

	configSecretName := cr.Status.ConfigSecretRef
	if configSecretName == "" {
		configSecretName = string(uuid.NewUUID())
		cr.Status.ConfigSecretRef = configSecretName
		if err := c.Status().Update(ctx, cr); err != nil {
			return fmt.Errorf("commit config secret ref: %w", err)
		}
	}

	secret := BuildConfigSecret(cr, configSecretName, tunnelID, configYAML, credentialsJSON)
	secretUpdated, err := applySecret(ctx, c, secret)
	if err != nil {
		return fmt.Errorf("apply config secret: %w", err)
	}

	deployment := BuildDeployment(cr, configSecretName, tunnelID)
	createdOrChanged, err := applyDeployment(ctx, c, deployment)
	if err != nil {
		return fmt.Errorf("apply deployment: %w", err)
	}

	if secretUpdated && !createdOrChanged {
		logger.Info("restarting cloudflared deployment for rotated config", "deployment", deployment.Name)
		if err := restartDeployment(ctx, c, deployment); err != nil {
			return fmt.Errorf("restart deployment: %w", err)
		}
	}

	return nil
}

// resolveTunnel reuses cr.Status.TunnelID if it still exists on Cloudflare,
// else creates a fresh tunnel and commits its UUID to status before
// proceeding (the commit point described by the algorithm).
func resolveTunnel(ctx context.Context, c client.Client, cfClient cf.CloudflareClient, tunnelPrefix string, cr *cfdv1alpha1.CloudflaredTunnel, tunnelSecret []byte) (string, error) {
	if cr.Status.TunnelID != "" {
		if _, err := cfClient.GetTunnel(ctx, cr.Status.TunnelID); err == nil {
			return cr.Status.TunnelID, nil
		}
	}

	name := tunnelPrefix + string(uuid.NewUUID())
	t, err := cfClient.CreateTunnel(ctx, name, tunnelSecret)
	if err != nil {
		return "", fmt.Errorf("create tunnel %s: %w", name, err)
	}

	cr.Status.TunnelID = t.ID
	if err := c.Status().Update(ctx, cr); err != nil {
		return "", fmt.Errorf("commit tunnel id: %w", err)
	}
	return t.ID, nil
}

// convergeCNAMEs implements step 7: compute want/have CNAME sets per zone
// and reconcile them, failing IllegalDocument on any conflicting A/AAAA/
// foreign-CNAME record.
func convergeCNAMEs(ctx context.Context, cfClient cf.CloudflareClient, tunnelID string, rules []cfdv1alpha1.CloudflaredTunnelIngress, matches map[string]ZoneMatch, zoneDNS map[string][]cf.DNSRecord) error {
	have := make(map[string]cf.DNSRecord)
	for zoneID, records := range zoneDNS {
		for _, r := range records {
			if cf.IsTunnelCNAME(r, tunnelID) {
				have[zoneID+"/"+r.ID] = r
			}
		}
	}

	matched := make(map[string]bool, len(have))

	for _, rule := range rules {
		if rule.Hostname == "" {
			continue
		}
		m, ok := matches[rule.Hostname]
		if !ok {
			return cferrors.IllegalDocument("ingress", fmt.Sprintf("hostname %q unresolved", rule.Hostname), cferrors.ErrNoMatchingZone)
		}

		var existingID string
		for _, r := range zoneDNS[m.ZoneID] {
			if r.Name != rule.Hostname {
				continue
			}
			if cf.IsTunnelCNAME(r, tunnelID) {
				existingID = r.ID
				matched[m.ZoneID+"/"+r.ID] = true
				continue
			}
			if r.Type == "A" || r.Type == "AAAA" || r.Type == "CNAME" {
				return cferrors.IllegalDocument("ingress", fmt.Sprintf("hostname %q has a conflicting %s record", rule.Hostname, r.Type), cferrors.ErrConflictingDNSRecord)
			}
		}

		if existingID == "" {
			if _, err := cfClient.CreateDNSCNAME(ctx, m.ZoneID, rule.Hostname, tunnelID); err != nil {
				return fmt.Errorf("create cname %s: %w", rule.Hostname, err)
			}
		}
	}

	for key, r := range have {
		if matched[key] {
			continue
		}
		zoneID := key[:len(key)-len(r.ID)-1]
		if err := cfClient.DeleteDNSRecord(ctx, zoneID, r.ID); err != nil {
			return fmt.Errorf("delete stale cname %s: %w", r.Name, err)
		}
	}

	return nil
}

// applySecret server-side-applies secret and reports whether its resource
// version changed (secret_updated), which drives the restart policy.
func applySecret(ctx context.Context, c client.Client, secret *corev1.Secret) (bool, error) {
	existing := &corev1.Secret{}
	err := c.Get(ctx, types.NamespacedName{Namespace: secret.Namespace, Name: secret.Name}, existing)
	if err != nil && !apierrors.IsNotFound(err) {
		return false, err
	}
	priorRV := existing.ResourceVersion

	if err := c.Patch(ctx, secret, client.Apply, client.ForceOwnership, client.FieldOwner(FieldManager)); err != nil {
		return false, err
	}

	return priorRV == "" || secret.ResourceVersion != priorRV, nil
}

// applyDeployment server-side-applies deployment and reports whether it was
// newly created or its generation changed (created_or_changed).
func applyDeployment(ctx context.Context, c client.Client, deployment *appsv1.Deployment) (bool, error) {
	existing := &appsv1.Deployment{}
	err := c.Get(ctx, types.NamespacedName{Namespace: deployment.Namespace, Name: deployment.Name}, existing)
	existed := err == nil
	if err != nil && !apierrors.IsNotFound(err) {
		return false, err
	}
	priorGeneration := existing.Generation

	if err := c.Patch(ctx, deployment, client.Apply, client.ForceOwnership, client.FieldOwner(FieldManager)); err != nil {
		return false, err
	}

	return !existed || deployment.Generation != priorGeneration, nil
}

// restartDeployment triggers a rolling restart by annotating the pod
// template, matching the kubectl rollout restart convention.
func restartDeployment(ctx context.Context, c client.Client, deployment *appsv1.Deployment) error {
	patch := client.MergeFrom(deployment.DeepCopy())
	if deployment.Spec.Template.Annotations == nil {
		deployment.Spec.Template.Annotations = map[string]string{}
	}
	deployment.Spec.Template.Annotations["cloudflaredtunnel.chalharu.top/restartedAt"] = time.Now().Format(time.RFC3339)
	return c.Patch(ctx, deployment, patch)
}
