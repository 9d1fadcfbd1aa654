// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"crypto/rand"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/uuid"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
)

// resolveCredentialSecretName implements the three-branch naming rule from
// the credential Secret resolution algorithm: the effective Secret name is
// derived from spec.secret_ref and status.tunnel_secret_ref, preferring an
// already-committed status name so switching spec.secret_ref back and forth
// doesn't thrash Secret identity, but honoring a newly set spec.secret_ref
// once it diverges from status. oldControllerOwnedCandidate is the
// status-referenced name whenever a newly set spec.secret_ref supersedes it;
// whether the controller owns that Secret (and so may delete it) is checked
// by the caller.
func resolveCredentialSecretName(specRef, statusRef string) (name string, oldControllerOwnedCandidate string) {
	switch {
	case specRef == "" && statusRef != "":
		return statusRef, ""
	case specRef != "" && specRef == statusRef:
		return statusRef, ""
	case specRef != "":
		return specRef, statusRef
	default:
		return string(uuid.NewUUID()), ""
	}
}

// ResolveCredentialSecret implements §4.1a: it resolves which Secret holds
// the tunnel's 32-byte credential, committing the chosen name to status
// before reading any data, generating a fresh secret if none exists, and
// garbage-collecting an old controller-owned Secret that a user-supplied
// secret_ref has superseded.
func ResolveCredentialSecret(ctx context.Context, c client.Client, owner *cfdv1alpha1.CloudflaredTunnel) ([]byte, error) {
	logger := log.FromContext(ctx)

	specRef := ""
	if owner.Spec.SecretRef != nil {
		specRef = owner.Spec.SecretRef.Name
	}
	statusRef := owner.Status.TunnelSecretRef

	name, oldOwned := resolveCredentialSecretName(specRef, statusRef)

	if oldOwned != "" && oldOwned != name {
		old := &corev1.Secret{}
		err := c.Get(ctx, types.NamespacedName{Namespace: owner.Namespace, Name: oldOwned}, old)
		if err == nil && isOwnedBy(old.OwnerReferences, owner.UID) {
			if delErr := c.Delete(ctx, old); delErr != nil && !apierrors.IsNotFound(delErr) {
				logger.Error(delErr, "failed to delete superseded credential secret", "secret", oldOwned)
			}
		} else if err != nil && !apierrors.IsNotFound(err) {
			logger.Error(err, "failed to fetch superseded credential secret", "secret", oldOwned)
		}
	}

	if name != owner.Status.TunnelSecretRef {
		owner.Status.TunnelSecretRef = name
		if err := c.Status().Update(ctx, owner); err != nil {
			return nil, fmt.Errorf("commit tunnel secret ref: %w", err)
		}
	}

	secret := &corev1.Secret{}
	err := c.Get(ctx, types.NamespacedName{Namespace: owner.Namespace, Name: name}, secret)
	switch {
	case err == nil:
		raw, ok := secret.Data[TunnelSecretKey]
		if !ok {
			return nil, cferrors.IllegalDocument("credential secret", fmt.Sprintf("%s/%s missing key %q", owner.Namespace, name, TunnelSecretKey), nil)
		}
		if len(raw) < tunnelSecretByteLength {
			return nil, cferrors.IllegalDocument("credential secret", fmt.Sprintf("%s/%s tunnel_secret is %d bytes", owner.Namespace, name, len(raw)), cferrors.ErrSecretTooShort)
		}
		return raw, nil
	case apierrors.IsNotFound(err):
		return createCredentialSecret(ctx, c, owner, name)
	default:
		return nil, fmt.Errorf("get credential secret %s/%s: %w", owner.Namespace, name, err)
	}
}

func createCredentialSecret(ctx context.Context, c client.Client, owner *cfdv1alpha1.CloudflaredTunnel, name string) ([]byte, error) {
	raw := make([]byte, tunnelSecretByteLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate tunnel secret: %w", err)
	}

	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: owner.Namespace,
			OwnerReferences: []metav1.OwnerReference{
				ownerReference(owner),
			},
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{TunnelSecretKey: raw},
	}

	if err := c.Patch(ctx, secret, client.Apply, client.ForceOwnership, client.FieldOwner(FieldManager)); err != nil {
		return nil, fmt.Errorf("apply credential secret %s/%s: %w", owner.Namespace, name, err)
	}

	return raw, nil
}

func isOwnedBy(refs []metav1.OwnerReference, uid types.UID) bool {
	for _, r := range refs {
		if r.UID == uid {
			return true
		}
	}
	return false
}

func ownerReference(owner *cfdv1alpha1.CloudflaredTunnel) metav1.OwnerReference {
	return metav1.OwnerReference{
		APIVersion:         cfdv1alpha1.GroupVersion.String(),
		Kind:               "CloudflaredTunnel",
		Name:               owner.Name,
		UID:                owner.UID,
		Controller:         boolPtr(true),
		BlockOwnerDeletion: boolPtr(true),
	}
}

func boolPtr(b bool) *bool { return &b }
