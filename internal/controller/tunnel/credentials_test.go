// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
)

func init() {
	_ = cfdv1alpha1.AddToScheme(scheme.Scheme)
}

func TestResolveCredentialSecretName(t *testing.T) {
	name, oldOwned := resolveCredentialSecretName("", "")
	assert.NotEmpty(t, name)
	assert.Empty(t, oldOwned)

	name, oldOwned = resolveCredentialSecretName("", "existing")
	assert.Equal(t, "existing", name)
	assert.Empty(t, oldOwned)

	name, oldOwned = resolveCredentialSecretName("same", "same")
	assert.Equal(t, "same", name)
	assert.Empty(t, oldOwned)

	name, oldOwned = resolveCredentialSecretName("new-ref", "old-ref")
	assert.Equal(t, "new-ref", name)
	assert.Equal(t, "old-ref", oldOwned)
}

func TestResolveCredentialSecret_CreatesWhenMissing(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(scheme.Scheme).WithStatusSubresource(&cfdv1alpha1.CloudflaredTunnel{}).Build()
	cr := &cfdv1alpha1.CloudflaredTunnel{ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "default"}}
	require.NoError(t, c.Create(context.Background(), cr))

	secret, err := ResolveCredentialSecret(context.Background(), c, cr)
	require.NoError(t, err)
	assert.Len(t, secret, 32)
	assert.NotEmpty(t, cr.Status.TunnelSecretRef)

	var stored corev1.Secret
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: cr.Status.TunnelSecretRef}, &stored))
	assert.Equal(t, secret, stored.Data[TunnelSecretKey])
}

func TestResolveCredentialSecret_RejectsShortSecret(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(scheme.Scheme).WithStatusSubresource(&cfdv1alpha1.CloudflaredTunnel{}).Build()
	cr := &cfdv1alpha1.CloudflaredTunnel{
		ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "default"},
		Spec:       cfdv1alpha1.CloudflaredTunnelSpec{SecretRef: &corev1.LocalObjectReference{Name: "creds"}},
	}
	require.NoError(t, c.Create(context.Background(), cr))

	short := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "creds", Namespace: "default"},
		Data:       map[string][]byte{TunnelSecretKey: []byte("too-short")},
	}
	require.NoError(t, c.Create(context.Background(), short))

	_, err := ResolveCredentialSecret(context.Background(), c, cr)
	assert.True(t, cferrors.IsIllegalDocument(err))
}

func TestResolveCredentialSecret_ReusesExisting(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(scheme.Scheme).WithStatusSubresource(&cfdv1alpha1.CloudflaredTunnel{}).Build()
	cr := &cfdv1alpha1.CloudflaredTunnel{
		ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "default"},
		Spec:       cfdv1alpha1.CloudflaredTunnelSpec{SecretRef: &corev1.LocalObjectReference{Name: "creds"}},
	}
	require.NoError(t, c.Create(context.Background(), cr))

	want := make([]byte, 32)
	for i := range want {
		want[i] = byte(i)
	}
	existing := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "creds", Namespace: "default"},
		Data:       map[string][]byte{TunnelSecretKey: want},
	}
	require.NoError(t, c.Create(context.Background(), existing))

	got, err := ResolveCredentialSecret(context.Background(), c, cr)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
