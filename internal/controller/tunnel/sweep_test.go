// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/clients/cf"
)

type stubCloudflareClient struct {
	cf.CloudflareClient
	tunnels       []cf.Tunnel
	deleted       []string
	listErr       error
	deleteErr     error
	listCallCount int
}

func (s *stubCloudflareClient) ListTunnels(_ context.Context, _ string) ([]cf.Tunnel, error) {
	s.listCallCount++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.tunnels, nil
}

func (s *stubCloudflareClient) DeleteTunnel(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func TestRunSweep_DeletesOnlyOrphans(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(scheme.Scheme).Build()
	live := &cfdv1alpha1.CloudflaredTunnel{
		ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "cloudflared"},
		Status:     cfdv1alpha1.CloudflaredTunnelStatus{TunnelID: "keep"},
	}
	require.NoError(t, c.Create(context.Background(), live))

	stub := &stubCloudflareClient{tunnels: []cf.Tunnel{
		{ID: "keep", Name: "k8s-ingress-keep"},
		{ID: "orphan", Name: "k8s-ingress-orphan"},
	}}

	require.NoError(t, runSweep(context.Background(), c, stub, "cloudflared", "k8s-ingress-"))
	assert.Equal(t, []string{"orphan"}, stub.deleted)
}

func TestSweeper_MaybeRun_Debounces(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(scheme.Scheme).Build()
	stub := &stubCloudflareClient{}
	s := &sweeper{interval: time.Hour}

	s.MaybeRun(context.Background(), c, stub, "", "k8s-ingress-")
	s.MaybeRun(context.Background(), c, stub, "", "k8s-ingress-")

	assert.Equal(t, 1, stub.listCallCount)
}
