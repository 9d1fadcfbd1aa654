// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
)

func TestBuildConfig_AppendsDefaultCatchAll(t *testing.T) {
	spec := cfdv1alpha1.CloudflaredTunnelSpec{
		Ingress: []cfdv1alpha1.CloudflaredTunnelIngress{
			{Hostname: "app.example.com", Service: "http://web.default.svc:8080"},
		},
	}

	cfg := BuildConfig("tunnel-1", spec)
	require.Len(t, cfg.Ingress, 2)
	assert.Equal(t, "app.example.com", cfg.Ingress[0].Hostname)
	assert.Equal(t, "", cfg.Ingress[1].Hostname)
	assert.Equal(t, "http_status:404", cfg.Ingress[1].Service)
	assert.Equal(t, "tunnel-1", cfg.Tunnel)
	assert.Equal(t, credentialsFilePath("tunnel-1"), cfg.CredentialsFile)
}

func TestBuildConfig_CustomDefaultService(t *testing.T) {
	spec := cfdv1alpha1.CloudflaredTunnelSpec{DefaultIngressService: "http_status:503"}
	cfg := BuildConfig("tunnel-1", spec)
	require.Len(t, cfg.Ingress, 1)
	assert.Equal(t, "http_status:503", cfg.Ingress[0].Service)
}

func TestMarshalConfig_RoundTrips(t *testing.T) {
	cfg := BuildConfig("tunnel-1", cfdv1alpha1.CloudflaredTunnelSpec{
		Ingress: []cfdv1alpha1.CloudflaredTunnelIngress{
			{Hostname: "app.example.com", Service: "http://web.default.svc:8080", Path: `^/api`},
		},
	})

	out, err := MarshalConfig(cfg)
	require.NoError(t, err)

	var roundTripped Config
	require.NoError(t, yaml.Unmarshal(out, &roundTripped))
	assert.Equal(t, cfg.Tunnel, roundTripped.Tunnel)
	require.Len(t, roundTripped.Ingress, 2)
	assert.Equal(t, "app.example.com", roundTripped.Ingress[0].Hostname)
}

func TestMarshalCredentials(t *testing.T) {
	secret := []byte("01234567890123456789012345678901")
	out, err := MarshalCredentials("account-1", "tunnel-1", secret)
	require.NoError(t, err)

	var creds Credentials
	require.NoError(t, json.Unmarshal(out, &creds))
	assert.Equal(t, "account-1", creds.AccountTag)
	assert.Equal(t, "tunnel-1", creds.TunnelID)
	assert.Equal(t, base64.StdEncoding.EncodeToString(secret), creds.TunnelSecret)
}

func TestCredentialsFileKey(t *testing.T) {
	assert.Equal(t, "abc123.json", CredentialsFileKey("abc123"))
}
