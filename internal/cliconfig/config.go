// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package cliconfig binds the `run` subcommand's flags to environment
// variables of the same name in upper-snake-case, via viper.
package cliconfig

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys are the viper keys every flag is registered and bound under.
const (
	KeyIngressClass           = "ingress-class"
	KeyIngressController      = "ingress-controller"
	KeyCloudflareToken        = "cloudflare-token"
	KeyCloudflareAccountID    = "cloudflare-account-id"
	KeyCloudflareTunnelPrefix = "cloudflare-tunnel-prefix"
	KeyCloudflareTunnelNS     = "cloudflare-tunnel-namespace"
)

const (
	defaultIngressController = "chalharu.top/cloudflared-ingress-controller"
	defaultTunnelPrefix      = "k8s-ingress-"
	defaultTunnelNamespace   = "cloudflared"
)

// RunConfig holds the resolved configuration for the `run` subcommand.
type RunConfig struct {
	IngressClass           string
	IngressController      string
	CloudflareToken        string
	CloudflareAccountID    string
	CloudflareTunnelPrefix string
	CloudflareTunnelNS     string
}

// BindFlags registers every `run` flag on fs and binds it to an environment
// variable of the same name in upper-snake-case (e.g. --cloudflare-token
// reads CLOUDFLARE_TOKEN when the flag is unset).
func BindFlags(fs *pflag.FlagSet) *viper.Viper {
	fs.String(KeyIngressClass, "", "restrict reconciliation to a single IngressClass name")
	fs.String(KeyIngressController, defaultIngressController, "controller identifier an IngressClass must carry to be selected")
	fs.String(KeyCloudflareToken, "", "Cloudflare API token (required)")
	fs.String(KeyCloudflareAccountID, "", "Cloudflare account ID (required)")
	fs.String(KeyCloudflareTunnelPrefix, defaultTunnelPrefix, "name prefix for tunnels this controller creates")
	fs.String(KeyCloudflareTunnelNS, defaultTunnelNamespace, "namespace where synthesized CloudflaredTunnel resources are created")

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(fs)
	return v
}

// Load reads every bound key out of v into a RunConfig.
func Load(v *viper.Viper) RunConfig {
	return RunConfig{
		IngressClass:           v.GetString(KeyIngressClass),
		IngressController:      v.GetString(KeyIngressController),
		CloudflareToken:        v.GetString(KeyCloudflareToken),
		CloudflareAccountID:    v.GetString(KeyCloudflareAccountID),
		CloudflareTunnelPrefix: v.GetString(KeyCloudflareTunnelPrefix),
		CloudflareTunnelNS:     v.GetString(KeyCloudflareTunnelNS),
	}
}
