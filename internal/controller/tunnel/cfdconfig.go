// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
)

// ConfigFileName is the filename inside the config Secret holding the
// rendered cloudflared configuration.
const ConfigFileName = "config.yml"

// MountPath is where the config Secret is mounted in the cloudflared
// container.
const MountPath = "/etc/cloudflared"

// CredentialsFileKey formats the filename inside the config Secret holding
// the tunnel's JSON credentials file, named after the tunnel ID per
// cloudflared's convention.
func CredentialsFileKey(tunnelID string) string {
	return fmt.Sprintf("%s.json", tunnelID)
}

// credentialsFilePath is the path cloudflared is told to load the
// credentials file from, inside the mounted config Secret.
func credentialsFilePath(tunnelID string) string {
	return fmt.Sprintf("%s/%s", MountPath, CredentialsFileKey(tunnelID))
}

// DefaultImage is the cloudflared image used when the spec does not pin one.
const DefaultImage = "cloudflare/cloudflared:2024.9.1"

// Credentials is the cloudflared tunnel credentials file written to
// `<tunnelId>.json` in the config Secret.
type Credentials struct {
	AccountTag   string `json:"AccountTag"`
	TunnelSecret string `json:"TunnelSecret"`
	TunnelID     string `json:"TunnelID"`
}

// MarshalCredentials renders the credentials file for tunnelID, base64-
// encoding the raw tunnel secret bytes as cloudflared expects.
func MarshalCredentials(accountID, tunnelID string, tunnelSecret []byte) ([]byte, error) {
	creds := Credentials{
		AccountTag:   accountID,
		TunnelSecret: base64.StdEncoding.EncodeToString(tunnelSecret),
		TunnelID:     tunnelID,
	}
	return json.Marshal(creds)
}

// OriginRequest mirrors cloudflared's originRequest config block.
type OriginRequest struct {
	OriginServerName       string   `yaml:"originServerName,omitempty"`
	CAPool                 string   `yaml:"caPool,omitempty"`
	NoTLSVerify            bool     `yaml:"noTLSVerify,omitempty"`
	TLSTimeout             string   `yaml:"tlsTimeout,omitempty"`
	HTTP2Origin            bool     `yaml:"http2Origin,omitempty"`
	HTTPHostHeader         string   `yaml:"httpHostHeader,omitempty"`
	DisableChunkedEncoding bool     `yaml:"disableChunkedEncoding,omitempty"`
	ConnectTimeout         string   `yaml:"connectTimeout,omitempty"`
	NoHappyEyeballs        bool     `yaml:"noHappyEyeballs,omitempty"`
	ProxyType              string   `yaml:"proxyType,omitempty"`
	ProxyAddress           string   `yaml:"proxyAddress,omitempty"`
	ProxyPort              uint16   `yaml:"proxyPort,omitempty"`
	KeepAliveTimeout       string   `yaml:"keepAliveTimeout,omitempty"`
	KeepAliveConnections   uint32   `yaml:"keepAliveConnections,omitempty"`
	TCPKeepAlive           string   `yaml:"tcpKeepAlive,omitempty"`
}

// Ingress is a single cloudflared config.yml ingress rule.
type Ingress struct {
	Hostname      string         `yaml:"hostname,omitempty"`
	Service       string         `yaml:"service"`
	Path          string         `yaml:"path,omitempty"`
	OriginRequest *OriginRequest `yaml:"originRequest,omitempty"`
}

// Config is the cloudflared config.yml document.
type Config struct {
	Tunnel          string         `yaml:"tunnel"`
	CredentialsFile string         `yaml:"credentials-file"`
	OriginRequest   *OriginRequest `yaml:"originRequest,omitempty"`
	Ingress         []Ingress      `yaml:"ingress"`
}

func fromAPIOriginRequest(in *cfdv1alpha1.CloudflaredTunnelOriginRequest) *OriginRequest {
	if in == nil {
		return nil
	}
	return &OriginRequest{
		OriginServerName:       in.OriginServerName,
		CAPool:                 in.CAPool,
		NoTLSVerify:            in.NoTLSVerify,
		TLSTimeout:             in.TLSTimeout,
		HTTP2Origin:            in.HTTP2Origin,
		HTTPHostHeader:         in.HTTPHostHeader,
		DisableChunkedEncoding: in.DisableChunkedEncoding,
		ConnectTimeout:         in.ConnectTimeout,
		NoHappyEyeballs:        in.NoHappyEyeballs,
		ProxyType:              in.ProxyType,
		ProxyAddress:           in.ProxyAddress,
		ProxyPort:              in.ProxyPort,
		KeepAliveTimeout:       in.KeepAliveTimeout,
		KeepAliveConnections:   in.KeepAliveConnections,
		TCPKeepAlive:           in.TCPKeepAlive,
	}
}

// BuildConfig renders the cloudflared config.yml document for spec, applying
// the documented default catch-all ingress rule after the user's rules.
func BuildConfig(tunnelID string, spec cfdv1alpha1.CloudflaredTunnelSpec) Config {
	cfg := Config{
		Tunnel:          tunnelID,
		CredentialsFile: credentialsFilePath(tunnelID),
		OriginRequest:   fromAPIOriginRequest(spec.OriginRequest),
	}

	for _, r := range spec.Ingress {
		cfg.Ingress = append(cfg.Ingress, Ingress{
			Hostname:      r.Hostname,
			Service:       r.Service,
			Path:          r.Path,
			OriginRequest: fromAPIOriginRequest(r.OriginRequest),
		})
	}

	defaultService := spec.DefaultIngressService
	if defaultService == "" {
		defaultService = "http_status:404"
	}
	cfg.Ingress = append(cfg.Ingress, Ingress{Service: defaultService})

	return cfg
}

// MarshalConfig renders cfg as YAML for the config.yml entry.
func MarshalConfig(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
