// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

import (
	"errors"

	"github.com/cloudflare/cloudflare-go"
	"github.com/go-logr/logr"
)

// ErrNoCredentials is returned when no API token is provided.
var ErrNoCredentials = errors.New("no Cloudflare API token provided")

// ClientFactory creates CloudflareClient instances. This interface enables
// dependency injection for testing.
type ClientFactory interface {
	NewClient(config ClientConfig) (CloudflareClient, error)
}

// ClientConfig contains the configuration needed to construct a
// CloudflareClient. The CLI only supports user API token authentication
// (--cloudflare-token), matching the single credential mode the controllers
// are built against.
type ClientConfig struct {
	Log       logr.Logger
	APIToken  string
	AccountID string
}

// DefaultClientFactory creates real CloudflareClient instances backed by the
// Cloudflare Go SDK.
type DefaultClientFactory struct{}

// NewClient creates a new CloudflareClient using the real Cloudflare API.
func (*DefaultClientFactory) NewClient(config ClientConfig) (CloudflareClient, error) {
	if config.APIToken == "" {
		return nil, ErrNoCredentials
	}

	client, err := cloudflare.NewWithAPIToken(config.APIToken)
	if err != nil {
		return nil, err
	}

	return &API{
		Log:       config.Log,
		AccountID: config.AccountID,
		Client:    client,
	}, nil
}

// NewDefaultClientFactory creates a new DefaultClientFactory.
func NewDefaultClientFactory() ClientFactory {
	return &DefaultClientFactory{}
}

var defaultFactory ClientFactory = &DefaultClientFactory{}

// GetDefaultFactory returns the default ClientFactory.
func GetDefaultFactory() ClientFactory {
	return defaultFactory
}

// SetDefaultFactory sets the default ClientFactory. Used by tests to inject a
// fake CloudflareClient.
func SetDefaultFactory(factory ClientFactory) {
	defaultFactory = factory
}

// ResetDefaultFactory resets the default ClientFactory to the real
// implementation.
func ResetDefaultFactory() {
	defaultFactory = &DefaultClientFactory{}
}
