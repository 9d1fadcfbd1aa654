// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package cferrors defines the error taxonomy shared by the Tunnel and
// Ingress controllers. Each variant wraps an underlying cause with %w so
// callers can classify failures with errors.Is/errors.As while status
// conditions and events still get a readable, sanitized message.
package cferrors

import (
	"errors"
	"fmt"
)

// ErrIllegalDocument marks a CloudflaredTunnel or Ingress whose spec cannot
// be projected into a valid cloudflared configuration: a hostname with no
// matching zone, a DNS name already used by a conflicting record, a resource
// (non-Service) backend reference, or an Ingress rule missing a host.
var ErrIllegalDocument = errors.New("illegal document")

// ErrNoMatchingZone indicates a hostname has no Cloudflare zone whose name is
// a dot-suffix of it.
var ErrNoMatchingZone = errors.New("no matching zone for hostname")

// ErrConflictingDNSRecord indicates a hostname already has an A, AAAA, or
// foreign CNAME record that the tunnel cannot safely replace.
var ErrConflictingDNSRecord = errors.New("conflicting DNS record for hostname")

// ErrSecretTooShort indicates a tunnel credential Secret's tunnel_secret key
// held fewer than 32 bytes.
var ErrSecretTooShort = errors.New("tunnel secret shorter than 32 bytes")

// ErrUnsupportedBackend indicates an Ingress path referenced a resource
// backend instead of a Service backend.
var ErrUnsupportedBackend = errors.New("unsupported ingress backend")

// ErrUnsupportedPathType indicates an Ingress path used a PathType this
// controller cannot translate into a cloudflared path regex.
var ErrUnsupportedPathType = errors.New("unsupported ingress path type")

// ErrMissingHost indicates an Ingress rule had no host set.
var ErrMissingHost = errors.New("ingress rule missing host")

// IllegalDocument wraps cause as an ErrIllegalDocument, recording which
// resource and field triggered it.
func IllegalDocument(resource, detail string, cause error) error {
	if cause == nil {
		cause = ErrIllegalDocument
	}
	return fmt.Errorf("%s: %s: %w", resource, detail, cause)
}

// IsIllegalDocument reports whether err (or a wrapped cause) is an
// ErrIllegalDocument-class failure. These are permanent: reconciling again
// without a spec change will not resolve them.
func IsIllegalDocument(err error) bool {
	return errors.Is(err, ErrIllegalDocument) ||
		errors.Is(err, ErrNoMatchingZone) ||
		errors.Is(err, ErrConflictingDNSRecord) ||
		errors.Is(err, ErrSecretTooShort) ||
		errors.Is(err, ErrUnsupportedBackend) ||
		errors.Is(err, ErrUnsupportedPathType) ||
		errors.Is(err, ErrMissingHost)
}

// PartialResult aggregates errors encountered while processing a collection
// of independent items (e.g. per-zone DNS reconciliation) so one item's
// failure does not hide another's.
type PartialResult struct {
	errs []error
}

// Add records an error if it is non-nil.
func (p *PartialResult) Add(err error) {
	if err != nil {
		p.errs = append(p.errs, err)
	}
}

// Err returns a combined error, or nil if nothing was recorded.
func (p *PartialResult) Err() error {
	return errors.Join(p.errs...)
}
