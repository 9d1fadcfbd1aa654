// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cferrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIllegalDocument_WrapsGivenCause(t *testing.T) {
	err := IllegalDocument("ingress", `hostname "app.example.com" unresolved`, ErrNoMatchingZone)
	assert.True(t, errors.Is(err, ErrNoMatchingZone))
	assert.True(t, IsIllegalDocument(err))
	assert.Contains(t, err.Error(), "app.example.com")
}

func TestIllegalDocument_DefaultsCauseWhenNil(t *testing.T) {
	err := IllegalDocument("ingress", "missing host", nil)
	assert.True(t, errors.Is(err, ErrIllegalDocument))
	assert.True(t, IsIllegalDocument(err))
}

func TestIsIllegalDocument_RecognizesEveryVariant(t *testing.T) {
	variants := []error{
		ErrIllegalDocument,
		ErrNoMatchingZone,
		ErrConflictingDNSRecord,
		ErrSecretTooShort,
		ErrUnsupportedBackend,
		ErrUnsupportedPathType,
		ErrMissingHost,
	}
	for _, v := range variants {
		assert.True(t, IsIllegalDocument(v), "expected %v to classify as illegal document", v)
	}
}

func TestIsIllegalDocument_RejectsUnrelatedError(t *testing.T) {
	assert.False(t, IsIllegalDocument(errors.New("transient network error")))
	assert.False(t, IsIllegalDocument(nil))
}

func TestPartialResult_AggregatesNonNilErrors(t *testing.T) {
	var p PartialResult
	assert.NoError(t, p.Err())

	p.Add(nil)
	p.Add(errors.New("zone a failed"))
	p.Add(errors.New("zone b failed"))

	err := p.Err()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "zone a failed")
	assert.Contains(t, err.Error(), "zone b failed")
}
