// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
)

func TestRequeueHelpers_SetExpectedIntervals(t *testing.T) {
	assert.Equal(t, RequeueIntervalShort, RequeueShort().RequeueAfter)
	assert.Equal(t, RequeueIntervalMedium, RequeueMedium().RequeueAfter)
	assert.Equal(t, RequeueIntervalLong, RequeueLong().RequeueAfter)
	assert.Equal(t, RequeueIntervalVeryLong, RequeueVeryLong().RequeueAfter)
	assert.Equal(t, NoRequeue(), RequeueResult(0))
}

func TestRequeueForError_NilIsNoRequeue(t *testing.T) {
	assert.Equal(t, NoRequeue(), RequeueForError(nil, 0))
}

func TestRequeueForError_NotFoundIsNoRequeue(t *testing.T) {
	assert.Equal(t, NoRequeue(), RequeueForError(errors.New("tunnel not found"), 0))
}

func TestRequeueForError_AuthErrorUsesMaxDelay(t *testing.T) {
	res := RequeueForError(errors.New("403 forbidden"), 0)
	assert.Equal(t, RequeueIntervalVeryLong, res.RequeueAfter)
}

func TestRequeueForError_GenericErrorUsesShortDelay(t *testing.T) {
	res := RequeueForError(errors.New("unexpected failure"), 0)
	assert.Equal(t, RequeueIntervalShort, res.RequeueAfter)
}

func TestShouldRequeueForError(t *testing.T) {
	assert.False(t, ShouldRequeueForError(nil))
	assert.False(t, ShouldRequeueForError(errors.New("tunnel not found")))
	assert.False(t, ShouldRequeueForError(errors.New("401 unauthorized")))
	assert.False(t, ShouldRequeueForError(cferrors.IllegalDocument("ingress", "bad host", nil)))
	assert.True(t, ShouldRequeueForError(errors.New("connection refused")))
}

func TestRequeueWithBackoff_CapsAtMaxDelay(t *testing.T) {
	res := RequeueWithBackoff(RequeueIntervalShort, 0, RequeueIntervalVeryLong)
	assert.Equal(t, RequeueIntervalShort, res.RequeueAfter)

	capped := RequeueWithBackoff(RequeueIntervalShort, 20, RequeueIntervalVeryLong)
	assert.Equal(t, RequeueIntervalVeryLong, capped.RequeueAfter)
}
