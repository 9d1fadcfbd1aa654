// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"
)

func TestRecordSuccessEventAndCondition(t *testing.T) {
	recorder := record.NewFakeRecorder(10)
	obj := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "default"}}
	var conditions []metav1.Condition

	RecordSuccessEventAndCondition(recorder, obj, &conditions, "Reconciled", "converged")

	require.Len(t, conditions, 1)
	assert.Equal(t, metav1.ConditionTrue, conditions[0].Status)
	assert.Equal(t, "Reconciled", conditions[0].Reason)

	event := <-recorder.Events
	assert.Contains(t, event, "Normal")
	assert.Contains(t, event, "Reconciled")
}

func TestRecordErrorEventAndCondition_SanitizesMessage(t *testing.T) {
	recorder := record.NewFakeRecorder(10)
	obj := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "app", Namespace: "default"}}
	var conditions []metav1.Condition

	RecordErrorEventAndCondition(recorder, obj, &conditions, "ReconcileError", errors.New("401 unauthorized: secret token rejected"))

	require.Len(t, conditions, 1)
	assert.Equal(t, metav1.ConditionFalse, conditions[0].Status)
	assert.Equal(t, "authentication failed - check credentials", conditions[0].Message)

	event := <-recorder.Events
	assert.Contains(t, event, "Warning")
	assert.Contains(t, event, "ReconcileError")
}
