// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/clients/cf"
	ctrlcommon "github.com/chalharu/cloudflared-ingress/internal/controller"
	"github.com/chalharu/cloudflared-ingress/internal/controller/common"
)

// Reconciler reconciles a CloudflaredTunnel: it creates or reuses a
// Cloudflare Tunnel, converges the tunnel's CNAME records and cloudflared
// Deployment to match spec, and drains both on deletion. A single
// CloudflareClient is shared across every CloudflaredTunnel in the cluster,
// since Cloudflare tunnels and zones live at the account level rather than
// per-namespace.
type Reconciler struct {
	client.Client
	CloudflareClient cf.CloudflareClient
	AccountID        string
	TunnelPrefix     string
	SweepNamespace   string
	Recorder         record.EventRecorder

	sweeper *sweeper
}

// SetupWithManager registers the controller with mgr.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	if r.sweeper == nil {
		r.sweeper = newSweeper()
	}
	return ctrl.NewControllerManagedBy(mgr).
		For(&cfdv1alpha1.CloudflaredTunnel{}).
		Owns(&cfdv1alpha1.CloudflaredTunnel{}).
		Complete(r)
}

// Reconcile drives a single CloudflaredTunnel towards its desired state.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if r.sweeper == nil {
		r.sweeper = newSweeper()
	}
	r.sweeper.MaybeRun(ctx, r.Client, r.CloudflareClient, r.SweepNamespace, r.TunnelPrefix)

	cr := &cfdv1alpha1.CloudflaredTunnel{}
	if err := r.Get(ctx, req.NamespacedName, cr); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if ctrlcommon.IsBeingDeleted(cr) {
		return r.reconcileDelete(ctx, cr)
	}

	added, err := ensureFinalizer(ctx, r.Client, cr)
	if err != nil {
		if apierrors.IsConflict(err) {
			return ctrl.Result{Requeue: true}, nil
		}
		return ctrl.Result{}, fmt.Errorf("add finalizer: %w", err)
	}
	if added {
		return ctrl.Result{Requeue: true}, nil
	}

	if err := Converge(ctx, r.Client, r.CloudflareClient, r.AccountID, r.TunnelPrefix, cr); err != nil {
		logger.Error(err, "reconcile failed", "cloudflaredtunnel", req.NamespacedName)
		ctrlcommon.RecordErrorEventAndCondition(r.Recorder, cr, &cr.Status.Conditions, "ReconcileError", err)
		if statusErr := r.Status().Update(ctx, cr); statusErr != nil {
			logger.Error(statusErr, "failed to persist error condition")
		}

		return ctrl.Result{RequeueAfter: 60 * time.Second}, nil
	}

	cr.Status.ObservedGeneration = cr.Generation
	ctrlcommon.RecordSuccessEventAndCondition(r.Recorder, cr, &cr.Status.Conditions, "Reconciled", "tunnel converged")
	if err := r.Status().Update(ctx, cr); err != nil {
		if apierrors.IsConflict(err) {
			return ctrl.Result{Requeue: true}, nil
		}
		return ctrl.Result{}, fmt.Errorf("persist success status: %w", err)
	}

	return ctrl.Result{RequeueAfter: time.Hour}, nil
}

func (r *Reconciler) reconcileDelete(ctx context.Context, cr *cfdv1alpha1.CloudflaredTunnel) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if !ctrlcommon.HasFinalizer(cr, FinalizerName) {
		return ctrl.Result{}, nil
	}

	if err := Finalize(ctx, r.CloudflareClient, cr); err != nil {
		logger.Error(err, "finalizer cleanup failed")
		r.Recorder.Event(cr, "Warning", "DeleteFailed", cf.SanitizeErrorMessage(err))
		return common.RequeueForError(err, 0), nil
	}

	if err := removeFinalizer(ctx, r.Client, cr); err != nil {
		if apierrors.IsConflict(err) {
			return ctrl.Result{Requeue: true}, nil
		}
		return ctrl.Result{}, fmt.Errorf("remove finalizer: %w", err)
	}

	return ctrl.Result{}, nil
}
