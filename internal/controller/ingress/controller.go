// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package ingress

import (
	"context"
	"fmt"
	"sync"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
)

// classRef is the minimal ObjectRef the Ingress→IngressClass event mapping
// needs to key off of; IngressClass is cluster-scoped so only the name
// matters, but it's carried as a full key for clarity at call sites.
type classRef struct {
	Name string
}

// Reconciler projects selected IngressClasses into synthesized
// CloudflaredTunnel resources. It watches IngressClass as the primary
// resource and Ingress as a secondary resource, mapping every Ingress event
// back to the IngressClass(es) it could affect via a small guarded map, per
// the "shared mutable map" design note.
type Reconciler struct {
	client.Client
	ControllerName  string
	RestrictToClass string
	TunnelNamespace string

	mu        sync.RWMutex
	classRefs map[string]classRef // ingressClassName ("" = unset) -> class
}

// SetupWithManager registers the controller with mgr, wiring the Ingress
// secondary watch through a map function that resolves to the owning
// IngressClass's reconcile request.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	if r.ControllerName == "" {
		r.ControllerName = defaultControllerName
	}
	if r.classRefs == nil {
		r.classRefs = make(map[string]classRef)
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&networkingv1.IngressClass{}).
		Watches(&networkingv1.Ingress{}, handler.EnqueueRequestsFromMapFunc(r.mapIngressToClass)).
		Owns(&cfdv1alpha1.CloudflaredTunnel{}).
		Complete(r)
}

// mapIngressToClass resolves an Ingress event to the reconcile.Request for
// its owning IngressClass, read from the guarded map built by the last
// reconcile. An Ingress whose class is not currently tracked produces no
// request; the next IngressClass-driven reconcile will pick it up.
func (r *Reconciler) mapIngressToClass(_ context.Context, obj client.Object) []reconcile.Request {
	ing, ok := obj.(*networkingv1.Ingress)
	if !ok {
		return nil
	}

	key := ""
	if ing.Spec.IngressClassName != nil {
		key = *ing.Spec.IngressClassName
	}

	r.mu.RLock()
	ref, ok := r.classRefs[key]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	return []reconcile.Request{{NamespacedName: types.NamespacedName{Name: ref.Name}}}
}

// Reconcile rebuilds the class→ObjectRef map and re-projects every selected
// IngressClass, not only req's target, since an Ingress's class assignment
// may have changed and any event should settle the full set per the
// "any event triggers a full reconcile" contract.
func (r *Reconciler) Reconcile(ctx context.Context, _ ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	var classes networkingv1.IngressClassList
	if err := r.List(ctx, &classes); err != nil {
		return ctrl.Result{}, fmt.Errorf("list ingressclasses: %w", err)
	}

	newRefs := make(map[string]classRef, len(classes.Items))
	var selected []*networkingv1.IngressClass
	for i := range classes.Items {
		ic := &classes.Items[i]
		if !IsSelected(ic, r.ControllerName, r.RestrictToClass) {
			continue
		}
		selected = append(selected, ic)
		if IsDefaultClass(ic) {
			newRefs[""] = classRef{Name: ic.Name}
		}
		newRefs[ic.Name] = classRef{Name: ic.Name}
	}

	r.mu.Lock()
	r.classRefs = newRefs
	r.mu.Unlock()

	var ings networkingv1.IngressList
	if err := r.List(ctx, &ings); err != nil {
		return ctrl.Result{}, fmt.Errorf("list ingresses: %w", err)
	}
	ingPtrs := make([]*networkingv1.Ingress, len(ings.Items))
	for i := range ings.Items {
		ingPtrs[i] = &ings.Items[i]
	}

	var svcs corev1.ServiceList
	if err := r.List(ctx, &svcs); err != nil {
		return ctrl.Result{}, fmt.Errorf("list services: %w", err)
	}
	ports := BuildServicePorts(svcs.Items)

	var firstErr error
	for _, ic := range selected {
		if err := r.reconcileClass(ctx, ic, ingPtrs, ports); err != nil {
			logger.Error(err, "failed to project ingressclass", "ingressclass", ic.Name)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return ctrl.Result{RequeueAfter: requeueAfterError}, nil
	}
	return ctrl.Result{RequeueAfter: requeueAfterSuccess}, nil
}

func (r *Reconciler) reconcileClass(ctx context.Context, ic *networkingv1.IngressClass, ings []*networkingv1.Ingress, ports servicePorts) error {
	icIsDefault := IsDefaultClass(ic)

	rules, err := ProjectIngressClass(ic, icIsDefault, ings, ports)
	if err != nil {
		return err
	}

	cr := &cfdv1alpha1.CloudflaredTunnel{
		TypeMeta: metav1.TypeMeta{APIVersion: cfdv1alpha1.GroupVersion.String(), Kind: "CloudflaredTunnel"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      ic.Name,
			Namespace: r.TunnelNamespace,
			OwnerReferences: []metav1.OwnerReference{
				{
					APIVersion: networkingv1.SchemeGroupVersion.String(),
					Kind:       "IngressClass",
					Name:       ic.Name,
					UID:        ic.UID,
					Controller: boolPtr(true),
				},
			},
		},
		Spec: cfdv1alpha1.CloudflaredTunnelSpec{
			Ingress:               rules,
			DefaultIngressService: "http_status:404",
		},
	}

	return r.Patch(ctx, cr, client.Apply, client.FieldOwner(FieldManager))
}

func boolPtr(b bool) *bool { return &b }
