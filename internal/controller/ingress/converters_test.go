// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package ingress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
)

func pathType(t networkingv1.PathType) *networkingv1.PathType { return &t }

func TestIsSelected(t *testing.T) {
	ic := &networkingv1.IngressClass{Spec: networkingv1.IngressClassSpec{Controller: defaultControllerName}}

	assert.True(t, IsSelected(ic, defaultControllerName, ""))
	assert.False(t, IsSelected(ic, "other.controller", ""))

	ic.Name = "public"
	assert.True(t, IsSelected(ic, defaultControllerName, "public"))
	assert.False(t, IsSelected(ic, defaultControllerName, "private"))
}

func TestIsDefaultClass(t *testing.T) {
	ic := &networkingv1.IngressClass{}
	assert.False(t, IsDefaultClass(ic))

	ic.Annotations = map[string]string{isDefaultClassAnnotation: "True"}
	assert.True(t, IsDefaultClass(ic))

	ic.Annotations[isDefaultClassAnnotation] = "false"
	assert.False(t, IsDefaultClass(ic))
}

func TestBelongsToClass(t *testing.T) {
	ic := &networkingv1.IngressClass{ObjectMeta: metav1.ObjectMeta{Name: "public"}}

	explicit := &networkingv1.Ingress{Spec: networkingv1.IngressSpec{IngressClassName: strPtr("public")}}
	assert.True(t, BelongsToClass(explicit, ic, false))

	other := &networkingv1.Ingress{Spec: networkingv1.IngressSpec{IngressClassName: strPtr("other")}}
	assert.False(t, BelongsToClass(other, ic, true))

	unset := &networkingv1.Ingress{}
	assert.True(t, BelongsToClass(unset, ic, true))
	assert.False(t, BelongsToClass(unset, ic, false))
}

func strPtr(s string) *string { return &s }

func TestBuildServicePorts(t *testing.T) {
	svcs := []corev1.Service{
		{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
			Spec: corev1.ServiceSpec{Ports: []corev1.ServicePort{
				{Name: "http", Port: 80},
				{Name: "https", Port: 443},
				{Port: 9000},
			}},
		},
	}

	ports := BuildServicePorts(svcs)
	named := ports["web.default.svc"]
	require.NotNil(t, named)
	assert.Equal(t, int32(80), named["http"])
	assert.Equal(t, int32(443), named["https"])
	_, ok := named[""]
	assert.False(t, ok)
}

func TestResolvePort(t *testing.T) {
	ing := &networkingv1.Ingress{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "app"}}
	ports := servicePorts{"web.default.svc": {"http": 80}}

	byNumber := &networkingv1.IngressServiceBackend{Name: "web", Port: networkingv1.ServiceBackendPort{Number: 8080}}
	got, err := resolvePort(ing, byNumber, ports)
	require.NoError(t, err)
	assert.Equal(t, int32(8080), got)

	byName := &networkingv1.IngressServiceBackend{Name: "web", Port: networkingv1.ServiceBackendPort{Name: "http"}}
	got, err = resolvePort(ing, byName, ports)
	require.NoError(t, err)
	assert.Equal(t, int32(80), got)

	unknownPort := &networkingv1.IngressServiceBackend{Name: "web", Port: networkingv1.ServiceBackendPort{Name: "grpc"}}
	_, err = resolvePort(ing, unknownPort, ports)
	assert.True(t, cferrors.IsIllegalDocument(err))

	unknownSvc := &networkingv1.IngressServiceBackend{Name: "missing", Port: networkingv1.ServiceBackendPort{Name: "http"}}
	_, err = resolvePort(ing, unknownSvc, ports)
	assert.True(t, cferrors.IsIllegalDocument(err))
}

func TestProjectPathPattern(t *testing.T) {
	ing := &networkingv1.Ingress{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "app"}}

	exact, err := projectPathPattern(ing, networkingv1.HTTPIngressPath{Path: "/status", PathType: pathType(networkingv1.PathTypeExact)})
	require.NoError(t, err)
	assert.Equal(t, `^/status$`, exact)

	prefix, err := projectPathPattern(ing, networkingv1.HTTPIngressPath{Path: "/api", PathType: pathType(networkingv1.PathTypePrefix)})
	require.NoError(t, err)
	assert.Equal(t, `^/api`, prefix)

	rootPrefix, err := projectPathPattern(ing, networkingv1.HTTPIngressPath{Path: "/", PathType: pathType(networkingv1.PathTypePrefix)})
	require.NoError(t, err)
	assert.Equal(t, "", rootPrefix)

	impl, err := projectPathPattern(ing, networkingv1.HTTPIngressPath{Path: "/legacy", PathType: pathType(networkingv1.PathTypeImplementationSpecific)})
	require.NoError(t, err)
	assert.Equal(t, `^/legacy`, impl)

	_, err = projectPathPattern(ing, networkingv1.HTTPIngressPath{Path: "/x", PathType: pathType(networkingv1.PathType("Bogus"))})
	assert.True(t, cferrors.IsIllegalDocument(err))
}

func TestProjectIngressClass_DefaultBackendFallback(t *testing.T) {
	ic := &networkingv1.IngressClass{ObjectMeta: metav1.ObjectMeta{Name: "public"}}
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "app"},
		Spec: networkingv1.IngressSpec{
			DefaultBackend: &networkingv1.IngressBackend{
				Service: &networkingv1.IngressServiceBackend{Name: "web", Port: networkingv1.ServiceBackendPort{Number: 80}},
			},
		},
	}
	// No rules and no host: this should be rejected, since a
	// defaultBackend alone carries no hostname to route on.
	_, err := ProjectIngressClass(ic, false, []*networkingv1.Ingress{ing}, servicePorts{})
	assert.True(t, cferrors.IsIllegalDocument(err))
}

func TestProjectIngressClass_ResourceBackendRejected(t *testing.T) {
	ic := &networkingv1.IngressClass{ObjectMeta: metav1.ObjectMeta{Name: "public"}}
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "app"},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{{
				Host: "app.example.com",
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Backend: networkingv1.IngressBackend{
								Resource: &corev1.TypedLocalObjectReference{Kind: "Bucket", Name: "assets"},
							},
						}},
					},
				},
			}},
		},
	}

	_, err := ProjectIngressClass(ic, false, []*networkingv1.Ingress{ing}, servicePorts{})
	assert.True(t, cferrors.IsIllegalDocument(err))
}

func TestProjectIngressClass_Projects(t *testing.T) {
	ic := &networkingv1.IngressClass{ObjectMeta: metav1.ObjectMeta{Name: "public"}}
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "app"},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{{
				Host: "app.example.com",
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Path:     "/api",
							PathType: pathType(networkingv1.PathTypePrefix),
							Backend: networkingv1.IngressBackend{
								Service: &networkingv1.IngressServiceBackend{Name: "web", Port: networkingv1.ServiceBackendPort{Number: 8080}},
							},
						}},
					},
				},
			}},
		},
	}

	rules, err := ProjectIngressClass(ic, false, []*networkingv1.Ingress{ing}, servicePorts{})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "app.example.com", rules[0].Hostname)
	assert.Equal(t, "http://web.default.svc:8080", rules[0].Service)
	assert.Equal(t, `^/api`, rules[0].Path)
}

func TestProjectIngressClass_DefaultPortOmitted(t *testing.T) {
	ic := &networkingv1.IngressClass{ObjectMeta: metav1.ObjectMeta{Name: "public"}}
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:   "default",
			Name:        "app",
			Annotations: map[string]string{schemeAnnotation: "https"},
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{{
				Host: "app.example.com",
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Backend: networkingv1.IngressBackend{
								Service: &networkingv1.IngressServiceBackend{Name: "web", Port: networkingv1.ServiceBackendPort{Number: 443}},
							},
						}},
					},
				},
			}},
		},
	}

	rules, err := ProjectIngressClass(ic, false, []*networkingv1.Ingress{ing}, servicePorts{})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "https://web.default.svc", rules[0].Service)
}
