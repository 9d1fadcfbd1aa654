// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package ingress

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/cferrors"
)

// defaultControllerName is the controller identifier an IngressClass must
// carry to be selected, absent an operator override.
const defaultControllerName = "chalharu.top/cloudflared-ingress-controller"

// isDefaultClassAnnotation marks an IngressClass as the fallback for
// Ingresses with no ingressClassName set.
const isDefaultClassAnnotation = "ingressclass.kubernetes.io/is-default-class"

// schemeAnnotation overrides the origin scheme cloudflared dials, per-Ingress.
const schemeAnnotation = "cloudflared-ingress.ingress.kubernetes.io/service.serversscheme"

// IsSelected reports whether ic should be handled by this controller,
// honoring an optional restriction to a single IngressClass name.
func IsSelected(ic *networkingv1.IngressClass, controllerName, restrictToName string) bool {
	if ic.Spec.Controller != controllerName {
		return false
	}
	if restrictToName != "" && ic.Name != restrictToName {
		return false
	}
	return true
}

// IsDefaultClass reports whether ic carries the default-class annotation.
func IsDefaultClass(ic *networkingv1.IngressClass) bool {
	v, ok := ic.Annotations[isDefaultClassAnnotation]
	return ok && strings.EqualFold(v, "true")
}

// BelongsToClass reports whether ing routes through class ic: either it
// names ic explicitly, or it has no class set and ic is the default.
func BelongsToClass(ing *networkingv1.Ingress, ic *networkingv1.IngressClass, icIsDefault bool) bool {
	if ing.Spec.IngressClassName != nil {
		return *ing.Spec.IngressClassName == ic.Name
	}
	return icIsDefault
}

// servicePorts maps "<name>.<namespace>.svc" to a port-name → port-number
// table, the lookup path resolution needs for named service ports. Unnamed
// ports are not indexed.
type servicePorts map[string]map[string]int32

// BuildServicePorts indexes svcs the way the projection algorithm expects.
func BuildServicePorts(svcs []corev1.Service) servicePorts {
	out := make(servicePorts, len(svcs))
	for _, svc := range svcs {
		key := fmt.Sprintf("%s.%s.svc", svc.Name, svc.Namespace)
		named := make(map[string]int32, len(svc.Spec.Ports))
		for _, p := range svc.Spec.Ports {
			if p.Name != "" {
				named[p.Name] = p.Port
			}
		}
		out[key] = named
	}
	return out
}

// defaultPortForScheme returns the port a URL omits when it's the scheme's
// well-known default.
func defaultPortForScheme(scheme string) int32 {
	if scheme == "https" {
		return 443
	}
	return 80
}

// ProjectIngressClass implements the per-IngressClass projection algorithm:
// it returns the ingress rules to place on the synthesized CloudflaredTunnel
// for ic, built from every retained Ingress.
func ProjectIngressClass(ic *networkingv1.IngressClass, icIsDefault bool, ings []*networkingv1.Ingress, ports servicePorts) ([]cfdv1alpha1.CloudflaredTunnelIngress, error) {
	var out []cfdv1alpha1.CloudflaredTunnelIngress

	for _, ing := range ings {
		if !BelongsToClass(ing, ic, icIsDefault) {
			continue
		}

		scheme := "http"
		if v, ok := ing.Annotations[schemeAnnotation]; ok && v != "" {
			scheme = strings.ToLower(v)
		}

		rules := ing.Spec.Rules
		if len(rules) == 0 {
			if ing.Spec.DefaultBackend == nil {
				return nil, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s has no rules and no defaultBackend", ing.Namespace, ing.Name), cferrors.ErrMissingHost)
			}
			rules = []networkingv1.IngressRule{{
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{Backend: *ing.Spec.DefaultBackend}},
					},
				},
			}}
		}

		for _, rule := range rules {
			if rule.Host == "" {
				return nil, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s has a rule with no host", ing.Namespace, ing.Name), cferrors.ErrMissingHost)
			}
			if rule.HTTP == nil {
				if ing.Spec.DefaultBackend == nil {
					return nil, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s host %q has no http rule or defaultBackend", ing.Namespace, ing.Name, rule.Host), cferrors.ErrMissingHost)
				}
				rule.HTTP = &networkingv1.HTTPIngressRuleValue{
					Paths: []networkingv1.HTTPIngressPath{{Backend: *ing.Spec.DefaultBackend}},
				}
			}

			for _, p := range rule.HTTP.Paths {
				entry, err := projectPath(ing, rule.Host, scheme, p, ports)
				if err != nil {
					return nil, err
				}
				out = append(out, entry)
			}
		}
	}

	return out, nil
}

func projectPath(ing *networkingv1.Ingress, host, scheme string, p networkingv1.HTTPIngressPath, ports servicePorts) (cfdv1alpha1.CloudflaredTunnelIngress, error) {
	if p.Backend.Resource != nil {
		return cfdv1alpha1.CloudflaredTunnelIngress{}, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s path backend is a resource, not a service", ing.Namespace, ing.Name), cferrors.ErrUnsupportedBackend)
	}
	if p.Backend.Service == nil {
		return cfdv1alpha1.CloudflaredTunnelIngress{}, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s path has no service backend", ing.Namespace, ing.Name), cferrors.ErrUnsupportedBackend)
	}

	svcRef := p.Backend.Service
	port, err := resolvePort(ing, svcRef, ports)
	if err != nil {
		return cfdv1alpha1.CloudflaredTunnelIngress{}, err
	}

	hostPort := ""
	if port != defaultPortForScheme(scheme) {
		hostPort = fmt.Sprintf(":%d", port)
	}
	service := fmt.Sprintf("%s://%s.%s.svc%s", scheme, svcRef.Name, ing.Namespace, hostPort)

	path, err := projectPathPattern(ing, p)
	if err != nil {
		return cfdv1alpha1.CloudflaredTunnelIngress{}, err
	}

	return cfdv1alpha1.CloudflaredTunnelIngress{
		Hostname: host,
		Service:  service,
		Path:     path,
	}, nil
}

func resolvePort(ing *networkingv1.Ingress, svcRef *networkingv1.IngressServiceBackend, ports servicePorts) (int32, error) {
	if svcRef.Port.Number != 0 {
		return svcRef.Port.Number, nil
	}
	if svcRef.Port.Name == "" {
		return 0, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s service %q has no port number or name", ing.Namespace, ing.Name, svcRef.Name), cferrors.ErrUnsupportedBackend)
	}

	key := fmt.Sprintf("%s.%s.svc", svcRef.Name, ing.Namespace)
	named, ok := ports[key]
	if !ok {
		return 0, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s references unknown service %q", ing.Namespace, ing.Name, svcRef.Name), cferrors.ErrUnsupportedBackend)
	}
	port, ok := named[svcRef.Port.Name]
	if !ok {
		return 0, cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s service %q has no port named %q", ing.Namespace, ing.Name, svcRef.Name, svcRef.Port.Name), cferrors.ErrUnsupportedBackend)
	}
	return port, nil
}

func projectPathPattern(ing *networkingv1.Ingress, p networkingv1.HTTPIngressPath) (string, error) {
	pathType := networkingv1.PathTypeImplementationSpecific
	if p.PathType != nil {
		pathType = *p.PathType
	}

	switch pathType {
	case networkingv1.PathTypeExact:
		path := p.Path
		if path == "" {
			path = "/"
		}
		return "^" + escapePath(path) + "$", nil
	case networkingv1.PathTypePrefix, networkingv1.PathTypeImplementationSpecific:
		if p.Path == "" || p.Path == "/" {
			return "", nil
		}
		return "^" + escapePath(p.Path), nil
	default:
		return "", cferrors.IllegalDocument("ingress", fmt.Sprintf("%s/%s uses unsupported pathType %q", ing.Namespace, ing.Name, pathType), cferrors.ErrUnsupportedPathType)
	}
}
