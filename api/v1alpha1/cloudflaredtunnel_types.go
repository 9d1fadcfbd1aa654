// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// CloudflaredTunnelOriginRequest mirrors cloudflared's per-ingress-rule
// originRequest configuration block.
type CloudflaredTunnelOriginRequest struct {
	// +optional
	OriginServerName string `json:"originServerName,omitempty"`
	// +optional
	CAPool string `json:"caPool,omitempty"`
	// +optional
	NoTLSVerify bool `json:"noTLSVerify,omitempty"`
	// +optional
	TLSTimeout string `json:"tlsTimeout,omitempty"`
	// +optional
	HTTP2Origin bool `json:"http2Origin,omitempty"`
	// +optional
	HTTPHostHeader string `json:"httpHostHeader,omitempty"`
	// +optional
	DisableChunkedEncoding bool `json:"disableChunkedEncoding,omitempty"`
	// +optional
	ConnectTimeout string `json:"connectTimeout,omitempty"`
	// +optional
	NoHappyEyeballs bool `json:"noHappyEyeballs,omitempty"`
	// +optional
	ProxyType string `json:"proxyType,omitempty"`
	// +optional
	ProxyAddress string `json:"proxyAddress,omitempty"`
	// +optional
	ProxyPort uint16 `json:"proxyPort,omitempty"`
	// +optional
	KeepAliveTimeout string `json:"keepAliveTimeout,omitempty"`
	// +optional
	KeepAliveConnections uint32 `json:"keepAliveConnections,omitempty"`
	// +optional
	TCPKeepAlive string `json:"tcpKeepAlive,omitempty"`
}

// DeepCopy returns a deep copy of CloudflaredTunnelOriginRequest.
func (in *CloudflaredTunnelOriginRequest) DeepCopy() *CloudflaredTunnelOriginRequest {
	if in == nil {
		return nil
	}
	out := new(CloudflaredTunnelOriginRequest)
	*out = *in
	return out
}

// CloudflaredTunnelIngress is a single ingress rule routing a hostname (and
// optional path) to a backend service through the tunnel.
type CloudflaredTunnelIngress struct {
	// Hostname is the public hostname this rule matches.
	Hostname string `json:"hostname"`

	// Service is the origin service URL, e.g. http://my-svc.my-ns.svc:8080.
	Service string `json:"service"`

	// Path is an optional regular expression the request path must match.
	// +optional
	Path string `json:"path,omitempty"`

	// OriginRequest overrides origin request settings for this rule.
	// +optional
	OriginRequest *CloudflaredTunnelOriginRequest `json:"originRequest,omitempty"`
}

// DeepCopy returns a deep copy of CloudflaredTunnelIngress.
func (in *CloudflaredTunnelIngress) DeepCopy() *CloudflaredTunnelIngress {
	if in == nil {
		return nil
	}
	out := new(CloudflaredTunnelIngress)
	*out = *in
	if in.OriginRequest != nil {
		out.OriginRequest = in.OriginRequest.DeepCopy()
	}
	return out
}

// CloudflaredTunnelSpec defines the desired state of a CloudflaredTunnel.
type CloudflaredTunnelSpec struct {
	// OriginRequest holds tunnel-wide default origin request settings.
	// +optional
	OriginRequest *CloudflaredTunnelOriginRequest `json:"originRequest,omitempty"`

	// Ingress is the ordered list of hostname-routing rules. The controller
	// appends a catch-all default rule after these; it must not be supplied
	// here.
	// +optional
	Ingress []CloudflaredTunnelIngress `json:"ingress,omitempty"`

	// SecretRef optionally pins the Secret that holds the tunnel's
	// credentials. When unset the controller names and manages one itself.
	// +optional
	SecretRef *corev1.LocalObjectReference `json:"secretRef,omitempty"`

	// Image is the cloudflared image to run. Defaults to a pinned version
	// when unset.
	// +optional
	Image string `json:"image,omitempty"`

	// Args replaces the cloudflared container's default arguments
	// (`tunnel --no-autoupdate --config <config.yml> run <tunnel-id>`).
	// +optional
	Args []string `json:"args,omitempty"`

	// Command overrides the cloudflared container's entrypoint.
	// +optional
	Command []string `json:"command,omitempty"`

	// DefaultIngressService is the catch-all origin for requests that match
	// no ingress rule. Defaults to "http_status:404".
	// +optional
	DefaultIngressService string `json:"defaultIngressService,omitempty"`
}

// DeepCopyInto copies this CloudflaredTunnelSpec into out.
func (in *CloudflaredTunnelSpec) DeepCopyInto(out *CloudflaredTunnelSpec) {
	*out = *in
	if in.OriginRequest != nil {
		out.OriginRequest = in.OriginRequest.DeepCopy()
	}
	if in.Ingress != nil {
		out.Ingress = make([]CloudflaredTunnelIngress, len(in.Ingress))
		for i := range in.Ingress {
			out.Ingress[i] = in.Ingress[i]
			if in.Ingress[i].OriginRequest != nil {
				out.Ingress[i].OriginRequest = in.Ingress[i].OriginRequest.DeepCopy()
			}
		}
	}
	if in.SecretRef != nil {
		ref := *in.SecretRef
		out.SecretRef = &ref
	}
	if in.Args != nil {
		out.Args = append([]string(nil), in.Args...)
	}
	if in.Command != nil {
		out.Command = append([]string(nil), in.Command...)
	}
}

// DeepCopy returns a deep copy of CloudflaredTunnelSpec.
func (in *CloudflaredTunnelSpec) DeepCopy() *CloudflaredTunnelSpec {
	if in == nil {
		return nil
	}
	out := new(CloudflaredTunnelSpec)
	in.DeepCopyInto(out)
	return out
}

// CloudflaredTunnelStatus defines the observed state of a CloudflaredTunnel.
type CloudflaredTunnelStatus struct {
	// TunnelID is the Cloudflare-assigned tunnel ID once created.
	// +optional
	TunnelID string `json:"tunnelId,omitempty"`

	// TunnelSecretRef names the Secret holding the tunnel's credentials
	// (`tunnel_secret` key), committed before the secret's contents are read
	// so the name itself is stable across reconciles.
	// +optional
	TunnelSecretRef string `json:"tunnelSecretRef,omitempty"`

	// ConfigSecretRef names the Secret holding the rendered cloudflared
	// config.yml and tunnel credentials JSON consumed by the Deployment.
	// +optional
	ConfigSecretRef string `json:"configSecretRef,omitempty"`

	// ObservedGeneration is the most recent spec generation the controller
	// has reconciled.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions holds the latest observations, including the Ready
	// condition used by callers polling for convergence.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// DeepCopyInto copies this CloudflaredTunnelStatus into out.
func (in *CloudflaredTunnelStatus) DeepCopyInto(out *CloudflaredTunnelStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopy returns a deep copy of CloudflaredTunnelStatus.
func (in *CloudflaredTunnelStatus) DeepCopy() *CloudflaredTunnelStatus {
	if in == nil {
		return nil
	}
	out := new(CloudflaredTunnelStatus)
	in.DeepCopyInto(out)
	return out
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=cfdt
// +kubebuilder:printcolumn:name="Tunnel ID",type=string,JSONPath=`.status.tunnelId`
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.conditions[?(@.type=="Ready")].status`

// CloudflaredTunnel is the Schema for the cloudflaredtunnels API. Each
// CloudflaredTunnel owns exactly one Cloudflare Tunnel, one cloudflared
// Deployment, and the Secrets backing both.
type CloudflaredTunnel struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CloudflaredTunnelSpec   `json:"spec,omitempty"`
	Status CloudflaredTunnelStatus `json:"status,omitempty"`
}

// DeepCopyInto copies this CloudflaredTunnel into out.
func (in *CloudflaredTunnel) DeepCopyInto(out *CloudflaredTunnel) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of CloudflaredTunnel.
func (in *CloudflaredTunnel) DeepCopy() *CloudflaredTunnel {
	if in == nil {
		return nil
	}
	out := new(CloudflaredTunnel)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *CloudflaredTunnel) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// +kubebuilder:object:root=true

// CloudflaredTunnelList contains a list of CloudflaredTunnel.
type CloudflaredTunnelList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CloudflaredTunnel `json:"items"`
}

// DeepCopyInto copies this CloudflaredTunnelList into out.
func (in *CloudflaredTunnelList) DeepCopyInto(out *CloudflaredTunnelList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]CloudflaredTunnel, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of CloudflaredTunnelList.
func (in *CloudflaredTunnelList) DeepCopy() *CloudflaredTunnelList {
	if in == nil {
		return nil
	}
	out := new(CloudflaredTunnelList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *CloudflaredTunnelList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func init() {
	SchemeBuilder.Register(&CloudflaredTunnel{}, &CloudflaredTunnelList{})
}
