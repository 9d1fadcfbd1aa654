// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
)

// DeploymentName returns the name of the cloudflared Deployment owned by owner.
func DeploymentName(owner *cfdv1alpha1.CloudflaredTunnel) string {
	return fmt.Sprintf("%s-cloudflared", owner.Name)
}

// BuildConfigSecret builds the Opaque Secret holding the rendered
// config.yml and `<tunnel_id>.json` credentials file.
func BuildConfigSecret(owner *cfdv1alpha1.CloudflaredTunnel, name, tunnelID string, configYAML, credentialsJSON []byte) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:            name,
			Namespace:       owner.Namespace,
			OwnerReferences: []metav1.OwnerReference{ownerReference(owner)},
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			ConfigFileName:                configYAML,
			CredentialsFileKey(tunnelID): credentialsJSON,
		},
	}
}

// BuildDeployment builds the 1-replica cloudflared Deployment described in
// the data model: name `<cr-name>-cloudflared`, config Secret mounted at
// /etc/cloudflared, container name equal to the Deployment name.
func BuildDeployment(owner *cfdv1alpha1.CloudflaredTunnel, configSecretName, tunnelID string) *appsv1.Deployment {
	name := DeploymentName(owner)
	labels := map[string]string{"app": "cloudflared"}

	image := owner.Spec.Image
	if image == "" {
		image = DefaultImage
	}

	args := owner.Spec.Args
	if len(args) == 0 {
		args = []string{
			"tunnel", "--no-autoupdate",
			"--config", fmt.Sprintf("%s/%s", MountPath, ConfigFileName),
			"run", tunnelID,
		}
	}

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:            name,
			Namespace:       owner.Namespace,
			Labels:          labels,
			OwnerReferences: []metav1.OwnerReference{ownerReference(owner)},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:    name,
							Image:   image,
							Command: owner.Spec.Command,
							Args:    args,
							VolumeMounts: []corev1.VolumeMount{
								{Name: "config", MountPath: MountPath},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "config",
							VolumeSource: corev1.VolumeSource{
								Secret: &corev1.SecretVolumeSource{
									SecretName: configSecretName,
									DefaultMode: ptr.To(int32(0644)),
									Optional:    ptr.To(false),
								},
							},
						},
					},
				},
			},
		},
	}
}
