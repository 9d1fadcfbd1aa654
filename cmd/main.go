// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	cfdv1alpha1 "github.com/chalharu/cloudflared-ingress/api/v1alpha1"
	"github.com/chalharu/cloudflared-ingress/internal/cliconfig"
	"github.com/chalharu/cloudflared-ingress/internal/clients/cf"
	"github.com/chalharu/cloudflared-ingress/internal/controller/ingress"
	"github.com/chalharu/cloudflared-ingress/internal/controller/tunnel"
	"github.com/chalharu/cloudflared-ingress/internal/crdyaml"
	"github.com/chalharu/cloudflared-ingress/internal/health"
)

func main() {
	root := &cobra.Command{
		Use:   "cloudflared-ingress",
		Short: "Projects Kubernetes Ingress and IngressClass resources onto Cloudflare Tunnels",
	}

	root.AddCommand(newCreateYAMLCommand())
	root.AddCommand(newRunCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newCreateYAMLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-yaml",
		Short: "Print the CloudflaredTunnel CustomResourceDefinition as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(crdyaml.CloudflaredTunnel)
			return err
		},
	}
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tunnel and ingress controllers",
	}
	v := cliconfig.BindFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := cliconfig.Load(v)
		return runManager(cmd.Context(), cfg)
	}
	return cmd
}

func runManager(ctx context.Context, cfg cliconfig.RunConfig) error {
	opts := zap.Options{
		Development: true,
		TimeEncoder: zapcore.TimeEncoderOfLayout(time.RFC3339),
	}
	logger := zap.New(zap.UseFlagOptions(&opts))
	ctrl.SetLogger(logger)
	setupLog := logger.WithName("setup")

	if cfg.CloudflareToken == "" {
		return fmt.Errorf("--cloudflare-token is required")
	}
	if cfg.CloudflareAccountID == "" {
		return fmt.Errorf("--cloudflare-account-id is required")
	}

	runtimeScheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(runtimeScheme))
	utilruntime.Must(cfdv1alpha1.AddToScheme(runtimeScheme))

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 runtimeScheme,
		Metrics:                metricsserver.Options{BindAddress: "0"},
		HealthProbeBindAddress: "0",
		LeaderElection:         true,
		LeaderElectionID:       "cloudflared-ingress.chalharu.top",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		return err
	}

	cfClient, err := cf.GetDefaultFactory().NewClient(cf.ClientConfig{
		Log:       setupLog,
		APIToken:  cfg.CloudflareToken,
		AccountID: cfg.CloudflareAccountID,
	})
	if err != nil {
		setupLog.Error(err, "unable to build cloudflare client")
		return err
	}

	if err := (&tunnel.Reconciler{
		Client:           mgr.GetClient(),
		CloudflareClient: cfClient,
		AccountID:        cfg.CloudflareAccountID,
		TunnelPrefix:     cfg.CloudflareTunnelPrefix,
		Recorder:         mgr.GetEventRecorderFor("cloudflaredtunnel-controller"),
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "CloudflaredTunnel")
		return err
	}

	if err := (&ingress.Reconciler{
		Client:          mgr.GetClient(),
		ControllerName:  cfg.IngressController,
		RestrictToClass: cfg.IngressClass,
		TunnelNamespace: cfg.CloudflareTunnelNS,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Ingress")
		return err
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		return err
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		return err
	}

	healthSrv := &health.Server{Addr: "0.0.0.0:8080", Log: setupLog.WithName("health")}

	signalCtx := ctrl.SetupSignalHandler()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-signalCtx.Done()
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		setupLog.Info("starting manager")
		return mgr.Start(gctx)
	})
	g.Go(func() error {
		return healthSrv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		setupLog.Error(err, "problem running manager")
		return err
	}
	return nil
}
