package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ScottyLabs/terrier/internal/config"
	"github.com/ScottyLabs/terrier/internal/discovery"
	"github.com/ScottyLabs/terrier/internal/flow"
	"github.com/ScottyLabs/terrier/internal/keymaterial"
	"github.com/ScottyLabs/terrier/internal/logging"
	"github.com/ScottyLabs/terrier/internal/mdq"
	"github.com/ScottyLabs/terrier/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the SAML proxy HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel)

	proxyKey, err := keymaterial.Load(cfg.IDPCertPath, cfg.IDPKeyPath)
	if err != nil {
		return err
	}
	mdqTrustAnchor, err := keymaterial.LoadTrustAnchor(cfg.MDQSigningCertPath)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	state := &flow.State{
		Config:     cfg,
		Sessions:   session.NewStore(),
		MDQ:        mdq.NewClient(cfg.MDQBaseURL, httpClient, mdqTrustAnchor),
		Index:      discovery.NewIndex(cfg.AggregateURL, httpClient),
		ProxyKey:   proxyKey,
		HTTPClient: httpClient,
		Log:        log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopCleanup := make(chan struct{})
	go state.Sessions.RunCleanupLoop(stopCleanup, log)
	defer close(stopCleanup)

	// RunRefreshLoop performs its own immediate refresh before ticking, so
	// no separate initial Refresh call is needed here.
	stopRefresh := make(chan struct{})
	go state.Index.RunRefreshLoop(ctx, stopRefresh, log)
	defer close(stopRefresh)

	mux := flow.NewMux(state, cfg.StaticDir)

	log.WithField("addr", cfg.Addr()).Info("starting saml proxy")
	return flow.Run(ctx, cfg.Addr(), mux, cfg.ShutdownTimeout)
}
