// Command pricingd prices resale orders from marketplace evidence. Orders
// are enqueued over HTTP and priced in the background.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/concurrent"
	"github.com/guarzo/resaleprice/internal/config"
	"github.com/guarzo/resaleprice/internal/ebay"
	"github.com/guarzo/resaleprice/internal/enrich"
	"github.com/guarzo/resaleprice/internal/fx"
	"github.com/guarzo/resaleprice/internal/httpapi"
	"github.com/guarzo/resaleprice/internal/logging"
	"github.com/guarzo/resaleprice/internal/marketplace"
	"github.com/guarzo/resaleprice/internal/orders"
	"github.com/guarzo/resaleprice/internal/refresh"
	"github.com/guarzo/resaleprice/internal/sales"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	log := logging.Component(logger, "pricingd")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := orders.Open(ctx, cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("failed to open order store")
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("failed to migrate order store")
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	tokens := ebay.NewTokenCache(ebay.Credentials{
		ClientID:     cfg.EBay.ClientID,
		ClientSecret: cfg.EBay.ClientSecret,
		TokenURL:     cfg.EBay.TokenURL,
		Scope:        cfg.EBay.Scope,
	}, httpClient, logging.Component(logger, "ebay-auth"))
	browse := ebay.NewBrowseClient(ebay.BrowseOptions{
		BaseURL:    cfg.EBay.APIBaseURL,
		PageSize:   cfg.EBay.PageSize,
		RatePerSec: cfg.EBay.RatePerSec,
		HTTPClient: httpClient,
	})
	rates := fx.NewCache(fx.Options{
		URL:           cfg.FX.URL,
		LocalCurrency: cfg.FX.LocalCurrency,
		HTTPClient:    httpClient,
	}, logging.Component(logger, "fx"))

	active := marketplace.NewSampler(tokens, browse, rates, logging.Component(logger, "sampler"))

	tasks := []refresh.Task{refresh.FXTask(rates), refresh.TokenTask(tokens)}

	var sold sales.Source
	if cfg.Sold.Enabled {
		soldListings := sales.NewSoldListingsSource(sales.SoldOptions{
			BaseURL:        cfg.Sold.BaseURL,
			CacheTTL:       cfg.Sold.CacheTTL,
			RequestsPerMin: cfg.Sold.PerMin,
			HTTPClient:     httpClient,
		}, rates, logging.Component(logger, "sold"))
		sold = soldListings
		tasks = append(tasks, refresh.PruneTask("sold_cache", soldListings))
	}

	pool := concurrent.NewPool(concurrent.PoolConfig{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Logger:    logging.Component(logger, "pool"),
	})

	orchestrator := enrich.NewOrchestrator(enrich.Options{
		Store:   store,
		Active:  active,
		Sold:    sold,
		Regions: cfg.Regions,
		Pool:    pool,
		Logger:  logging.Component(logger, "enrich"),
	})

	scheduler, err := refresh.NewScheduler(cfg.RefreshSchedule, logging.Component(logger, "refresh"), tasks...)
	if err != nil {
		log.WithError(err).Fatal("failed to create refresh scheduler")
	}
	scheduler.Start(ctx)

	api := httpapi.NewServer(orchestrator, store, logging.Component(logger, "http"))
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":        cfg.HTTPAddr,
			"workers":     cfg.Workers,
			"sold_source": cfg.Sold.Enabled,
			"db_driver":   cfg.DB.Driver,
		}).Info("pricingd listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}
	scheduler.Stop(shutdownCtx)
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("pending enrichment runs abandoned")
	}
	m := pool.Metrics()
	log.WithFields(logrus.Fields{
		"submitted": m.Submitted,
		"rejected":  m.Rejected,
		"completed": m.Completed,
		"panicked":  m.Panicked,
	}).Info("stopped")
}
