package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courseo/cartosync/internal/pkg/application/catalog"
	"github.com/courseo/cartosync/internal/pkg/application/courierfeed"
	"github.com/courseo/cartosync/internal/pkg/application/events"
	"github.com/courseo/cartosync/internal/pkg/application/geocoding"
	"github.com/courseo/cartosync/internal/pkg/application/poles"
	"github.com/courseo/cartosync/internal/pkg/application/sitemap"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/cache"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/documentstore"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/geoprovider"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/maprender"
	"github.com/courseo/cartosync/internal/pkg/infrastructure/router"
	"github.com/courseo/cartosync/internal/pkg/presentation/api"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const serviceName string = "cartosync"

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",
		enableTracing: "true",

		policiesFile:      "/opt/courseo/config/authz.rego",
		configurationFile: "/opt/courseo/config/config.yaml",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "cartosync",
		dbSSLMode:  "disable",

		geocoderURL: "https://nominatim.openstreetmap.org",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, "json")
	defer cleanup()

	cfgFile, err := os.Open(flags[configurationFile])
	exitIf(err, logger, "could not open configuration file")

	cfg, err := parseExternalConfigFile(ctx, cfgFile)
	exitIf(err, logger, "could not parse configuration file")

	policies, err := os.Open(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")
	defer policies.Close()

	store, err := newStorage(ctx, flags)
	exitIf(err, logger, "could not create or connect to database")
	defer store.Close()

	err = store.Initialize(ctx)
	exitIf(err, logger, "could not initialize database")

	err = seed(ctx, store, cfg)
	exitIf(err, logger, "could not seed database")

	messenger, err := messaging.Initialize(ctx, messaging.LoadConfiguration(ctx, serviceName, logger))
	exitIf(err, logger, "failed to init messenger")
	messenger.Start()
	defer messenger.Close()

	cacheStore := cache.New(cache.NewMemoryKV())
	loader := catalog.New(store, cacheStore, catalog.WithSeedStyles(cfg.Styles))
	resolver := poles.NewResolver(cfg.Vocabulary...)

	couriers := courierfeed.New(messenger)
	err = couriers.Start(ctx)
	exitIf(err, logger, "failed to subscribe to courier positions")
	defer couriers.Stop(ctx)

	mapView := sitemap.New(loader, resolver, couriers, maprender.NewSession())

	clientOpts := []geocoding.ClientOption{}
	if cfg.GeocoderDelayMillis > 0 {
		clientOpts = append(clientOpts, geocoding.WithBatchDelay(time.Duration(cfg.GeocoderDelayMillis)*time.Millisecond))
	}
	geocoder := geocoding.NewService(
		geocoding.NewClient(geoprovider.New(flags[geocoderURL]), cacheStore, clientOpts...),
		store, messenger,
		events.New(&events.Config{Notifications: cfg.Notifications}),
	)

	mux, err := api.RegisterHandlers(ctx, router.New(serviceName), policies, mapView, loader, geocoder)
	exitIf(err, logger, "failed to register handlers")

	webServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", flags[listenAddress], flags[servicePort]),
		Handler: mux,
	}

	apiCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting to listen for connections", "address", webServer.Addr)
		err := webServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server failed", "err", err.Error())
			stop()
		}
	}()

	<-apiCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = webServer.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("web server shutdown failed", "err", err.Error())
	}
}

func newStorage(ctx context.Context, flags flagMap) (*documentstore.PgStore, error) {
	return documentstore.New(ctx, documentstore.NewConfig(
		flags[dbHost], flags[dbUser], flags[dbPassword],
		flags[dbPort], flags[dbName], flags[dbSSLMode],
	))
}

func seed(ctx context.Context, store *documentstore.PgStore, cfg *appConfig) error {
	err := documentstore.SeedPoles(ctx, store, cfg.Poles)
	if err != nil {
		return err
	}

	return documentstore.SeedStyles(ctx, store, cfg.Styles)
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault

	flags[listenAddress] = envOrDef(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef(ctx, "SERVICE_PORT", flags[servicePort])
	flags[enableTracing] = envOrDef(ctx, "ENABLE_TRACING", flags[enableTracing])

	flags[policiesFile] = envOrDef(ctx, "POLICIES_FILE", flags[policiesFile])

	flags[dbHost] = envOrDef(ctx, "POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef(ctx, "POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef(ctx, "POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef(ctx, "POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef(ctx, "POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef(ctx, "POSTGRES_SSLMODE", flags[dbSSLMode])

	flags[geocoderURL] = envOrDef(ctx, "GEOCODER_URL", flags[geocoderURL])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("config", "service configuration file", apply(configurationFile))
	flag.Parse()

	return ctx, flags
}

func exitIf(err error, logger *slog.Logger, msg string, args ...any) {
	if err != nil {
		logger.With(args...).Error(msg, "err", err.Error())
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
