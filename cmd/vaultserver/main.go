package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tm9657/jwk-vault/cmd/flags"
	"github.com/tm9657/jwk-vault/httpserver"
	"github.com/tm9657/jwk-vault/interfaces"
	"github.com/tm9657/jwk-vault/storage"
	"github.com/tm9657/jwk-vault/vault"
)

var serverFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	},
	&cli.StringFlag{
		Name:     "api-key",
		Required: true,
		Usage:    "static API key gating all /secure routes",
	},
	&cli.StringFlag{
		Name:  "record-store",
		Value: "mem://",
		Usage: "record store URI: redis://, vault://, file://, mem://",
	},
	&cli.StringFlag{
		Name:  "artifact-store",
		Value: "mem://",
		Usage: "distribution store URI: s3://, ipfs://, file://, mem://",
	},
	&cli.StringFlag{
		Name:     "public-address",
		Required: true,
		Usage:    "public base address of the distribution store, used for redirects",
	},
	&cli.BoolFlag{
		Name:  "disable-cache",
		Value: false,
		Usage: "disable the process-local record cache (multi-instance deployments)",
	},
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "vaultserver",
		Usage: "Serve the password-protected JWK vault API",
		Flags: serverFlags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			apiKey := cCtx.String("api-key")
			recordStoreURI := cCtx.String("record-store")
			artifactStoreURI := cCtx.String("artifact-store")
			publicAddress := cCtx.String("public-address")
			disableCache := cCtx.Bool("disable-cache")

			logger := flags.SetupLogger(cCtx)

			factory := storage.NewFactory(logger)

			records, err := factory.KVStoreFor(recordStoreURI)
			if err != nil {
				logger.Error("Failed to create record store", "err", err)
				return err
			}
			logger.Info("Record store configured", "backend", records.Name())

			artifacts, err := factory.DistributionStoreFor(artifactStoreURI)
			if err != nil {
				logger.Error("Failed to create distribution store", "err", err)
				return err
			}
			logger.Info("Distribution store configured", "backend", artifacts.Name())

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if !records.Available(ctx) {
				logger.Error("Record store is not available", "backend", records.Name())
				return errors.New("record store is not available")
			}
			if !artifacts.Available(ctx) {
				logger.Warn("Distribution store is not available, artifact publishing may fail",
					"backend", artifacts.Name())
			}

			var cache interfaces.RecordCache = vault.NewMemoryCache()
			if disableCache {
				cache = vault.NopCache{}
			}

			publisher := vault.NewPublisher(artifacts, logger)
			service := vault.NewService(records, cache, publisher, logger)

			handler := httpserver.NewHandler(service, apiKey, publicAddress, logger)

			cfg := flags.ConfigureServer(cCtx, logger, listenAddr)
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
