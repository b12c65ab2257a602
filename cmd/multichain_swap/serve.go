package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multichain_swap/internal/app/controller"
	"multichain_swap/internal/app/port"
	"multichain_swap/internal/app/service"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/infrastructure/configloader"
	"multichain_swap/internal/infrastructure/httpclient"
	clientprovider "multichain_swap/internal/infrastructure/network/client"
	networkdefinition "multichain_swap/internal/infrastructure/network/definition"
	"multichain_swap/internal/infrastructure/restapi"
	"multichain_swap/internal/infrastructure/storage"
	"multichain_swap/internal/infrastructure/tokenloader"
	"multichain_swap/internal/infrastructure/viewsink"
	"multichain_swap/internal/infrastructure/walletloader"
	"multichain_swap/internal/infrastructure/walletprovider"
	"multichain_swap/internal/pkg/logger"
	"multichain_swap/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const priceWarmUpTimeout = 2 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := configloader.Load(configPath)
	if err != nil {
		return err
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InitZap(zapLogger, cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()
	appLogger.Info("Configuration loaded", "path", configPath)

	if cfg.Metrics.Enabled {
		metrics.MustRegisterMetrics()
	}

	kv, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			appLogger.Error("Failed to close storage", "error", err)
		}
	}()

	wallets, err := walletloader.NewWalletDefinitionLoader(appLogger, cfg.WalletsFile)
	if err != nil {
		return err
	}
	tokens, err := tokenloader.NewTokenLoader(appLogger, cfg.TokensDir)
	if err != nil {
		return err
	}
	networks := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks.Default, cfg.Networks.RPCOverrides)

	locator := walletprovider.NewLocator(endpointsFrom(cfg), appLogger)
	defer locator.Close()

	sink := viewsink.NewBroadcaster(appLogger)
	store := service.NewSessionStore(kv, appLogger)
	connections := service.NewConnectionManager(wallets, locator, store, viewsink.NewNavigator(sink, appLogger), sink, appLogger)
	coordinator := service.NewNetworkSwitchCoordinator(networks, connections, store, sink, appLogger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var balances *service.BalanceService
	if cfg.Balance.Enabled {
		clients := clientprovider.NewEVMClientProvider(clientprovider.Settings{
			ConnectionTimeout: cfg.RPCConnectionTimeout(),
			RPCCallTimeout:    cfg.RPCCallTimeout(),
			RequestsPerSecond: cfg.RPC.RequestsPerSecond,
			Burst:             cfg.RPC.Burst,
		}, appLogger)
		defer clients.Close()
		balances = service.NewBalanceService(networks, clients, appLogger, cfg.BalanceCacheTTL())
	}

	var prices port.TokenPriceService
	if cfg.DEXScreener.Enabled {
		dexClient := httpclient.NewDEXScreenerClient(
			cfg.DEXScreener.BaseURL,
			cfg.DEXScreenerTimeout(),
			zapLogger.Named("DEXScreenerClient"),
			cfg.TokenPriceSvc.MaxTokensPerBatchRequest,
		)
		priceService := service.NewTokenPriceService(tokens, networks, dexClient, appLogger, service.TokenPriceSettings{
			CacheTTL:          cfg.PriceCacheTTL(),
			MaxTokensPerBatch: cfg.TokenPriceSvc.MaxTokensPerBatchRequest,
			MaxConcurrency:    cfg.TokenPriceSvc.MaxConcurrency,
		})
		prices = priceService
		if cfg.TokenPriceSvc.WarmUp {
			go warmUpPrices(ctx, priceService, appLogger)
		}
	}

	app := controller.New(connections, coordinator, tokens, balances, store, sink, appLogger)
	app.Init()

	listener := service.NewProviderEventListener(locator, connections, coordinator, appLogger)
	listener.Subscribe()
	go listener.Loop(ctx)
	locator.StartWatchers(ctx)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewHandler(restapi.HandlerDeps{
		App:      app,
		Networks: networks,
		Wallets:  wallets,
		Tokens:   tokens,
		Prices:   prices,
		Relay:    locator,
		Stream:   sink,
		Logger:   appLogger,
	})
	router := restapi.SetupRouter(handler, zapLogger, restapi.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SwaggerEnabled: cfg.Swagger.Enabled,
		SwaggerPath:    cfg.Swagger.Path,
		SwaggerSpec:    cfg.Swagger.SpecFile,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	// No write timeout: the event stream stays open.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	zapLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
	return nil
}

func endpointsFrom(cfg *configloader.Config) map[entity.ConnectorKind]walletprovider.Endpoint {
	endpoints := make(map[entity.ConnectorKind]walletprovider.Endpoint, len(cfg.Providers))
	for kind, p := range cfg.Providers {
		endpoints[entity.ConnectorKind(kind)] = walletprovider.Endpoint{URL: p.URL, PollInterval: p.PollInterval()}
	}
	return endpoints
}

func warmUpPrices(ctx context.Context, prices service.TokenPriceLoader, l port.Logger) {
	ctx, cancel := context.WithTimeout(ctx, priceWarmUpTimeout)
	defer cancel()
	if err := prices.LoadAndCacheTokenPrices(ctx); err != nil {
		l.Warn("Initial token price load failed", "error", err)
		return
	}
	l.Info("Initial token price load completed")
}
