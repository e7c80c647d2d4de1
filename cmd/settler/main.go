package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/solmarket/settler/config"
	"github.com/solmarket/settler/internal/api"
	"github.com/solmarket/settler/internal/cache"
	"github.com/solmarket/settler/internal/chain"
	"github.com/solmarket/settler/internal/lock"
	"github.com/solmarket/settler/internal/logger"
	"github.com/solmarket/settler/internal/ratelimit"
	"github.com/solmarket/settler/internal/reconciler"
	"github.com/solmarket/settler/internal/store"
	"github.com/solmarket/settler/internal/store/postgresql"
	"github.com/solmarket/settler/internal/webhook"
	whstore "github.com/solmarket/settler/internal/webhook/store"
	whpostgresql "github.com/solmarket/settler/internal/webhook/store/postgresql"
)

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func main() {
	configDir := flag.String("config", "", "path to configuration directory")
	flag.Parse()

	err := run(*configDir)
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(0)
}

func run(configDir string) error {
	appConfig, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(appConfig.LogLevel, appConfig.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %v", err)
	}

	appLogger.Info("starting settler", slog.String("version", version), slog.String("commit", commit))

	shutdownFns := make([]func(), 0)
	shutdown := func() {
		for i := len(shutdownFns) - 1; i >= 0; i-- {
			shutdownFns[i]()
		}
	}
	defer shutdown()

	dbInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		appConfig.Db.Postgres.Host, appConfig.Db.Postgres.Port, appConfig.Db.Postgres.User,
		appConfig.Db.Postgres.Password, appConfig.Db.Postgres.Name, appConfig.Db.Postgres.SslMode)

	escrowStore, err := postgresql.New(dbInfo, appConfig.Db.Postgres.MaxIdleConns, appConfig.Db.Postgres.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %v", err)
	}
	shutdownFns = append(shutdownFns, func() {
		err = escrowStore.Close()
		if err != nil {
			appLogger.Error("failed to close ledger store", slog.String("err", err.Error()))
		}
	})

	webhookStore, err := whpostgresql.New(dbInfo, appConfig.Db.Postgres.MaxIdleConns, appConfig.Db.Postgres.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("failed to open webhook store: %v", err)
	}
	shutdownFns = append(shutdownFns, func() {
		err = webhookStore.Close()
		if err != nil {
			appLogger.Error("failed to close webhook store", slog.String("err", err.Error()))
		}
	})

	var cacheStore cache.Store
	if appConfig.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.Db,
		})
		shutdownFns = append(shutdownFns, func() {
			err = redisClient.Close()
			if err != nil {
				appLogger.Error("failed to close redis client", slog.String("err", err.Error()))
			}
		})
		cacheStore = cache.NewRedisStore(context.Background(), redisClient)
	}

	processor, sender, err := startWebhookEngine(appConfig, appLogger, webhookStore)
	if err != nil {
		return err
	}
	shutdownFns = append(shutdownFns, processor.Shutdown)

	rec, err := buildReconciler(appConfig, appLogger, escrowStore, processor, cacheStore)
	if err != nil {
		return err
	}

	limiter := ratelimit.New(cacheStore, appConfig.IsProduction(), appLogger,
		ratelimit.WithWindow(appConfig.RateLimit.Window),
		ratelimit.WithPresets(appConfig.RateLimit.Presets),
	)

	cipher, err := webhook.NewSecretCipher([]byte(appConfig.Webhook.SecretKey))
	if err != nil {
		return fmt.Errorf("failed to create secret cipher: %v", err)
	}

	server := api.NewServer(appLogger, appConfig.Api.Address, appConfig.Api.CronAuthToken,
		api.NewCronHandler(rec),
		api.NewWebhookHandler(webhookStore, cipher, webhook.NewURLChecker(), sender),
		limiter,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()
	shutdownFns = append(shutdownFns, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = server.Shutdown(ctx)
		if err != nil {
			appLogger.Error("failed to shut down api server", slog.String("err", err.Error()))
		}
	})

	appLogger.Info("api server listening", slog.String("address", appConfig.Api.Address))

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-signalChan:
		appLogger.Info("shutting down")
	case err = <-serverErr:
		if err != nil {
			return err
		}
	}

	return nil
}

func startWebhookEngine(appConfig *config.AppConfig, appLogger *slog.Logger, webhookStore whstore.WebhookStore) (*webhook.Processor, *webhook.Sender, error) {
	checkerOpts := []func(*webhook.URLChecker){}
	if !appConfig.IsProduction() {
		checkerOpts = append(checkerOpts, webhook.WithAllowPrivate())
	}

	sender := webhook.NewSender(appLogger, webhook.NewURLChecker(checkerOpts...), appConfig.Webhook.Timeout)

	cipher, err := webhook.NewSecretCipher([]byte(appConfig.Webhook.SecretKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create secret cipher: %v", err)
	}

	processor, err := webhook.NewProcessor(webhookStore, sender, cipher, appLogger,
		webhook.WithMaxAttempts(appConfig.Webhook.MaxAttempts),
		webhook.WithRetryDelays(appConfig.Webhook.RetryBaseDelay, appConfig.Webhook.RetryMaxDelay),
		webhook.WithBatchSize(appConfig.Webhook.DispatchBatchSize),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create webhook processor: %v", err)
	}

	processor.StartDispatch(appConfig.Webhook.DispatchInterval)

	return processor, sender, nil
}

func buildReconciler(appConfig *config.AppConfig, appLogger *slog.Logger, escrowStore store.EscrowStore, publisher reconciler.EventPublisher, cacheStore cache.Store) (*reconciler.Reconciler, error) {
	opts := []func(*reconciler.Reconciler){
		reconciler.WithPublisher(publisher),
		reconciler.WithAutoReleaseEnabled(appConfig.Reconciler.AutoReleaseEnabled),
		reconciler.WithReleaseDeadline(appConfig.Reconciler.ReleaseDeadline),
		reconciler.WithReleaseBatchSize(appConfig.Reconciler.ReleaseBatchSize),
		reconciler.WithWithdrawalExpiry(appConfig.Reconciler.WithdrawalExpiry),
		reconciler.WithWithdrawalBatchSize(appConfig.Reconciler.WithdrawalBatchSize),
		reconciler.WithStaleClaimAge(appConfig.Reconciler.StaleClaimAge),
	}

	if appConfig.Chain.HasAuthority() {
		chainClient, err := chain.NewRPCClient(appConfig.Chain.RpcURL, appConfig.Chain.ProgramID, appConfig.Chain.AuthorityKey, appLogger,
			chain.WithConfirmTimeout(appConfig.Chain.ConfirmTimeout),
			chain.WithPollInterval(appConfig.Chain.ConfirmPollInterval),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create chain client: %v", err)
		}
		opts = append(opts, reconciler.WithChain(chainClient, chainClient.AuthorityAddress()))
	} else {
		appLogger.Warn("no chain authority configured, on-chain calls disabled")
	}

	if cacheStore != nil {
		opts = append(opts, reconciler.WithLocker(lock.New(cacheStore, appLogger, lock.WithTTL(appConfig.Reconciler.LockTTL))))
	} else {
		opts = append(opts, reconciler.WithLocker(lock.New(cache.NewMemoryStore(), appLogger, lock.WithTTL(appConfig.Reconciler.LockTTL))))
		if appConfig.IsProduction() {
			appLogger.Warn("no shared lock store configured, cron mutual exclusion is per-instance only")
		}
	}

	return reconciler.New(escrowStore, appLogger, opts...), nil
}
