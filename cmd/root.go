package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rutvik2598/PostPolice/core/config"
	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	domainHealth "github.com/Rutvik2598/PostPolice/domains/health"
	domainMetrics "github.com/Rutvik2598/PostPolice/domains/metrics"
	domainVerify "github.com/Rutvik2598/PostPolice/domains/verify"
	"github.com/Rutvik2598/PostPolice/infrastructure/valkey"
	"github.com/Rutvik2598/PostPolice/integrations/evidence"
	"github.com/Rutvik2598/PostPolice/integrations/generator"
	"github.com/Rutvik2598/PostPolice/pkg/counters"
	"github.com/Rutvik2598/PostPolice/pkg/fetchpool"
	"github.com/Rutvik2598/PostPolice/pkg/utils"
	"github.com/Rutvik2598/PostPolice/repository"
	"github.com/Rutvik2598/PostPolice/usecase"
)

var (
	// Infraestructura compartida por todos los subcomandos.
	valkeyClient *valkey.Client
	memoryStore  *repository.MemorySummaryStore
	summaryStore domainCache.SummaryStore
	recorder     *counters.Recorder
	fetchPool    *fetchpool.Pool
	poolCancel   context.CancelFunc

	// Usecase
	cacheUsecase   domainCache.ICacheUsecase
	metricsUsecase domainMetrics.IMetricsUsecase
	verifyUsecase  domainVerify.IVerifyUsecase
	healthUsecase  domainHealth.IHealthUsecase
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "postpolice",
	Short: "Local caching proxy for fact-check summaries",
	Long: `PostPolice sits between a browser extension and an LLM backend,
caching generated fact-check summaries by content fingerprint so repeated
claims are answered locally instead of burning another upstream call.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringP(
		"port", "p", "",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolP(
		"debug", "d", false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().String(
		"valkey-address", "",
		`valkey server address --valkey-address <host:port> | example: --valkey-address="localhost:6379"`,
	)
	rootCmd.PersistentFlags().StringSliceP(
		"basic-auth", "b", nil,
		"basic auth credential | -b=yourUsername:yourPassword",
	)

	_ = viper.BindPFlag("flag_port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("flag_debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("flag_valkey_address", rootCmd.PersistentFlags().Lookup("valkey-address"))
	_ = viper.BindPFlag("flag_basic_auth", rootCmd.PersistentFlags().Lookup("basic-auth"))
}

// initEnvConfig loads configuration from the environment and applies flag
// overrides on top of it.
func initEnvConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("[INIT] failed to load configuration: %v", err)
	}

	if port := viper.GetString("flag_port"); port != "" {
		cfg.App.Port = port
	}
	if viper.GetBool("flag_debug") {
		cfg.App.Debug = true
	}
	if address := viper.GetString("flag_valkey_address"); address != "" {
		cfg.Store.Address = address
	}
	if credentials := viper.GetStringSlice("flag_basic_auth"); len(credentials) > 0 {
		cfg.App.BasicAuth = credentials
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// initApp wires the store, the services and the upstream clients. The proxy
// must come up even when Valkey is unreachable; in that case lookups degrade
// to misses until the process is restarted against a live store.
func initApp() {
	cfg := config.Global

	if err := utils.CreateFolder(cfg.Paths.Storages); err != nil {
		logrus.Fatalf("[INIT] failed to create storage folder: %v", err)
	}

	if cfg.Store.ValkeyEnabled {
		client, err := valkey.NewClient(valkey.Config{
			Address:        cfg.Store.Address,
			Password:       cfg.Store.Password,
			DB:             cfg.Store.DB,
			KeyPrefix:      cfg.Store.KeyPrefix,
			ConnectTimeout: cfg.Store.ConnectTimeout,
			MaxAttempts:    cfg.Store.MaxAttempts,
			RetryBackoff:   cfg.Store.RetryBackoff,
		})
		if err != nil {
			logrus.WithError(err).Warnf("[INIT] Valkey unreachable at %s; serving degraded (every lookup is a miss)", cfg.Store.Address)
		}
		valkeyClient = client
		summaryStore = repository.NewValkeySummaryStore(client, cfg.Store.OpTimeout)
	} else {
		logrus.Info("[INIT] Valkey disabled; using the in-process memory store")
		memoryStore = repository.NewMemorySummaryStore(repository.DefaultJanitorInterval)
		summaryStore = memoryStore
	}

	recorder = counters.NewRecorder()

	generatorClient := generator.NewClient(generator.Config{
		APIKey:  cfg.Upstream.OpenAIKey,
		Model:   cfg.Upstream.Model,
		Timeout: cfg.Upstream.RequestTimeout,
	})
	var poolCtx context.Context
	poolCtx, poolCancel = context.WithCancel(context.Background())
	fetchPool = fetchpool.NewPool(cfg.FetchPool.Workers, cfg.FetchPool.QueueSize)
	fetchPool.Start(poolCtx)

	evidenceFetcher := evidence.NewFetcher(evidence.Config{
		SearchURL:  cfg.Upstream.SearchURL,
		Timeout:    cfg.Upstream.RequestTimeout,
		MaxResults: cfg.Upstream.MaxEvidence,
		Pool:       fetchPool,
	})

	cacheUsecase = usecase.NewCacheService(summaryStore, recorder, cfg.Cache.TTL, cfg.Cache.Namespace)
	metricsUsecase = usecase.NewMetricsService(summaryStore, recorder, cfg.Cache.Namespace)
	verifyUsecase = usecase.NewVerifyService(cacheUsecase, evidenceFetcher, generatorClient)
	healthUsecase = usecase.NewHealthService(summaryStore, generatorClient, cfg.Paths.Storages, cfg.Health.CheckInterval)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}

// StopApp performs a clean shutdown of the store connections and the fetch
// pool.
func StopApp() {
	if fetchPool != nil {
		fetchPool.Stop()
	}
	if poolCancel != nil {
		poolCancel()
	}
	if valkeyClient != nil {
		valkeyClient.Close()
	}
	if memoryStore != nil {
		memoryStore.Close()
	}
	logrus.Info("[SHUTDOWN] all subsystems stopped")
}

// startBackgroundChecks launches the periodic health loop. It returns the
// cancel so the rest server can stop the loop on shutdown.
func startBackgroundChecks() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	healthUsecase.StartPeriodicChecks(ctx)
	return cancel
}

func parseBasicAuthAccounts(credentials []string) map[string]string {
	account := make(map[string]string)
	for _, credential := range credentials {
		pair := strings.Split(credential, ":")
		if len(pair) != 2 {
			logrus.Fatalln("Basic auth is not valid, please use the following format <user>:<secret>")
		}
		account[pair[0]] = pair[1]
	}
	return account
}
