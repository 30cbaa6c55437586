package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/clustercache"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/llms"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/store"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/store/postgres"
)

const (
	ErrStoreTypeNotSet   = "store.type must be set"
	ErrPostgresDSNNotSet = "store.postgres.dsn must be set"
	StoreTypePostgres    = "postgres"
	StoreTypeMemory      = "memory"
)

// run handles a root invocation with no subcommand.
func run(cmd *cobra.Command) {
	cfg := loadConfig()
	handleCLIOptions(cfg)
	_ = cmd.Help()
}

func runGet(userID string) {
	cfg := loadConfig()
	handleCLIOptions(cfg)

	appState := NewAppState(cfg)
	service := clustercache.NewService(appState)

	clusters, err := service.GetClusters(context.Background(), userID, forceRefresh)
	if err != nil {
		log.Fatalf("Error getting clusters for user %s: %s", userID, err)
	}
	printJSON(clusters)
}

func runClear(userID string) {
	cfg := loadConfig()
	handleCLIOptions(cfg)

	appState := NewAppState(cfg)
	service := clustercache.NewService(appState)

	if err := service.ClearCache(context.Background(), userID); err != nil {
		log.Fatalf("Error clearing cache for user %s: %s", userID, err)
	}
	log.Infof("Cleared cache entry for user %s", userID)
}

func runPurge() {
	cfg := loadConfig()
	handleCLIOptions(cfg)

	appState := NewAppState(cfg)

	purged, err := appState.CacheStore.PurgeExpired(context.Background())
	if err != nil {
		log.Fatalf("Error purging expired cache entries: %s", err)
	}
	log.Infof("Purged %d expired cache entries", purged)
}

func runPutRecord(userID string) {
	cfg := loadConfig()
	handleCLIOptions(cfg)

	appState := NewAppState(cfg)

	record := &models.MemberRecord{
		MemberID:  memberID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if appState.EmbeddingsClient != nil {
		embeddings, err := appState.EmbeddingsClient.EmbedTexts(
			context.Background(),
			[]string{content},
		)
		if err != nil {
			log.Fatalf("Error embedding record content: %s", err)
		}
		record.Embedding = embeddings[0]
	} else {
		log.Warn("no embeddings client configured; storing record unvectorized")
	}

	if err := appState.VectorStore.PutRecord(context.Background(), userID, record); err != nil {
		log.Fatalf("Error storing record %s for user %s: %s", memberID, userID, err)
	}
	log.Infof("Stored record %s for user %s", memberID, userID)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring clustercache: %s", err)
	}
	config.SetLogLevel(cfg)
	return cfg
}

// NewAppState creates an AppState struct from the config file / ENV,
// initializes the stores, and creates the LLM clients.
func NewAppState(cfg *config.Config) *models.AppState {
	appState := &models.AppState{Config: cfg}

	initializeStores(appState)
	initializeLLMClients(appState)
	setupSignalHandler(appState)

	return appState
}

// handleCLIOptions handles CLI options that don't require the stores
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Println(string(out))
		os.Exit(0)
	}
}

// initializeStores initializes the cache and vector stores based on the
// config file / ENV
func initializeStores(appState *models.AppState) {
	if appState.Config.Store.Type == "" {
		log.Fatal(ErrStoreTypeNotSet)
	}

	switch appState.Config.Store.Type {
	case StoreTypePostgres:
		if appState.Config.Store.Postgres.DSN == "" {
			log.Fatal(ErrPostgresDSNNotSet)
		}
		db, err := postgres.NewPostgresConn(appState.Config.Store.Postgres.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if appState.Config.Log.Level == "debug" {
			pgDebugLogging(db)
		}
		appState.CacheStore = postgres.NewPostgresCacheStore(db)
		appState.VectorStore = postgres.NewPostgresVectorStore(db)
	case StoreTypeMemory:
		appState.CacheStore = store.NewMemoryCacheStore()
		appState.VectorStore = store.NewMemoryVectorStore()
	default:
		log.Fatal(
			fmt.Sprintf("store.type (%s) is not supported", appState.Config.Store.Type),
		)
	}

	log.Info("Using store: ", appState.Config.Store.Type)
}

// initializeLLMClients creates the label generator and embeddings client.
// Both are optional: without an API key the enhancer falls back to its
// heuristic labels and records are stored unvectorized.
func initializeLLMClients(appState *models.AppState) {
	if appState.Config.LLM.OpenAIAPIKey == "" {
		log.Warn("no LLM API key configured; cluster labels will use heuristic fallbacks")
		return
	}

	ctx := context.Background()

	generator, err := llms.NewLabelGenerator(ctx, appState.Config)
	if err != nil {
		log.Fatalf("Failed to create label generator: %s", err)
	}
	appState.LabelGenerator = generator

	if appState.Config.Embeddings.Enabled {
		client, err := llms.NewEmbeddingsClient(ctx, appState.Config)
		if err != nil {
			log.Fatalf("Failed to create embeddings client: %s", err)
		}
		appState.EmbeddingsClient = client
	}
}

func pgDebugLogging(db *bun.DB) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.DebugLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

// setupSignalHandler sets up a signal handler to close the store connections
// on termination
func setupSignalHandler(appState *models.AppState) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		if err := appState.CacheStore.Close(); err != nil {
			log.Errorf("Error closing CacheStore connection: %v", err)
		}
		if err := appState.VectorStore.Close(); err != nil {
			log.Errorf("Error closing VectorStore connection: %v", err)
		}
		os.Exit(0)
	}()
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding output: %s", err)
	}
	fmt.Println(string(out))
}
