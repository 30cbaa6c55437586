package config

import (
	"strings"

	"github.com/api996/AIHeuristicLearningApp-sub003/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CLUSTERCACHE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Warn("no config file found. Using defaults and environment variables")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	err := viper.BindEnv("llm.openai_api_key", "CLUSTERCACHE_OPENAI_API_KEY")
	if err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("llm.service", "openai")
	viper.SetDefault("llm.model", "gpt-3.5-turbo")

	viper.SetDefault("embeddings.enabled", true)
	viper.SetDefault("embeddings.dimensions", 3072)
	viper.SetDefault("embeddings.model", "text-embedding-3-large")

	viper.SetDefault("clustering.max_iterations", 100)
	viper.SetDefault("clustering.restarts", 10)
	viper.SetDefault("clustering.seed", 42)
	viper.SetDefault("clustering.backend.timeout_seconds", 60)

	viper.SetDefault("cache.min_vector_count", 5)
	viper.SetDefault("cache.freshness_floor_hours", 12)
	viper.SetDefault("cache.hard_ceiling_hours", 168)
	viper.SetDefault("cache.count_threshold", 10)
	viper.SetDefault("cache.growth_fraction", 0.2)
	viper.SetDefault("cache.drift_threshold", 0.2)
	viper.SetDefault("cache.ttl_hours", 168)
	viper.SetDefault("cache.write_attempts", 3)

	viper.SetDefault("enhancer.batch_size", 3)
	viper.SetDefault("enhancer.batch_delay_ms", 500)
	viper.SetDefault("enhancer.cluster_delay_ms", 100)
	viper.SetDefault("enhancer.max_snippets", 5)
	viper.SetDefault("enhancer.max_snippet_tokens", 256)
	viper.SetDefault("enhancer.max_keywords", 5)

	viper.SetDefault("store.type", "memory")

	viper.SetDefault("log.level", "info")
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Warn(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
