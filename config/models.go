package config

// Config holds the configuration of the application
// Use cmd.NewConfig to create a new instance
type Config struct {
	LLM        LLM              `mapstructure:"llm"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Clustering ClusteringConfig `mapstructure:"clustering"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Enhancer   EnhancerConfig   `mapstructure:"enhancer"`
	Store      StoreConfig      `mapstructure:"store"`
	Log        LogConfig        `mapstructure:"log"`
}

type LLM struct {
	Service string `mapstructure:"service"`
	Model   string `mapstructure:"model"`
	// OpenAIAPIKey is loaded from ENV not config file.
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_endpoint"`
}

type EmbeddingsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Dimensions int    `mapstructure:"dimensions"`
	Model      string `mapstructure:"model"`
}

// ClusteringConfig configures the local K-means kernel and the primary
// out-of-process clustering backend.
type ClusteringConfig struct {
	MaxIterations int           `mapstructure:"max_iterations"`
	Restarts      int           `mapstructure:"restarts"`
	Seed          int64         `mapstructure:"seed"`
	Backend       BackendConfig `mapstructure:"backend"`
}

// BackendConfig describes the external clustering process. An empty Command
// disables the primary backend and the local kernel is used directly.
type BackendConfig struct {
	Command        string   `mapstructure:"command"`
	Args           []string `mapstructure:"args"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// CacheConfig holds the invalidation policy thresholds and the cache entry TTL.
type CacheConfig struct {
	MinVectorCount      int      `mapstructure:"min_vector_count"`
	FreshnessFloorHours int      `mapstructure:"freshness_floor_hours"`
	HardCeilingHours    int      `mapstructure:"hard_ceiling_hours"`
	CountThreshold      int      `mapstructure:"count_threshold"`
	GrowthFraction      float64  `mapstructure:"growth_fraction"`
	DriftThreshold      float64  `mapstructure:"drift_threshold"`
	TTLHours            int      `mapstructure:"ttl_hours"`
	WriteAttempts       int      `mapstructure:"write_attempts"`
	ExcludedUserIDs     []string `mapstructure:"excluded_user_ids"`
}

type EnhancerConfig struct {
	BatchSize        int `mapstructure:"batch_size"`
	BatchDelayMs     int `mapstructure:"batch_delay_ms"`
	ClusterDelayMs   int `mapstructure:"cluster_delay_ms"`
	MaxSnippets      int `mapstructure:"max_snippets"`
	MaxSnippetTokens int `mapstructure:"max_snippet_tokens"`
	MaxKeywords      int `mapstructure:"max_keywords"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
