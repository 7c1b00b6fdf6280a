package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Ollama   OllamaConfig
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds product catalog configuration
type CatalogConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

// OllamaConfig holds configuration for the embedding and generation backend
type OllamaConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	EmbedModel      string        `mapstructure:"embed_model"`
	GenerateModel   string        `mapstructure:"generate_model"`
	GenerateEnabled bool          `mapstructure:"generate_enabled"`
	EmbedTimeout    time.Duration `mapstructure:"embed_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
	SummaryTimeout  time.Duration `mapstructure:"summary_timeout"`
}

// MatchingConfig consolidates the intent and search thresholds into one
// named configuration.
type MatchingConfig struct {
	MenuThreshold    float64 `mapstructure:"menu_threshold"`
	SearchThreshold  float64 `mapstructure:"search_threshold"`
	RelatedThreshold float64 `mapstructure:"related_threshold"`
	TopK             int     `mapstructure:"top_k"`
	MenuSize         int     `mapstructure:"menu_size"`
	IncludeUnpriced  bool    `mapstructure:"include_unpriced"`
	EnableDebugLogs  bool    `mapstructure:"enable_debug_logs"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cpbot/")

	// Environment variable settings
	v.SetEnvPrefix("CPBOT")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.csv_path", "cp_products_detailed_new.csv")

	// Ollama defaults
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.embed_model", "paraphrase-multilingual")
	v.SetDefault("ollama.generate_model", "llama3.2:3b")
	v.SetDefault("ollama.generate_enabled", true)
	v.SetDefault("ollama.embed_timeout", "10s")
	v.SetDefault("ollama.generate_timeout", "30s")
	v.SetDefault("ollama.summary_timeout", "15s")

	// Matching defaults
	v.SetDefault("matching.menu_threshold", 0.65)
	v.SetDefault("matching.search_threshold", 0.3)
	v.SetDefault("matching.related_threshold", 0.3)
	v.SetDefault("matching.top_k", 5)
	v.SetDefault("matching.menu_size", 10)
	v.SetDefault("matching.include_unpriced", true)
	v.SetDefault("matching.enable_debug_logs", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.CSVPath == "" {
		return fmt.Errorf("catalog CSV path is required (set CPBOT_CATALOG_CSV_PATH)")
	}

	if config.Ollama.BaseURL == "" {
		return fmt.Errorf("ollama base URL is required (set CPBOT_OLLAMA_BASE_URL)")
	}

	if config.Matching.MenuThreshold <= 0 || config.Matching.MenuThreshold > 1 {
		return fmt.Errorf("menu threshold must be in (0, 1], got: %v", config.Matching.MenuThreshold)
	}

	if config.Matching.SearchThreshold < -1 || config.Matching.SearchThreshold > 1 {
		return fmt.Errorf("search threshold must be in [-1, 1], got: %v", config.Matching.SearchThreshold)
	}

	if config.Matching.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got: %d", config.Matching.TopK)
	}

	return nil
}
