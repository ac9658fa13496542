package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. SPAM_FILTER_SPAM_THRESHOLD
const EnvPrefix = "SPAM_FILTER"

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. configFile, when set, replaces
// the search path lookup. A .env file in the working directory is loaded
// into the environment first if present.
func New(configFile string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/bayes-spam-filter/")
		v.AddConfigPath("$HOME/.bayes-spam-filter")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Classifier defaults
	v.SetDefault("classifier.smoothing_k", 1.0)
	v.SetDefault("classifier.min_token_length", 3)
	v.SetDefault("classifier.dataset_path", "storage/dataset")
	v.SetDefault("classifier.dataset_pattern", "*.txt")
	v.SetDefault("classifier.auto_train", true)
	v.SetDefault("classifier.train_fraction", 0.8)

	// Model storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.file_path", "storage/naive_bayes/classifier.json")
	v.SetDefault("storage.model_name", "default")
	v.SetDefault("storage.sqlite_path", "storage/classifier.db")
	v.SetDefault("storage.mysql_dsn", "user:password@tcp(localhost:3306)/spam_filter")
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.redis_key_prefix", "bayes")
	v.SetDefault("storage.save_on_train", true)

	// Feedback defaults
	v.SetDefault("feedback.type", "memory")
	v.SetDefault("feedback.sqlite_path", "storage/feedback.db")
	v.SetDefault("feedback.mysql_dsn", "user:password@tcp(localhost:3306)/spam_filter")
	v.SetDefault("feedback.redis_url", "redis://localhost:6379")
	v.SetDefault("feedback.redis_key_prefix", "bayes")

	// Training defaults
	v.SetDefault("training.schedule", "")

	// Spam defaults
	v.SetDefault("spam.threshold", 0.5)
	v.SetDefault("spam.whitelisted_domains", []string{})

	// Server defaults
	v.SetDefault("server.filter_type", "smtp")
	v.SetDefault("server.listen_address", "0.0.0.0:10025")
	v.SetDefault("server.block_spam", false)
	v.SetDefault("server.headers.spam", "X-Spam-Status")
	v.SetDefault("server.headers.score", "X-Spam-Score")
	v.SetDefault("server.headers.reason", "X-Spam-Reason")
	v.SetDefault("server.subject_prefix", "[**SPAM**] ")
	v.SetDefault("server.modify_subject", false)
	v.SetDefault("server.relay.enabled", true)
	v.SetDefault("server.relay.address", "127.0.0.1")
	v.SetDefault("server.relay.port", 10026)
	v.SetDefault("server.max_body_size", 65536)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// Set overrides a configuration value
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// AllSettings returns the merged configuration as a nested map
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}

// ConfigFileUsed returns the path of the loaded config file, if any
func (c *Config) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}
