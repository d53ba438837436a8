package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/denvermesh/meshsync/internal/sources/letsmesh"
	"github.com/denvermesh/meshsync/internal/sources/meshmapper"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Source configuration
	MeshMapperURL string
	LetsMeshURL   string
	Region        string

	// Logging configuration. LogLevel carries the --log-level flag only;
	// EnvLogLevel keeps the environment value so flag shortcuts can still
	// outrank it.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.meshsync.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first, before viper env binding.
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try the explicit config file, then the standard search locations.
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".meshsync")
		}
	}

	// Missing config file is fine; defaults cover everything.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		MeshMapperURL: getEnvOrDefault("MESHMAPPER_URL", viper.GetString("meshmapper_url")),
		LetsMeshURL:   getEnvOrDefault("LETSMESH_URL", viper.GetString("letsmesh_url")),
		Region:        getEnvOrDefault("REGION", viper.GetString("region")),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Defaults
	if config.MeshMapperURL == "" {
		config.MeshMapperURL = meshmapper.DefaultURL
	}
	if config.LetsMeshURL == "" {
		config.LetsMeshURL = letsmesh.DefaultBaseURL
	}
	if config.Region == "" {
		config.Region = letsmesh.DefaultRegion
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags. This runs
// after cobra parses flags so flag values take precedence over config file
// and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
