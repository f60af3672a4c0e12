package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir        string           `yaml:"data_dir" mapstructure:"data_dir"`
	ProfileFile    string           `yaml:"profile_file" mapstructure:"profile_file"`
	LogFile        string           `yaml:"log_file" mapstructure:"log_file"`
	Language       LanguageConfig   `yaml:"language" mapstructure:"language"`
	Provider       ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	Translator     TranslatorConfig `yaml:"translator" mapstructure:"translator"`
	Weather        WeatherConfig    `yaml:"weather" mapstructure:"weather"`
	AdvisoryRules  string           `yaml:"advisory_rules" mapstructure:"advisory_rules"`
	TimeoutSeconds int              `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries     int              `yaml:"max_retries" mapstructure:"max_retries"`
	HistoryWindow  int              `yaml:"history_window" mapstructure:"history_window"`
	MaxTokens      int              `yaml:"max_tokens" mapstructure:"max_tokens"`
}

type LanguageConfig struct {
	Farmer  string `yaml:"farmer" mapstructure:"farmer"`   // language the farmer types in
	Working string `yaml:"working" mapstructure:"working"` // language prompts are composed in
}

type ProviderConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
}

type TranslatorConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

type WeatherConfig struct {
	APIKey     string  `yaml:"api_key" mapstructure:"api_key"`
	DefaultLat float64 `yaml:"default_lat" mapstructure:"default_lat"`
	DefaultLon float64 `yaml:"default_lon" mapstructure:"default_lon"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     defaultDataDir(),
		ProfileFile: "farmer_profile.json",
		LogFile:     "activity_logs.json",
		Language: LanguageConfig{
			Farmer:  "ml",
			Working: "en",
		},
		Provider: ProviderConfig{
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "$OPENAI_API_KEY",
			Model:   "gpt-3.5-turbo",
		},
		Translator: TranslatorConfig{
			BaseURL: "https://translate.googleapis.com",
		},
		Weather: WeatherConfig{
			APIKey: "$OPENWEATHER_API_KEY",
			// Central Kerala, used when geolocation fails.
			DefaultLat: 10.0,
			DefaultLon: 76.0,
		},
		TimeoutSeconds: 15,
		MaxRetries:     1,
		HistoryWindow:  6,
		MaxTokens:      512,
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "krishisakhi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "krishisakhi")
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths
	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "krishisakhi"))
	}
	home, _ := os.UserHomeDir()
	viper.AddConfigPath(filepath.Join(home, ".config", "krishisakhi"))

	// Environment variables
	viper.SetEnvPrefix("KRISHI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found; defaults apply.
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.Provider.APIKey = expandEnv(cfg.Provider.APIKey)
	cfg.Provider.BaseURL = expandEnv(cfg.Provider.BaseURL)
	cfg.Weather.APIKey = expandEnv(cfg.Weather.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProfilePath returns the absolute path of the profile document.
func (c *Config) ProfilePath() string {
	return filepath.Join(c.DataDir, c.ProfileFile)
}

// LogPath returns the absolute path of the activity log document.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}

// Validate checks the configuration for errors and normalizes out-of-range
// values back to their defaults.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.ProfileFile == "" || c.LogFile == "" {
		return fmt.Errorf("config: profile_file and log_file are required")
	}
	if c.ProfileFile == c.LogFile {
		return fmt.Errorf("config: profile_file and log_file must differ")
	}
	if c.Language.Farmer == "" {
		c.Language.Farmer = "ml"
	}
	if c.Language.Working == "" {
		c.Language.Working = "en"
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("config: provider.base_url is required")
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("config: provider.model is required")
	}
	if c.TimeoutSeconds < 1 {
		c.TimeoutSeconds = 15
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 1
	}
	if c.HistoryWindow < 1 {
		c.HistoryWindow = 6
	}
	if c.MaxTokens < 1 {
		c.MaxTokens = 512
	}
	return nil
}
