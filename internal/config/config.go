package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"sponsor/etl/internal/domain"
)

// Config holds all configuration for the pipeline
type Config struct {
	Spreadsheet SpreadsheetConfig `mapstructure:"spreadsheet"`
	Drive       DriveConfig       `mapstructure:"drive"`
	Output      OutputConfig      `mapstructure:"output"`
	Client      ClientConfig      `mapstructure:"client"`
}

// SpreadsheetConfig identifies the published spreadsheet and its tabs
type SpreadsheetConfig struct {
	BaseURL   string            `mapstructure:"base_url"`
	PublishID string            `mapstructure:"publish_id"`
	Tabs      map[string]string `mapstructure:"tabs"` // tab name -> gid
}

// DriveConfig holds the image download endpoint
type DriveConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// OutputConfig holds the artifact paths
type OutputConfig struct {
	CatalogFile string `mapstructure:"catalog_file"`
	PlansFile   string `mapstructure:"plans_file"`
	ImagesDir   string `mapstructure:"images_dir"`
}

// ClientConfig holds HTTP client knobs shared by both endpoints
type ClientConfig struct {
	Timeout              int `mapstructure:"timeout"`
	MaxRequestsPerSecond int `mapstructure:"max_requests_per_second"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects a config that cannot drive a run, before any
// network activity happens.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Spreadsheet.PublishID) == "" {
		return fmt.Errorf("spreadsheet.publish_id is required")
	}
	for _, tab := range domain.TabNames {
		if strings.TrimSpace(c.Spreadsheet.Tabs[string(tab)]) == "" {
			return fmt.Errorf("spreadsheet.tabs.%s is required", tab)
		}
	}
	if c.Output.CatalogFile == "" || c.Output.PlansFile == "" || c.Output.ImagesDir == "" {
		return fmt.Errorf("output.catalog_file, output.plans_file and output.images_dir are required")
	}
	if c.Client.MaxRequestsPerSecond <= 0 {
		return fmt.Errorf("client.max_requests_per_second must be positive")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("spreadsheet.base_url", "https://docs.google.com")
	viper.SetDefault("drive.base_url", "https://drive.google.com")

	viper.SetDefault("output.catalog_file", "data/catalog.json")
	viper.SetDefault("output.plans_file", "data/plans.json")
	viper.SetDefault("output.images_dir", "data/images")

	viper.SetDefault("client.timeout", 30)
	viper.SetDefault("client.max_requests_per_second", 4)
}
