// backend/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCachePath      = ".cache/http.db"
	DefaultCacheExpiry    = 7 * 24 * time.Hour
	DefaultRequestTimeout = 60 * time.Second
	DefaultOutputDir      = "out"
	DefaultCSVWBase       = "https://ons-opendata.github.io/ref_housing/"
	DefaultFamily         = "housing"
	DefaultTheme          = "housing-planning-local-services"
)

type CatalogConfig struct {
	LandingPage string `yaml:"landing_page"`
	// Used when the landing page does not link the distributions itself.
	DatasetURL string `yaml:"dataset_url"`
	ItemsURL   string `yaml:"items_url"`
}

type HTTPCacheConfig struct {
	Path              string `yaml:"path"`
	ExpiresAfterStr   string `yaml:"expires_after"`
	RequestTimeoutStr string `yaml:"request_timeout"`
	UserAgent         string `yaml:"user_agent"`

	ExpiresAfter   time.Duration `yaml:"-"` // Parsed duration
	RequestTimeout time.Duration `yaml:"-"` // Parsed duration
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	CSVWBase string `yaml:"csvw_base"`
}

type MetadataConfig struct {
	Family    string `yaml:"family"`
	Theme     string `yaml:"theme"`
	Publisher string `yaml:"publisher"`
}

type TransformConfig struct {
	// Fail the run on a vacancy length code with no label instead of leaving it empty.
	StrictLookups bool `yaml:"strict_lookups"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	HTTPCache HTTPCacheConfig `yaml:"http_cache"`
	Output    OutputConfig    `yaml:"output"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Transform TransformConfig `yaml:"transform"`
	Database  DatabaseConfig  `yaml:"database"`
}

// LoadConfig reads the YAML file at configPath, merges <name>.local.yaml over it when
// present, applies DB_* overrides from the environment (and a .env file next to the
// config), then fills defaults.
func LoadConfig(configPath string) (Config, error) {
	var cfg Config

	file, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	localPath := localConfigPath(configPath)
	localFile, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read local config file %s: %w", localPath, err)
	}
	if len(localFile) > 0 {
		var override Config
		if err := yaml.Unmarshal(localFile, &override); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal local config %s: %w", localPath, err)
		}
		if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
			return cfg, fmt.Errorf("failed to merge local config %s: %w", localPath, err)
		}
		log.Printf("Config: merged local overrides from %s", localPath)
	}

	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err == nil {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envPath); err != nil {
			return cfg, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}
	applyEnv(&cfg.Database)

	if err := cfg.applyDefaults(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func localConfigPath(configPath string) string {
	ext := filepath.Ext(configPath)
	return strings.TrimSuffix(configPath, ext) + ".local" + ext
}

func applyEnv(db *DatabaseConfig) {
	overrides := map[string]*string{
		"DB_HOST":     &db.Host,
		"DB_PORT":     &db.Port,
		"DB_USER":     &db.User,
		"DB_PASSWORD": &db.Password,
		"DB_NAME":     &db.DBName,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) applyDefaults() error {
	var err error

	if c.HTTPCache.Path == "" {
		c.HTTPCache.Path = DefaultCachePath
	}
	if c.HTTPCache.ExpiresAfterStr != "" {
		c.HTTPCache.ExpiresAfter, err = time.ParseDuration(c.HTTPCache.ExpiresAfterStr)
		if err != nil {
			return fmt.Errorf("failed to parse http_cache.expires_after: %w", err)
		}
	} else {
		c.HTTPCache.ExpiresAfter = DefaultCacheExpiry
	}
	if c.HTTPCache.RequestTimeoutStr != "" {
		c.HTTPCache.RequestTimeout, err = time.ParseDuration(c.HTTPCache.RequestTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse http_cache.request_timeout: %w", err)
		}
	} else {
		c.HTTPCache.RequestTimeout = DefaultRequestTimeout
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.CSVWBase == "" {
		c.Output.CSVWBase = DefaultCSVWBase
	}
	if c.Metadata.Family == "" {
		c.Metadata.Family = DefaultFamily
	}
	if c.Metadata.Theme == "" {
		c.Metadata.Theme = DefaultTheme
	}
	if c.Database.Port == "" {
		c.Database.Port = "3306"
	}

	if c.Catalog.LandingPage == "" {
		return fmt.Errorf("catalog.landing_page is not configured")
	}
	return nil
}
