package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config holds the console configuration, loadable from environment
// variables (CATALOG_ prefix), an optional .env file, or YAML config files.
type Config struct {
	BaseURL      string `default:"http://localhost:4000" usage:"Catalog service base URL"`
	ImageBaseURL string `usage:"Base URL for product images (defaults to <base-url>/images/)"`
	Currency     string `default:"₹" usage:"Currency symbol shown before prices"`
	TokenFile    string `usage:"Path of the saved login token (defaults to the user config dir)"`
	HTTP         HTTPConfig
}

// HTTPConfig controls the outgoing HTTP client.
type HTTPConfig struct {
	Timeout   time.Duration `default:"15s" usage:"Per-request timeout"`
	RateLimit float64       `default:"5"   usage:"Max requests per second to the service (0 disables)"`
	Burst     int           `default:"5"   usage:"Requests allowed in a burst"`
}

// LoadConfig loads configuration from .env, environment variables and YAML
// config files, then fills in derived defaults. Command-line flags are left
// to the subcommands.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "CATALOG",
		Files:     []string{"catalog-admin.yaml", "/etc/catalog-admin/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return errors.New("base URL is required: set CATALOG_BASE_URL")
	}
	if c.ImageBaseURL == "" {
		c.ImageBaseURL = c.BaseURL + "/images/"
	}
	if c.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return errors.Wrap(err, "locate config dir: set CATALOG_TOKEN_FILE")
		}
		c.TokenFile = filepath.Join(dir, "catalog-admin", "token")
	}
	return nil
}
