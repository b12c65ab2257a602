package configloader

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	IdleTimeoutSeconds  int      `yaml:"idleTimeoutSeconds"`
	AllowedOrigins      []string `yaml:"allowedOrigins"`
	ShutdownTimeoutSecs int      `yaml:"shutdownTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// StorageConfig selects where the page state is persisted.
type StorageConfig struct {
	Driver string `yaml:"driver"` // badger or memory
	Dir    string `yaml:"dir"`
}

// ProviderConfig is the wallet bridge of one connector kind.
type ProviderConfig struct {
	URL                string `yaml:"url"`
	PollIntervalMillis int64  `yaml:"pollIntervalMillis"`
}

// PollInterval returns the bridge poll interval; zero disables polling.
func (p ProviderConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMillis) * time.Millisecond
}

// NetworksConfig holds the network registry settings.
type NetworksConfig struct {
	Default      string            `yaml:"default"`
	RPCOverrides map[string]string `yaml:"rpcOverrides"`
}

// RPCConfig holds configuration for the chain RPC clients.
type RPCConfig struct {
	ConnectionTimeoutSeconds int     `yaml:"connectionTimeoutSeconds"`
	CallTimeoutSeconds       int     `yaml:"callTimeoutSeconds"`
	RequestsPerSecond        float64 `yaml:"requestsPerSecond"`
	Burst                    int     `yaml:"burst"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	Enabled              bool   `yaml:"enabled"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TokenPriceServiceConfig holds configuration for the TokenPriceService.
type TokenPriceServiceConfig struct {
	MaxTokensPerBatchRequest int  `yaml:"maxTokensPerBatchRequest"`
	CacheTTLMinutes          int  `yaml:"cacheTTLMinutes"`
	MaxConcurrency           int  `yaml:"maxConcurrency"`
	WarmUp                   bool `yaml:"warmUp"`
}

// BalanceConfig holds configuration for native balance lookups.
type BalanceConfig struct {
	Enabled         bool `yaml:"enabled"`
	CacheTTLSeconds int  `yaml:"cacheTTLSeconds"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"`
	SpecFile string `yaml:"specFile"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server        ServerConfig              `yaml:"server"`
	Logging       LoggingConfig             `yaml:"logging"`
	Storage       StorageConfig             `yaml:"storage"`
	Providers     map[string]ProviderConfig `yaml:"providers"`
	Networks      NetworksConfig            `yaml:"networks"`
	RPC           RPCConfig                 `yaml:"rpc"`
	DEXScreener   DEXScreenerConfig         `yaml:"dexScreener"`
	TokenPriceSvc TokenPriceServiceConfig   `yaml:"tokenPriceService"`
	Balance       BalanceConfig             `yaml:"balance"`
	Swagger       SwaggerConfig             `yaml:"swagger"`
	Metrics       MetricsConfig             `yaml:"metrics"`
	WalletsFile   string                    `yaml:"walletsFile"`
	TokensDir     string                    `yaml:"tokensDir"`
}

var knownConnectors = map[string]bool{"injected": true, "binance": true, "phantom": true}

// Load reads the YAML configuration file from the given path, unmarshals it and applies defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML configuration data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if cfg.Server.ShutdownTimeoutSecs <= 0 {
		cfg.Server.ShutdownTimeoutSecs = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "badger"
		logrus.Infof("Storage.Driver not set, defaulting to %s", cfg.Storage.Driver)
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "data/state"
		logrus.Infof("Storage.Dir not set, defaulting to %s", cfg.Storage.Dir)
	}

	if cfg.RPC.ConnectionTimeoutSeconds <= 0 {
		cfg.RPC.ConnectionTimeoutSeconds = 10
	}
	if cfg.RPC.CallTimeoutSeconds <= 0 {
		cfg.RPC.CallTimeoutSeconds = 10
		logrus.Infof("RPC.CallTimeoutSeconds not set, defaulting to %d seconds", cfg.RPC.CallTimeoutSeconds)
	}
	if cfg.RPC.Burst <= 0 {
		cfg.RPC.Burst = 1
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
		logrus.Infof("DEXScreener.RequestTimeoutMillis not set, defaulting to %d ms", cfg.DEXScreener.RequestTimeoutMillis)
	}

	if cfg.TokenPriceSvc.MaxTokensPerBatchRequest == 0 {
		cfg.TokenPriceSvc.MaxTokensPerBatchRequest = 30 // DEXScreener limit
		logrus.Infof("MaxTokensPerBatchRequest for TokenPriceSvc not set, defaulting to %d", cfg.TokenPriceSvc.MaxTokensPerBatchRequest)
	}
	if cfg.TokenPriceSvc.CacheTTLMinutes == 0 {
		cfg.TokenPriceSvc.CacheTTLMinutes = 5
		logrus.Infof("CacheTTLMinutes for TokenPriceSvc not set, defaulting to %d minutes", cfg.TokenPriceSvc.CacheTTLMinutes)
	}
	if cfg.TokenPriceSvc.MaxConcurrency <= 0 {
		cfg.TokenPriceSvc.MaxConcurrency = 5
	}

	if cfg.Balance.CacheTTLSeconds <= 0 {
		cfg.Balance.CacheTTLSeconds = 15
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "docs/swagger.yaml"
	}
}

func (cfg *Config) validate() error {
	for kind, p := range cfg.Providers {
		if !knownConnectors[kind] {
			return fmt.Errorf("providers: unsupported connector %q (expected injected, binance or phantom)", kind)
		}
		if p.PollIntervalMillis < 0 {
			return fmt.Errorf("providers.%s: pollIntervalMillis must not be negative", kind)
		}
		if p.URL == "" {
			logrus.Warnf("Provider '%s' has no url; the wallet will be reported as not installed.", kind)
		}
	}
	if cfg.RPC.RequestsPerSecond < 0 {
		return fmt.Errorf("rpc.requestsPerSecond must not be negative")
	}
	return nil
}

// RPCConnectionTimeout returns the dial timeout of chain RPC clients.
func (cfg *Config) RPCConnectionTimeout() time.Duration {
	return time.Duration(cfg.RPC.ConnectionTimeoutSeconds) * time.Second
}

// RPCCallTimeout returns the per-call timeout of chain RPC clients.
func (cfg *Config) RPCCallTimeout() time.Duration {
	return time.Duration(cfg.RPC.CallTimeoutSeconds) * time.Second
}

// DEXScreenerTimeout returns the DEX Screener request timeout.
func (cfg *Config) DEXScreenerTimeout() time.Duration {
	return time.Duration(cfg.DEXScreener.RequestTimeoutMillis) * time.Millisecond
}

// PriceCacheTTL returns how long token prices stay cached.
func (cfg *Config) PriceCacheTTL() time.Duration {
	return time.Duration(cfg.TokenPriceSvc.CacheTTLMinutes) * time.Minute
}

// BalanceCacheTTL returns how long native balances stay cached.
func (cfg *Config) BalanceCacheTTL() time.Duration {
	return time.Duration(cfg.Balance.CacheTTLSeconds) * time.Second
}
