// Package config loads runtime settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ens-name-tracker/internal/ens"
)

// EnvPrefix prefixes every environment override, e.g. ENSNAMES_STORE_DRIVER.
const EnvPrefix = "ENSNAMES"

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type RPCConfig struct {
	URL           string        `mapstructure:"url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"required|min:1"`
	MaxRetries    int           `mapstructure:"maxRetries" validate:"min:0"`
	Controller    string        `mapstructure:"controller" validate:"required|regexp:^0x[0-9a-fA-F]{40}$"`
	BaseRegistrar string        `mapstructure:"baseRegistrar" validate:"required|regexp:^0x[0-9a-fA-F]{40}$"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" validate:"required|in:file,postgres,memory"`
	Path        string `mapstructure:"path"`
	PostgresDSN string `mapstructure:"postgresDSN"`
}

type HistoryConfig struct {
	ClickhouseDSN string `mapstructure:"clickhouseDSN"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Format string `mapstructure:"format" validate:"required|in:console,json"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type ReportConfig struct {
	CommonNamesPath string `mapstructure:"commonNamesPath"`
	PageSize        int    `mapstructure:"pageSize" validate:"required|min:1"`
}

type Config struct {
	Path    string
	RPC     RPCConfig     `mapstructure:"rpc"`
	Store   StoreConfig   `mapstructure:"store"`
	History HistoryConfig `mapstructure:"history"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Report  ReportConfig  `mapstructure:"report"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"rpc-url":      "rpc.url",
	"store":        "store.driver",
	"store-path":   "store.path",
	"log-level":    "logger.level",
	"log-format":   "logger.format",
	"metrics-addr": "metrics.addr",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.url", "")
	v.SetDefault("rpc.timeout", 30*time.Second)
	v.SetDefault("rpc.maxRetries", 3)
	v.SetDefault("rpc.controller", ens.MainnetController)
	v.SetDefault("rpc.baseRegistrar", ens.MainnetBaseRegistrar)
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "db.json")
	v.SetDefault("store.postgresDSN", "")
	v.SetDefault("history.clickhouseDSN", "")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("report.commonNamesPath", "commonNames.json")
	v.SetDefault("report.pageSize", 100)
}

// Load reads configuration. Precedence, highest first: flags that were set,
// environment, the YAML file at path, defaults. An empty path skips the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("rpc.url", EnvPrefix+"_RPC_URL", "RPC_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	conf.Path = path

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks every section and the cross-field rules.
func (c *Config) Validate() error {
	sections := []any{&c.RPC, &c.Store, &c.Logger, &c.Report}
	for _, s := range sections {
		v := validate.Struct(s)
		if !v.Validate() {
			return fmt.Errorf("invalid config: %w", v.Errors)
		}
	}

	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Path == "" {
			return errors.New("invalid config: store.path is required for the file driver")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("invalid config: store.postgresDSN is required for the postgres driver")
		}
	}
	return nil
}

// RequireRPC reports a missing endpoint for commands that query the registry.
func (c *Config) RequireRPC() error {
	if c.RPC.URL == "" {
		return errors.New("RPC endpoint not configured: set RPC_URL, rpc.url or --rpc-url")
	}
	return nil
}
