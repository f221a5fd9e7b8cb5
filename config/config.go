// Package config loads the static asset table and the settings of the mmd
// tool from YAML.
//
// An embedded file per environment provides the defaults, GO_ENV selects it.
// A few settings can be overridden from the environment (or a .env file
// loaded by the caller), see ApplyEnv.
package config

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/etnz/moneymarket"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

//go:embed env/*.yaml
var defaults embed.FS

// DefaultEnv is used when GO_ENV is not set.
const DefaultEnv = "development"

// Environment variables overriding the configuration.
const (
	EnvServerAddress = "MMD_SERVER_ADDRESS"
	EnvLogLevel      = "MMD_LOG_LEVEL"
	EnvSubmitDelay   = "MMD_SUBMIT_DELAY"
)

type Config struct {
	Env     string  `yaml:"-"`
	Network Network `yaml:"network"`
	Market  Market  `yaml:"market"`
	Assets  []Asset `yaml:"assets"`
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
}

// Network describes the chain the market is deployed on. It is informational.
type Network struct {
	ChainID       string `yaml:"chain_id" validate:"nonzero"`
	RPCURL        string `yaml:"rpc_url"`
	RESTURL       string `yaml:"rest_url"`
	Comptroller   string `yaml:"comptroller"`
	GasPrice      string `yaml:"gas_price"`
	GasAdjustment string `yaml:"gas_adjustment"`
}

type Market struct {
	CollateralFactor string `yaml:"collateral_factor" validate:"nonzero"`
	SubmitDelay      string `yaml:"submit_delay"`
}

// Asset is one row of the seed table.
type Asset struct {
	Denom         string `yaml:"denom" validate:"nonzero,regexp=^[a-z][a-z0-9/]*$"`
	Symbol        string `yaml:"symbol" validate:"nonzero"`
	Name          string `yaml:"name"`
	Decimals      int    `yaml:"decimals" validate:"min=0,max=18"`
	APY           string `yaml:"apy"`
	Balance       string `yaml:"balance" validate:"nonzero"`
	Supplied      string `yaml:"supplied"`
	Borrowed      string `yaml:"borrowed"`
	MarketAddress string `yaml:"market_address"`
}

type Server struct {
	Address         string `yaml:"address" validate:"nonzero"`
	EnableCORS      bool   `yaml:"enable_cors"`
	EnableGzip      bool   `yaml:"enable_gzip"`
	EnableAccessLog bool   `yaml:"enable_access_log"`
	EnablePprof     bool   `yaml:"enable_pprof"`
}

type Log struct {
	Level      string `yaml:"level"`
	JSON       bool   `yaml:"json"`
	FileName   string `yaml:"file_name"`
	MaxSize    int    `yaml:"max_size" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAge     int    `yaml:"max_age" validate:"min=0"`
}

// GetEnv returns the environment name from GO_ENV.
func GetEnv() string {
	e := os.Getenv("GO_ENV")
	if len(e) == 0 {
		return DefaultEnv
	}
	return e
}

// Default returns the embedded configuration of the current environment,
// without environment overrides.
func Default() (*Config, error) {
	return Embedded(GetEnv())
}

// Embedded returns the embedded configuration of the environment 'env'.
func Embedded(env string) (*Config, error) {
	content, err := defaults.ReadFile(path.Join("env", env+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no embedded configuration for environment %q", env)
	}
	c, err := Parse(content)
	if err != nil {
		return nil, err
	}
	c.Env = env
	return c, nil
}

// Load reads the configuration file at 'name', or the embedded one if name is
// empty, and applies the environment overrides.
func Load(name string) (*Config, error) {
	var c *Config
	var err error
	if name == "" {
		c, err = Default()
	} else {
		c, err = ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadFile reads and validates a YAML configuration file.
func ReadFile(name string) (*Config, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	c, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c.Env = GetEnv()
	return c, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are errors.
func Parse(content []byte) (*Config, error) {
	c := new(Config)
	if err := yaml.UnmarshalStrict(content, c); err != nil {
		return nil, fmt.Errorf("cannot parse configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides settings from environment variables. 'lookup' is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvServerAddress); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvSubmitDelay); ok && v != "" {
		c.Market.SubmitDelay = v
	}
	return c.Validate()
}

// Validate checks the whole configuration, every problem is reported.
func (c *Config) Validate() error {
	var errs []error
	if err := validator.Validate(c); err != nil {
		errs = append(errs, err)
	}
	for i, a := range c.Assets {
		for _, q := range []struct{ name, value string }{{"balance", a.Balance}, {"supplied", a.Supplied}, {"borrowed", a.Borrowed}} {
			if q.value == "" {
				continue
			}
			if _, err := moneymarket.ParseAmount(q.value); err != nil {
				errs = append(errs, fmt.Errorf("assets[%d].%s: %w", i, q.name, err))
			}
		}
	}
	if dups := lo.FindDuplicatesBy(c.Assets, func(a Asset) string { return a.Denom }); len(dups) > 0 {
		errs = append(errs, fmt.Errorf("%w %q", moneymarket.ErrDuplicateAsset, dups[0].Denom))
	}
	if _, err := c.CollateralFactor(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SubmitDelay(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CollateralFactor returns the parsed market collateral factor.
func (c *Config) CollateralFactor() (decimal.Decimal, error) {
	f, err := decimal.NewFromString(c.Market.CollateralFactor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid collateral factor %q: %w", c.Market.CollateralFactor, err)
	}
	if f.IsNegative() || f.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("collateral factor must be between 0 and 1, got %s", f)
	}
	return f, nil
}

// SubmitDelay returns the simulated submission latency, zero if unset.
func (c *Config) SubmitDelay() (time.Duration, error) {
	if c.Market.SubmitDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Market.SubmitDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid submit delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("submit delay must not be negative, got %s", d)
	}
	return d, nil
}

// LogLevel returns the parsed log level, info if unset.
func (c *Config) LogLevel() (zerolog.Level, error) { return c.Log.ParseLevel() }

// ParseLevel returns the parsed level, info if unset.
func (l Log) ParseLevel() (zerolog.Level, error) {
	if l.Level == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// Portfolio builds a fresh portfolio from the seed table.
func (c *Config) Portfolio() (*moneymarket.Portfolio, error) {
	factor, err := c.CollateralFactor()
	if err != nil {
		return nil, err
	}
	assets := make([]moneymarket.Asset, 0, len(c.Assets))
	for _, a := range c.Assets {
		balance, err := moneymarket.ParseAmount(a.Balance)
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", a.Denom, err)
		}
		supplied, borrowed := optionalAmount(a.Supplied), optionalAmount(a.Borrowed)
		assets = append(assets, moneymarket.NewAsset(a.Denom, a.Symbol, a.Name, a.Decimals, a.APY, balance).WithPosition(supplied, borrowed))
	}
	return moneymarket.NewPortfolio(assets, moneymarket.WithCollateralFactor(factor))
}

// optionalAmount parses a validated amount, empty means zero.
func optionalAmount(s string) moneymarket.Amount {
	if s == "" {
		return moneymarket.A(0)
	}
	return moneymarket.MustParseAmount(s)
}

// Submitter returns the submitter matching the configured delay: instant when
// the delay is zero, simulated otherwise.
func (c *Config) Submitter() (moneymarket.Submitter, error) {
	d, err := c.SubmitDelay()
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return moneymarket.InstantSubmitter{}, nil
	}
	return moneymarket.NewSimulatedSubmitter(d), nil
}

// Dump pretty prints the configuration.
func (c *Config) Dump(w io.Writer) error {
	_, err := pretty.Fprintf(w, "%# v\n", c)
	return err
}

// YAML returns the configuration in the file format.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
