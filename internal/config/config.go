package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/newthinker/crossbt/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Backtest BacktestConfig `mapstructure:"backtest"`
	Data     DataConfig     `mapstructure:"data"`
	Report   ReportConfig   `mapstructure:"report"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// BacktestConfig holds pipeline settings shared by every indicator run.
type BacktestConfig struct {
	InitialCapital float64  `mapstructure:"initial_capital"`
	AllowShort     bool     `mapstructure:"allow_short"`
	RiskFreeRate   float64  `mapstructure:"risk_free_rate"`
	Indicators     []string `mapstructure:"indicators"`
	StrictFinite   bool     `mapstructure:"strict_finite"`
}

// DataConfig describes the input CSV layout.
type DataConfig struct {
	PriceColumn int  `mapstructure:"price_column"`
	SkipHeader  bool `mapstructure:"skip_header"`
}

// ReportConfig selects which total returns are printed.
type ReportConfig struct {
	ReturnTypes []string `mapstructure:"return_types"`
}

type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file on top of Defaults. An empty path
// yields the defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix("CROSSBT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("backtest.initial_capital", d.Backtest.InitialCapital)
	v.SetDefault("backtest.allow_short", d.Backtest.AllowShort)
	v.SetDefault("backtest.risk_free_rate", d.Backtest.RiskFreeRate)
	v.SetDefault("backtest.indicators", d.Backtest.Indicators)
	v.SetDefault("backtest.strict_finite", d.Backtest.StrictFinite)
	v.SetDefault("data.price_column", d.Data.PriceColumn)
	v.SetDefault("data.skip_header", d.Data.SkipHeader)
	v.SetDefault("report.return_types", d.Report.ReturnTypes)
	v.SetDefault("archive.enabled", d.Archive.Enabled)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("archive.s3.bucket", d.Archive.S3.Bucket)
	v.SetDefault("archive.s3.endpoint", d.Archive.S3.Endpoint)
	v.SetDefault("archive.s3.region", d.Archive.S3.Region)
	v.SetDefault("archive.s3.access_key", d.Archive.S3.AccessKey)
	v.SetDefault("archive.s3.secret_key", d.Archive.S3.SecretKey)
	v.SetDefault("archive.s3.prefix", d.Archive.S3.Prefix)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Backtest: BacktestConfig{
			InitialCapital: 1000.0,
			AllowShort:     true,
			RiskFreeRate:   0.0,
			Indicators:     []string{string(core.IndicatorSMA), string(core.IndicatorEMA)},
		},
		Data: DataConfig{
			PriceColumn: 4,
		},
		Report: ReportConfig{
			ReturnTypes: []string{string(core.ReturnSimple), string(core.ReturnLog)},
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "./runs",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// IndicatorKinds parses the configured indicator list, preserving order.
func (c *Config) IndicatorKinds() ([]core.IndicatorKind, error) {
	kinds := make([]core.IndicatorKind, 0, len(c.Backtest.Indicators))
	for _, s := range c.Backtest.Indicators {
		k, err := core.ParseIndicatorKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// ReturnTypes parses the configured report return types, preserving order.
func (c *Config) ReturnTypes() ([]core.ReturnType, error) {
	types := make([]core.ReturnType, 0, len(c.Report.ReturnTypes))
	for _, s := range c.Report.ReturnTypes {
		rt, err := core.ParseReturnType(s)
		if err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	ic := c.Backtest.InitialCapital
	if ic <= 0 || math.IsNaN(ic) || math.IsInf(ic, 0) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %v", ic))
	}
	if math.IsNaN(c.Backtest.RiskFreeRate) || math.IsInf(c.Backtest.RiskFreeRate, 0) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk_free_rate must be finite, got %v", c.Backtest.RiskFreeRate))
	}
	if len(c.Backtest.Indicators) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("at least one indicator required"))
	}
	if _, err := c.IndicatorKinds(); err != nil {
		return err
	}
	if _, err := c.ReturnTypes(); err != nil {
		return err
	}

	if c.Data.PriceColumn < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("price_column cannot be negative, got %d", c.Data.PriceColumn))
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required when archive type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown archive type %q", c.Archive.Type))
		}
	}

	return nil
}
