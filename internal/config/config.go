package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Rates    RatesConfig    `yaml:"rates" mapstructure:"rates"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig holds the dataset location and the parameters of each task.
type AnalysisConfig struct {
	DataFile    string `yaml:"data_file" mapstructure:"data_file"`
	Encoding    string `yaml:"encoding" mapstructure:"encoding"`
	Delimiter   string `yaml:"delimiter" mapstructure:"delimiter"`
	Genre       string `yaml:"genre" mapstructure:"genre"`
	Percentile  int    `yaml:"percentile" mapstructure:"percentile"`
	Year        int    `yaml:"year" mapstructure:"year"`
	TopN        bool   `yaml:"top_n" mapstructure:"top_n"`
	Movie       string `yaml:"movie" mapstructure:"movie"`
	Region      string `yaml:"region" mapstructure:"region"`
	Flag        int    `yaml:"flag" mapstructure:"flag"`
	BudgetLimit int    `yaml:"budget_limit" mapstructure:"budget_limit"`
}

// OutputConfig configures where task results are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	PlotFormat string `yaml:"plot_format" mapstructure:"plot_format"`
}

// RatesConfig configures currency conversion for budget normalization.
type RatesConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	StaticFile        string  `yaml:"static_file" mapstructure:"static_file"`
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	CacheTTLHours     int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyKeys maps the flat keys of the original JSON config file to their
// nested equivalents. Viper lowercases keys, hence "topn".
var legacyKeys = map[string]string{
	"data_file":  "analysis.data_file",
	"genre":      "analysis.genre",
	"percentile": "analysis.percentile",
	"year":       "analysis.year",
	"topn":       "analysis.top_n",
	"movie":      "analysis.movie",
	"region":     "analysis.region",
	"flag":       "analysis.flag",
}

// Load reads configuration from file and environment. When path is empty a
// config.yaml in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MOVIEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Empty defaults register keys so environment overrides reach Unmarshal.
	v.SetDefault("analysis.data_file", "")
	v.SetDefault("analysis.genre", "")
	v.SetDefault("analysis.year", 0)
	v.SetDefault("analysis.movie", "")
	v.SetDefault("analysis.region", "")
	v.SetDefault("rates.static_file", "")
	v.SetDefault("store.database_url", "")

	v.SetDefault("analysis.encoding", "utf-8")
	v.SetDefault("analysis.delimiter", ",")
	v.SetDefault("analysis.percentile", 10)
	v.SetDefault("analysis.top_n", true)
	v.SetDefault("analysis.flag", 0)
	v.SetDefault("analysis.budget_limit", 10)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.plot_format", "png")
	v.SetDefault("rates.provider", "live")
	v.SetDefault("rates.base_url", "https://api.frankfurter.app")
	v.SetDefault("rates.timeout_secs", 15)
	v.SetDefault("rates.requests_per_second", 5.0)
	v.SetDefault("rates.concurrency", 1)
	v.SetDefault("rates.cache_ttl_hours", 0)
	v.SetDefault("store.driver", "none")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	for flat, nested := range legacyKeys {
		if v.InConfig(flat) && !v.InConfig(nested) {
			v.SetDefault(nested, v.Get(flat))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the values every command depends on. The year-task flag
// is deliberately not checked here: an invalid flag fails only that task.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Analysis.DataFile) == "" {
		return eris.New("config: analysis.data_file is required")
	}
	if c.Analysis.Percentile < 0 || c.Analysis.Percentile > 100 {
		return eris.Errorf("config: analysis.percentile must be within 0-100 (got %d)", c.Analysis.Percentile)
	}
	if c.Analysis.BudgetLimit < 0 {
		return eris.Errorf("config: analysis.budget_limit must be >= 0 (got %d)", c.Analysis.BudgetLimit)
	}
	if len([]rune(c.Analysis.Delimiter)) > 1 {
		return eris.Errorf("config: analysis.delimiter must be a single character (got %q)", c.Analysis.Delimiter)
	}
	switch c.Output.PlotFormat {
	case "png", "svg":
	default:
		return eris.Errorf("config: output.plot_format must be png or svg (got %q)", c.Output.PlotFormat)
	}
	switch c.Rates.Provider {
	case "live", "static":
	default:
		return eris.Errorf("config: rates.provider must be live or static (got %q)", c.Rates.Provider)
	}
	if c.Rates.Provider == "static" && c.Rates.StaticFile == "" {
		return eris.New("config: rates.static_file is required for the static provider")
	}
	switch c.Store.Driver {
	case "none", "sqlite", "postgres":
	default:
		return eris.Errorf("config: store.driver must be none, sqlite or postgres (got %q)", c.Store.Driver)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
