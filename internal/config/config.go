package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/hygiene"
	"github.com/sells-group/mdf/internal/identity"
	"github.com/sells-group/mdf/internal/pipeline"
)

// Config holds the full application configuration.
type Config struct {
	Simulation SimulationConfig   `yaml:"simulation" mapstructure:"simulation"`
	Hygiene    hygiene.Rules      `yaml:"hygiene" mapstructure:"hygiene"`
	Identity   IdentityConfig     `yaml:"identity" mapstructure:"identity"`
	EdgeCases  generate.EdgeCases `yaml:"edge_cases" mapstructure:"edge_cases"`
	Catalog    CatalogConfig      `yaml:"catalog" mapstructure:"catalog"`
	Server     ServerConfig       `yaml:"server" mapstructure:"server"`
	Log        LogConfig          `yaml:"log" mapstructure:"log"`
}

// SimulationConfig configures how runs are paced and seeded.
type SimulationConfig struct {
	Mode             string        `yaml:"mode" mapstructure:"mode"`
	StepDelay        time.Duration `yaml:"step_delay" mapstructure:"step_delay"`
	RecordsPerSource int           `yaml:"records_per_source" mapstructure:"records_per_source"`
	Seed             uint64        `yaml:"seed" mapstructure:"seed"`
	Sources          []string      `yaml:"sources" mapstructure:"sources"`
	Preset           string        `yaml:"preset" mapstructure:"preset"`
}

// IdentityConfig configures identity resolution.
type IdentityConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// CatalogConfig points at an optional source catalog override.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env files, config file and environment.
func Load() (*Config, error) {
	loadEnvFiles()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("simulation.mode", string(pipeline.ModeAuto))
	v.SetDefault("simulation.step_delay", pipeline.DefaultStepDelay)
	v.SetDefault("simulation.records_per_source", pipeline.DefaultRecordsPerSource)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.sources", []string{})
	v.SetDefault("simulation.preset", "")
	v.SetDefault("hygiene.normalize_phone", true)
	v.SetDefault("hygiene.lowercase_email", true)
	v.SetDefault("hygiene.trim_whitespace", true)
	v.SetDefault("hygiene.proper_case_names", true)
	v.SetDefault("identity.mode", string(identity.Deterministic))
	v.SetDefault("edge_cases.missing_email", false)
	v.SetDefault("edge_cases.duplicate_crm", false)
	v.SetDefault("edge_cases.mismatched_phones", false)
	v.SetDefault("catalog.path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// loadEnvFiles loads .env files into the process environment. Existing
// variables are never overwritten, so .env.local takes precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// Validate checks the settings the given command depends on. mode is "run"
// or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "run", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if _, err := pipeline.ParseSimulationMode(c.Simulation.Mode); err != nil {
		errs = append(errs, "simulation.mode must be auto or step")
	}
	if _, err := identity.ParseMode(c.Identity.Mode); err != nil {
		errs = append(errs, "identity.mode must be deterministic or probabilistic")
	}
	if c.Simulation.RecordsPerSource < 1 || c.Simulation.RecordsPerSource > pipeline.MaxRecordsPerSource {
		errs = append(errs, fmt.Sprintf("simulation.records_per_source must be between 1 and %d", pipeline.MaxRecordsPerSource))
	}
	if c.Simulation.StepDelay < 0 {
		errs = append(errs, "simulation.step_delay must be >= 0")
	}
	if mode == "serve" && c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Request builds the pipeline request described by the simulation settings.
func (c *Config) Request() pipeline.Request {
	return pipeline.Request{
		Sources:          append([]string(nil), c.Simulation.Sources...),
		Preset:           c.Simulation.Preset,
		Rules:            c.Hygiene,
		Identity:         identity.Mode(strings.ToLower(c.Identity.Mode)),
		EdgeCases:        c.EdgeCases,
		Mode:             pipeline.SimulationMode(strings.ToLower(c.Simulation.Mode)),
		RecordsPerSource: c.Simulation.RecordsPerSource,
		Seed:             c.Simulation.Seed,
	}
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
