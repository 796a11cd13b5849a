package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/hygiene"
	"github.com/sells-group/mdf/internal/identity"
	"github.com/sells-group/mdf/internal/pipeline"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml or .env is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "auto", cfg.Simulation.Mode)
	assert.Equal(t, 1500*time.Millisecond, cfg.Simulation.StepDelay)
	assert.Equal(t, 8, cfg.Simulation.RecordsPerSource)
	assert.Zero(t, cfg.Simulation.Seed)
	assert.Empty(t, cfg.Simulation.Sources)
	assert.Equal(t, hygiene.DefaultRules(), cfg.Hygiene)
	assert.Equal(t, "deterministic", cfg.Identity.Mode)
	assert.Equal(t, generate.EdgeCases{}, cfg.EdgeCases)
	assert.Empty(t, cfg.Catalog.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.NoError(t, cfg.Validate("run"))
	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
simulation:
  mode: step
  step_delay: 250ms
  records_per_source: 20
  seed: 99
  sources: [crm, ga4]
hygiene:
  normalize_phone: false
identity:
  mode: probabilistic
edge_cases:
  duplicate_crm: true
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "step", cfg.Simulation.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.StepDelay)
	assert.Equal(t, 20, cfg.Simulation.RecordsPerSource)
	assert.Equal(t, uint64(99), cfg.Simulation.Seed)
	assert.Equal(t, []string{"crm", "ga4"}, cfg.Simulation.Sources)
	assert.False(t, cfg.Hygiene.NormalizePhone)
	// Defaults still apply for unset values
	assert.True(t, cfg.Hygiene.LowercaseEmail)
	assert.Equal(t, "probabilistic", cfg.Identity.Mode)
	assert.True(t, cfg.EdgeCases.DuplicateCRM)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
identity:
  mode: probabilistic
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("MDF_IDENTITY_MODE", "deterministic")
	t.Setenv("MDF_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "deterministic", cfg.Identity.Mode)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("MDF_SERVER_PORT", "3000")
	t.Setenv("MDF_SIMULATION_SEED", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MDF_SIMULATION_PRESET=retail\nMDF_SERVER_PORT=4000\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("MDF_SERVER_PORT=5000\n"), 0644))
	// godotenv writes straight to the process env; register for cleanup.
	t.Setenv("MDF_SIMULATION_PRESET", "")
	t.Setenv("MDF_SERVER_PORT", "")
	require.NoError(t, os.Unsetenv("MDF_SIMULATION_PRESET"))
	require.NoError(t, os.Unsetenv("MDF_SERVER_PORT"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "retail", cfg.Simulation.Preset)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Simulation.Mode = "auto"
	cfg.Simulation.StepDelay = time.Second
	cfg.Simulation.RecordsPerSource = 8
	cfg.Identity.Mode = "deterministic"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_InvalidModes(t *testing.T) {
	cfg := validDefaults()
	cfg.Simulation.Mode = "manual"
	cfg.Identity.Mode = "fuzzy"

	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.mode must be auto or step")
	assert.Contains(t, err.Error(), "identity.mode must be deterministic or probabilistic")
}

func TestValidate_RecordsPerSourceBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Simulation.RecordsPerSource = 0
	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records_per_source must be between 1 and 1000")

	cfg.Simulation.RecordsPerSource = 1001
	assert.Error(t, cfg.Validate("run"))

	cfg.Simulation.RecordsPerSource = 1000
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidate_NegativeDelay(t *testing.T) {
	cfg := validDefaults()
	cfg.Simulation.StepDelay = -time.Second

	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step_delay")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("run"))
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestRequest(t *testing.T) {
	cfg := validDefaults()
	cfg.Simulation.Mode = "STEP"
	cfg.Simulation.Sources = []string{"crm"}
	cfg.Simulation.Preset = "media"
	cfg.Simulation.Seed = 3
	cfg.Identity.Mode = "Probabilistic"
	cfg.Hygiene = hygiene.Rules{TrimWhitespace: true}
	cfg.EdgeCases = generate.EdgeCases{MissingEmail: true}

	req := cfg.Request()
	assert.Equal(t, pipeline.Request{
		Sources:          []string{"crm"},
		Preset:           "media",
		Rules:            hygiene.Rules{TrimWhitespace: true},
		Identity:         identity.Probabilistic,
		EdgeCases:        generate.EdgeCases{MissingEmail: true},
		Mode:             pipeline.ModeStep,
		RecordsPerSource: 8,
		Seed:             3,
	}, req)

	req.Sources[0] = "pos"
	assert.Equal(t, "crm", cfg.Simulation.Sources[0])
}
