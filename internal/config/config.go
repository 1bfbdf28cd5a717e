// Package config resolves CLI configuration: a cobra/pflag FlagSet already
// parsed from argv, overlaid with .env-sourced environment variables, the
// way the teacher's cmd/morfx/main.go loads env before flags (godotenv.Load(),
// error ignored — its absence is the common case, not a failure).
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/oxhq/extracti18n/internal/logging"
)

// Config is the resolved set of options a batch run needs.
type Config struct {
	Path          string
	Include       []string
	Exclude       []string
	IsDevelopment bool
	DryRun        bool
	Concurrency   int
	ManifestDSN   string
	Debug         bool
	JSONOutput    bool
	LogLevel      logging.Level
}

// FromFlags reads an already-parsed FlagSet into a Config. The manifest DSN
// falls back to EXTRACTI18N_MANIFEST_DSN when the flag was left at its
// zero-value default, so a .env file can supply it without a flag on every
// invocation.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var err error
	if cfg.Path, err = fs.GetString("path"); err != nil {
		return Config{}, err
	}
	if cfg.Include, err = fs.GetStringSlice("include"); err != nil {
		return Config{}, err
	}
	if cfg.Exclude, err = fs.GetStringSlice("exclude"); err != nil {
		return Config{}, err
	}
	if cfg.IsDevelopment, err = fs.GetBool("dev"); err != nil {
		return Config{}, err
	}
	if cfg.DryRun, err = fs.GetBool("dry-run"); err != nil {
		return Config{}, err
	}
	if cfg.Concurrency, err = fs.GetInt("concurrency"); err != nil {
		return Config{}, err
	}
	if cfg.ManifestDSN, err = fs.GetString("manifest"); err != nil {
		return Config{}, err
	}
	if cfg.ManifestDSN == "" {
		cfg.ManifestDSN = os.Getenv("EXTRACTI18N_MANIFEST_DSN")
	}
	if cfg.Debug, err = fs.GetBool("debug"); err != nil {
		return Config{}, err
	}
	if cfg.JSONOutput, err = fs.GetBool("json"); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = logging.LevelInfo
	if cfg.Debug {
		cfg.LogLevel = logging.LevelDebug
	}
	return cfg, nil
}
