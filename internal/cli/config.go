package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// configEnv names the environment variable that points at a config file.
const configEnv = "NEPDATE_CONFIG"

// Config holds client settings. Precedence: flags, then the config file,
// then these defaults.
type Config struct {
	BaseURL        string   `toml:"base_url"`
	Timeout        duration `toml:"timeout"`
	MaxRetries     int      `toml:"max_retries"`
	RetryBaseDelay duration `toml:"retry_base_delay"`
	BatchDelay     duration `toml:"batch_delay"`
	UserAgent      string   `toml:"user_agent"`
	Validate       bool     `toml:"validate"`
}

// defaultConfig mirrors the library defaults.
func defaultConfig() Config {
	return Config{
		BaseURL:        nepdate.DefaultBaseURL,
		Timeout:        duration(nepdate.DefaultTimeout),
		MaxRetries:     nepdate.DefaultMaxRetries,
		RetryBaseDelay: duration(nepdate.DefaultBaseDelay),
		BatchDelay:     duration(nepdate.DefaultBatchDelay),
		Validate:       true,
	}
}

// loadConfig reads path over the defaults. An empty path resolves to
// $NEPDATE_CONFIG or the XDG location; a missing file at a resolved
// default location is not an error, but an explicit path must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(configEnv)
		explicit = path != ""
	}
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.validate()
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if err := errs.ValidateURL(c.BaseURL); err != nil {
		return err
	}
	if err := errs.ValidateTimeout(time.Duration(c.Timeout)); err != nil {
		return err
	}
	if err := errs.ValidateRetries(c.MaxRetries); err != nil {
		return err
	}
	if err := errs.ValidateDelay("retry base delay", time.Duration(c.RetryBaseDelay)); err != nil {
		return err
	}
	return errs.ValidateDelay("batch delay", time.Duration(c.BatchDelay))
}

// configPath returns the config file using XDG standard
// (~/.config/nepdate/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// duration decodes TOML strings such as "10s" or "250ms".
type duration time.Duration

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
