package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	gbytes "github.com/labstack/gommon/bytes"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP        HTTPConfig        `mapstructure:"http"`
	Log         LogConfig         `mapstructure:"log"`
	Line        LineConfig        `mapstructure:"line"`
	Credentials CredentialsSource `mapstructure:"credentials"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Port      int    `mapstructure:"port"`
	BodyLimit string `mapstructure:"body_limit"` // echo size syntax, e.g. 10M
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LineConfig struct {
	APIBase string        `mapstructure:"api_base"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 = http.Client default
	Breaker BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailThreshold int           `mapstructure:"fail_threshold"` // <= 0 disables the breaker
	OpenFor       time.Duration `mapstructure:"open_for"`
}

// CredentialsSource says where the access token table may come from.
type CredentialsSource struct {
	Path   string `mapstructure:"path"`
	Base64 string `mapstructure:"base64"`
}

// legacyEnv keeps the plain variable names the relay has always honoured.
var legacyEnv = map[string]string{
	"http.port":          "PORT",
	"log.level":          "LOG_LEVEL",
	"line.api_base":      "LINE_API_BASE",
	"credentials.path":   "CONFIG_PATH",
	"credentials.base64": "CONFIG_BASE64",
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env
// overrides (RELAY_* plus the legacy names in legacyEnv).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil && !isNotFound(err) {
			return Config{}, fmt.Errorf("settings file %s: %w", path, err)
		}
	}

	// env override (RELAY_LINE_TIMEOUT, ...)
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "RELAY_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Line.APIBase = strings.TrimRight(cfg.Line.APIBase, "/")
	if cfg.HTTP.BodyLimit != "" {
		if _, err := gbytes.Parse(cfg.HTTP.BodyLimit); err != nil {
			return Config{}, fmt.Errorf("http.body_limit: %w", err)
		}
	}
	return cfg, nil
}

// isNotFound reports a missing settings file; only that case falls back to defaults.
func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}
