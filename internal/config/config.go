package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/itms-transporter/internal/option"
)

const (
	// AppName is the application name, used for the config directory and
	// the config file base name.
	AppName = "itms-transporter"

	// DotEnvFile is the environment file loaded from the working directory.
	DotEnvFile = ".env"
)

// fileExts lists the accepted config file extensions, in lookup order.
var fileExts = []string{".jsonc", ".json", ".yaml", ".yml"}

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	"path":               "ITMS_PATH",
	"print_stdout":       "ITMS_PRINT_STDOUT",
	"print_stderr":       "ITMS_PRINT_STDERR",
	"timeout":            "ITMS_TIMEOUT",
	"defaults.username":  "ITMS_USERNAME",
	"defaults.password":  "ITMS_PASSWORD",
	"defaults.shortname": "ITMS_SHORTNAME",
}

// Config is the resolved configuration.
type Config struct {
	// Path is the iTMSTransporter executable; empty selects the platform default.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// PrintStdout and PrintStderr echo the tool's output while it runs.
	PrintStdout bool `json:"print_stdout" yaml:"print_stdout" mapstructure:"print_stdout"`
	PrintStderr bool `json:"print_stderr" yaml:"print_stderr" mapstructure:"print_stderr"`

	// Timeout bounds each invocation; zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Defaults are option values merged under every call (credentials,
	// shortname, transport, ...). Keys are option names.
	Defaults map[string]any `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFile, when set, is the only file considered. It must exist.
	ConfigFile string

	// ConfigDir overrides the user config directory (see Dir).
	ConfigDir string

	// WorkDir is the directory searched last, and where .env is read from.
	// Defaults to the current directory.
	WorkDir string
}

// Dir returns the user configuration directory for itms-transporter, e.g.
// ~/.config/itms-transporter on Linux.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Load resolves the configuration and returns it together with the path of
// the config file used ("" when none was found).
func Load(opts LoadOptions) (*Config, string, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	// A missing .env file is the common case.
	_ = godotenv.Load(filepath.Join(workDir, DotEnvFile))

	v := viper.New()
	v.SetDefault("path", "")
	v.SetDefault("print_stdout", false)
	v.SetDefault("print_stderr", false)
	v.SetDefault("timeout", "0s")
	v.SetDefault("defaults", map[string]any{})

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, "", fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	path, err := resolveFile(opts, workDir)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := mergeFile(v, path); err != nil {
			return nil, "", fmt.Errorf("failed to load configuration %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, "", fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.Defaults == nil {
		cfg.Defaults = map[string]any{}
	}

	return &cfg, path, nil
}

// resolveFile picks the config file: the explicit one, else the first match
// in the config directory, else in the working directory.
func resolveFile(opts LoadOptions, workDir string) (string, error) {
	if opts.ConfigFile != "" {
		if !fileExists(opts.ConfigFile) {
			return "", fmt.Errorf("config file not found: %s", opts.ConfigFile)
		}
		return opts.ConfigFile, nil
	}

	dirs := []string{}
	cfgDir := opts.ConfigDir
	if cfgDir == "" {
		// Without a resolvable user config dir only the working dir is searched.
		if d, err := Dir(); err == nil {
			cfgDir = d
		}
	}
	if cfgDir != "" {
		dirs = append(dirs, cfgDir)
	}
	dirs = append(dirs, workDir)

	for _, dir := range dirs {
		for _, ext := range fileExts {
			candidate := filepath.Join(dir, AppName+ext)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", nil
}

// mergeFile decodes a JSONC/JSON or YAML file into a map and merges it into
// v, keeping defaults and environment overrides intact.
func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var m map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		// jsonc.ToJSON strips comments and trailing commas.
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if m == nil {
		return nil
	}
	return v.MergeConfigMap(m)
}

// Values returns the defaults as option values. Whole-number floats (as
// decoded from JSON) become integers, and empty strings are dropped.
func (c *Config) Values() option.Values {
	values := make(option.Values, len(c.Defaults))
	for name, v := range c.Defaults {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val == "" {
				continue
			}
			values[name] = val
		case float64:
			if val == math.Trunc(val) {
				values[name] = int64(val)
			} else {
				values[name] = val
			}
		default:
			values[name] = val
		}
	}
	return values
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
