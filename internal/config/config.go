// Package config resolves the runtime configuration of the analyzer: the
// optional GitHub token and API endpoint.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// TokenEnvVar holds the personal access token used to raise rate limits.
	TokenEnvVar = "GITHUB_TOKEN"
	// BaseURLEnvVar points the client at a GitHub Enterprise API.
	BaseURLEnvVar = "GITHUB_API_URL"

	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"
	// DefaultFileName is the config file searched for in the working directory.
	DefaultFileName = ".github-profile-analyzer.yaml"
	// UserFileName is the config file searched for in ~/.config.
	UserFileName = "github-profile-analyzer.yaml"
)

// Config is the resolved configuration. A zero Config is valid and means
// unauthenticated access to api.github.com.
type Config struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// EnvFile is a dotenv file to load. Empty means DefaultEnvFile.
	EnvFile string
	// ConfigFile is a YAML file. Empty means search the default locations;
	// an explicitly named file must exist.
	ConfigFile string
	// Logger receives config diagnostics. Nil means the logrus standard logger.
	Logger *logrus.Logger
}

// HasToken reports whether requests will carry a credential.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// Load builds the configuration. Environment variables (including the ones
// loaded from the dotenv file, which never override already set variables)
// take precedence over values from the YAML file.
func Load(opts Options) (*Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || opts.EnvFile != "" {
			return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}

	cfg := &Config{}
	path := opts.ConfigFile
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		fileCfg, err := readFile(path, logger)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnvVar)); token != "" {
		cfg.Token = token
	}
	if baseURL := strings.TrimSpace(os.Getenv(BaseURLEnvVar)); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return cfg, nil
}

func readFile(path string, logger *logrus.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	cfg.Token = strings.TrimSpace(expandEnv(cfg.Token, logger))
	cfg.BaseURL = strings.TrimSpace(expandEnv(cfg.BaseURL, logger))
	logger.Debugf("Loaded config file %q", path)
	return &cfg, nil
}

// expandEnv replaces ${VAR} and $VAR references with their values.
func expandEnv(raw string, logger *logrus.Logger) string {
	return os.Expand(raw, func(name string) string {
		val, ok := os.LookupEnv(name)
		if !ok {
			logger.Warnf("Environment variable %q referenced in config is not set", name)
		}
		return val
	})
}

// findConfigFile returns the first default config file that exists, or "".
// It looks for ./.github-profile-analyzer.yaml, then
// ~/.config/github-profile-analyzer.yaml.
func findConfigFile() string {
	candidates := []string{DefaultFileName}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", UserFileName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
