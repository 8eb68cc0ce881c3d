package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file or flags leave a value unset.
const (
	DefaultDownloadDir  = "downloads"
	DefaultBranch       = "master"
	DefaultScheduleTime = "10:00"
	DefaultTimezone     = "UTC"
)

// Config is the top-level configuration for releasewatch.
type Config struct {
	DownloadDir      string         `yaml:"download_dir"`
	RepositoriesFile string         `yaml:"repositories_file"`
	Repositories     []string       `yaml:"repositories"`
	Branch           string         `yaml:"branch"`
	Schedule         ScheduleConfig `yaml:"schedule"`
	Sources          []SourceConfig `yaml:"sources"`
}

// ScheduleConfig holds the daily check time and its timezone.
type ScheduleConfig struct {
	Time     string `yaml:"time"`     // "HH:MM" wall-clock time
	Timezone string `yaml:"timezone"` // IANA name, e.g. "Europe/Zurich"
}

// SourceConfig describes credentials for a single hosting service.
type SourceConfig struct {
	Type  string `yaml:"type"`  // "github", "gitlab"
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// timePattern matches the "HH:MM" schedule time format.
var timePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Default returns a configuration with all defaults applied and no
// repositories or credentials configured.
func Default() *Config {
	return &Config{
		DownloadDir: DefaultDownloadDir,
		Branch:      DefaultBranch,
		Schedule: ScheduleConfig{
			Time:     DefaultScheduleTime,
			Timezone: DefaultTimezone,
		},
	}
}

// Load reads and parses a configuration file, expanding environment variables
// in tokens and applying defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.applyDefaults()

	// Resolve tokens (env vars and file paths)
	for i := range cfg.Sources {
		cfg.Sources[i].Token = ResolveToken(cfg.Sources[i].Token)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".releasewatch.yaml",
		".releasewatch.yml",
		"releasewatch.yaml",
		"releasewatch.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// LoadRepositoriesFile reads a newline-delimited list of repository URLs.
// Blank lines and lines starting with '#' are skipped.
func LoadRepositoriesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories file %q: %w", path, err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	logger.Infof("Loaded %d repository(ies) from %q", len(urls), path)
	return urls, nil
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// TokenFor returns the configured token for a source type, or "" when none
// is configured (anonymous access).
func (c *Config) TokenFor(sourceType string) string {
	for _, s := range c.Sources {
		if s.Type == sourceType {
			return s.Token
		}
	}
	return ""
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

// Validate checks for required configuration values.
func (c *Config) Validate() error {
	if c.DownloadDir == "" {
		return errors.New("download_dir is required")
	}

	if !timePattern.MatchString(c.Schedule.Time) {
		return fmt.Errorf(
			"schedule.time %q is invalid, expected 24h \"HH:MM\"",
			c.Schedule.Time,
		)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for i, s := range c.Sources {
		if s.Type == "" {
			return fmt.Errorf("sources[%d].type is required", i)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.Schedule.Time == "" {
		c.Schedule.Time = DefaultScheduleTime
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = DefaultTimezone
	}
}
