package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/logger"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the base name of the optional config file.
	ConfigName = ".bsr"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BSR"
)

type Config struct {
	Remote           string        `mapstructure:"remote"`
	TagNamespace     string        `mapstructure:"tag_namespace"`
	TempBranchPrefix string        `mapstructure:"temp_branch_prefix"`
	BsrDir           string        `mapstructure:"bsr_dir"`
	GitUsername      string        `mapstructure:"git_username"`
	GitToken         string        `mapstructure:"git_token"`
	AuthorName       string        `mapstructure:"author_name"`
	AuthorEmail      string        `mapstructure:"author_email"`
	HookTimeout      time.Duration `mapstructure:"hook_timeout"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout"`
	LogLevel         string        `mapstructure:"log_level"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Remote:           "origin",
		TagNamespace:     domain.DefaultTagNamespace,
		TempBranchPrefix: "bsr/temp",
		BsrDir:           ".bsr",
		GitUsername:      "x-access-token",
		LockTimeout:      10 * time.Second,
		LogLevel:         "info",
	}
}

var refNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Remote) == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	if err := ValidateRefPrefix(c.TagNamespace); err != nil {
		return fmt.Errorf("invalid tag_namespace: %w", err)
	}
	if err := ValidateRefPrefix(c.TempBranchPrefix); err != nil {
		return fmt.Errorf("invalid temp_branch_prefix: %w", err)
	}
	if c.BsrDir == "" {
		return fmt.Errorf("bsr_dir cannot be empty")
	}
	// Check for path traversal in bsr directory
	if filepath.IsAbs(c.BsrDir) || strings.Contains(c.BsrDir, "..") {
		return fmt.Errorf("bsr_dir must be a path inside the repository")
	}
	if c.HookTimeout < 0 {
		return fmt.Errorf("hook_timeout cannot be negative")
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout cannot be negative")
	}
	if (c.AuthorName == "") != (c.AuthorEmail == "") {
		return fmt.Errorf("author_name and author_email must be set together")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateRefPrefix checks that prefix can start a git ref name.
func ValidateRefPrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("cannot be empty")
	}
	if len(prefix) > 200 {
		return fmt.Errorf("too long: %d characters (max: 200)", len(prefix))
	}
	if strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("cannot start or end with slash: %s", prefix)
	}
	if strings.Contains(prefix, "..") || strings.Contains(prefix, "//") {
		return fmt.Errorf("cannot contain consecutive dots or slashes: %s", prefix)
	}
	if strings.HasSuffix(prefix, ".lock") {
		return fmt.Errorf("cannot end with .lock: %s", prefix)
	}
	if !refNameRegex.MatchString(prefix) {
		return fmt.Errorf("invalid format: %s", prefix)
	}
	return nil
}

// LoadConfig reads .bsr.yaml from dir (or the explicit file when given),
// applies BSR_* environment overrides and validates the result.
func LoadConfig(dir, file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}
	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("git_token", "BSR_GIT_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind git_token env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("remote", defaults.Remote)
	v.SetDefault("tag_namespace", defaults.TagNamespace)
	v.SetDefault("temp_branch_prefix", defaults.TempBranchPrefix)
	v.SetDefault("bsr_dir", defaults.BsrDir)
	v.SetDefault("git_username", defaults.GitUsername)
	v.SetDefault("git_token", "")
	v.SetDefault("author_name", "")
	v.SetDefault("author_email", "")
	v.SetDefault("hook_timeout", defaults.HookTimeout)
	v.SetDefault("lock_timeout", defaults.LockTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
