// Package config loads nova's settings.
//
// Sources, lowest precedence first:
//   - built-in defaults
//   - TOML file (~/.config/nova/config.toml or --config)
//   - .env file in the working directory (never overrides the real environment)
//   - environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"nova/internal/models"
)

const (
	AuthLocal    = "local"
	AuthFirebase = "firebase"
)

type Config struct {
	Gateway GatewayConfig `toml:"gateway"`
	Auth    AuthConfig    `toml:"auth"`
	Chat    ChatConfig    `toml:"chat"`
	Speech  SpeechConfig  `toml:"speech"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
}

type GatewayConfig struct {
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	MaxTokens   int64  `toml:"max_tokens"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

type AuthConfig struct {
	// Provider is "local" (sqlite accounts) or "firebase".
	Provider       string `toml:"provider"`
	DBPath         string `toml:"db_path"`
	FirebaseAPIKey string `toml:"firebase_api_key"`
	FirebaseURL    string `toml:"firebase_url"`
}

type ChatConfig struct {
	Persona string `toml:"persona"`
	Memory  bool   `toml:"memory"`
}

type SpeechConfig struct {
	TTSCommand string `toml:"tts_command"`
	STTCommand string `toml:"stt_command"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

type LogConfig struct {
	File string `toml:"file"`
}

func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       models.DefaultModelID,
			MaxTokens:   1000,
			TimeoutSecs: 120,
		},
		Auth: AuthConfig{
			Provider:    AuthLocal,
			FirebaseURL: "https://identitytoolkit.googleapis.com/v1",
		},
		Chat: ChatConfig{
			Persona: string(models.PersonaDefault),
			Memory:  true,
		},
		Export: ExportConfig{Dir: "."},
	}
}

// Dir is the per-user nova directory.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nova"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from path. An empty path means the default
// location, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, ".env")
}

func LoadWithEnvFile(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides copies recognised environment variables over cfg.
func (c *Config) ApplyEnvOverrides() {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}

	setString(&c.Gateway.APIKey, "NOVA_API_KEY", "OPENROUTER_API_KEY", "VITE_OPENROUTER_API_KEY")
	setString(&c.Gateway.BaseURL, "NOVA_BASE_URL")
	setString(&c.Gateway.Model, "NOVA_MODEL")
	setString(&c.Auth.Provider, "NOVA_AUTH_PROVIDER")
	setString(&c.Auth.DBPath, "NOVA_DB_PATH")
	setString(&c.Auth.FirebaseAPIKey, "FIREBASE_API_KEY", "VITE_FIREBASE_API_KEY")
	setString(&c.Chat.Persona, "NOVA_PERSONA")
	setString(&c.Speech.TTSCommand, "NOVA_TTS_COMMAND")
	setString(&c.Speech.STTCommand, "NOVA_STT_COMMAND")
	setString(&c.Export.Dir, "NOVA_EXPORT_DIR")
	setString(&c.Log.File, "NOVA_LOG_FILE")

	if v := os.Getenv("NOVA_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Gateway.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("NOVA_MEMORY"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Chat.Memory = on
		}
	}

	c.Auth.Provider = strings.ToLower(c.Auth.Provider)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Gateway.Model == "" {
		errs = append(errs, errors.New("gateway.model must not be empty"))
	}
	if c.Gateway.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("gateway.max_tokens must be >= 0, got %d", c.Gateway.MaxTokens))
	}
	if c.Gateway.TimeoutSecs < 0 {
		errs = append(errs, fmt.Errorf("gateway.timeout_secs must be >= 0, got %d", c.Gateway.TimeoutSecs))
	}
	switch c.Auth.Provider {
	case AuthLocal:
	case AuthFirebase:
		if c.Auth.FirebaseAPIKey == "" {
			errs = append(errs, errors.New("auth.firebase_api_key is required for the firebase provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.provider %q is not one of %q, %q", c.Auth.Provider, AuthLocal, AuthFirebase))
	}
	return errors.Join(errs...)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSecs) * time.Second
}

// DBPath returns the configured account database or the default location.
func (c *Config) DBPath() (string, error) {
	if c.Auth.DBPath != "" {
		return c.Auth.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nova.db"), nil
}

// LogPath returns the configured log file or <Dir>/nova.log.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nova.log"), nil
}
