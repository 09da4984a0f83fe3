// Package config handles persisted settings, API key storage, and logging
// setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const keyringService = "cardsplice"

// Config is the persisted user configuration.
type Config struct {
	Deck      string   `yaml:"deck"`
	Tags      []string `yaml:"tags"`
	Margin    float64  `yaml:"margin_seconds"`
	NudgeStep float64  `yaml:"nudge_step_seconds"`
	AutoPause bool     `yaml:"auto_pause"`

	LastAudio string `yaml:"last_audio,omitempty"`
	LastSubs  string `yaml:"last_subs,omitempty"`
	LastTrans string `yaml:"last_translations,omitempty"`
	LastVideo string `yaml:"last_video,omitempty"`

	AnkiURL string `yaml:"anki_url,omitempty"`
}

func Default() Config {
	return Config{
		Deck:      "cardsplice",
		Tags:      []string{"cardsplice"},
		Margin:    1.0,
		NudgeStep: 0.05,
	}
}

// Path returns the config file location under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "cardsplice", "config.yaml"), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist. A .env file in the working directory is loaded first so that
// OPENAI_API_KEY can be supplied either way.
func Load() (Config, error) {
	godotenv.Load()

	cfg := Default()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config file, creating its directory if needed.
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func systemUser() string {
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows fallback
	}
	if username == "" {
		username = "anon" // Default fallback
	}

	return username
}

// APIKey resolves the OpenAI API key: environment first, then the system
// keyring, then an interactive prompt when allowed. A key read from keyring
// or prompt is exported to the environment for the rest of the process.
func APIKey(interactive bool) (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	username := systemUser()
	key, err := keyring.Get(keyringService, username)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Warn().Err(err).Msg("keyring unavailable")
	}
	if key != "" {
		os.Setenv("OPENAI_API_KEY", key)
		return key, nil
	}

	if !interactive {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}

	fmt.Print("OPENAI_API_KEY not found, enter one: ")
	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	key = strings.TrimSpace(string(byteKey))
	if key == "" {
		return "", fmt.Errorf("an OpenAI API key is required")
	}

	if err := keyring.Set(keyringService, username, key); err != nil {
		log.Warn().Err(err).Msg("failed to store API key in keyring")
	}
	os.Setenv("OPENAI_API_KEY", key)
	return key, nil
}

// InitLogging routes zerolog to a state-directory file so log output never
// corrupts the terminal UI. Set CARDSPLICE_DEBUG=1 for debug level. The
// caller closes the returned file on exit.
func InitLogging() (*os.File, error) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("CARDSPLICE_DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "state")
		} else {
			dir = os.TempDir()
		}
	}
	dir = filepath.Join(dir, "cardsplice")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "cardsplice.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f, nil
}
