// Package config persists the global Aron editor settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DirectionRTL = "rtl"
	DirectionLTR = "ltr"

	DefaultInterpreter = "python main.py"

	configFileName = "config.toml"
)

// Config is the persisted settings file.
type Config struct {
	Direction   string `toml:"direction"`
	Interpreter string `toml:"interpreter"`
}

func New() Config {
	return Config{
		Direction:   DirectionRTL,
		Interpreter: DefaultInterpreter,
	}
}

// ParseError represents a TOML decode failure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GetConfigPath resolves the configuration directory and file. ARON_HOME wins,
// then $XDG_CONFIG_HOME/aron, then ~/.config/aron.
func GetConfigPath() (string, string, error) {
	if override := strings.TrimSpace(os.Getenv("ARON_HOME")); override != "" {
		dir, err := filepath.Abs(filepath.Clean(override))
		if err != nil {
			return "", "", fmt.Errorf("resolve ARON_HOME %q: %w", override, err)
		}
		return dir, filepath.Join(dir, configFileName), nil
	}

	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		dir := filepath.Join(base, "aron")
		return dir, filepath.Join(dir, configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		if err == nil {
			err = errors.New("home directory not found")
		}
		return "", "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "aron")
	return dir, filepath.Join(dir, configFileName), nil
}

// Load reads the persisted config. A missing file yields the defaults.
func Load() (Config, error) {
	cfg := New()
	_, file, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := decodeConfig(data, file, &cfg); err != nil {
		return New(), err
	}
	return cfg, nil
}

func decodeConfig(data []byte, path string, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			return &ParseError{Path: path, Err: decodeErr}
		}
		return &ParseError{Path: path, Err: err}
	}
	cfg.Direction = strings.ToLower(strings.TrimSpace(cfg.Direction))
	switch cfg.Direction {
	case "":
		cfg.Direction = DirectionRTL
	case DirectionRTL, DirectionLTR:
	default:
		return fmt.Errorf("parse config %s: direction must be %q or %q, got %q", path, DirectionRTL, DirectionLTR, cfg.Direction)
	}
	cfg.Interpreter = strings.TrimSpace(cfg.Interpreter)
	if cfg.Interpreter == "" {
		cfg.Interpreter = DefaultInterpreter
	}
	return nil
}

// Save atomically writes the configuration to disk.
func Save(cfg Config) error {
	dir, file, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleaned := false
	defer func() {
		if !cleaned {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, file); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}
	cleaned = true
	return nil
}

// ToggleDirection flips the persisted direction and returns the new value.
func ToggleDirection() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	if cfg.Direction == DirectionRTL {
		cfg.Direction = DirectionLTR
	} else {
		cfg.Direction = DirectionRTL
	}
	if err := Save(cfg); err != nil {
		return "", err
	}
	return cfg.Direction, nil
}
