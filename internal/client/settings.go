package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/models"

	"gopkg.in/yaml.v3"
)

// EnvBaseURL overrides base_url from the settings file.
const EnvBaseURL = "CONTACTBOOK_URL"

// Settings CLI 配置文件（YAML）
type Settings struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	PageSize int           `yaml:"page_size"`
}

// DefaultSettings returns the built-in client settings.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		PageSize: models.DefaultLimit,
	}
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/contactbook/config.yaml (or the platform equivalent).
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "contactbook", "config.yaml")
}

// LoadSettings reads path over the defaults. A missing file is not an error.
// CONTACTBOOK_URL, when set, replaces base_url.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Settings{}, fmt.Errorf("settings: reading %s: %w", path, err)
		case len(data) > 0:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
				return Settings{}, fmt.Errorf("settings: parsing %s: %w", path, err)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		s.BaseURL = v
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.BaseURL == "" {
		return errors.New("settings: base_url is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("settings: timeout must be positive, got %s", s.Timeout)
	}
	if s.PageSize < 1 || s.PageSize > models.MaxLimit {
		return fmt.Errorf("settings: page_size must be between 1 and %d, got %d", models.MaxLimit, s.PageSize)
	}
	return nil
}
