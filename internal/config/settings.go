package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Settings is the user-editable configuration, persisted as YAML.
// Passwords are never stored here; see KeyringService.
type Settings struct {
	DatabasePath    string `yaml:"database_path"`
	Language        string `yaml:"language"`
	HorizonDays     int    `yaml:"horizon_days"`
	ServerPort      string `yaml:"server_port"`
	ReminderTrigger string `yaml:"reminder_trigger"` // ISO8601 duration, empty disables alarms
	RefreshInterval int    `yaml:"refresh_interval_min"`
	CardDAVURL      string `yaml:"carddav_url,omitempty"`
	CardDAVUser     string `yaml:"username,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
// DatabasePath is left empty and resolved by ResolveDatabasePath.
func DefaultSettings() *Settings {
	return &Settings{
		Language:        DefaultLanguage,
		HorizonDays:     DefaultHorizonDays,
		ServerPort:      DefaultPort,
		ReminderTrigger: DefaultReminderTrigger,
		RefreshInterval: DefaultRefreshMin,
	}
}

// DefaultSettingsPath returns <UserConfigDir>/<AppID>/settings.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	slog.Debug(MsgSettingsLoaded,
		LogKeyComponent, CompConfig,
		LogKeyPath, path,
	)
	return s, nil
}

// Save writes the settings to path, creating the parent directory.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.WriteFile(path, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}

// Validate checks the values a hand-edited file may get wrong.
func (s *Settings) Validate() error {
	if err := ValidatePort(s.ServerPort); err != nil {
		return err
	}
	if s.HorizonDays <= 0 {
		return errors.New(ErrHorizon)
	}
	if _, err := language.Parse(s.Language); err != nil {
		return fmt.Errorf("%s: %w", ErrLanguage, err)
	}
	return nil
}

// ResolveDatabasePath returns DatabasePath, or the default location next to
// the settings file when it is empty.
func (s *Settings) ResolveDatabasePath(settingsPath string) string {
	if s.DatabasePath != "" {
		return s.DatabasePath
	}
	return filepath.Join(filepath.Dir(settingsPath), DatabaseFileName)
}

// ValidatePort checks that port is a number within [MinPort, MaxPort].
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
