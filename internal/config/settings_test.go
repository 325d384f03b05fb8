package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestSettings_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.SettingsFileName)

	want := config.DefaultSettings()
	want.Language = "uk"
	want.HorizonDays = 14
	want.ServerPort = "9090"
	want.CardDAVURL = "https://dav.example.com/contacts"
	want.CardDAVUser = "alice"
	require.NoError(t, want.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("horizon_days: 3\n"), 0o600))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.HorizonDays)
	assert.Equal(t, config.DefaultPort, s.ServerPort)
	assert.Equal(t, config.DefaultLanguage, s.Language)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"malformed yaml", "horizon_days: [", config.ErrSettingsParse},
		{"zero horizon", "horizon_days: 0\n", config.ErrHorizon},
		{"port out of range", "server_port: \"70000\"\n", config.ErrPortRange},
		{"port not a number", "server_port: abc\n", config.ErrPortNumber},
		{"bad language", "language: \"not a tag!\"\n", config.ErrLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), config.SettingsFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := config.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolveDatabasePath(t *testing.T) {
	s := config.DefaultSettings()
	settingsPath := filepath.Join("/tmp", "app", config.SettingsFileName)
	assert.Equal(t, filepath.Join("/tmp", "app", config.DatabaseFileName), s.ResolveDatabasePath(settingsPath))

	s.DatabasePath = "/data/book.db"
	assert.Equal(t, "/data/book.db", s.ResolveDatabasePath(settingsPath))
}

func TestValidatePort(t *testing.T) {
	assert.EqualError(t, config.ValidatePort(""), config.ErrPortRequired)
	assert.EqualError(t, config.ValidatePort("0"), config.ErrPortRange)
	assert.EqualError(t, config.ValidatePort("65536"), config.ErrPortRange)
	assert.NoError(t, config.ValidatePort("1"))
	assert.NoError(t, config.ValidatePort("65535"))
}
