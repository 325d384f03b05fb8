package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// sandbox points the user directories at a temp dir and returns a settings
// path inside it.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	return filepath.Join(home, "config", config.AppID, config.SettingsFileName)
}

// execute runs one CLI invocation with stdin set to input.
func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	app := &cli{}
	defer app.close()

	var out bytes.Buffer
	root := app.rootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(input))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	cfg := sandbox(t)

	out, err := execute(t, "", "--config", cfg, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, config.AppName)
	assert.Contains(t, out, config.Version)
}

func TestAssistantSessionIsPersisted(t *testing.T) {
	cfg := sandbox(t)

	out, err := execute(t, "add Jane 0123456789\nadd-birthday Jane 14.07.1990\nexit\n", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Contact added.")
	assert.Contains(t, out, "Birthday added.")

	// A second session sees the data saved by the first one.
	out, err = execute(t, "phone Jane\nshow-birthday Jane\nclose\n", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "0123456789")
	assert.Contains(t, out, "14.07.1990")
	assert.FileExists(t, filepath.Join(filepath.Dir(cfg), config.DatabaseFileName))
}

func TestImportThenExport(t *testing.T) {
	cfg := sandbox(t)

	vcf := filepath.Join(t.TempDir(), "contacts.vcf")
	card := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:John Doe\r\nTEL:(123) 456-7890\r\nBDAY:1990-07-14\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(vcf, []byte(card), 0o600))

	out, err := execute(t, "", "--config", cfg, "import", "--file", vcf)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 contacts (0 skipped)")

	out, err = execute(t, "", "--config", cfg, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "FN:John Doe")
	assert.Contains(t, out, "1234567890")

	target := filepath.Join(t.TempDir(), "out.vcf")
	_, err = execute(t, "", "--config", cfg, "export", "--file", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "VERSION:4.0")
}

func TestImportFlagsAreExclusive(t *testing.T) {
	cfg := sandbox(t)

	_, err := execute(t, "", "--config", cfg, "import", "--file", "a.vcf", "--url", "http://example.invalid")
	assert.Error(t, err)
}

func TestLoginStoresPassword(t *testing.T) {
	keyring.MockInit()
	cfg := sandbox(t)

	out, err := execute(t, "s3cret\n", "--config", cfg, "login", "--user", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Password for bob")

	assert.Equal(t, "s3cret", lookupPassword("bob"))
	assert.Empty(t, lookupPassword("alice"), "a missing entry is not an error")

	s, err := config.Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, "bob", s.CardDAVUser)
}

func TestLoginRequiresUser(t *testing.T) {
	keyring.MockInit()
	cfg := sandbox(t)

	_, err := execute(t, "", "--config", cfg, "login")
	assert.Error(t, err)
}

func TestInvalidSettingsFileFails(t *testing.T) {
	cfg := sandbox(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg), 0o700))
	require.NoError(t, os.WriteFile(cfg, []byte("server_port: \"99999\"\n"), 0o600))

	_, err := execute(t, "", "--config", cfg, "export")
	assert.Error(t, err)
}
