package assistant_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// TestLocalesIntegrity ensures every translation key used by the code exists
// in every locale file, and that every supported language ships one.
func TestLocalesIntegrity(t *testing.T) {
	keys := []string{
		config.TKeyWelcome,
		config.TKeyGoodbye,
		config.TKeyHello,
		config.TKeyInvalidCommand,
		config.TKeyMissingArgs,
		config.TKeyContactNotFound,
		config.TKeyContactAdded,
		config.TKeyContactUpdated,
		config.TKeyContactDeleted,
		config.TKeyPhoneUpdated,
		config.TKeyNoContacts,
		config.TKeyNoPhones,
		config.TKeyBirthdayAdded,
		config.TKeyBirthdayMissing,
		config.TKeyNoBirthdays,
		config.TKeyCongratulate,
		config.TKeyErrInvalidName,
		config.TKeyErrInvalidPhone,
		config.TKeyErrInvalidDate,
		config.TKeyErrPhoneMissing,
		config.TKeyErrInternal,
		config.TKeyEvtSummary,
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err, "missing locale file")

			var messages map[string]string
			require.NoError(t, json.Unmarshal(data, &messages), "invalid JSON")

			for _, k := range keys {
				assert.NotEmpty(t, messages[k], "key %q missing in %s", k, lang)
			}
			assert.Len(t, messages, len(keys), "%s has keys the code never uses", lang)
		})
	}
}
