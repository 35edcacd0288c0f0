package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"NOVA_API_KEY", "OPENROUTER_API_KEY", "VITE_OPENROUTER_API_KEY", "NOVA_BASE_URL",
	"NOVA_MODEL", "NOVA_AUTH_PROVIDER", "NOVA_DB_PATH", "FIREBASE_API_KEY",
	"VITE_FIREBASE_API_KEY", "NOVA_PERSONA", "NOVA_TTS_COMMAND", "NOVA_STT_COMMAND",
	"NOVA_EXPORT_DIR", "NOVA_LOG_FILE", "NOVA_TIMEOUT_SECS", "NOVA_MEMORY",
}

// isolate clears nova's environment for the test and points the user config
// directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithEnvFile("", "")
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o", cfg.Gateway.Model)
	assert.Equal(t, int64(1000), cfg.Gateway.MaxTokens)
	assert.Equal(t, AuthLocal, cfg.Auth.Provider)
	assert.True(t, cfg.Chat.Memory)
	assert.Empty(t, cfg.Gateway.APIKey, "missing key is not a startup error")
	assert.Equal(t, 120*time.Second, cfg.Timeout())
}

func TestLoadTOMLFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nova.toml")
	writeFile(t, path, `
[gateway]
api_key = "sk-file"
model = "openai/gpt-4o-mini"
timeout_secs = 0

[chat]
persona = "casual"
memory = false

[speech]
tts_command = "espeak -s 150"
`)

	cfg, err := LoadWithEnvFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.Gateway.APIKey)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Gateway.Model)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
	assert.Equal(t, "casual", cfg.Chat.Persona)
	assert.False(t, cfg.Chat.Memory)
	assert.Equal(t, "espeak -s 150", cfg.Speech.TTSCommand)
	assert.Equal(t, int64(1000), cfg.Gateway.MaxTokens, "unset keys keep defaults")
}

func TestDefaultLocationIsOptional(t *testing.T) {
	isolate(t)

	_, err := LoadWithEnvFile("", "")
	require.NoError(t, err)

	path, err := DefaultPath()
	require.NoError(t, err)
	writeFile(t, path, "[gateway]\nmodel = \"x-ai/grok-4.1-fast\"\n")
	cfg, err := LoadWithEnvFile("", "")
	require.NoError(t, err)
	assert.Equal(t, "x-ai/grok-4.1-fast", cfg.Gateway.Model)
}

func TestExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	_, err := LoadWithEnvFile(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nova.toml")
	writeFile(t, path, "[gateway]\napi_key = \"sk-file\"\n")
	t.Setenv("OPENROUTER_API_KEY", "sk-env")
	t.Setenv("NOVA_MEMORY", "false")
	t.Setenv("NOVA_AUTH_PROVIDER", "LOCAL")

	cfg, err := LoadWithEnvFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Gateway.APIKey)
	assert.False(t, cfg.Chat.Memory)
	assert.Equal(t, AuthLocal, cfg.Auth.Provider)
}

func TestDotEnvFile(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "VITE_OPENROUTER_API_KEY=sk-dotenv\nNOVA_MODEL=deepseek/deepseek-v3.2\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("VITE_OPENROUTER_API_KEY")
		_ = os.Unsetenv("NOVA_MODEL")
	})

	cfg, err := LoadWithEnvFile("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "sk-dotenv", cfg.Gateway.APIKey)
	assert.Equal(t, "deepseek/deepseek-v3.2", cfg.Gateway.Model)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Auth.Provider = "ldap"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.Provider = AuthFirebase
	assert.Error(t, cfg.Validate())
	cfg.Auth.FirebaseAPIKey = "web-key"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Gateway.TimeoutSecs = -1
	cfg.Gateway.MaxTokens = -5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_secs")
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestPaths(t *testing.T) {
	isolate(t)
	cfg := Default()
	dir, err := Dir()
	require.NoError(t, err)

	dbPath, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nova.db"), dbPath)

	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nova.log"), logPath)

	cfg.Auth.DBPath = "/tmp/x.db"
	dbPath, err = cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", dbPath)
}
