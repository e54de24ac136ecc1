package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeTempJSON(t, `{
		"auth": {"token_sign_key": "k", "token_issuer": "iss", "token_duration": "1h"},
		"server": {"http_address": "localhost:8081", "request_timeout": "45s"},
		"storage": {"db": {"dsn": "inventory.db"}},
		"adapter": {"server_url": "http://localhost:8081", "ws_url": "ws://localhost:8081/ws"},
		"session": {"credential_path": "/tmp/cred"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.Auth.TokenSignKey)
	assert.Equal(t, "iss", cfg.Auth.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "localhost:8081", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "inventory.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "ws://localhost:8081/ws", cfg.Adapter.WSURL)
	assert.Equal(t, "/tmp/cred", cfg.Session.CredentialPath)
}

func TestParseJSON_FileMissing(t *testing.T) {
	_, err := parseJSON("/definitely/not/there.json")
	assert.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeTempJSON(t, `{"auth": `)
	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))
}

func TestDuration_UnmarshalNumber(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, time.Duration(d))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	d := Duration(2 * time.Minute)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(b))
}
