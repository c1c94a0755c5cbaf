package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCredentials = `{
  "accessTokens": {
    "test": {"channelAccessToken": "dummy", "to": "U1", "messagePrefix": "TEST APP: "},
    "CaseSensitive": {"channelAccessToken": "c2", "to": "U2"}
  }
}`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCredentials_File(t *testing.T) {
	c, origin, err := LoadCredentials(CredentialsSource{Path: writeFile(t, sampleCredentials)})
	require.NoError(t, err)
	assert.Equal(t, OriginFile, origin)

	require.Len(t, c.AccessTokens, 2)
	assert.Equal(t, AccessToken{ChannelAccessToken: "dummy", To: "U1", MessagePrefix: "TEST APP: "}, c.AccessTokens["test"])
	assert.Contains(t, c.AccessTokens, "CaseSensitive")
}

func TestLoadCredentials_FileWinsOverBase64(t *testing.T) {
	other := base64.StdEncoding.EncodeToString([]byte(`{"accessTokens":{"b64":{"channelAccessToken":"x","to":"y"}}}`))

	c, origin, err := LoadCredentials(CredentialsSource{Path: writeFile(t, sampleCredentials), Base64: other})
	require.NoError(t, err)
	assert.Equal(t, OriginFile, origin)
	assert.NotContains(t, c.AccessTokens, "b64")
}

func TestLoadCredentials_Base64WhenFileMissing(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte(sampleCredentials))

	c, origin, err := LoadCredentials(CredentialsSource{
		Path:   filepath.Join(t.TempDir(), "missing.json"),
		Base64: blob,
	})
	require.NoError(t, err)
	assert.Equal(t, OriginBase64, origin)
	assert.Len(t, c.AccessTokens, 2)
}

func TestLoadCredentials_None(t *testing.T) {
	c, origin, err := LoadCredentials(CredentialsSource{Path: filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, err)
	assert.Equal(t, OriginNone, origin)
	assert.Nil(t, c)
}

func TestLoadCredentials_Errors(t *testing.T) {
	_, _, err := LoadCredentials(CredentialsSource{Path: writeFile(t, `{"accessTokens": `)})
	assert.Error(t, err)

	_, _, err = LoadCredentials(CredentialsSource{Path: writeFile(t, `{"tokens": {}}`)})
	assert.Error(t, err, "unknown fields are rejected")

	_, _, err = LoadCredentials(CredentialsSource{Path: writeFile(t, `{"accessTokens": {}} {}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")

	_, _, err = LoadCredentials(CredentialsSource{Base64: "%%%not-base64"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_BASE64")
}

func TestEncodeCredentials_RoundTrip(t *testing.T) {
	c, err := ParseCredentials([]byte(sampleCredentials))
	require.NoError(t, err)

	blob, err := EncodeCredentials(c)
	require.NoError(t, err)

	got, origin, err := LoadCredentials(CredentialsSource{Base64: blob})
	require.NoError(t, err)
	assert.Equal(t, OriginBase64, origin)
	assert.Equal(t, c, got)
}
