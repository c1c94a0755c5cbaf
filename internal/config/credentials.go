package config

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Credentials is the access token table as written by operators:
//
//	{"accessTokens": {"<bearer>": {"channelAccessToken": "...", "to": "...", "messagePrefix": "..."}}}
type Credentials struct {
	AccessTokens map[string]AccessToken `json:"accessTokens"`
}

type AccessToken struct {
	ChannelAccessToken string `json:"channelAccessToken"`
	To                 string `json:"to"`
	MessagePrefix      string `json:"messagePrefix,omitempty"`
}

type Origin string

const (
	OriginFile   Origin = "file"
	OriginBase64 Origin = "base64"
	OriginNone   Origin = "none"
)

// LoadCredentials resolves the table in priority order: the JSON file at
// src.Path if it exists, then the base64 blob in src.Base64. It returns
// (nil, OriginNone, nil) when neither is present.
func LoadCredentials(src CredentialsSource) (*Credentials, Origin, error) {
	if src.Path != "" {
		b, err := os.ReadFile(src.Path)
		switch {
		case err == nil:
			c, err := ParseCredentials(b)
			if err != nil {
				return nil, OriginFile, fmt.Errorf("credentials file %s: %w", src.Path, err)
			}
			return c, OriginFile, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, OriginFile, fmt.Errorf("read credentials file %s: %w", src.Path, err)
		}
	}

	if blob := strings.TrimSpace(src.Base64); blob != "" {
		b, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return nil, OriginBase64, fmt.Errorf("decode CONFIG_BASE64: %w", err)
		}
		c, err := ParseCredentials(b)
		if err != nil {
			return nil, OriginBase64, fmt.Errorf("CONFIG_BASE64: %w", err)
		}
		return c, OriginBase64, nil
	}

	return nil, OriginNone, nil
}

// ParseCredentials decodes a credentials document. Keys are kept verbatim;
// bearer tokens are case-sensitive.
func ParseCredentials(b []byte) (*Credentials, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var c Credentials
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, errors.New("invalid credentials: trailing data")
		}
		return nil, err
	}
	if c.AccessTokens == nil {
		c.AccessTokens = map[string]AccessToken{}
	}
	return &c, nil
}

// EncodeCredentials renders c as the base64 blob accepted by CONFIG_BASE64.
func EncodeCredentials(c *Credentials) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
