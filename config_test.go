package jwtlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, SigningMethodHS256, cfg.SigningMethod)
	assert.Zero(t, cfg.ExpiresIn)
	assert.Zero(t, cfg.MaxAge)
	assert.False(t, cfg.IgnoreExpiration)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"empty method", Config{}, nil},
		{"HS512", Config{SigningMethod: SigningMethodHS512}, nil},
		{"unknown method", Config{SigningMethod: "HS1"}, ErrInvalidSigningMethod},
		{"negative ttl", Config{ExpiresIn: -time.Second}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jwtlite.yaml")
	content := "signing_method: HS384\nexpires_in: 15m\nmax_age: 2s\nignore_expiration: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SigningMethodHS384, cfg.SigningMethod)
	assert.Equal(t, 15*time.Minute, cfg.ExpiresIn)
	assert.Equal(t, 2*time.Second, cfg.MaxAge)
	assert.True(t, cfg.IgnoreExpiration)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwtlite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_age: 1s\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SigningMethodHS256, cfg.SigningMethod)
	assert.Equal(t, time.Second, cfg.MaxAge)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("signing_method: [HS256\n"), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("signing_method: RS256\n"), 0o600))
	_, err = LoadConfig(invalid)
	assert.ErrorIs(t, err, ErrInvalidSigningMethod)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	codec, err := New(Config{SigningMethod: "none"})
	assert.Nil(t, codec)
	assert.ErrorIs(t, err, ErrInvalidSigningMethod)
}
