package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/sales-atlas/pkg/store/iiko"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const profiles = `[main]
host = https://resto.example.com/
login = admin
password = test

[hashed]
host = https://other.example.com
login = bot
pass_sha1 = A94A8FE5CCB19BA61C4C0873D391E987982FBBD3

[broken]
host = https://broken.example.com
`

func TestRegistry_GetProfiles(t *testing.T) {
	// Given
	reg, err := NewRegistry(writeFile(t, ".iikocfg", profiles))
	require.NoError(t, err)

	// When
	names, err := reg.GetProfiles(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "hashed", "broken"}, names)
}

func TestRegistry_GetCredentials(t *testing.T) {
	reg, err := NewRegistry(writeFile(t, ".iikocfg", profiles))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("plain password is hashed", func(t *testing.T) {
		creds, err := reg.GetCredentials(ctx, "main")
		require.NoError(t, err)
		assert.Equal(t, iiko.Credentials{
			Host:     "https://resto.example.com",
			Login:    "admin",
			PassSHA1: "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3",
		}, creds)
	})

	t.Run("hash is used as is", func(t *testing.T) {
		creds, err := reg.GetCredentials(ctx, "hashed")
		require.NoError(t, err)
		assert.Equal(t, "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3", creds.PassSHA1)
	})

	t.Run("incomplete profile", func(t *testing.T) {
		_, err := reg.GetCredentials(ctx, "broken")
		assert.ErrorContains(t, err, "required")
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := reg.GetCredentials(ctx, "missing")
		assert.ErrorContains(t, err, "profile missing not found")
	})
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
