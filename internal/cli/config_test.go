package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("MOONPULL_SERVER", "http://moonpull.test")
	t.Setenv("MOONPULL_TOKEN", "tok")
	t.Setenv("MOONPULL_TOKEN_FILE", "/tmp/moonpull-token")

	c := DefaultConfig()
	assert.Equal(t, "http://moonpull.test", c.ServerURL)
	assert.Equal(t, "tok", c.Token)
	assert.Equal(t, "/tmp/moonpull-token", c.TokenFile)
	assert.Equal(t, "text", c.Output)
}

func TestLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("abc\n"), 0600))

	c := &Config{TokenFile: path}
	require.NoError(t, c.LoadToken())
	assert.Equal(t, "abc", c.Token)

	// An explicit token wins over the file
	c = &Config{Token: "flag", TokenFile: path}
	require.NoError(t, c.LoadToken())
	assert.Equal(t, "flag", c.Token)

	c = &Config{TokenFile: filepath.Join(t.TempDir(), "missing")}
	require.NoError(t, c.LoadToken())
	assert.Empty(t, c.Token)
}

func TestSaveAndRemoveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	c := &Config{TokenFile: path}

	require.NoError(t, c.SaveToken("abc"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	require.NoError(t, c.RemoveToken())
	assert.Empty(t, c.Token)
	assert.NoFileExists(t, path)

	// Missing file is fine
	require.NoError(t, c.RemoveToken())
}
