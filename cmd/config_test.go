package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitCmd_DefaultPath(t *testing.T) {
	cmd, _, out := newTestRoot(t)

	cmd.SetArgs([]string{"config", "init"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "Wrote bugscope.toml\n", out.String())
	data, err := os.ReadFile("bugscope.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "[server]")
}

func TestConfigInitCmd_ExplicitPath(t *testing.T) {
	cmd, _, _ := newTestRoot(t)
	path := filepath.Join(t.TempDir(), "custom.toml")

	cmd.SetArgs([]string{"config", "init", path})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, path)
}

func TestConfigInitCmd_IgnoresBrokenConfig(t *testing.T) {
	cmd, _, _ := newTestRoot(t)
	require.NoError(t, os.WriteFile(".bugscope.toml", []byte("not = [valid"), 0o644))
	t.Setenv("BUGSCOPE_SERVER_ADDRESS", "http://wrong")

	cmd.SetArgs([]string{"config", "init", "fresh.toml"})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, "fresh.toml")
}

func TestConfigInitCmd_RefusesToOverwrite(t *testing.T) {
	cmd, _, _ := newTestRoot(t)
	require.NoError(t, os.WriteFile("bugscope.toml", []byte("# mine\n"), 0o644))

	cmd.SetArgs([]string{"config", "init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
