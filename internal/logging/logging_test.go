package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepLogger(t *testing.T) {
	t.Helper()

	original := log.Logger
	t.Cleanup(func() { log.Logger = original })
}

func TestSetup_Console(t *testing.T) {
	keepLogger(t)

	var buf bytes.Buffer
	closer, err := Setup(afero.NewMemMapFs(), Options{Level: "warn", Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Str("session", "01J").Msg("pipeline connection ended")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "pipeline connection ended")
	assert.Contains(t, out, "session=")
}

func TestSetup_FileWritesJSON(t *testing.T) {
	keepLogger(t)

	fs := afero.NewMemMapFs()
	var console bytes.Buffer

	closer, err := Setup(fs, Options{Level: "debug", File: "bugscope.log", Console: &console})
	require.NoError(t, err)

	log.Debug().Str("address", "ws://localhost:7500").Msg("dialing")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "bugscope.log")
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "dialing", entry["message"])
	assert.Equal(t, "ws://localhost:7500", entry["address"])
	assert.Empty(t, console.String())
}

func TestSetup_FileAppends(t *testing.T) {
	keepLogger(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bugscope.log", []byte("{\"message\":\"earlier\"}\n"), 0o644))

	closer, err := Setup(fs, Options{Level: "info", File: "bugscope.log"})
	require.NoError(t, err)

	log.Info().Msg("later")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "bugscope.log")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestSetup_DiscardsWithoutOutput(t *testing.T) {
	keepLogger(t)

	closer, err := Setup(afero.NewMemMapFs(), Options{Level: "info"})
	require.NoError(t, err)
	defer closer.Close()

	assert.NotPanics(t, func() { log.Error().Msg("nowhere") })
}

func TestSetup_InvalidLevel(t *testing.T) {
	keepLogger(t)

	_, err := Setup(afero.NewMemMapFs(), Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestSetup_OpenFileError(t *testing.T) {
	keepLogger(t)

	_, err := Setup(afero.NewReadOnlyFs(afero.NewMemMapFs()), Options{Level: "info", File: "bugscope.log"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log file")
}
