package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"timeledger/internal/platform/logger"
)

func TestNewWritesJSONAtOrAboveLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log, err := logger.New(&buf, "warn", false)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("category", "basic_python").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "shown", entry["message"])
	require.Equal(t, "basic_python", entry["category"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	lvl, err := logger.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, lvl)

	lvl, err = logger.ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, lvl)

	_, err = logger.ParseLevel("loud")
	require.Error(t, err)
}
