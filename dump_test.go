package foundations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedConfig(t *testing.T) *TransientConfiguration {
	t.Helper()
	logger, _ := observed()
	cfg, err := NewTransientBuilder(catalog(t)).
		Default(static("embed:defaults.yaml", map[string]any{
			"server":   map[string]any{"host": "localhost", "port": 8080},
			"database": map[string]any{"password": "secret123"},
			"tags":     []any{"a", "b"},
		})).
		Default(static("env:APP_", map[string]any{
			"server": map[string]any{"port": 9090},
		})).
		Build(logger)
	require.NoError(t, err)
	cfg.Load(context.Background())
	return cfg
}

func TestDump_TextFormat(t *testing.T) {
	cfg := loadedConfig(t)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, cfg, WithRedacted("database.password")))

	assert.Equal(t, `database.password: ***redacted***
server.host: "localhost"
server.port: 9090
tags: [a, b]
`, buf.String())
}

func TestDump_WithSources(t *testing.T) {
	cfg := loadedConfig(t)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, cfg, WithSources()))

	out := buf.String()
	assert.Contains(t, out, `server.host: "localhost" (source: embed:defaults.yaml)`)
	assert.Contains(t, out, `server.port: 9090 (source: env:APP_)`)
	assert.Contains(t, out, "secret123")
}

func TestDump_JSON(t *testing.T) {
	cfg := loadedConfig(t)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, cfg, AsJSON(), WithRedacted("database")))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "***redacted***", got["database"])
	assert.Equal(t, map[string]any{"host": "localhost", "port": float64(9090)}, got["server"])
	assert.Contains(t, buf.String(), "\n  \"server\"")
}

func TestDump_JSONWithSources(t *testing.T) {
	cfg := loadedConfig(t)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, cfg, AsJSON(), WithSources(), WithIndent("")))

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "env:APP_", got["server.port"]["source"])
	assert.Equal(t, float64(9090), got["server.port"]["value"])
	assert.Equal(t, "embed:defaults.yaml", got["tags"]["source"])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestDump_NotLoaded(t *testing.T) {
	logger, _ := observed()
	cfg, err := NewTransientBuilder(catalog(t)).Build(logger)
	require.NoError(t, err)

	assert.Error(t, Dump(&bytes.Buffer{}, cfg))
	assert.Error(t, Dump(&bytes.Buffer{}, nil))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestDump_WriteError(t *testing.T) {
	cfg := loadedConfig(t)
	assert.ErrorContains(t, Dump(failingWriter{}, cfg), "write error")
	assert.ErrorContains(t, Dump(failingWriter{}, cfg, AsJSON()), "write error")
}
