package sourcefile

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pxlpowered/foundations/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestFileSource_Load_YAML(t *testing.T) {
	yamlFile := writeFile(t, "config.yaml", `
database:
  host: localhost
  port: 5432
  credentials:
    user: admin
features:
  - feature1
  - feature2
`)

	src := New(yamlFile, Options{})
	data, err := src.Load(context.Background())
	require.NoError(t, err)

	host, _ := data.Get("database.host")
	assert.Equal(t, "localhost", host)
	port, _ := data.Get("database.port")
	assert.Equal(t, 5432, port)
	user, _ := data.Get("database.credentials.user")
	assert.Equal(t, "admin", user)

	features, ok := data.Get("features")
	require.True(t, ok)
	assert.Len(t, features, 2)
}

func TestFileSource_Load_JSON(t *testing.T) {
	jsonFile := writeFile(t, "config.json", `{
  "database": {
    "host": "db.example.com",
    "port": 3306
  },
  "servers": ["server1", "server2", "server3"]
}`)

	data, err := New(jsonFile, Options{}).Load(context.Background())
	require.NoError(t, err)

	host, _ := data.Get("database.host")
	assert.Equal(t, "db.example.com", host)
	port, _ := data.Get("database.port")
	assert.Equal(t, 3306, port)

	servers, ok := data.Get("servers")
	require.True(t, ok)
	assert.Equal(t, []any{"server1", "server2", "server3"}, servers)
}

func TestFileSource_Load_TOML(t *testing.T) {
	tomlFile := writeFile(t, "config.toml", `
[database]
host = "localhost"
port = 5432

[database.pool]
max_connections = 100
`)

	data, err := New(tomlFile, Options{}).Load(context.Background())
	require.NoError(t, err)

	host, _ := data.Get("database.host")
	assert.Equal(t, "localhost", host)
	maxConn, _ := data.Get("database.pool.max_connections")
	assert.Equal(t, 100, maxConn)
}

func TestFileSource_ExplicitFormat(t *testing.T) {
	filePath := writeFile(t, "config.txt", "key: value")

	data, err := New(filePath, Options{Format: tree.YAML}).Load(context.Background())
	require.NoError(t, err)
	v, _ := data.Get("key")
	assert.Equal(t, "value", v)
}

func TestFileSource_UnsupportedFormat(t *testing.T) {
	filePath := writeFile(t, "config.txt", "some content")

	_, err := New(filePath, Options{}).Load(context.Background())
	assert.ErrorIs(t, err, tree.ErrUnsupportedFormat)
}

func TestFileSource_MissingFile_NotRequired(t *testing.T) {
	src := New("/nonexistent/config.yaml", Options{Required: false})
	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, data.Len(), "should return empty tree for missing non-required file")
}

func TestFileSource_MissingFile_Required(t *testing.T) {
	src := New("/nonexistent/config.yaml", Options{Required: true})
	data, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "required config file not found")
}

func TestFileSource_InvalidYAML(t *testing.T) {
	yamlFile := writeFile(t, "invalid.yaml", "key: value\n\t\tinvalid: [unclosed")

	data, err := New(yamlFile, Options{}).Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestFileSource_CanceledContext(t *testing.T) {
	yamlFile := writeFile(t, "config.yaml", "a: 1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(yamlFile, Options{}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource_FS(t *testing.T) {
	fsys := fstest.MapFS{
		"assets/defaults.yaml": &fstest.MapFile{Data: []byte("greeting: hello\n")},
	}

	src := NewFS(fsys, "assets/defaults.yaml", Options{Required: true})
	assert.Equal(t, "embed:assets/defaults.yaml", src.Name())

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	greeting, _ := data.Get("greeting")
	assert.Equal(t, "hello", greeting)

	_, err = NewFS(fsys, "assets/missing.yaml", Options{Required: true}).Load(context.Background())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileSource_Name(t *testing.T) {
	src := New("/etc/app/config.yaml", Options{})
	assert.Equal(t, "file:config.yaml", src.Name())
	assert.Equal(t, "/etc/app/config.yaml", src.Path())
}
