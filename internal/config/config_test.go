package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/greghart/dbentry/queryp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entryctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "sqlite3", c.Driver)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Empty(t, c.DSN)
}

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	c, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeConfig(t, "driver: sqlserver\ndsn: sqlserver://sa@localhost\nlog_format: json\n")

	c, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "sqlserver", c.Driver)
	assert.Equal(t, "sqlserver://sa@localhost", c.DSN)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "info", c.LogLevel, "missing keys keep their default")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = Load(writeConfig(t, "driver: [sqlite3"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestResolveDialect(t *testing.T) {
	tests := map[string]struct {
		config   Config
		expected queryp.Dialect
		err      string
	}{
		"from driver":      {config: Config{Driver: "pgx"}, expected: queryp.Postgres},
		"explicit dialect": {config: Config{Driver: "odbc", Dialect: "sqlserver"}, expected: queryp.SQLServer},
		"unknown driver":   {config: Config{Driver: "odbc"}, err: `no dialect for driver "odbc"`},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := test.config.ResolveDialect()
			if test.err != "" {
				assert.ErrorContains(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected.Name, d.Name)
		})
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	err := c.Validate()
	assert.ErrorContains(t, err, "dsn is required")

	c.DSN = "file.db"
	assert.NoError(t, c.Validate())

	c.LogLevel = "loud"
	c.Driver = "odbc"
	err = c.Validate()
	assert.ErrorContains(t, err, `unknown log level "loud"`)
	assert.ErrorContains(t, err, `no dialect for driver "odbc"`)
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	c := &Config{LogLevel: "debug", LogFormat: "json"}

	l, err := c.Logger(buf)
	require.NoError(t, err)
	l.Debug("hello", "table", "people")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"table":"people"`)

	buf.Reset()
	c = &Config{LogLevel: "warn"}
	l, err = c.Logger(buf)
	require.NoError(t, err)
	l.Info("quiet")
	assert.Empty(t, buf.String())

	_, err = (&Config{LogFormat: "xml"}).Logger(buf)
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}
