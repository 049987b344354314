package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, settingsYAML string) (dir string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"), []byte(settingsYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CUSTOM_AUTH_SECRET=abc\n"), 0o600))

	t.Setenv("ENVGEN_ROOT", dir)
	t.Setenv("ENVGEN_SETTINGS_PATH", filepath.Join(dir, "settings.yml"))
	t.Setenv("ENVGEN_SECRETS_PATH", filepath.Join(dir, ".env"))
	t.Setenv("ENVGEN_METRICS__TEXTFILE", filepath.Join(dir, "envgen.prom"))
	return dir
}

func TestRun_Success(t *testing.T) {
	dir := setup(t, "collections:\n  disabled: false\n")

	var stdout, stderr bytes.Buffer
	run(context.Background(), &stdout, &stderr)

	assert.Equal(t, successMessage+"\n", stdout.String())
	assert.Empty(t, stderr.String())

	out, err := os.ReadFile(filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "JWT_SECRET='abc'\n")
	assert.Contains(t, string(out), "NEXT_PUBLIC_HIDE_COLLECTIONS='0'\n")

	prom, err := os.ReadFile(filepath.Join(dir, "envgen.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "envgen_last_run_success 1\n")
}

func TestRun_ParseFailureReported(t *testing.T) {
	dir := setup(t, "services: [unclosed\n")

	var stdout, stderr bytes.Buffer
	run(context.Background(), &stdout, &stderr)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error generating environment variables: parse ")
	assert.NoFileExists(t, filepath.Join(dir, ".env.local"))

	prom, err := os.ReadFile(filepath.Join(dir, "envgen.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `envgen_last_run_failure{kind="parse"} 1`)
}

func TestRun_BadOptionsReported(t *testing.T) {
	setup(t, "")
	t.Setenv("ENVGEN_LOG__LEVEL", "chatty")

	var stdout, stderr bytes.Buffer
	run(context.Background(), &stdout, &stderr)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error generating environment variables:")
}
