package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServeArgs(t *testing.T) {
	noEnv := func(string) string { return "" }

	opts, err := parseServeArgs([]string{"--config", "gw.yaml", "-p", "9100", "-d"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, serveOptions{configPath: "gw.yaml", port: 9100, debug: true}, opts)

	opts, err = parseServeArgs(nil, func(k string) string {
		if k == "GATEWAY_CONFIG" {
			return "/etc/gw.yaml"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "/etc/gw.yaml", opts.configPath)
	assert.Zero(t, opts.port)

	_, err = parseServeArgs([]string{"-h"}, noEnv)
	assert.ErrorIs(t, err, errHelp)

	for _, bad := range [][]string{
		{"--config"},
		{"--port"},
		{"--port", "abc"},
		{"--port", "70000"},
		{"--port", "0"},
		{"--bogus"},
		{"positional"},
	} {
		_, err := parseServeArgs(bad, noEnv)
		assert.Error(t, err, bad)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AI_HUB_TEST_VALUE=from-dotenv\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("AI_HUB_TEST_VALUE")
	})

	loaded := loadEnvFiles()
	assert.NotEmpty(t, loaded)
	assert.Equal(t, "from-dotenv", os.Getenv("AI_HUB_TEST_VALUE"))
}
