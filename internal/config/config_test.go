package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashsum/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hashsum.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("hash-type", "sha256", "")
	fs.String("log-level", "info", "")
	fs.Int("workers", 0, "")
	fs.Bool("progress", false, "")
	return fs
}

func TestLoad(t *testing.T) {
	p := writeConfig(t, "hash_type: blake3\nworkers: 3\nprogress: true\n")

	c, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "blake3", c.HashType)
	require.NotNil(t, c.Workers)
	assert.Equal(t, 3, *c.Workers)
	assert.Equal(t, map[string]string{
		"hash-type": "blake3",
		"workers":   "3",
		"progress":  "true",
	}, c.Values())
}

func TestLoad_EmptyFile(t *testing.T) {
	c, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, c.Values())
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "hash_typo: md5\n"))
	require.Error(t, err, "unknown keys must be rejected")
}

func TestPrecedence_FlagOverEnvOverConfig(t *testing.T) {
	t.Setenv("TEST_HASH_TYPE", "md5")
	t.Setenv("TEST_WORKERS", "7")
	t.Setenv("TEST_LOG_LEVEL", "")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--workers", "2"}))

	require.NoError(t, config.MapEnvVarToFlag(map[string]string{
		"TEST_HASH_TYPE": "hash-type",
		"TEST_WORKERS":   "workers",
		"TEST_LOG_LEVEL": "log-level",
	}, fs))

	require.NoError(t, config.Apply(fs, map[string]string{
		"hash-type": "sha512",
		"log-level": "debug",
		"progress":  "true",
		"quiet":     "true",
	}))

	hashType, _ := fs.GetString("hash-type")
	workers, _ := fs.GetInt("workers")
	logLevel, _ := fs.GetString("log-level")
	progress, _ := fs.GetBool("progress")

	assert.Equal(t, "md5", hashType, "env beats config")
	assert.Equal(t, 2, workers, "flag beats env")
	assert.Equal(t, "debug", logLevel, "config fills unset flags")
	assert.True(t, progress)
}

func TestMapEnvVarToFlag_UnknownFlag(t *testing.T) {
	err := config.MapEnvVarToFlag(map[string]string{"X": "nope"}, newFlags())
	require.Error(t, err)
}

func TestApply_BadValue(t *testing.T) {
	err := config.Apply(newFlags(), map[string]string{"workers": "many"})
	require.Error(t, err)
}
