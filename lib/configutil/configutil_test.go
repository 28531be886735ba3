package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseURL string `json:"base_url"`
	Limit   int    `json:"limit"`
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "widget.json5"),
		[]byte(`{ base_url: "https://shop.example", limit: 4 }`),
		0o644,
	)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(dir, "widget.local.json5"),
		[]byte(`{ limit: 8 }`),
		0o644,
	)
	require.NoError(t, err)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "widget.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://shop.example", config.BaseURL)
	require.Equal(t, 8, config.Limit)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "widget.json5"))
	require.True(t, os.IsNotExist(err))
}
