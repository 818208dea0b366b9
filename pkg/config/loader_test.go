package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/config"
)

type testConfig struct {
	Name    string `env:"CONFIG_TEST_NAME" envDefault:"fallback"`
	Port    int    `env:"CONFIG_TEST_PORT" envDefault:"8080"`
	Require string `env:"CONFIG_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "mfakit")
	t.Setenv("CONFIG_TEST_REQUIRED", "present")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "mfakit", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "present", cfg.Require)
}

func TestLoadMissingRequired(t *testing.T) {
	var cfg testConfig
	require.Error(t, config.Load(&cfg))
}

func TestLoadNilPointer(t *testing.T) {
	var cfg *testConfig
	require.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}
