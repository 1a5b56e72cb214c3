package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "transactions.db", cfg.Database.Path)
	assert.Equal(t, "transaction_categories.yaml", cfg.Categories.File)
	assert.Empty(t, cfg.Sources.Primary.Dir)
}

func TestInitializeConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LEDGER_DATABASE_PATH", "/tmp/ledger.db")
	t.Setenv("LEDGER_SOURCES_PARTNER_DIR", "/data/partner")
	t.Setenv("LEDGER_LOG_LEVEL", "debug")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, "/data/partner", cfg.Sources.Partner.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitializeConfigRejectsBadLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LEDGER_LOG_LEVEL", "loud")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	logger := ConfigureLogging(cfg)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}
