package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hr-ops/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, -1, cfg.Import.HeaderRow)
	assert.Equal(t, 1, cfg.Import.SkipAfterHeader)
	assert.Equal(t, 200, cfg.Zoho.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Import.LockTTL)
	assert.Equal(t, 24*time.Hour, cfg.Server.IdempotencyTTL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "RAW_FOLDER=/data/raw\nPROCESSED_FOLDER=/data/done\nZOHO_PORTAL_ID=600\nDB_NAME=attendance\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"RAW_FOLDER", "PROCESSED_FOLDER", "ZOHO_PORTAL_ID", "DB_NAME"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := config.Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/data/raw", cfg.Folders.Raw)
	assert.Equal(t, "/data/done", cfg.Folders.Processed)
	assert.Equal(t, "600", cfg.Zoho.PortalID)
	assert.Contains(t, cfg.Database.DSN(), "dbname=attendance")
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{
		Folders: config.FolderOptions{Raw: "/same", Processed: "/same"},
		Import:  config.ImportOptions{SkipAfterHeader: -1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMPORT_SKIP_AFTER_HEADER")
	assert.Contains(t, err.Error(), "IMPORT_LOCK_TTL")
	assert.Contains(t, err.Error(), "ZOHO_PAGE_SIZE")
	assert.Contains(t, err.Error(), "must differ")
}
