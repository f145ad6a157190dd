package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("COPY_RESET_MS", "")
	t.Setenv("ASSETS_DIR", "")
	t.Setenv("PUBLISH_BUCKET", "")
	t.Setenv("PUBLISH_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.CopyResetDuration())
	assert.Empty(t, cfg.AssetsDir)
	assert.Empty(t, cfg.LedgerDBPath)
	assert.False(t, cfg.Publish.Enabled())
	assert.Equal(t, "site", cfg.Publish.Prefix)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("ASSETS_DIR", dir)
	t.Setenv("COPY_RESET_MS", "500")
	t.Setenv("PUBLISH_BUCKET", "metiseon-site")
	t.Setenv("PUBLISH_SCHEDULE", "0 0 6 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, dir, cfg.AssetsDir)
	assert.Equal(t, 500*time.Millisecond, cfg.CopyResetDuration())
	assert.True(t, cfg.Publish.Enabled())

	s3cfg := cfg.Publish.ToS3Config()
	assert.Equal(t, "metiseon-site", s3cfg.Bucket)
	assert.Equal(t, "auto", s3cfg.Region)
}

func TestLoad_MissingAssetsDir(t *testing.T) {
	t.Setenv("ASSETS_DIR", "/definitely/not/here")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Port: 8080, CopyResetMs: 2000, Publish: &PublishConfig{}}, false},
		{"bad port", Config{Port: 0, CopyResetMs: 2000}, true},
		{"zero copy window", Config{Port: 8080, CopyResetMs: 0}, true},
		{"schedule without bucket", Config{Port: 8080, CopyResetMs: 2000, Publish: &PublishConfig{Schedule: "@daily"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
