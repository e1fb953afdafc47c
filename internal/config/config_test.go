package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("MONGO_URI", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, 10*time.Minute, cfg.OTP.ValidityWindow)
	assert.False(t, cfg.OTP.ExposeCode)
	assert.Equal(t, "TN", cfg.Identifier.Prefix)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OTP_VALIDITY_WINDOW", "90s")
	t.Setenv("OTP_LENGTH", "8")
	t.Setenv("ADMIN_EMAIL", "Root@Example.COM")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.OTP.ValidityWindow)
	assert.Equal(t, 8, cfg.OTP.Length)
	assert.Equal(t, "root@example.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestValidateRejectsUnsafeProductionSettings(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("OTP_EXPOSE_CODE", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
	assert.Contains(t, err.Error(), "OTP_EXPOSE_CODE")
}

func TestValidateStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	require.ErrorContains(t, err, "S3_BUCKET")

	t.Setenv("STORAGE_DRIVER", "ftp")
	_, err = Load()
	require.ErrorContains(t, err, "unknown STORAGE_DRIVER")
}
