package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bodega/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("ADMIN_SESSION_SECRET", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("DELIVERY_FEE", "")
	t.Setenv("STORE_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FallbackAdminPassword, cfg.AdminPassword)
	assert.Equal(t, "5", cfg.DeliveryFee.String())
	assert.Equal(t, "Bodega Matucana Express", cfg.Store.Name)
	assert.Equal(t, "51908953959", cfg.Store.WhatsApp)
	assert.Equal(t, "51", cfg.ContactCountryCode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("ADMIN_SESSION_SECRET", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "clave")
	t.Setenv("DELIVERY_FEE", "7.50")
	t.Setenv("STORE_NAME", "Bodega Don Lucho")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "clave", cfg.AdminPassword)
	assert.Equal(t, "7.50", cfg.DeliveryFee.StringFixed(2))
	assert.Equal(t, "Bodega Don Lucho", cfg.Store.Name)
}

func TestLoad_NegativeFeeFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("DELIVERY_FEE", "-1")

	cfg, err := LoadForCLI()
	require.NoError(t, err)
	assert.Equal(t, "5", cfg.DeliveryFee.String())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_SESSION_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, config.ErrMissingEnv)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "ADMIN_SESSION_SECRET")

	_, err = LoadForCLI()
	require.ErrorIs(t, err, config.ErrMissingEnv)
	assert.NotContains(t, err.Error(), "ADMIN_SESSION_SECRET")
}

func TestLoadForCLI_NoSessionSecretNeeded(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")
	t.Setenv("ADMIN_SESSION_SECRET", "")

	_, err := LoadForCLI()
	require.NoError(t, err)

	_, err = Load()
	require.ErrorIs(t, err, config.ErrMissingEnv)
}
