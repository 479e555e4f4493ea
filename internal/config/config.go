package config

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/bodega/internal/checkout"
	"github.com/Skotchmaster/bodega/pkg/config"
)

const FallbackAdminPassword = "admin123"

type ServiceConfig struct {
	config.Config

	Store              checkout.Store
	ContactCountryCode string
	DeliveryFee        decimal.Decimal
}

func Load() (ServiceConfig, error) {
	cfg := config.Load()

	if err := config.Require(map[string][]byte{
		"DATABASE_URL":         []byte(cfg.DatabaseURL),
		"ADMIN_SESSION_SECRET": cfg.AdminSessionSecret,
	}); err != nil {
		return ServiceConfig{}, err
	}
	return fromBase(cfg), nil
}

// LoadForCLI skips the session secret check; CLI commands never issue sessions.
func LoadForCLI() (ServiceConfig, error) {
	cfg := config.Load()
	if err := config.Require(map[string][]byte{"DATABASE_URL": []byte(cfg.DatabaseURL)}); err != nil {
		return ServiceConfig{}, err
	}
	return fromBase(cfg), nil
}

func fromBase(cfg config.Config) ServiceConfig {
	if cfg.AdminPassword == "" {
		slog.Warn("admin_password_fallback", "reason", "ADMIN_PASSWORD not set, using built-in default")
		cfg.AdminPassword = FallbackAdminPassword
	}

	fee, err := decimal.NewFromString(config.EnvDefault("DELIVERY_FEE", "5"))
	if err != nil || fee.IsNegative() {
		slog.Warn("delivery_fee_invalid", "value", config.EnvDefault("DELIVERY_FEE", ""))
		fee = decimal.NewFromInt(5)
	}

	return ServiceConfig{
		Config: cfg,
		Store: checkout.Store{
			Name:     config.EnvDefault("STORE_NAME", "Bodega Matucana Express"),
			Address:  config.EnvDefault("STORE_ADDRESS", "Jr. Tacna - Matucana"),
			Hours:    config.EnvDefault("STORE_HOURS", "7:00 a.m. a 10:00 p.m."),
			WhatsApp: config.EnvDefault("STORE_WHATSAPP", "51908953959"),
		},
		ContactCountryCode: config.EnvDefault("CONTACT_COUNTRY_CODE", "51"),
		DeliveryFee:        fee,
	}
}
