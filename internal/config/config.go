package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string // empty selects the in-memory backend
	ShutdownTimeout time.Duration
	Env             string
	LogLevel        string
	LogFormat       string

	ShippingCost             decimal.Decimal
	CollectorDiscountPercent decimal.Decimal
	PromoDiscountPercent     int
	PromoKeywords            []string

	AdminBypassEmail    string
	AdminBypassPassword string

	VisitorTTL       time.Duration
	CORSAllowOrigins []string
	DemoKeychain     bool
}

// FromEnv builds Config with defaults, overridden by a .env file and then by
// environment variables.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("SHIPPING_COST", "1200")
	v.SetDefault("COLLECTOR_DISCOUNT_PERCENT", "10")
	v.SetDefault("PROMO_DISCOUNT_PERCENT", 15)
	v.SetDefault("PROMO_KEYWORDS", "")
	v.SetDefault("ADMIN_BYPASS_EMAIL", "")
	v.SetDefault("ADMIN_BYPASS_PASSWORD", "")
	v.SetDefault("VISITOR_TTL_MINUTES", 120)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("CATALOG_DEMO_KEYCHAIN", true)

	shipping, err := decimal.NewFromString(v.GetString("SHIPPING_COST"))
	if err != nil {
		return Config{}, fmt.Errorf("SHIPPING_COST: %w", err)
	}
	collector, err := decimal.NewFromString(v.GetString("COLLECTOR_DISCOUNT_PERCENT"))
	if err != nil {
		return Config{}, fmt.Errorf("COLLECTOR_DISCOUNT_PERCENT: %w", err)
	}

	cfg := Config{
		HTTPAddr:                 v.GetString("HTTP_ADDR"),
		DBConnString:             v.GetString("DB_DSN"),
		ShutdownTimeout:          time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		Env:                      v.GetString("APP_ENV"),
		LogLevel:                 v.GetString("LOG_LEVEL"),
		LogFormat:                v.GetString("LOG_FORMAT"),
		ShippingCost:             shipping,
		CollectorDiscountPercent: collector,
		PromoDiscountPercent:     v.GetInt("PROMO_DISCOUNT_PERCENT"),
		PromoKeywords:            splitList(v.GetString("PROMO_KEYWORDS")),
		AdminBypassEmail:         v.GetString("ADMIN_BYPASS_EMAIL"),
		AdminBypassPassword:      v.GetString("ADMIN_BYPASS_PASSWORD"),
		VisitorTTL:               time.Duration(v.GetInt("VISITOR_TTL_MINUTES")) * time.Minute,
		CORSAllowOrigins:         splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		DemoKeychain:             v.GetBool("CATALOG_DEMO_KEYCHAIN"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ShippingCost.IsNegative() {
		return errors.New("SHIPPING_COST cannot be negative")
	}
	if c.CollectorDiscountPercent.IsNegative() || c.CollectorDiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("COLLECTOR_DISCOUNT_PERCENT must be between 0 and 100")
	}
	if c.PromoDiscountPercent < 0 || c.PromoDiscountPercent > 100 {
		return errors.New("PROMO_DISCOUNT_PERCENT must be between 0 and 100")
	}
	if (c.AdminBypassEmail == "") != (c.AdminBypassPassword == "") {
		return errors.New("ADMIN_BYPASS_EMAIL and ADMIN_BYPASS_PASSWORD must be set together")
	}
	if c.VisitorTTL <= 0 {
		return errors.New("VISITOR_TTL_MINUTES must be positive")
	}
	if c.Env == "production" && c.AdminBypassEmail != "" {
		return errors.New("the admin bypass credential cannot be enabled in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
