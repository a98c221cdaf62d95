package app

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/newmobile/internal/variant"
)

type Config struct {
	DecayPeriod   time.Duration
	BundleDivisor decimal.Decimal
	SessionTTL    time.Duration
	AdminToken    string
	Seed          bool
}

// ConfigFromEnv lee la configuración del entorno; valores inválidos caen al default.
func ConfigFromEnv() Config {
	cfg := Config{
		DecayPeriod:   variant.DefaultDecayPeriod,
		BundleDivisor: variant.DefaultBundleDivisor,
		SessionTTL:    2 * time.Hour,
		AdminToken:    strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		Seed:          strings.EqualFold(strings.TrimSpace(os.Getenv("APP_SEED")), "true"),
	}
	if v := os.Getenv("VARIANT_DECAY_PERIOD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DecayPeriod = d
		} else {
			log.Warn().Str("value", v).Msg("VARIANT_DECAY_PERIOD inválido, uso default")
		}
	}
	if v := os.Getenv("BUNDLE_FX_DIVISOR"); v != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil && d.IsPositive() {
			cfg.BundleDivisor = d
		} else {
			log.Warn().Str("value", v).Msg("BUNDLE_FX_DIVISOR inválido, uso default")
		}
	}
	if v := os.Getenv("VARIANT_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if cfg.AdminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN vacío: importación de variantes deshabilitada")
	}
	return cfg
}
