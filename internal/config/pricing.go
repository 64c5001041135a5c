package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig holds the rates the quote engine composes on top of the
// catalog-driven base price. Everything here is hot-reloadable so rate
// changes do not need a redeploy.
type PricingConfig struct {
	// VATRate is applied to the net total of every quote.
	VATRate float64 `mapstructure:"vatRate"`

	// RushMultipliers maps a Rush selection value to a percentage of the
	// base price. A zero multiplier means the value is recognized but free.
	RushMultipliers map[string]float64 `mapstructure:"rushMultipliers"`

	// LaminationRates and TurnaroundRates are flat per-unit surcharges.
	LaminationRates map[string]float64 `mapstructure:"laminationRates"`
	TurnaroundRates map[string]float64 `mapstructure:"turnaroundRates"`

	// RoundedCornerRate is the per-unit surcharge for rounded corners.
	RoundedCornerRate float64 `mapstructure:"roundedCornerRate"`

	// DeliveryFees are flat fees charged once per order.
	DeliveryFees map[string]float64 `mapstructure:"deliveryFees"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		VATRate: 0.20,
		RushMultipliers: map[string]float64{
			"same-day": 0.20,
			"express":  0,
		},
		LaminationRates: map[string]float64{
			"Matte":      0.05,
			"Gloss":      0.08,
			"Soft Touch": 0.12,
		},
		TurnaroundRates: map[string]float64{
			"Express":  0.15,
			"Same-day": 0.25,
		},
		RoundedCornerRate: 0.02,
		DeliveryFees: map[string]float64{
			"Courier": 5.00,
			"Post":    3.50,
		},
	}
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

// NewPricingConfigHolder loads pricing.yml and watches it for changes.
// When no config file exists the built-in defaults apply.
func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/printhaus/config") // Volume-mounted config
	v.AddConfigPath("/etc/printhaus")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("PRINTHAUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPricingConfig()
		v.SetDefault("pricing.vatRate", defaults.VATRate)
		v.SetDefault("pricing.rushMultipliers", defaults.RushMultipliers)
		v.SetDefault("pricing.laminationRates", defaults.LaminationRates)
		v.SetDefault("pricing.turnaroundRates", defaults.TurnaroundRates)
		v.SetDefault("pricing.roundedCornerRate", defaults.RoundedCornerRate)
		v.SetDefault("pricing.deliveryFees", defaults.DeliveryFees)
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingConfigHolder wraps a fixed config with no file watching.
func NewStaticPricingConfigHolder(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if cfg.VATRate < 0 || cfg.VATRate >= 1 {
		return errors.New("pricing.vatRate must be in [0, 1)")
	}
	if cfg.RoundedCornerRate < 0 {
		return errors.New("pricing.roundedCornerRate cannot be negative")
	}
	for name, rate := range cfg.RushMultipliers {
		if rate < 0 {
			return errors.New("pricing.rushMultipliers." + name + " cannot be negative")
		}
	}
	for name, rate := range cfg.LaminationRates {
		if rate < 0 {
			return errors.New("pricing.laminationRates." + name + " cannot be negative")
		}
	}
	for name, rate := range cfg.TurnaroundRates {
		if rate < 0 {
			return errors.New("pricing.turnaroundRates." + name + " cannot be negative")
		}
	}
	for name, fee := range cfg.DeliveryFees {
		if fee < 0 {
			return errors.New("pricing.deliveryFees." + name + " cannot be negative")
		}
	}
	return nil
}
