package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FolioConfig controls how guest bills are presented. Operators tune
// this per deployment without a restart.
type FolioConfig struct {
	// ShowZeroRates keeps zero-amount VAT and service charge lines on
	// the printed bill when true.
	ShowZeroRates bool `mapstructure:"showZeroRates"`
	// MaxWarningsLogged caps how many reconciliation warnings a single
	// folio recompute writes to the log.
	MaxWarningsLogged int `mapstructure:"maxWarningsLogged"`
	// CurrencyCode is echoed on every guest bill so clients know what
	// the amounts denominate. Formatting stays client-side.
	CurrencyCode string `mapstructure:"currencyCode"`
}

func DefaultFolioConfig() FolioConfig {
	return FolioConfig{
		ShowZeroRates:     false,
		MaxWarningsLogged: 20,
		CurrencyCode:      "NGN",
	}
}

type FolioConfigHolder struct {
	current atomic.Value // holds FolioConfig
}

func NewFolioConfigHolder() (*FolioConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("folio")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/lodgeops/config") // Volume-mounted config
	v.AddConfigPath("/etc/lodgeops")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("LODGEOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultFolioConfig()
	v.SetDefault("folio.showZeroRates", defaults.ShowZeroRates)
	v.SetDefault("folio.maxWarningsLogged", defaults.MaxWarningsLogged)
	v.SetDefault("folio.currencyCode", defaults.CurrencyCode)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg FolioConfig
	if err := v.UnmarshalKey("folio", &cfg); err != nil {
		return nil, err
	}
	if err := validateFolioConfig(cfg); err != nil {
		return nil, err
	}

	holder := &FolioConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FolioConfig
		if err := v.UnmarshalKey("folio", &updated); err != nil {
			log.Printf("[folio-config] reload failed: %v", err)
			return
		}
		if err := validateFolioConfig(updated); err != nil {
			log.Printf("[folio-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[folio-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Get returns the current folio config. A zero-value holder serves the
// defaults, so callers never need a loaded file.
func (h *FolioConfigHolder) Get() FolioConfig {
	if cfg, ok := h.current.Load().(FolioConfig); ok {
		return cfg
	}
	return DefaultFolioConfig()
}

func validateFolioConfig(cfg FolioConfig) error {
	if cfg.MaxWarningsLogged < 0 {
		return errors.New("folio.maxWarningsLogged cannot be negative")
	}
	if strings.TrimSpace(cfg.CurrencyCode) == "" {
		return errors.New("folio.currencyCode is required")
	}
	return nil
}
