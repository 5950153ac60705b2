package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RenderConfig controls the PDF rendering surface. The page is always one
// page tall: height follows measured content, width and margins are fixed.
type RenderConfig struct {
	// ContentWidthMM is the printable width (A4 210mm minus margins).
	ContentWidthMM float64 `mapstructure:"contentWidthMm"`
	// MarginMM applies to all four sides.
	MarginMM float64 `mapstructure:"marginMm"`
	// HeightPaddingMM is added to the measured content height.
	HeightPaddingMM float64 `mapstructure:"heightPaddingMm"`
	// DPI converts measured device pixels to physical length.
	DPI float64 `mapstructure:"dpi"`
	// TimeoutSeconds bounds a single render end to end.
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
	// MaxConcurrent bounds simultaneous browser sessions. It is read
	// once when the renderer starts; unlike the other fields, a config
	// reload does not resize a running renderer.
	MaxConcurrent int `mapstructure:"maxConcurrent"`
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ContentWidthMM:  170,
		MarginMM:        20,
		HeightPaddingMM: 12,
		DPI:             96,
		TimeoutSeconds:  30,
		MaxConcurrent:   2,
	}
}

func (c RenderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RenderConfigHolder exposes the current render config and hot-reloads it
// when the underlying file changes.
type RenderConfigHolder struct {
	current atomic.Value // holds RenderConfig
}

func NewRenderConfigHolder() (*RenderConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("render")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/inkvoice")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INKVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRenderConfig()
	v.SetDefault("render.contentWidthMm", defaults.ContentWidthMM)
	v.SetDefault("render.marginMm", defaults.MarginMM)
	v.SetDefault("render.heightPaddingMm", defaults.HeightPaddingMM)
	v.SetDefault("render.dpi", defaults.DPI)
	v.SetDefault("render.timeoutSeconds", defaults.TimeoutSeconds)
	v.SetDefault("render.maxConcurrent", defaults.MaxConcurrent)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		watch = false
	}

	var cfg RenderConfig
	if err := v.UnmarshalKey("render", &cfg); err != nil {
		return nil, err
	}
	if err := validateRenderConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RenderConfigHolder{}
	holder.current.Store(cfg)

	if watch {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated RenderConfig
			if err := v.UnmarshalKey("render", &updated); err != nil {
				log.Printf("[render-config] reload failed: %v", err)
				return
			}
			if err := validateRenderConfig(updated); err != nil {
				log.Printf("[render-config] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
		})
	}

	return holder, nil
}

func (h *RenderConfigHolder) Current() RenderConfig {
	return h.current.Load().(RenderConfig)
}

func validateRenderConfig(cfg RenderConfig) error {
	if cfg.ContentWidthMM <= 0 || cfg.MarginMM < 0 || cfg.HeightPaddingMM < 0 {
		return errors.New("render config: page geometry must be positive")
	}
	if cfg.DPI <= 0 {
		return errors.New("render config: dpi must be positive")
	}
	if cfg.TimeoutSeconds <= 0 {
		return errors.New("render config: timeout must be positive")
	}
	if cfg.MaxConcurrent <= 0 {
		return errors.New("render config: maxConcurrent must be positive")
	}
	return nil
}
