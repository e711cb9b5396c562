package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"filter-workbench/internal/logger"
)

const (
	DefaultThreshold     = 128
	DefaultBrightness    = 30
	DefaultBrightnessHSV = 50
	DefaultViewWidth     = 800
	DefaultViewHeight    = 600
	DefaultJPEGQuality   = 95
)

// Config holds the runtime settings. There is no config file; everything
// comes from the environment with defaults matching the stock behaviour.
type Config struct {
	LogLevel  zerolog.Level
	LogFormat string

	Threshold     int
	Brightness    int
	BrightnessHSV int

	ViewWidth   int
	ViewHeight  int
	JPEGQuality int

	WindowSize fyne.Size
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		LogLevel:      zerolog.InfoLevel,
		LogFormat:     "console",
		Threshold:     DefaultThreshold,
		Brightness:    DefaultBrightness,
		BrightnessHSV: DefaultBrightnessHSV,
		ViewWidth:     DefaultViewWidth,
		ViewHeight:    DefaultViewHeight,
		JPEGQuality:   DefaultJPEGQuality,
		WindowSize:    fyne.NewSize(1000, 800),
	}
}

// FromEnv loads the configuration from the process environment.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load builds a Config using getenv for lookups, so tests can supply a map.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = logger.ParseLevel(v)
	} else if getenv("DEBUG") == "1" {
		cfg.LogLevel = zerolog.DebugLevel
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	var err error
	if cfg.Threshold, err = intVar(getenv, "WORKBENCH_THRESHOLD", cfg.Threshold); err != nil {
		return cfg, err
	}
	if cfg.Brightness, err = intVar(getenv, "WORKBENCH_BRIGHTNESS", cfg.Brightness); err != nil {
		return cfg, err
	}
	if cfg.BrightnessHSV, err = intVar(getenv, "WORKBENCH_BRIGHTNESS_HSV", cfg.BrightnessHSV); err != nil {
		return cfg, err
	}
	if cfg.JPEGQuality, err = intVar(getenv, "WORKBENCH_JPEG_QUALITY", cfg.JPEGQuality); err != nil {
		return cfg, err
	}
	if v := getenv("WORKBENCH_VIEWPORT"); v != "" {
		w, h, perr := parseViewport(v)
		if perr != nil {
			return cfg, perr
		}
		cfg.ViewWidth, cfg.ViewHeight = w, h
	}

	return cfg, cfg.Validate()
}

// Validate reports the first out of range setting.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 256 {
		return fmt.Errorf("threshold %d out of range [0, 256]", c.Threshold)
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return fmt.Errorf("brightness delta %d out of range [0, 255]", c.Brightness)
	}
	if c.BrightnessHSV < 0 || c.BrightnessHSV > 255 {
		return fmt.Errorf("hsv brightness delta %d out of range [0, 255]", c.BrightnessHSV)
	}
	if c.ViewWidth <= 0 || c.ViewHeight <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.ViewWidth, c.ViewHeight)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range [1, 100]", c.JPEGQuality)
	}
	return nil
}

func intVar(getenv func(string) string, name string, fallback int) (int, error) {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func parseViewport(v string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(v)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("WORKBENCH_VIEWPORT: want WIDTHxHEIGHT, got %q", v)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("WORKBENCH_VIEWPORT width: %w", err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("WORKBENCH_VIEWPORT height: %w", err)
	}
	return w, h, nil
}
