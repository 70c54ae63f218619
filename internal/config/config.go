package config

import (
	"fmt"
	"time"
)

// PanelPosition is the screen edge a panel reservation occupies.
type PanelPosition string

const (
	PanelTop    PanelPosition = "top"
	PanelBottom PanelPosition = "bottom"
)

// Transactions configures the workspace transaction coordinator.
type Transactions struct {
	// TimeoutMs bounds how long a transaction waits for client
	// acknowledgments before committing anyway.
	TimeoutMs int `yaml:"timeout_ms"`
}

// Timeout returns the watchdog timeout as a duration.
func (t Transactions) Timeout() time.Duration {
	return time.Duration(t.TimeoutMs) * time.Millisecond
}

// Surfaces configures per-surface geometry limits.
type Surfaces struct {
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
}

// Pointer configures pointer tracking.
type Pointer struct {
	// IdleTimeoutMs is how long the pointer must be still before the
	// idle notification fires. 0 disables idle detection.
	IdleTimeoutMs int `yaml:"idle_timeout_ms"`
}

// IdleTimeout returns the pointer idle timeout as a duration.
func (p Pointer) IdleTimeout() time.Duration {
	return time.Duration(p.IdleTimeoutMs) * time.Millisecond
}

// Panel configures the default panel reservation applied to new workspaces.
type Panel struct {
	Height   int           `yaml:"height"`
	Position PanelPosition `yaml:"position"`
	Visible  *bool         `yaml:"visible"`
}

// Logging configures log output.
type Logging struct {
	Level string `yaml:"level,omitempty"`
	// File is an optional log file path; empty logs to stderr only.
	File string `yaml:"file,omitempty"`
}

// Config is the root configuration for the compositor core.
type Config struct {
	Transactions Transactions `yaml:"transactions"`
	Surfaces     Surfaces     `yaml:"surfaces"`
	Pointer      Pointer      `yaml:"pointer"`
	Panel        Panel        `yaml:"panel"`
	Logging      Logging      `yaml:"logging"`
}

const (
	DefaultTransactionTimeoutMs = 1000
	DefaultMinSurfaceWidth      = 24
	DefaultMinSurfaceHeight     = 24
	DefaultPointerIdleMs        = 5000
	DefaultPanelHeight          = 28
)

// Default returns the built-in configuration.
func Default() *Config {
	visible := true
	return &Config{
		Transactions: Transactions{TimeoutMs: DefaultTransactionTimeoutMs},
		Surfaces: Surfaces{
			MinWidth:  DefaultMinSurfaceWidth,
			MinHeight: DefaultMinSurfaceHeight,
		},
		Pointer: Pointer{IdleTimeoutMs: DefaultPointerIdleMs},
		Panel: Panel{
			Height:   DefaultPanelHeight,
			Position: PanelTop,
			Visible:  &visible,
		},
		Logging: Logging{Level: "info"},
	}
}

// PanelVisible resolves the optional visibility flag, defaulting to true.
func (p Panel) PanelVisible() bool {
	if p.Visible == nil {
		return true
	}
	return *p.Visible
}

// Validate checks the configuration for values the core cannot operate with.
func (c *Config) Validate() error {
	if c.Transactions.TimeoutMs <= 0 {
		return fmt.Errorf("transactions.timeout_ms must be positive, got %d", c.Transactions.TimeoutMs)
	}
	if c.Surfaces.MinWidth < 1 || c.Surfaces.MinHeight < 1 {
		return fmt.Errorf("surfaces.min_width/min_height must be at least 1, got %dx%d",
			c.Surfaces.MinWidth, c.Surfaces.MinHeight)
	}
	if c.Pointer.IdleTimeoutMs < 0 {
		return fmt.Errorf("pointer.idle_timeout_ms must not be negative, got %d", c.Pointer.IdleTimeoutMs)
	}
	if c.Panel.Height < 0 {
		return fmt.Errorf("panel.height must not be negative, got %d", c.Panel.Height)
	}
	switch c.Panel.Position {
	case PanelTop, PanelBottom:
	default:
		return fmt.Errorf("panel.position must be %q or %q, got %q", PanelTop, PanelBottom, c.Panel.Position)
	}
	return nil
}
