package tui

import (
	"io"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Now    time.Time
	Since  time.Time
	Input  io.Reader
	Output io.Writer
	Preset string
	Theme  themes.Theme
	Width  int
	Height int
	// AltScreen runs the program in the terminal's alternate screen.
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     80,
		Height:    24,
		AltScreen: true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithWindow describes the detection window shown in the header.
func WithWindow(preset string, since, now time.Time) Option {
	return func(c *Config) {
		c.Preset = preset
		c.Since = since
		c.Now = now
	}
}

// WithIO replaces stdin/stdout, mostly for tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Config) {
		c.Input = in
		c.Output = out
	}
}

// WithSize sets the initial terminal size used before the first resize message.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
