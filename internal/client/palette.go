package client

import (
	"strings"

	"github.com/tuanvumaihuynh/storefront/internal/config"
)

const ansiReset = "\x1b[0m"

// Palette assigns a display colour to each brand. It is configuration,
// never derived from fetched data.
type Palette struct {
	colors   map[string]string
	fallback string
	enabled  bool
}

func NewPalette(cfg config.Client, enabled bool) Palette {
	colors := make(map[string]string, len(cfg.BrandColors))
	for name, code := range cfg.BrandColors {
		colors[fold(strings.TrimSpace(name))] = strings.TrimSpace(code)
	}
	return Palette{
		colors:   colors,
		fallback: cfg.DefaultColor,
		enabled:  enabled,
	}
}

// Color returns the ANSI SGR code for label, or the default one.
func (p Palette) Color(label string) string {
	if code, ok := p.colors[fold(strings.TrimSpace(label))]; ok && code != "" {
		return code
	}
	return p.fallback
}

// Paint wraps s in the colour of label. Disabled palettes return s as is.
func (p Palette) Paint(label, s string) string {
	code := p.Color(label)
	if !p.enabled || code == "" {
		return s
	}
	return "\x1b[" + code + "m" + s + ansiReset
}
