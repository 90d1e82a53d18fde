// Package stylecfg holds the per-niche visual defaults consumed by the brief
// director and the deterministic renderer. The values are treated as opaque
// configuration: the pipeline forwards them, it does not interpret them.
package stylecfg

import (
	"encoding/json"
	"fmt"

	"flyergen/internal/domain"
)

// Style describes the stylistic defaults for one niche.
type Style struct {
	Background string   `json:"background"`
	Accent     string   `json:"accent"`
	TextColor  string   `json:"text_color"`
	Tone       string   `json:"tone"`
	Motifs     []string `json:"motifs,omitempty"`
}

// Set maps every niche tag to its style defaults.
type Set map[domain.NicheTag]Style

// Defaults returns the built-in style table covering every niche.
func Defaults() Set {
	return Set{
		domain.NicheAutomotive: {
			Background: "#1c2331",
			Accent:     "#e53935",
			TextColor:  "#ffffff",
			Tone:       "bold, industrial, high-contrast",
			Motifs:     []string{"chrome", "asphalt", "speed lines"},
		},
		domain.NicheFoodService: {
			Background: "#fff3e0",
			Accent:     "#d84315",
			TextColor:  "#3e2723",
			Tone:       "warm, appetizing, artisanal",
			Motifs:     []string{"wood texture", "fresh ingredients", "steam"},
		},
		domain.NicheBeauty: {
			Background: "#fce4ec",
			Accent:     "#ad1457",
			TextColor:  "#4a148c",
			Tone:       "elegant, soft, pastel",
			Motifs:     []string{"petals", "gold accents", "silk"},
		},
		domain.NicheFitness: {
			Background: "#212121",
			Accent:     "#00c853",
			TextColor:  "#fafafa",
			Tone:       "energetic, dynamic, motivational",
			Motifs:     []string{"motion blur", "neon", "geometric shapes"},
		},
		domain.NicheProfessional: {
			Background: "#eceff1",
			Accent:     "#1565c0",
			TextColor:  "#263238",
			Tone:       "clean, trustworthy, corporate",
			Motifs:     []string{"subtle grid", "glass", "skyline"},
		},
		domain.NicheGeneric: {
			Background: "#e8eaf6",
			Accent:     "#3949ab",
			TextColor:  "#1a237e",
			Tone:       "friendly, modern, versatile",
			Motifs:     []string{"gradient", "rounded shapes"},
		},
	}
}

// Load overlays JSON-encoded overrides onto the built-in defaults. Unknown
// niche keys are rejected so configuration typos surface early.
func Load(raw []byte) (Set, error) {
	set := Defaults()
	if len(raw) == 0 {
		return set, nil
	}
	overrides := map[string]Style{}
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("stylecfg: decode overrides: %w", err)
	}
	for key, style := range overrides {
		tag := domain.ParseNicheTag(key)
		if string(tag) != key {
			return nil, fmt.Errorf("stylecfg: unknown niche %q", key)
		}
		set[tag] = merge(set[tag], style)
	}
	return set, nil
}

// For returns the style for the given niche, falling back to the generic
// entry when the tag is missing from the set.
func (s Set) For(tag domain.NicheTag) Style {
	if style, ok := s[tag]; ok {
		return style
	}
	return s[domain.NicheGeneric]
}

func merge(base, override Style) Style {
	if override.Background != "" {
		base.Background = override.Background
	}
	if override.Accent != "" {
		base.Accent = override.Accent
	}
	if override.TextColor != "" {
		base.TextColor = override.TextColor
	}
	if override.Tone != "" {
		base.Tone = override.Tone
	}
	if len(override.Motifs) > 0 {
		base.Motifs = override.Motifs
	}
	return base
}
