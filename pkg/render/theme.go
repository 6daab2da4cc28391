package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is the resolved presentation bundle handed to renderers:
// design tokens with variant overrides applied, the derived CSS custom
// properties, and an asset URL resolver.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	AssetURL func(key string) string
}

// ThemeSelector resolves a theme name and variant to a manifest.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// Themes serves the builder's built-in manifests. It satisfies
// ThemeSelector.
type Themes struct {
	registry  theme.Registry
	manifests map[string]*theme.Manifest
}

// BuiltinThemes registers the light and dark manifests and returns a
// selector over them.
func BuiltinThemes() (*Themes, error) {
	light := &theme.Manifest{
		Name:    "light",
		Version: "1.0.0",
		Tokens: map[string]string{
			"bg":      "#ffffff",
			"fg":      "#1f2933",
			"accent":  "#2563eb",
			"surface": "#f4f5f7",
			"border":  "#d2d6dc",
			"danger":  "#dc2626",
			"muted":   "#6b7280",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/light",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
	}
	dark := &theme.Manifest{
		Name:    "dark",
		Version: "1.0.0",
		Tokens: map[string]string{
			"bg":      "#111827",
			"fg":      "#f9fafb",
			"accent":  "#60a5fa",
			"surface": "#1f2937",
			"border":  "#374151",
			"danger":  "#f87171",
			"muted":   "#9ca3af",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/dark",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
	}

	registry := theme.NewRegistry()
	manifests := make(map[string]*theme.Manifest)
	for _, m := range []*theme.Manifest{light, dark} {
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("render: register theme %q: %w", m.Name, err)
		}
		manifests[m.Name] = m
	}
	return &Themes{registry: registry, manifests: manifests}, nil
}

// Select resolves a builtin theme by name.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists the registered theme names.
func (t *Themes) Names() []string {
	names := make([]string, 0, len(t.manifests))
	for name := range t.manifests {
		names = append(names, name)
	}
	return names
}

// ConfigFromSelection flattens a manifest and the chosen variant into a
// ThemeConfig: variant tokens override base tokens, every token becomes
// a --token CSS variable, and asset keys resolve against the manifest's
// prefix with variant files taking precedence.
func ConfigFromSelection(sel *theme.Selection) *ThemeConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	manifest := sel.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}

	if variant, ok := manifest.Variants[sel.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	assetURL := func(key string) string {
		file, ok := files[key]
		if !ok {
			return ""
		}
		return prefix + "/" + file
	}

	return &ThemeConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetURL,
	}
}
