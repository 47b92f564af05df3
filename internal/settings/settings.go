// Package settings persists app-wide user preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"walletmate/internal/kv"
)

const ThemeKey = "@walletmate_theme"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("invalid theme")

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", ErrInvalidTheme
	}
}

// Preferences reads and writes preferences through a kv.Store. The default
// theme is used until one has been saved.
type Preferences struct {
	kv           kv.Store
	defaultTheme Theme
}

func New(store kv.Store, defaultTheme Theme) *Preferences {
	if defaultTheme != ThemeDark {
		defaultTheme = ThemeLight
	}
	return &Preferences{kv: store, defaultTheme: defaultTheme}
}

// Theme returns the saved theme. Missing or unrecognized values yield the
// default theme.
func (p *Preferences) Theme(ctx context.Context) (Theme, error) {
	raw, err := p.kv.GetItem(ctx, ThemeKey)
	if errors.Is(err, kv.ErrNotFound) {
		return p.defaultTheme, nil
	}
	if err != nil {
		return p.defaultTheme, fmt.Errorf("read theme: %w", err)
	}
	th, err := ParseTheme(raw)
	if err != nil {
		return p.defaultTheme, nil
	}
	return th, nil
}

func (p *Preferences) SetTheme(ctx context.Context, th Theme) error {
	if _, err := ParseTheme(string(th)); err != nil {
		return err
	}
	if err := p.kv.SetItem(ctx, ThemeKey, string(th)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (p *Preferences) ToggleTheme(ctx context.Context) (Theme, error) {
	cur, err := p.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := ThemeDark
	if cur == ThemeDark {
		next = ThemeLight
	}
	if err := p.SetTheme(ctx, next); err != nil {
		return cur, err
	}
	return next, nil
}
