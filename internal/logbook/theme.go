package logbook

import (
	"context"
	"fmt"
	"strings"
)

// Theme is the persisted colour preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value to a Theme; anything but "dark" is light.
func ParseTheme(value string) Theme {
	if strings.EqualFold(strings.TrimSpace(value), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Theme reads the stored preference. Read failures fall back to light.
func (s *Store) Theme(ctx context.Context) Theme {
	value, err := s.slot.Get(ctx, ThemeKey)
	if err != nil {
		s.logger.WarnContext(ctx, "read theme preference", "error", err)
		return ThemeLight
	}
	return ParseTheme(string(value))
}

// SetTheme stores the preference.
func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if err := s.slot.Put(ctx, ThemeKey, []byte(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
