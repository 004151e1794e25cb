package theme

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
)

// PanelColors defines color scheme for the sidebar and detail panes
type PanelColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
	SelectedBg tcell.Color
	SelectedFg tcell.Color
	Secondary  tcell.Color // tags, coordinates
}

// StatusColors defines color scheme for the status bar
type StatusColors struct {
	Background tcell.Color
	Foreground tcell.Color
	ErrorFg    tcell.Color
}

// FieldColors defines color scheme for input fields
type FieldColors struct {
	Label      tcell.Color
	Background tcell.Color
	Foreground tcell.Color
}

// ObjectColors maps object kinds to colors in the detail table
type ObjectColors struct {
	Station    tcell.Color
	Enemy      tcell.Color
	Gate       tcell.Color
	Vault      tcell.Color
	Ship       tcell.Color
	Unresolved tcell.Color
}

// Theme interface defines all theming properties
type Theme interface {
	Name() string
	PanelColors() PanelColors
	StatusColors() StatusColors
	FieldColors() FieldColors
	ObjectColors() ObjectColors
}

// ThemeManager manages theme selection
type ThemeManager struct {
	currentTheme Theme
	themes       map[string]Theme
}

// NewThemeManager creates a theme manager with the built-in themes registered
func NewThemeManager() *ThemeManager {
	tm := &ThemeManager{themes: make(map[string]Theme)}
	tm.RegisterTheme(NewSpaceTheme())
	tm.RegisterTheme(NewMonoTheme())
	tm.SetTheme("space")
	return tm
}

// RegisterTheme registers a new theme
func (tm *ThemeManager) RegisterTheme(theme Theme) {
	tm.themes[theme.Name()] = theme
}

// SetTheme sets the current theme by name
func (tm *ThemeManager) SetTheme(name string) error {
	if theme, exists := tm.themes[name]; exists {
		tm.currentTheme = theme
		return nil
	}
	return fmt.Errorf("theme '%s' not found", name)
}

// Current returns the current theme
func (tm *ThemeManager) Current() Theme {
	return tm.currentTheme
}

// Available returns the sorted names of the registered themes
func (tm *ThemeManager) Available() []string {
	names := make([]string, 0, len(tm.themes))
	for name := range tm.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultThemeManager = NewThemeManager()

// GetThemeManager returns the global theme manager
func GetThemeManager() *ThemeManager {
	return defaultThemeManager
}

// Current returns the current theme from the global manager
func Current() Theme {
	return defaultThemeManager.Current()
}

// Tag converts a color to a tview color tag such as "[#00ffff]"
func Tag(c tcell.Color) string {
	return fmt.Sprintf("[#%06x]", c.Hex())
}
