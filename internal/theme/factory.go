package theme

import (
	"github.com/rivo/tview"
)

// ThemedComponents provides factory functions for creating themed components
type ThemedComponents struct {
	theme Theme
}

// NewThemedComponents creates a new themed components factory
func NewThemedComponents(theme Theme) *ThemedComponents {
	return &ThemedComponents{theme: theme}
}

// NewList creates a bordered list with theme applied
func (tc *ThemedComponents) NewList() *tview.List {
	list := tview.NewList()
	colors := tc.theme.PanelColors()

	list.SetBackgroundColor(colors.Background)
	list.SetMainTextColor(colors.Foreground)
	list.SetSecondaryTextColor(colors.Secondary)
	list.SetSelectedTextColor(colors.SelectedFg)
	list.SetSelectedBackgroundColor(colors.SelectedBg)
	list.SetBorderColor(colors.Border)
	list.SetTitleColor(colors.Title)
	list.SetBorder(true)
	return list
}

// NewTable creates a bordered, row-selectable table with theme applied
func (tc *ThemedComponents) NewTable() *tview.Table {
	table := tview.NewTable()
	colors := tc.theme.PanelColors()

	table.SetBackgroundColor(colors.Background)
	table.SetBorderColor(colors.Border)
	table.SetTitleColor(colors.Title)
	table.SetSelectedStyle(tcellStyle(colors))
	table.SetSelectable(true, false)
	table.SetBorder(true)
	return table
}

// NewInputField creates an input field with theme applied
func (tc *ThemedComponents) NewInputField() *tview.InputField {
	field := tview.NewInputField()
	colors := tc.theme.FieldColors()

	field.SetLabelColor(colors.Label)
	field.SetFieldBackgroundColor(colors.Background)
	field.SetFieldTextColor(colors.Foreground)
	field.SetBackgroundColor(tc.theme.PanelColors().Background)
	return field
}

// NewStatusBar creates the one-line status bar
func (tc *ThemedComponents) NewStatusBar() *tview.TextView {
	bar := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetWrap(false)
	colors := tc.theme.StatusColors()

	bar.SetBackgroundColor(colors.Background)
	bar.SetTextColor(colors.Foreground)
	return bar
}

// NewPanelView creates a bordered text view for side panels
func (tc *ThemedComponents) NewPanelView() *tview.TextView {
	view := tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	colors := tc.theme.PanelColors()

	view.SetBackgroundColor(colors.Background)
	view.SetTextColor(colors.Foreground)
	view.SetBorderColor(colors.Border)
	view.SetTitleColor(colors.Title)
	view.SetBorder(true)
	return view
}

// NewFlex creates a flex container with the panel background
func (tc *ThemedComponents) NewFlex() *tview.Flex {
	flex := tview.NewFlex()
	flex.SetBackgroundColor(tc.theme.PanelColors().Background)
	return flex
}

var defaultFactory = NewThemedComponents(Current())

// updateDefaultFactory rebuilds the package factory after a theme change
func updateDefaultFactory() {
	defaultFactory = NewThemedComponents(Current())
}

// Use switches the global theme and the package-level factories with it
func Use(name string) error {
	if err := defaultThemeManager.SetTheme(name); err != nil {
		return err
	}
	updateDefaultFactory()
	return nil
}

func NewList() *tview.List             { return defaultFactory.NewList() }
func NewTable() *tview.Table           { return defaultFactory.NewTable() }
func NewInputField() *tview.InputField { return defaultFactory.NewInputField() }
func NewStatusBar() *tview.TextView    { return defaultFactory.NewStatusBar() }
func NewPanelView() *tview.TextView    { return defaultFactory.NewPanelView() }
func NewFlex() *tview.Flex             { return defaultFactory.NewFlex() }
