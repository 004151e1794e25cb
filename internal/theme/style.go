package theme

import "github.com/gdamore/tcell/v2"

func tcellStyle(colors PanelColors) tcell.Style {
	return tcell.StyleDefault.Background(colors.SelectedBg).Foreground(colors.SelectedFg)
}
