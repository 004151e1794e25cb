package theme

import "github.com/gdamore/tcell/v2"

var (
	spaceBlack  = tcell.NewHexColor(0x05070d)
	spaceNavy   = tcell.NewHexColor(0x10203a)
	spaceSteel  = tcell.NewHexColor(0x5f7a99)
	spaceSilver = tcell.NewHexColor(0xc8d2dc)
	spaceCyan   = tcell.NewHexColor(0x38d6e8)
	spaceAmber  = tcell.NewHexColor(0xf2b33d)
	spaceRed    = tcell.NewHexColor(0xe0483e)
	spaceGreen  = tcell.NewHexColor(0x5fd068)
	spaceViolet = tcell.NewHexColor(0xb48cf2)
)

// SpaceTheme is the default dark theme
type SpaceTheme struct{}

func NewSpaceTheme() *SpaceTheme { return &SpaceTheme{} }

func (t *SpaceTheme) Name() string { return "space" }

func (t *SpaceTheme) PanelColors() PanelColors {
	return PanelColors{
		Background: spaceBlack,
		Foreground: spaceSilver,
		Border:     spaceSteel,
		Title:      spaceCyan,
		SelectedBg: spaceNavy,
		SelectedFg: spaceAmber,
		Secondary:  spaceSteel,
	}
}

func (t *SpaceTheme) StatusColors() StatusColors {
	return StatusColors{
		Background: spaceNavy,
		Foreground: spaceSilver,
		ErrorFg:    spaceRed,
	}
}

func (t *SpaceTheme) FieldColors() FieldColors {
	return FieldColors{
		Label:      spaceCyan,
		Background: spaceNavy,
		Foreground: spaceSilver,
	}
}

func (t *SpaceTheme) ObjectColors() ObjectColors {
	return ObjectColors{
		Station:    spaceSilver,
		Enemy:      spaceRed,
		Gate:       spaceCyan,
		Vault:      spaceAmber,
		Ship:       spaceGreen,
		Unresolved: spaceViolet,
	}
}

// MonoTheme uses the terminal's default colors only
type MonoTheme struct{}

func NewMonoTheme() *MonoTheme { return &MonoTheme{} }

func (t *MonoTheme) Name() string { return "mono" }

func (t *MonoTheme) PanelColors() PanelColors {
	return PanelColors{
		Background: tcell.ColorDefault,
		Foreground: tcell.ColorWhite,
		Border:     tcell.ColorWhite,
		Title:      tcell.ColorWhite,
		SelectedBg: tcell.ColorWhite,
		SelectedFg: tcell.ColorBlack,
		Secondary:  tcell.ColorGray,
	}
}

func (t *MonoTheme) StatusColors() StatusColors {
	return StatusColors{Background: tcell.ColorDefault, Foreground: tcell.ColorWhite, ErrorFg: tcell.ColorWhite}
}

func (t *MonoTheme) FieldColors() FieldColors {
	return FieldColors{Label: tcell.ColorWhite, Background: tcell.ColorDefault, Foreground: tcell.ColorWhite}
}

func (t *MonoTheme) ObjectColors() ObjectColors {
	return ObjectColors{
		Station:    tcell.ColorWhite,
		Enemy:      tcell.ColorWhite,
		Gate:       tcell.ColorWhite,
		Vault:      tcell.ColorWhite,
		Ship:       tcell.ColorWhite,
		Unresolved: tcell.ColorGray,
	}
}
