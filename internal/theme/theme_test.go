package theme

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestThemeManager(t *testing.T) {
	tm := NewThemeManager()

	if got := tm.Current().Name(); got != "space" {
		t.Errorf("Expected default theme space, got %s", got)
	}
	if err := tm.SetTheme("mono"); err != nil {
		t.Fatalf("Expected mono theme to exist, got %v", err)
	}
	if got := tm.Current().Name(); got != "mono" {
		t.Errorf("Expected mono theme, got %s", got)
	}
	if err := tm.SetTheme("telix"); err == nil {
		t.Errorf("Expected error for unknown theme")
	}

	names := tm.Available()
	if len(names) != 2 || names[0] != "mono" || names[1] != "space" {
		t.Errorf("Expected [mono space], got %v", names)
	}
}

func TestTag(t *testing.T) {
	if got := Tag(tcell.NewHexColor(0x38d6e8)); got != "[#38d6e8]" {
		t.Errorf("Expected [#38d6e8], got %s", got)
	}
}

func TestUse(t *testing.T) {
	t.Cleanup(func() { Use("space") })

	if err := Use("mono"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	list := NewList()
	if list == nil {
		t.Fatal("Expected a list")
	}
	if err := Use("nope"); err == nil {
		t.Errorf("Expected error for unknown theme")
	}
}
