package handlers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"
)

type recorder struct {
	focus   []Focus
	cleared int
	exited  int
}

func newTestHandler() (*InputHandler, *recorder) {
	r := &recorder{}
	ih := NewInputHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ih.SetCallbacks(
		func(f Focus) { r.focus = append(r.focus, f) },
		func() { r.cleared++ },
		func() { r.exited++ },
	)
	return ih, r
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestTabTogglesPanes(t *testing.T) {
	ih, r := newTestHandler()

	if ev := ih.HandleKeyEvent(key(tcell.KeyTab)); ev != nil {
		t.Errorf("Expected Tab to be consumed")
	}
	if ih.Focus() != FocusDetail {
		t.Errorf("Expected focus %d, got %d", FocusDetail, ih.Focus())
	}
	ih.HandleKeyEvent(key(tcell.KeyTab))
	if ih.Focus() != FocusSectors {
		t.Errorf("Expected focus %d, got %d", FocusSectors, ih.Focus())
	}
	if len(r.focus) != 2 {
		t.Errorf("Expected 2 focus callbacks, got %d", len(r.focus))
	}
}

func TestEscape(t *testing.T) {
	ih, r := newTestHandler()

	ih.SetFocus(FocusDetail)
	ih.HandleKeyEvent(key(tcell.KeyEscape))
	if ih.Focus() != FocusSectors {
		t.Errorf("Expected Esc in the detail pane to return to sectors, got %d", ih.Focus())
	}
	if r.cleared != 0 {
		t.Errorf("Expected no filter clear, got %d", r.cleared)
	}

	ih.HandleKeyEvent(key(tcell.KeyEscape))
	if r.cleared != 1 {
		t.Errorf("Expected Esc in the sector list to clear the filter, got %d clears", r.cleared)
	}
}

func TestFilterMode(t *testing.T) {
	ih, r := newTestHandler()

	ih.HandleKeyEvent(runeKey('/'))
	if ih.Focus() != FocusFilter {
		t.Fatalf("Expected '/' to focus the filter, got %d", ih.Focus())
	}

	// typing goes to the field, including keys that are bindings elsewhere
	for _, ch := range "quit/" {
		if ev := ih.HandleKeyEvent(runeKey(ch)); ev == nil {
			t.Errorf("Expected %q to pass through to the filter field", ch)
		}
	}
	if r.exited != 0 {
		t.Errorf("Expected no exit while typing, got %d", r.exited)
	}

	ih.HandleKeyEvent(key(tcell.KeyEnter))
	if ih.Focus() != FocusSectors {
		t.Errorf("Expected Enter to leave the filter, got %d", ih.Focus())
	}

	ih.SetFocus(FocusFilter)
	ih.HandleKeyEvent(key(tcell.KeyEscape))
	if ih.Focus() != FocusSectors || r.cleared != 1 {
		t.Errorf("Expected Esc to clear and leave the filter, got focus %d and %d clears", ih.Focus(), r.cleared)
	}
}

func TestQuitAndPassThrough(t *testing.T) {
	ih, r := newTestHandler()

	if ev := ih.HandleKeyEvent(key(tcell.KeyDown)); ev == nil {
		t.Errorf("Expected navigation keys to pass through")
	}
	if ev := ih.HandleKeyEvent(runeKey('x')); ev == nil {
		t.Errorf("Expected unbound runes to pass through")
	}

	ih.HandleKeyEvent(runeKey('q'))
	if r.exited != 1 {
		t.Errorf("Expected q to exit, got %d", r.exited)
	}
}
