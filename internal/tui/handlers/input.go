package handlers

import (
	"log/slog"

	"github.com/gdamore/tcell/v2"
)

// Focus identifies the pane receiving keys
type Focus int

const (
	FocusSectors Focus = iota
	FocusDetail
	FocusFilter
)

// InputHandler maps global keys to browser actions
type InputHandler struct {
	logger *slog.Logger
	focus  Focus

	// Callbacks
	onFocus       func(Focus)
	onClearFilter func()
	onExit        func()
}

// NewInputHandler creates a new input handler
func NewInputHandler(logger *slog.Logger) *InputHandler {
	return &InputHandler{logger: logger, focus: FocusSectors}
}

// SetCallbacks sets the callback functions
func (ih *InputHandler) SetCallbacks(onFocus func(Focus), onClearFilter func(), onExit func()) {
	ih.onFocus = onFocus
	ih.onClearFilter = onClearFilter
	ih.onExit = onExit
}

// Focus returns the pane that currently has focus
func (ih *InputHandler) Focus() Focus {
	return ih.focus
}

// SetFocus moves focus and notifies the application
func (ih *InputHandler) SetFocus(f Focus) {
	ih.focus = f
	if ih.onFocus != nil {
		ih.onFocus(f)
	}
}

// HandleKeyEvent handles key events; a nil return consumes the event
func (ih *InputHandler) HandleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	if ih.focus == FocusFilter {
		return ih.handleFilterInput(event)
	}

	switch event.Key() {
	case tcell.KeyTab, tcell.KeyBacktab:
		if ih.focus == FocusSectors {
			ih.SetFocus(FocusDetail)
		} else {
			ih.SetFocus(FocusSectors)
		}
		return nil
	case tcell.KeyEscape:
		if ih.focus == FocusDetail {
			ih.SetFocus(FocusSectors)
			return nil
		}
		if ih.onClearFilter != nil {
			ih.onClearFilter()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case '/':
			ih.SetFocus(FocusFilter)
			return nil
		case 'q', 'Q':
			ih.logger.Debug("quit requested")
			if ih.onExit != nil {
				ih.onExit()
			}
			return nil
		}
	}
	return event
}

// handleFilterInput lets the filter field consume typing; Enter, Tab and Esc leave it
func (ih *InputHandler) handleFilterInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyTab, tcell.KeyDown:
		ih.SetFocus(FocusSectors)
		return nil
	case tcell.KeyEscape:
		if ih.onClearFilter != nil {
			ih.onClearFilter()
		}
		ih.SetFocus(FocusSectors)
		return nil
	}
	return event
}
