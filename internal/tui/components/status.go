package components

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"

	"x4map/internal/theme"
)

// StatusComponent manages the bottom status bar
type StatusComponent struct {
	view    *tview.TextView
	source  string
	size    int64
	visible int
	total   int
	message string
	isError bool
}

// NewStatusComponent creates a new status bar component
func NewStatusComponent() *StatusComponent {
	sc := &StatusComponent{view: theme.NewStatusBar()}
	sc.UpdateStatus()
	return sc
}

// GetWrapper returns the status bar TextView
func (sc *StatusComponent) GetWrapper() *tview.TextView {
	return sc.view
}

// SetSource records the file the result came from and its size in bytes
func (sc *StatusComponent) SetSource(source string, size int64) {
	sc.source = source
	sc.size = size
	sc.UpdateStatus()
}

// SetCounts records how many sectors are listed out of the total
func (sc *StatusComponent) SetCounts(visible, total int) {
	sc.visible = visible
	sc.total = total
	sc.UpdateStatus()
}

// SetMessage shows a transient message; isError colors it as an error
func (sc *StatusComponent) SetMessage(message string, isError bool) {
	sc.message = message
	sc.isError = isError
	sc.UpdateStatus()
}

// Text returns the plain status text without color tags
func (sc *StatusComponent) Text() string {
	return sc.view.GetText(true)
}

// UpdateStatus updates the status bar display
func (sc *StatusComponent) UpdateStatus() {
	var b strings.Builder
	b.WriteString(" ")
	if sc.source != "" {
		b.WriteString(tview.Escape(sc.source))
		if sc.size > 0 {
			fmt.Fprintf(&b, " (%s)", humanize.IBytes(uint64(sc.size)))
		}
		b.WriteString(" | ")
	}
	if sc.visible == sc.total {
		fmt.Fprintf(&b, "%d sectors", sc.total)
	} else {
		fmt.Fprintf(&b, "%d of %d sectors", sc.visible, sc.total)
	}
	if sc.message != "" {
		b.WriteString(" | ")
		if sc.isError {
			b.WriteString(theme.Tag(theme.Current().StatusColors().ErrorFg))
		}
		b.WriteString(tview.Escape(sc.message))
		if sc.isError {
			b.WriteString("[-]")
		}
	}
	b.WriteString(" | /=Filter Tab=Switch Enter=Jump q=Quit")
	sc.view.SetText(b.String())
}
