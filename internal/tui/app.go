package tui

import (
	"log/slog"

	"github.com/rivo/tview"

	"x4map/internal/api"
	"x4map/internal/log"
	"x4map/internal/theme"
	"x4map/internal/tui/components"
	"x4map/internal/tui/handlers"
)

// BrowserApp is the sector browser: a filterable sector list beside the
// objects of the selected sector
type BrowserApp struct {
	app    *tview.Application
	logger *slog.Logger
	result api.SectorsMap

	pages    *tview.Pages
	mainGrid *tview.Grid

	// UI Components
	filter     *tview.InputField
	sectorList *components.SectorListComponent
	detail     *components.SectorDetailComponent
	status     *components.StatusComponent

	inputHandler *handlers.InputHandler
}

// NewApplication creates the browser for result; source and size are shown in the status bar
func NewApplication(result api.SectorsMap, source string, size int64) *BrowserApp {
	ba := &BrowserApp{
		app:        tview.NewApplication(),
		logger:     log.With("tui"),
		result:     result,
		filter:     theme.NewInputField(),
		sectorList: components.NewSectorListComponent(),
		detail:     components.NewSectorDetailComponent(),
		status:     components.NewStatusComponent(),
	}
	ba.inputHandler = handlers.NewInputHandler(ba.logger)

	ba.setupUI()
	ba.setupInputHandling()

	ba.sectorList.SetSectors(result)
	ba.status.SetSource(source, size)
	ba.status.SetCounts(len(ba.sectorList.Visible()), ba.sectorList.Total())
	ba.detail.SetSector(ba.sectorList.Selected())
	return ba
}

// setupUI configures the user interface layout
func (ba *BrowserApp) setupUI() {
	ba.filter.SetLabel(" Filter: ")
	ba.filter.SetPlaceholder("name or tag, e.g. blueprints")
	ba.filter.SetChangedFunc(ba.applyFilter)

	ba.mainGrid = tview.NewGrid().
		SetRows(1, 0, 1).
		SetColumns(40, 0).
		SetBorders(false)

	ba.mainGrid.AddItem(ba.filter, 0, 0, 1, 2, 0, 0, false)
	ba.mainGrid.AddItem(ba.sectorList.GetView(), 1, 0, 1, 1, 0, 0, true)
	ba.mainGrid.AddItem(ba.detail.GetView(), 1, 1, 1, 1, 0, 0, false)
	ba.mainGrid.AddItem(ba.status.GetWrapper(), 2, 0, 1, 2, 0, 0, false)

	ba.pages = tview.NewPages()
	ba.pages.AddPage("main", ba.mainGrid, true, true)

	ba.app.SetRoot(ba.pages, true)
}

// setupInputHandling wires component callbacks and the global key handler
func (ba *BrowserApp) setupInputHandling() {
	ba.sectorList.SetChangedFunc(ba.detail.SetSector)
	ba.sectorList.SetSelectedFunc(func(*api.Sector) {
		ba.inputHandler.SetFocus(handlers.FocusDetail)
	})
	ba.detail.SetJumpFunc(ba.jump)

	ba.inputHandler.SetCallbacks(ba.focus, ba.clearFilter, ba.exit)
	ba.app.SetInputCapture(ba.inputHandler.HandleKeyEvent)
}

// Run starts the TUI application
func (ba *BrowserApp) Run() error {
	ba.logger.Debug("browser started", "sectors", len(ba.result.Sectors))
	return ba.app.Run()
}

func (ba *BrowserApp) focus(f handlers.Focus) {
	switch f {
	case handlers.FocusFilter:
		ba.app.SetFocus(ba.filter)
	case handlers.FocusDetail:
		ba.app.SetFocus(ba.detail.GetView())
	default:
		ba.app.SetFocus(ba.sectorList.GetView())
	}
}

func (ba *BrowserApp) applyFilter(text string) {
	visible := ba.sectorList.SetFilter(text)
	ba.status.SetCounts(visible, ba.sectorList.Total())
	ba.detail.SetSector(ba.sectorList.Selected())
}

func (ba *BrowserApp) clearFilter() {
	ba.filter.SetText("")
	ba.applyFilter("")
}

// jump selects the sector a gate leads to, clearing a filter that hides it
func (ba *BrowserApp) jump(macro string) {
	target := ba.result.Sector(macro)
	if target == nil {
		ba.status.SetMessage("Target sector "+macro+" is not in this save", true)
		return
	}
	if !ba.sectorList.Select(macro) {
		ba.clearFilter()
		ba.sectorList.Select(macro)
	}
	ba.detail.SetSector(ba.sectorList.Selected())
	ba.status.SetMessage("Jumped to "+target.Name, false)
	ba.inputHandler.SetFocus(handlers.FocusSectors)
}

// exit shuts down the application
func (ba *BrowserApp) exit() {
	ba.app.Stop()
}
