package components

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"x4map/internal/api"
	"x4map/internal/theme"
)

// SectorDetailComponent shows the objects and resource areas of one sector
type SectorDetailComponent struct {
	table   *tview.Table
	sector  *api.Sector
	targets map[int]string // row -> target sector macro, for gates
	onJump  func(macro string)
}

// NewSectorDetailComponent creates an empty detail table
func NewSectorDetailComponent() *SectorDetailComponent {
	sdc := &SectorDetailComponent{
		table:   theme.NewTable(),
		targets: make(map[int]string),
	}
	sdc.table.SetTitle(" Please select a sector from the list ")
	sdc.table.SetFixed(1, 0)
	sdc.table.SetSelectedFunc(func(int, int) { sdc.jumpSelected() })
	return sdc
}

// jumpSelected follows the gate on the selected row, if any
func (sdc *SectorDetailComponent) jumpSelected() {
	row, _ := sdc.table.GetSelection()
	if macro, ok := sdc.targets[row]; ok && sdc.onJump != nil {
		sdc.onJump(macro)
	}
}

// GetView returns the underlying table primitive
func (sdc *SectorDetailComponent) GetView() *tview.Table {
	return sdc.table
}

// SetJumpFunc registers the callback for Enter on a gate row
func (sdc *SectorDetailComponent) SetJumpFunc(fn func(macro string)) {
	sdc.onJump = fn
}

// Sector returns the displayed sector
func (sdc *SectorDetailComponent) Sector() *api.Sector {
	return sdc.sector
}

// Target returns the gate target of a table row
func (sdc *SectorDetailComponent) Target(row int) (string, bool) {
	macro, ok := sdc.targets[row]
	return macro, ok
}

// SetSector renders s, or clears the table for nil
func (sdc *SectorDetailComponent) SetSector(s *api.Sector) {
	sdc.sector = s
	sdc.table.Clear()
	sdc.targets = make(map[int]string)

	if s == nil {
		sdc.table.SetTitle(" Please select a sector from the list ")
		return
	}

	title := fmt.Sprintf(" %s ", s.Name)
	if !s.IsKnown {
		title = fmt.Sprintf(" %s (%s) ", s.Name, api.TagUnexplored)
	}
	sdc.table.SetTitle(tview.Escape(title))

	panel := theme.Current().PanelColors()
	header := func(col int, text string) {
		sdc.table.SetCell(0, col, tview.NewTableCell(text).
			SetTextColor(panel.Title).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold))
	}
	header(0, "Object")
	header(1, "Owner")
	header(2, "Code")
	header(3, "Position")

	row := 1
	for _, o := range s.SortedObjects() {
		c := objectColor(o)
		sdc.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(o.Title())).SetTextColor(c).SetExpansion(1))
		sdc.table.SetCell(row, 1, tview.NewTableCell(tview.Escape(o.Owner)).SetTextColor(panel.Secondary))
		sdc.table.SetCell(row, 2, tview.NewTableCell(tview.Escape(o.Code)).SetTextColor(panel.Secondary))
		sdc.table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%.0f, %.0f, %.0f", o.X, o.Y, o.Z)).SetTextColor(panel.Secondary))
		if o.IsGate() && o.HasTarget() {
			sdc.targets[row] = o.TargetSectorMacro
		}
		row++
	}

	for _, area := range s.ResourceAreas {
		sdc.table.SetCell(row, 0, tview.NewTableCell(tview.Escape("Resources: "+area.Summary())).SetTextColor(panel.Foreground).SetExpansion(1))
		sdc.table.SetCell(row, 1, tview.NewTableCell(""))
		sdc.table.SetCell(row, 2, tview.NewTableCell(""))
		sdc.table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d, %d, %d", area.X, area.Y, area.Z)).SetTextColor(panel.Secondary))
		row++
	}

	totals := s.ResourceTotals()
	for _, ware := range api.SortedWares(totals) {
		text := fmt.Sprintf("Total %s: %s", ware, totals[ware].Summary())
		sdc.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(text)).SetTextColor(panel.Title).SetExpansion(1))
		sdc.table.SetCell(row, 1, tview.NewTableCell(""))
		sdc.table.SetCell(row, 2, tview.NewTableCell(""))
		sdc.table.SetCell(row, 3, tview.NewTableCell(""))
		row++
	}

	if row > 1 {
		sdc.table.Select(1, 0)
	}
	sdc.table.ScrollToBeginning()
}

func objectColor(o *api.SpaceObject) tcell.Color {
	colors := theme.Current().ObjectColors()
	switch {
	case o.IsGate() && !o.HasTarget():
		return colors.Unresolved
	case o.IsGate():
		return colors.Gate
	case o.IsVault():
		return colors.Vault
	case o.IsShip():
		return colors.Ship
	case o.Owner == api.OwnerKhaak:
		return colors.Enemy
	}
	return colors.Station
}
