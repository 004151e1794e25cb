package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"x4map/internal/api"
	"x4map/internal/theme"
)

// SectorListComponent is the sidebar listing sectors by name with their tags
type SectorListComponent struct {
	list     *tview.List
	sectors  []*api.Sector
	visible  []*api.Sector
	filter   string
	onChange func(*api.Sector)
}

// NewSectorListComponent creates an empty sector list
func NewSectorListComponent() *SectorListComponent {
	slc := &SectorListComponent{list: theme.NewList()}
	slc.list.ShowSecondaryText(true)
	slc.list.SetTitle(" Sectors ")
	slc.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		if slc.onChange != nil && index >= 0 && index < len(slc.visible) {
			slc.onChange(slc.visible[index])
		}
	})
	return slc
}

// GetView returns the underlying list primitive
func (slc *SectorListComponent) GetView() *tview.List {
	return slc.list
}

// SetChangedFunc registers a callback for selection changes
func (slc *SectorListComponent) SetChangedFunc(fn func(*api.Sector)) {
	slc.onChange = fn
}

// SetSelectedFunc registers a callback for Enter on a sector
func (slc *SectorListComponent) SetSelectedFunc(fn func(*api.Sector)) {
	slc.list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if index >= 0 && index < len(slc.visible) {
			fn(slc.visible[index])
		}
	})
}

// SetSectors replaces the listed sectors and clears the filter
func (slc *SectorListComponent) SetSectors(m api.SectorsMap) {
	slc.sectors = m.SortedSectors()
	slc.filter = ""
	slc.refresh()
}

// SetFilter shows only sectors whose name or tags contain query, case-insensitively
func (slc *SectorListComponent) SetFilter(query string) int {
	slc.filter = strings.ToLower(strings.TrimSpace(query))
	slc.refresh()
	return len(slc.visible)
}

// Filter returns the active, normalized filter
func (slc *SectorListComponent) Filter() string {
	return slc.filter
}

// Visible returns the sectors currently listed
func (slc *SectorListComponent) Visible() []*api.Sector {
	return slc.visible
}

// Total returns the number of sectors regardless of the filter
func (slc *SectorListComponent) Total() int {
	return len(slc.sectors)
}

// Selected returns the highlighted sector, or nil
func (slc *SectorListComponent) Selected() *api.Sector {
	index := slc.list.GetCurrentItem()
	if index < 0 || index >= len(slc.visible) {
		return nil
	}
	return slc.visible[index]
}

// Select highlights the sector with the given macro. Returns false when
// the sector is not listed, either unknown or hidden by the filter.
func (slc *SectorListComponent) Select(macro string) bool {
	index := slc.indexOf(macro)
	if index < 0 {
		return false
	}
	slc.list.SetCurrentItem(index)
	return true
}

func (slc *SectorListComponent) indexOf(macro string) int {
	for i, s := range slc.visible {
		if s.Macro == macro {
			return i
		}
	}
	return -1
}

func (slc *SectorListComponent) refresh() {
	slc.list.Clear()
	slc.visible = nil

	secondary := theme.Tag(theme.Current().PanelColors().Secondary)
	for _, s := range slc.sectors {
		if slc.filter != "" && !strings.Contains(s.SearchText(), slc.filter) {
			continue
		}
		slc.visible = append(slc.visible, s)
		slc.list.AddItem(tview.Escape(s.Name), secondary+tview.Escape(strings.Join(s.Tags(), ", ")), 0, nil)
	}

	title := fmt.Sprintf(" Sectors (%d) ", len(slc.sectors))
	if slc.filter != "" {
		title = fmt.Sprintf(" Sectors (%d/%d) ", len(slc.visible), len(slc.sectors))
	}
	slc.list.SetTitle(title)
}
