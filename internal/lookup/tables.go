package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPageID is the string-table page used when a reference omits its page
const DefaultPageID = "20"

// Table file names inside the assets directory
const (
	SectorNamesFile = "x4-sector-names.json"
	ShipNamesFile   = "x4-ship-names.json"
	PositionsFile   = "x4-positions.json"
	StringsFile     = "x4-strings.json"
)

// ErrTableMissing is returned when a lookup table file cannot be read
var ErrTableMissing = errors.New("lookup table missing")

// Position is a static 3D offset keyed by macro or connection name
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Tables holds the read-only lookup data extracted from the game catalogs
type Tables struct {
	SectorNames map[string]string            // sector macro -> raw name
	ShipNames   map[string]string            // ship macro -> raw name
	Positions   map[string]Position          // macro or connection name -> offset
	Strings     map[string]map[string]string // page id -> string id -> text

	// DefaultPage replaces DefaultPageID when set
	DefaultPage string
}

// NewTables creates empty tables
func NewTables() *Tables {
	return &Tables{
		SectorNames: make(map[string]string),
		ShipNames:   make(map[string]string),
		Positions:   make(map[string]Position),
		Strings:     make(map[string]map[string]string),
		DefaultPage: DefaultPageID,
	}
}

// Load reads the four table files from dir
func Load(dir string) (*Tables, error) {
	t := NewTables()

	files := []struct {
		name string
		dst  any
	}{
		{SectorNamesFile, &t.SectorNames},
		{ShipNamesFile, &t.ShipNames},
		{PositionsFile, &t.Positions},
		{StringsFile, &t.Strings},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.dst); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTableMissing, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Offset returns the static offset for a macro or connection name
func (t *Tables) Offset(key string) (Position, bool) {
	if t == nil || key == "" {
		return Position{}, false
	}
	p, ok := t.Positions[key]
	return p, ok
}

// SectorName returns the resolved display name of a sector, falling back to its macro
func (t *Tables) SectorName(macro string) string {
	raw, ok := t.SectorNames[macro]
	if !ok || raw == "" {
		raw = macro
	}
	return t.ResolveName(raw)
}

// ShipName returns the resolved display name of a ship macro, falling back to the macro
func (t *Tables) ShipName(macro string) string {
	raw, ok := t.ShipNames[macro]
	if !ok || raw == "" {
		raw = macro
	}
	return t.ResolveName(raw)
}

func (t *Tables) defaultPage() string {
	if t.DefaultPage == "" {
		return DefaultPageID
	}
	return t.DefaultPage
}

func (t *Tables) lookupString(page, id string) string {
	return t.Strings[page][id]
}
