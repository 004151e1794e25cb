package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"x4map/internal/api"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// ErrInvalidFilter is returned for filters FindObjects cannot express
var ErrInvalidFilter = errors.New("invalid object filter")

// objectColumns is the column order shared by inserts and scans
var objectColumns = []string{
	"sector_macro", "code", "class", "macro", "owner", "x", "y", "z",
	"is_wreck", "is_headquarter", "is_active",
	"has_blueprints", "has_wares", "has_signalleak",
	"target_sector_macro", "target_sector_name",
}

// ObjectFilter narrows FindObjects; zero fields match everything
type ObjectFilter struct {
	Classes     []string
	Owner       string
	SectorMacro string
	VaultsOnly  bool
	Loot        string // one of the api.Loot* filters, implies VaultsOnly
	Limit       uint64
}

// ObjectRecord is an object together with the sector it was found in
type ObjectRecord struct {
	SectorMacro string
	SectorName  string
	Object      *api.SpaceObject
}

func objectValues(sectorMacro string, o *api.SpaceObject) []any {
	return []any{
		sectorMacro, o.Code, o.Class, o.Macro, o.Owner, o.X, o.Y, o.Z,
		o.IsWreck, o.IsHeadquarter, o.IsActive,
		o.HasBlueprints, o.HasWares, o.HasSignalleak,
		o.TargetSectorMacro, o.TargetSectorName,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanObject reads objectColumns, plus any extra trailing destinations
func scanObject(row rowScanner, sectorMacro *string, extra ...any) (*api.SpaceObject, error) {
	o := &api.SpaceObject{}
	dest := []any{
		sectorMacro, &o.Code, &o.Class, &o.Macro, &o.Owner, &o.X, &o.Y, &o.Z,
		&o.IsWreck, &o.IsHeadquarter, &o.IsActive,
		&o.HasBlueprints, &o.HasWares, &o.HasSignalleak,
		&o.TargetSectorMacro, &o.TargetSectorName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return o, nil
}

type inserts struct {
	sector   *sql.Stmt
	object   *sql.Stmt
	area     *sql.Stmt
	resource *sql.Stmt
}

func prepareInserts(ctx context.Context, tx *sql.Tx) (*inserts, error) {
	builders := []squirrel.InsertBuilder{
		psql.Insert("sectors").Columns("macro", "name", "is_known").Values(nil, nil, nil),
		psql.Insert("objects").Columns(objectColumns...).Values(make([]any, len(objectColumns))...),
		psql.Insert("resource_areas").Columns("sector_macro", "position", "x", "y", "z").Values(nil, nil, nil, nil, nil),
		psql.Insert("resources").
			Columns("area_id", "ware", "recharge_max", "recharge_current", "recharge_time", "yield").
			Values(nil, nil, nil, nil, nil, nil),
	}

	stmts := make([]*sql.Stmt, 0, len(builders))
	ins := &inserts{}
	for _, b := range builders {
		query, _, err := b.ToSql()
		if err != nil {
			ins.closeAll(stmts)
			return nil, fmt.Errorf("failed to build insert: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			ins.closeAll(stmts)
			return nil, fmt.Errorf("failed to prepare insert: %w", err)
		}
		stmts = append(stmts, stmt)
	}
	ins.sector, ins.object, ins.area, ins.resource = stmts[0], stmts[1], stmts[2], stmts[3]
	return ins, nil
}

func (i *inserts) closeAll(stmts []*sql.Stmt) {
	for _, s := range stmts {
		s.Close()
	}
}

// Close releases the prepared statements
func (i *inserts) Close() {
	i.closeAll([]*sql.Stmt{i.sector, i.object, i.area, i.resource})
}

func vaultCondition() squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Eq{"o.class": api.ClassDataVault},
		squirrel.Like{"o.macro": "%erlking_vault%"},
	}
}

func lootCondition(loot string) (squirrel.Sqlizer, error) {
	switch loot {
	case api.LootBlueprints:
		return squirrel.Eq{"o.has_blueprints": true}, nil
	case api.LootWares:
		return squirrel.Eq{"o.has_wares": true}, nil
	case api.LootSignalleak:
		return squirrel.Eq{"o.has_signalleak": true}, nil
	case api.LootEmpty:
		return squirrel.Eq{"o.has_blueprints": false, "o.has_wares": false, "o.has_signalleak": false}, nil
	}
	return nil, fmt.Errorf("%w: unknown loot %q", ErrInvalidFilter, loot)
}

func buildFindObjects(filter ObjectFilter) (string, []any, error) {
	columns := make([]string, 0, len(objectColumns)+1)
	for _, c := range objectColumns {
		columns = append(columns, "o."+c)
	}
	columns = append(columns, "s.name")

	q := psql.Select(columns...).
		From("objects o").
		Join("sectors s ON s.macro = o.sector_macro").
		OrderBy("s.name", "o.class", "o.code")

	if len(filter.Classes) > 0 {
		q = q.Where(squirrel.Eq{"o.class": filter.Classes})
	}
	if filter.Owner != "" {
		q = q.Where(squirrel.Eq{"o.owner": filter.Owner})
	}
	if filter.SectorMacro != "" {
		q = q.Where(squirrel.Eq{"o.sector_macro": filter.SectorMacro})
	}
	if filter.VaultsOnly || filter.Loot != "" {
		q = q.Where(vaultCondition())
	}
	if filter.Loot != "" {
		cond, err := lootCondition(filter.Loot)
		if err != nil {
			return "", nil, err
		}
		q = q.Where(cond)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q.ToSql()
}

// FindObjects returns the stored objects matching filter, ordered by sector name
func (d *SQLiteStore) FindObjects(ctx context.Context, filter ObjectFilter) ([]ObjectRecord, error) {
	query, args, err := buildFindObjects(filter)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find objects: %w", err)
	}
	defer rows.Close()

	var records []ObjectRecord
	for rows.Next() {
		var rec ObjectRecord
		rec.Object, err = scanObject(rows, &rec.SectorMacro, &rec.SectorName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
