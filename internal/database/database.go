package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"x4map/internal/api"
	"x4map/internal/log"
)

// ErrNoResult is returned when no parsed result has been stored yet
var ErrNoResult = errors.New("no parsed result stored")

// Meta keys written alongside every stored result
const (
	MetaSavedAt = "saved_at"
	MetaSource  = "source"
	MetaSectors = "sectors"
	MetaObjects = "objects"
)

// Store keeps the most recent parse result
type Store interface {
	// SaveResult replaces the stored result in one transaction
	SaveResult(ctx context.Context, m api.SectorsMap) error
	LoadResult(ctx context.Context) (api.SectorsMap, error)
	LoadMeta(ctx context.Context) (Meta, error)
	SetMeta(ctx context.Context, key, value string) error
	FindObjects(ctx context.Context, filter ObjectFilter) ([]ObjectRecord, error)
	Close() error
}

// Meta describes the stored result
type Meta struct {
	SavedAt time.Time
	Source  string
	Sectors int
	Objects int
}

// SQLiteStore implements Store on a SQLite file
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating when needed) the SQLite database at path and migrates it
func Open(path string) (*SQLiteStore, error) {
	logger := log.With("database")
	logger.Debug("opening database", "path", path)

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer, and every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db, path: path, logger: logger}
	if err := store.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection
func (d *SQLiteStore) Close() error {
	if d.db == nil {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.db = nil
	return nil
}

// SaveResult replaces the stored result with m
func (d *SQLiteStore) SaveResult(ctx context.Context, m api.SectorsMap) error {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"resources", "resource_areas", "objects", "sectors", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	ins, err := prepareInserts(ctx, tx)
	if err != nil {
		return err
	}
	defer ins.Close()

	for _, sector := range m.SortedSectors() {
		if _, err := ins.sector.ExecContext(ctx, sector.Macro, sector.Name, sector.IsKnown); err != nil {
			return fmt.Errorf("failed to save sector %s: %w", sector.Macro, err)
		}
		for _, o := range sector.SortedObjects() {
			if _, err := ins.object.ExecContext(ctx, objectValues(sector.Macro, o)...); err != nil {
				return fmt.Errorf("failed to save object %s: %w", o.Code, err)
			}
		}
		for i, area := range sector.ResourceAreas {
			res, err := ins.area.ExecContext(ctx, sector.Macro, i, area.X, area.Y, area.Z)
			if err != nil {
				return fmt.Errorf("failed to save resource area: %w", err)
			}
			areaID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read resource area id: %w", err)
			}
			for ware, r := range area.Resources {
				if _, err := ins.resource.ExecContext(ctx, areaID, ware, r.RechargeMax, r.RechargeCurrent, r.RechargeTime, r.Yield); err != nil {
					return fmt.Errorf("failed to save resource %s: %w", ware, err)
				}
			}
		}
	}

	meta := map[string]string{
		MetaSavedAt: time.Now().UTC().Format(time.RFC3339Nano),
		MetaSectors: strconv.Itoa(len(m.Sectors)),
		MetaObjects: strconv.Itoa(m.ObjectCount()),
	}
	for key, value := range meta {
		if err := setMeta(ctx, tx, key, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}
	d.logger.Debug("result saved", "sectors", len(m.Sectors), "objects", m.ObjectCount(), "elapsed", time.Since(start))
	return nil
}

// LoadResult reads back the stored result
func (d *SQLiteStore) LoadResult(ctx context.Context) (api.SectorsMap, error) {
	result := api.NewSectorsMap()
	if _, err := d.LoadMeta(ctx); err != nil {
		return result, err
	}

	rows, err := d.db.QueryContext(ctx, `SELECT macro, name, is_known FROM sectors`)
	if err != nil {
		return result, fmt.Errorf("failed to load sectors: %w", err)
	}
	for rows.Next() {
		var macro, name string
		var known bool
		if err := rows.Scan(&macro, &name, &known); err != nil {
			rows.Close()
			return result, fmt.Errorf("failed to scan sector: %w", err)
		}
		result.Sectors[macro] = api.NewSector(macro, name, known)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to load sectors: %w", err)
	}

	if err := d.loadObjects(ctx, result); err != nil {
		return result, err
	}
	if err := d.loadResourceAreas(ctx, result); err != nil {
		return result, err
	}
	return result, nil
}

func (d *SQLiteStore) loadObjects(ctx context.Context, result api.SectorsMap) error {
	query, args, err := psql.Select(objectColumns...).From("objects").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build object query: %w", err)
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load objects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sectorMacro string
		o, err := scanObject(rows, &sectorMacro)
		if err != nil {
			return fmt.Errorf("failed to scan object: %w", err)
		}
		if sector := result.Sectors[sectorMacro]; sector != nil {
			sector.Objects[o.Code] = o
		}
	}
	return rows.Err()
}

func (d *SQLiteStore) loadResourceAreas(ctx context.Context, result api.SectorsMap) error {
	rows, err := d.db.QueryContext(ctx, `SELECT id, sector_macro, x, y, z FROM resource_areas ORDER BY sector_macro, position`)
	if err != nil {
		return fmt.Errorf("failed to load resource areas: %w", err)
	}
	areas := make(map[int64]map[string]*api.Resource)
	for rows.Next() {
		var id int64
		var macro string
		area := api.ResourceArea{Resources: make(map[string]*api.Resource)}
		if err := rows.Scan(&id, &macro, &area.X, &area.Y, &area.Z); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan resource area: %w", err)
		}
		if sector := result.Sectors[macro]; sector != nil {
			sector.ResourceAreas = append(sector.ResourceAreas, area)
			areas[id] = area.Resources
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load resource areas: %w", err)
	}

	rows, err = d.db.QueryContext(ctx, `SELECT area_id, ware, recharge_max, recharge_current, recharge_time, yield FROM resources`)
	if err != nil {
		return fmt.Errorf("failed to load resources: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var areaID int64
		var ware string
		r := &api.Resource{}
		if err := rows.Scan(&areaID, &ware, &r.RechargeMax, &r.RechargeCurrent, &r.RechargeTime, &r.Yield); err != nil {
			return fmt.Errorf("failed to scan resource: %w", err)
		}
		if resources, ok := areas[areaID]; ok {
			resources[ware] = r
		}
	}
	return rows.Err()
}

// LoadMeta returns the description of the stored result, or ErrNoResult
func (d *SQLiteStore) LoadMeta(ctx context.Context) (Meta, error) {
	var meta Meta
	rows, err := d.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return meta, fmt.Errorf("failed to load meta: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return meta, fmt.Errorf("failed to scan meta: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return meta, fmt.Errorf("failed to load meta: %w", err)
	}

	savedAt, ok := values[MetaSavedAt]
	if !ok {
		return meta, ErrNoResult
	}
	meta.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return meta, fmt.Errorf("invalid %s value %q: %w", MetaSavedAt, savedAt, err)
	}
	meta.Source = values[MetaSource]
	meta.Sectors, _ = strconv.Atoi(values[MetaSectors])
	meta.Objects, _ = strconv.Atoi(values[MetaObjects])
	return meta, nil
}

// SetMeta records an extra key for the stored result, such as its source file
func (d *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	return setMeta(ctx, d.db, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setMeta(ctx context.Context, db execer, key, value string) error {
	query, args, err := psql.Insert("meta").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meta query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save meta %s: %w", key, err)
	}
	return nil
}
