// Package store persists wafer grids and their rendered documents in an
// embedded SQLite database (modernc.org/sqlite, no cgo).
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/cap1tan/wafermap/pkg/render"
	"github.com/cap1tan/wafermap/pkg/render/sexpmap"
	"github.com/cap1tan/wafermap/pkg/wafer"
)

// ErrNotFound is returned when a wafer id does not exist.
var ErrNotFound = errors.New("store: wafer not found")

const schema = `
CREATE TABLE IF NOT EXISTS wafers (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT    NOT NULL,
	radius        REAL    NOT NULL,
	cell_w        REAL    NOT NULL,
	cell_h        REAL    NOT NULL,
	coverage      TEXT    NOT NULL,
	cell_count    INTEGER NOT NULL,
	created_at    INTEGER NOT NULL,
	document      TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS cells (
	wafer_id INTEGER NOT NULL REFERENCES wafers(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	x        INTEGER NOT NULL,
	y        INTEGER NOT NULL,
	min_x    REAL    NOT NULL,
	min_y    REAL    NOT NULL,
	max_x    REAL    NOT NULL,
	max_y    REAL    NOT NULL,
	PRIMARY KEY (wafer_id, x, y)
);
CREATE TABLE IF NOT EXISTS primitives (
	wafer_id INTEGER NOT NULL REFERENCES wafers(id) ON DELETE CASCADE,
	layer    TEXT    NOT NULL,
	seq      INTEGER NOT NULL,
	kind     TEXT    NOT NULL,
	min_x    REAL    NOT NULL,
	min_y    REAL    NOT NULL,
	max_x    REAL    NOT NULL,
	max_y    REAL    NOT NULL,
	PRIMARY KEY (wafer_id, layer, seq)
);
CREATE INDEX IF NOT EXISTS idx_primitives_bounds ON primitives (wafer_id, min_x, max_x);
`

// Store is a wafer map database.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Option configures Open.
type Option func(*Store)

// WithLogger routes pragma tuning messages to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Wafer is one saved wafer map.
type Wafer struct {
	ID        int64
	Name      string
	Radius    float64
	CellSize  r2.Point
	Coverage  string
	Cells     int
	CreatedAt time.Time
}

// StoredCell is a cell row.
type StoredCell struct {
	Index  wafer.CellIndex
	Bounds r2.Rect
}

// StoredPrimitive is the bounding box of one drawing primitive.
type StoredPrimitive struct {
	Layer  string
	Seq    int
	Kind   render.Kind
	Bounds r2.Rect
}

// Open opens or creates the database at path. SQLite access is serialized
// over a single connection.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	s.db = db

	if err := s.tune(ctx); err != nil {
		s.logger.Printf("sqlite tuning skipped: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return s, nil
}

func (s *Store) tune(ctx context.Context) error {
	var mode string
	if err := s.db.QueryRowContext(ctx, "PRAGMA journal_mode=WAL;").Scan(&mode); err != nil {
		return fmt.Errorf("apply journal_mode: %w", err)
	}
	s.logger.Printf("SQLite tuning journal_mode -> %s", mode)

	for _, q := range []string{
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("apply %s: %w", strings.TrimSuffix(q, ";"), err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveGrid stores the grid cells, the primitive bounds and the encoded
// document in one transaction and returns the new wafer id.
func (s *Store) SaveGrid(ctx context.Context, name string, grid *wafer.Grid, doc *render.Document) (int64, error) {
	var encoded bytes.Buffer
	if err := sexpmap.NewEncoder().Encode(&encoded, doc); err != nil {
		return 0, fmt.Errorf("store: encode document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	spec := grid.Spec()
	res, err := tx.ExecContext(ctx, `
INSERT INTO wafers (name, radius, cell_w, cell_h, coverage, cell_count, created_at, document)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, spec.Radius, spec.CellSize.X, spec.CellSize.Y, spec.Coverage.String(),
		grid.Len(), time.Now().UTC().Unix(), encoded.String())
	if err != nil {
		return 0, fmt.Errorf("store: insert wafer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: wafer id: %w", err)
	}

	cellStmt, err := tx.PrepareContext(ctx, `
INSERT INTO cells (wafer_id, seq, x, y, min_x, min_y, max_x, max_y)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare cells: %w", err)
	}
	defer cellStmt.Close()
	for i, c := range grid.Cells() {
		b := c.Bounds
		if _, err := cellStmt.ExecContext(ctx, id, i, c.Index.X, c.Index.Y, b.X.Lo, b.Y.Lo, b.X.Hi, b.Y.Hi); err != nil {
			return 0, fmt.Errorf("store: insert cell %s: %w", c.Index, err)
		}
	}

	primStmt, err := tx.PrepareContext(ctx, `
INSERT INTO primitives (wafer_id, layer, seq, kind, min_x, min_y, max_x, max_y)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare primitives: %w", err)
	}
	defer primStmt.Close()
	for _, l := range doc.Layers {
		for i, item := range l.Items {
			b := item.Bounds()
			if _, err := primStmt.ExecContext(ctx, id, l.Name, i, item.Kind().String(), b.X.Lo, b.Y.Lo, b.X.Hi, b.Y.Hi); err != nil {
				return 0, fmt.Errorf("store: insert %s primitive %d: %w", l.Name, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// ListWafers returns every saved wafer, oldest first.
func (s *Store) ListWafers(ctx context.Context) ([]Wafer, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, radius, cell_w, cell_h, coverage, cell_count, created_at
FROM wafers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list wafers: %w", err)
	}
	defer rows.Close()

	var out []Wafer
	for rows.Next() {
		var (
			w       Wafer
			created int64
		)
		if err := rows.Scan(&w.ID, &w.Name, &w.Radius, &w.CellSize.X, &w.CellSize.Y, &w.Coverage, &w.Cells, &created); err != nil {
			return nil, fmt.Errorf("store: scan wafer: %w", err)
		}
		w.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

// LoadCells returns the cells of wafer id in scan order.
func (s *Store) LoadCells(ctx context.Context, id int64) ([]StoredCell, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT x, y, min_x, min_y, max_x, max_y FROM cells WHERE wafer_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("store: load cells: %w", err)
	}
	defer rows.Close()

	var out []StoredCell
	for rows.Next() {
		var c StoredCell
		if err := rows.Scan(&c.Index.X, &c.Index.Y, &c.Bounds.X.Lo, &c.Bounds.Y.Lo, &c.Bounds.X.Hi, &c.Bounds.Y.Hi); err != nil {
			return nil, fmt.Errorf("store: scan cell: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LoadDocument decodes the document saved with wafer id.
func (s *Store) LoadDocument(ctx context.Context, id int64) (*render.Document, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM wafers WHERE id = ?`, id).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load document: %w", err)
	}
	doc, err := sexpmap.Decode(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("store: decode document %d: %w", id, err)
	}
	return doc, nil
}

// PrimitivesIn returns the primitives of wafer id whose bounds intersect
// area, in layer then drawing order.
func (s *Store) PrimitivesIn(ctx context.Context, id int64, area r2.Rect) ([]StoredPrimitive, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT layer, seq, kind, min_x, min_y, max_x, max_y FROM primitives
WHERE wafer_id = ? AND max_x >= ? AND min_x <= ? AND max_y >= ? AND min_y <= ?
ORDER BY rowid`, id, area.X.Lo, area.X.Hi, area.Y.Lo, area.Y.Hi)
	if err != nil {
		return nil, fmt.Errorf("store: query primitives: %w", err)
	}
	defer rows.Close()

	var out []StoredPrimitive
	for rows.Next() {
		var (
			p    StoredPrimitive
			kind string
			x, y r1.Interval
		)
		if err := rows.Scan(&p.Layer, &p.Seq, &kind, &x.Lo, &y.Lo, &x.Hi, &y.Hi); err != nil {
			return nil, fmt.Errorf("store: scan primitive: %w", err)
		}
		k, ok := render.ParseKind(kind)
		if !ok {
			return nil, fmt.Errorf("store: unknown primitive kind %q", kind)
		}
		p.Kind, p.Bounds = k, r2.Rect{X: x, Y: y}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) exists(ctx context.Context, id int64) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wafers WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("store: lookup wafer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
