package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cap1tan/wafermap/pkg/render"
	"github.com/cap1tan/wafermap/pkg/wafer"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "wafers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testMap(t *testing.T) *wafer.Map {
	t.Helper()
	spec := wafer.DefaultSpec()
	spec.Radius = 20
	spec.CellSize = r2.Point{X: 5, Y: 5}
	m, err := wafer.New(spec, wafer.WithTitle("lot 7"))
	require.NoError(t, err)
	require.NoError(t, m.AddPoint(nil, r2.Point{X: 1, Y: 1}, render.Style{}, "probe"))
	return m
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := testMap(t)

	id, err := s.SaveGrid(ctx, "lot 7", m.Grid(), m.Document())
	require.NoError(t, err)
	assert.Positive(t, id)

	second, err := s.SaveGrid(ctx, "lot 8", m.Grid(), m.Document())
	require.NoError(t, err)
	assert.Greater(t, second, id)

	wafers, err := s.ListWafers(ctx)
	require.NoError(t, err)
	require.Len(t, wafers, 2)

	w := wafers[0]
	assert.Equal(t, id, w.ID)
	assert.Equal(t, "lot 7", w.Name)
	assert.Equal(t, 20.0, w.Radius)
	assert.Equal(t, r2.Point{X: 5, Y: 5}, w.CellSize)
	assert.Equal(t, "full", w.Coverage)
	assert.Equal(t, m.Grid().Len(), w.Cells)
	assert.False(t, w.CreatedAt.IsZero())
	assert.Equal(t, "lot 8", wafers[1].Name)
}

func TestLoadCells(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := testMap(t)

	id, err := s.SaveGrid(ctx, "cells", m.Grid(), m.Document())
	require.NoError(t, err)

	cells, err := s.LoadCells(ctx, id)
	require.NoError(t, err)

	want := m.Grid().Cells()
	require.Len(t, cells, len(want))
	for i, c := range want {
		assert.Equal(t, c.Index, cells[i].Index, "cell %d", i)
		assert.InDelta(t, c.Bounds.X.Lo, cells[i].Bounds.X.Lo, 1e-9)
		assert.InDelta(t, c.Bounds.Y.Hi, cells[i].Bounds.Y.Hi, 1e-9)
	}
}

func TestLoadDocument(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := testMap(t)
	doc := m.Document()

	id, err := s.SaveGrid(ctx, "doc", m.Grid(), doc)
	require.NoError(t, err)

	got, err := s.LoadDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Radius, got.Radius)
	assert.Equal(t, doc.Count(), got.Count())
	require.Len(t, got.Layers, len(doc.Layers))
	for i, l := range doc.Layers {
		assert.Equal(t, l.Name, got.Layers[i].Name)
		assert.Equal(t, l.Visible, got.Layers[i].Visible)
	}
}

func TestPrimitivesIn(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := testMap(t)

	id, err := s.SaveGrid(ctx, "query", m.Grid(), m.Document())
	require.NoError(t, err)

	area := r2.RectFromCenterSize(r2.Point{X: 1, Y: 1}, r2.Point{X: 0.2, Y: 0.2})
	prims, err := s.PrimitivesIn(ctx, id, area)
	require.NoError(t, err)

	var marker *StoredPrimitive
	for i, p := range prims {
		assert.True(t, p.Bounds.Intersects(area), "%s %s %v", p.Layer, p.Kind, p.Bounds)
		if p.Layer == render.LayerMarkers {
			marker = &prims[i]
		}
	}
	require.NotNil(t, marker, "point marker not returned")
	assert.Equal(t, render.KindMarker, marker.Kind)
	assert.Equal(t, r2.RectFromPoints(r2.Point{X: 1, Y: 1}), marker.Bounds)

	far := r2.RectFromCenterSize(r2.Point{X: 500, Y: 500}, r2.Point{X: 1, Y: 1})
	prims, err = s.PrimitivesIn(ctx, id, far)
	require.NoError(t, err)
	assert.Empty(t, prims)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.LoadCells(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LoadDocument(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.PrimitivesIn(ctx, 42, r2.EmptyRect())
	assert.ErrorIs(t, err, ErrNotFound)

	wafers, err := s.ListWafers(ctx)
	require.NoError(t, err)
	assert.Empty(t, wafers)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")
	m := testMap(t)

	s, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveGrid(ctx, "persisted", m.Grid(), m.Document())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	cells, err := s.LoadCells(ctx, id)
	require.NoError(t, err)
	assert.Len(t, cells, m.Grid().Len())
}
