// Package table is the collaborator described in spec.md §6: it
// creates one tree per indexed column, named <dir>/columnN.index, and
// uses the tree exclusively through its programmatic surface. This is
// the table layer spec.md treats as an "external collaborator" —
// specified only enough to show the core must be composable.
//
// Grounded on original_source/table.c (TableRow/table_create_index/
// table_search(_range)) for the feature surface the distilled spec.md
// only summarizes, and on the teacher's own single-writer-mutex
// pattern (pkg/db.go's db.writableTx exclusivity) for the concurrency
// story spec.md §5 asks collaborators to demonstrate.
package table

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-logr/logr"

	"github.com/daicang/bplustore/internal/btree"
	"github.com/daicang/bplustore/internal/logging"
	"github.com/daicang/bplustore/internal/pagefile"
)

const (
	defaultOrder = 101
	schemaFile   = "schema.yaml"
	rowsFile     = "rows.data"
)

// OpenOptions configures Open. Columns is only consulted when the
// table directory does not already exist.
type OpenOptions struct {
	Dir             string
	Columns         int
	CreateIfMissing bool
	ErrorIfExist    bool
	Order           uint64
	Logger          logr.Logger
}

// Table is one directory's worth of rows plus zero or more per-column
// B+tree indexes.
type Table struct {
	mu sync.Mutex

	dir     string
	columns int
	order   uint64
	logger  logr.Logger

	schema *schema
	rows   *pagefile.File
	trees  []*btree.Tree // nil entry = column has no index
}

// Open creates a new table directory or opens an existing one.
func Open(opts OpenOptions) (*Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	schemaPath := filepath.Join(opts.Dir, schemaFile)
	loaded, exists, err := loadSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	if exists && opts.ErrorIfExist {
		return nil, fmt.Errorf("table: %s already exists", opts.Dir)
	}
	if !exists {
		if !opts.CreateIfMissing {
			return nil, fmt.Errorf("table: %s does not exist", opts.Dir)
		}
		if opts.Columns <= 0 {
			return nil, fmt.Errorf("table: columns must be positive")
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, err
		}
		loaded = &schema{Columns: opts.Columns, Indexed: make([]bool, opts.Columns)}
		if err := loaded.save(schemaPath); err != nil {
			return nil, err
		}
	}

	order := opts.Order
	if order == 0 {
		order = defaultOrder
	}

	t := &Table{
		dir:     opts.Dir,
		columns: loaded.Columns,
		order:   order,
		logger:  logger.WithName("table"),
		schema:  loaded,
		rows:    pagefile.New(filepath.Join(opts.Dir, rowsFile), loaded.Columns*8, false, logger.WithName("rows")),
		trees:   make([]*btree.Tree, loaded.Columns),
	}

	for col, indexed := range loaded.Indexed {
		if !indexed {
			continue
		}
		tr, err := t.openColumnTree(col, false)
		if err != nil {
			return nil, err
		}
		t.trees[col] = tr
	}

	t.logger.V(0).Info("opened table", "dir", opts.Dir, "columns", t.columns)

	return t, nil
}

func (t *Table) columnPath(col int) string {
	return filepath.Join(t.dir, fmt.Sprintf("column%d.index", col))
}

func (t *Table) openColumnTree(col int, errorIfExist bool) (*btree.Tree, error) {
	return btree.Open(btree.OpenFlag{
		Path:            t.columnPath(col),
		Order:           t.order,
		CreateIfMissing: true,
		ErrorIfExist:    errorIfExist,
		Logger:          t.logger.WithName(fmt.Sprintf("column%d", col)),
	})
}

// Append inserts row, assigning it the next row-id, and indexes it
// under every column that currently has an index (§6: "it never
// reaches into block layout", only ever calling Insert).
func (t *Table) Append(row Row) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(row) != t.columns {
		return 0, fmt.Errorf("table: row has %d columns, want %d", len(row), t.columns)
	}

	rowID := t.schema.RowCount
	if err := t.rows.Store(rowID, encodeRow(row)); err != nil {
		return 0, err
	}

	for col, tree := range t.trees {
		if tree == nil {
			continue
		}
		if err := tree.Insert(row[col], rowID); err != nil {
			return 0, err
		}
	}

	t.schema.RowCount++

	return rowID, nil
}

// CreateIndex builds an index for column, backfilling from every row
// already appended (original_source/table.c's table_create_index).
// Returns an error if the column is already indexed.
func (t *Table) CreateIndex(col int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if col < 0 || col >= t.columns {
		return fmt.Errorf("table: column %d out of range", col)
	}
	if t.trees[col] != nil {
		return fmt.Errorf("table: column %d already indexed", col)
	}

	tr, err := t.openColumnTree(col, true)
	if err != nil {
		return err
	}

	buf := make([]byte, t.columns*8)
	for rowID := uint64(0); rowID < t.schema.RowCount; rowID++ {
		if err := t.rows.Load(rowID, buf, len(buf)); err != nil {
			return err
		}
		row := decodeRow(buf)
		if err := tr.Insert(row[col], rowID); err != nil {
			return err
		}
	}

	t.trees[col] = tr
	t.schema.Indexed[col] = true

	return t.schema.save(filepath.Join(t.dir, schemaFile))
}

// Search returns up to limit row-ids whose column value equals value.
func (t *Table) Search(col int, value, limit uint64) ([]uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, err := t.indexedTree(col)
	if err != nil {
		return nil, err
	}
	vals, err := tr.PointSearch(limit, value)
	if err != nil {
		return nil, err
	}
	defer vals.Release()

	return collect(vals), nil
}

// SearchRange returns up to limit row-ids whose column value lies in
// the closed interval [min, max].
func (t *Table) SearchRange(col int, min, max, limit uint64) ([]uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, err := t.indexedTree(col)
	if err != nil {
		return nil, err
	}
	vals, err := tr.RangeSearch(limit, min, max)
	if err != nil {
		return nil, err
	}
	defer vals.Release()

	return collect(vals), nil
}

func collect(vals *btree.Values) []uint64 {
	out := make([]uint64, vals.Count())
	for i := range out {
		out[i] = vals.Get(i)
	}
	return out
}

func (t *Table) indexedTree(col int) (*btree.Tree, error) {
	if col < 0 || col >= t.columns {
		return nil, fmt.Errorf("table: column %d out of range", col)
	}
	tr := t.trees[col]
	if tr == nil {
		return nil, fmt.Errorf("table: column %d has no index", col)
	}
	return tr, nil
}

// Row returns the row stored at rowID.
func (t *Table) Row(rowID uint64) (Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	buf := make([]byte, t.columns*8)
	if err := t.rows.Load(rowID, buf, len(buf)); err != nil {
		return nil, err
	}
	return decodeRow(buf), nil
}

// Flush persists every indexed column's tree and the schema record.
func (t *Table) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *Table) flushLocked() error {
	for _, tree := range t.trees {
		if tree == nil {
			continue
		}
		if err := tree.Flush(); err != nil {
			return err
		}
	}
	return t.schema.save(filepath.Join(t.dir, schemaFile))
}

// Close flushes and releases every owned resource.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.flushLocked(); err != nil {
		return err
	}
	for _, tree := range t.trees {
		if tree == nil {
			continue
		}
		if err := tree.Close(); err != nil {
			return err
		}
	}

	return t.rows.Close()
}
