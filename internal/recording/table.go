package recording

import (
	"errors"
	"math"
	"sort"
)

// Identifying columns every recording file must carry.
const (
	ColClient   = "Client Name"
	ColSession  = "Session Number"
	ColExercise = "Exercise Name"
)

// RequiredColumns lists the identifying columns in header order.
var RequiredColumns = []string{ColClient, ColSession, ColExercise}

// ErrMissingIdentity indicates a file lacks one of the identifying columns.
var ErrMissingIdentity = errors.New("missing required identifying columns")

// Row is one captured frame of a recording.
type Row struct {
	Client   string
	Session  int
	Exercise string
	// Source is the base name of the file the row was read from; Index is its
	// zero-based position within that file.
	Source string
	Index  int
	// Values holds every measurement column. Blank or non-numeric cells are NaN.
	Values map[string]float64
	// Attrs holds the raw text of columns that are not numeric (Timestamp, Hand).
	Attrs map[string]string
	// NormalizedTime is set by NormalizeTime; NaN until then.
	NormalizedTime float64
}

// Value returns the named measurement and whether the column exists on the row.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Table is an in-memory set of recording rows with the union of their headers.
type Table struct {
	Columns []string
	Rows    []Row

	colSet map[string]struct{}
}

// NewTable returns an empty table with the given header.
func NewTable(columns []string) *Table {
	t := &Table{}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(c string) {
	if t.colSet == nil {
		t.colSet = make(map[string]struct{})
	}
	if _, ok := t.colSet[c]; ok {
		return
	}
	t.colSet[c] = struct{}{}
	t.Columns = append(t.Columns, c)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the header contains col.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.colSet[col]
	return ok
}

// MissingColumns returns the subset of cols absent from the header, in order.
func (t *Table) MissingColumns(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Append concatenates other onto t, extending the header as needed.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}
	for _, c := range other.Columns {
		t.addColumn(c)
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// Filter returns a new table holding the rows for which keep returns true.
// The header is carried over unchanged.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := NewTable(t.Columns)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// ForExercise returns the rows recorded for the named exercise.
func (t *Table) ForExercise(name string) *Table {
	return t.Filter(func(r Row) bool { return r.Exercise == name })
}

// Exercises returns the distinct exercise names in first-seen order.
func (t *Table) Exercises() []string {
	return t.distinct(func(r Row) string { return r.Exercise })
}

// Clients returns the distinct client names in first-seen order.
func (t *Table) Clients() []string {
	return t.distinct(func(r Row) string { return r.Client })
}

func (t *Table) distinct(key func(Row) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range t.Rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Sessions returns the distinct session numbers in ascending order.
func (t *Table) Sessions() []int {
	seen := map[int]struct{}{}
	var out []int
	for _, r := range t.Rows {
		if _, ok := seen[r.Session]; ok {
			continue
		}
		seen[r.Session] = struct{}{}
		out = append(out, r.Session)
	}
	sort.Ints(out)
	return out
}

// Column returns the named measurement for every row. Rows lacking the
// column yield NaN.
func (t *Table) Column(col string) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		v, ok := r.Values[col]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
