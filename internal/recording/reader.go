package recording

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reader parses one recording file into a table.
type Reader interface {
	CanRead(filename string) bool
	Read(path string) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReaderFor selects a registered reader by filename, or nil if none applies.
func ReaderFor(filename string) Reader {
	for _, r := range registry {
		if r.CanRead(filename) {
			return r
		}
	}
	return nil
}

// ReadFile parses path with the matching registered reader.
func ReadFile(path string) (*Table, error) {
	r := ReaderFor(path)
	if r == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	return r.Read(path)
}

// ErrUnsupported indicates no reader handles the file's format.
var ErrUnsupported = errors.New("unsupported recording format")

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func (csvReader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return buildTable(filepath.Base(path), header, records)
}

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read parses the first sheet of a workbook; its first row is the header.
func (xlsxReader) Read(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read header: empty sheet %q", sheets[0])
	}
	return buildTable(filepath.Base(path), rows[0], rows[1:])
}

// buildTable validates the header and converts raw records into rows.
// Measurement columns are parsed cell by cell and unparseable cells become
// NaN. Known text columns, and columns where no non-blank cell parses, are
// kept as text attributes.
func buildTable(source string, header []string, records [][]string) (*Table, error) {
	cols := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[i] = h
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingIdentity, strings.Join(missing, ", "))
	}

	for i, rec := range records {
		if len(rec) > len(cols) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i+1, len(cols), len(rec))
		}
		if len(rec) < len(cols) {
			padded := make([]string, len(cols))
			copy(padded, rec)
			records[i] = padded
		}
	}

	numeric := make([]bool, len(cols))
	for j, c := range cols {
		if isIdentity(c) {
			continue
		}
		numeric[j] = !isText(c) && parsesAny(records, j)
	}

	t := NewTable(cols)
	t.Rows = make([]Row, 0, len(records))
	for i, rec := range records {
		session, err := parseSession(rec[index[ColSession]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		row := Row{
			Client:         strings.TrimSpace(rec[index[ColClient]]),
			Session:        session,
			Exercise:       strings.TrimSpace(rec[index[ColExercise]]),
			Source:         source,
			Index:          i,
			Values:         make(map[string]float64, len(cols)),
			NormalizedTime: math.NaN(),
		}
		for j, c := range cols {
			if isIdentity(c) {
				continue
			}
			v := strings.TrimSpace(rec[j])
			if numeric[j] {
				x, err := strconv.ParseFloat(v, 64)
				if err != nil {
					x = math.NaN()
				}
				row.Values[c] = x
				continue
			}
			if row.Attrs == nil {
				row.Attrs = make(map[string]string)
			}
			row.Attrs[c] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// textColumns are recorder columns that never hold measurements.
var textColumns = map[string]struct{}{"Timestamp": {}, "Hand": {}}

func isText(col string) bool {
	_, ok := textColumns[col]
	return ok
}

// parsesAny reports whether column j is blank throughout or has at least one
// cell that parses as a float.
func parsesAny(records [][]string, j int) bool {
	blank := true
	for _, rec := range records {
		v := strings.TrimSpace(rec[j])
		if v == "" {
			continue
		}
		blank = false
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return true
		}
	}
	return blank
}

func isIdentity(col string) bool {
	return col == ColClient || col == ColSession || col == ColExercise
}

func parseSession(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid session number %q", raw)
	}
	return int(f), nil
}
