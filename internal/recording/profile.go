package recording

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Profile is a console-friendly description of a combined recording table.
type Profile struct {
	Rows      int
	Clients   []string
	Sessions  []int
	Exercises []ExerciseCount
	Cols      []ColumnProfile
	Samples   []Row
	header    []string
}

// ExerciseCount is the number of frames recorded for one exercise.
type ExerciseCount struct {
	Name     string
	Rows     int
	Sessions int
}

// ColumnProfile captures the inferred kind and statistics of one column.
type ColumnProfile struct {
	Name    string
	Kind    string // identity, numeric, text or empty
	NonNull int
	Missing int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Text top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// ProfileTable summarizes t, keeping up to sampleRows leading rows.
func ProfileTable(t *Table, sampleRows int) *Profile {
	p := &Profile{Rows: t.Len(), Clients: t.Clients(), Sessions: t.Sessions(), header: t.Columns}
	if sampleRows < 0 {
		sampleRows = 0
	}
	if sampleRows > t.Len() {
		sampleRows = t.Len()
	}
	p.Samples = append(p.Samples, t.Rows[:sampleRows]...)

	for _, name := range t.Exercises() {
		sub := t.ForExercise(name)
		p.Exercises = append(p.Exercises, ExerciseCount{Name: name, Rows: sub.Len(), Sessions: len(sub.Sessions())})
	}

	for _, c := range t.Columns {
		if isIdentity(c) {
			p.Cols = append(p.Cols, ColumnProfile{Name: c, Kind: "identity", NonNull: t.Len()})
			continue
		}
		p.Cols = append(p.Cols, profileColumn(t, c))
	}
	return p
}

func profileColumn(t *Table, col string) ColumnProfile {
	cp := ColumnProfile{Name: col, Min: math.Inf(1), Max: math.Inf(-1)}
	var vals []float64
	cats := map[string]int{}
	numeric, text := 0, 0
	for _, r := range t.Rows {
		if v, ok := r.Values[col]; ok {
			numeric++
			if math.IsNaN(v) {
				cp.Missing++
				continue
			}
			cp.NonNull++
			vals = append(vals, v)
			if v < cp.Min {
				cp.Min = v
			}
			if v > cp.Max {
				cp.Max = v
			}
			continue
		}
		if s, ok := r.Attrs[col]; ok {
			text++
			if s == "" {
				cp.Missing++
				continue
			}
			cp.NonNull++
			cats[s]++
			continue
		}
		// Column absent from this row's source file.
		cp.Missing++
	}
	switch {
	case numeric >= text && len(vals) > 0:
		cp.Kind = "numeric"
		cp.Mean, cp.Std = stat.MeanStdDev(vals, nil)
		if len(vals) < 2 {
			cp.Std = 0
		}
	case len(cats) > 0:
		cp.Kind = "text"
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 5 {
			tops = tops[:5]
		}
		cp.TopValues = tops
	default:
		cp.Kind = "empty"
	}
	if cp.Kind != "numeric" {
		cp.Min, cp.Max = 0, 0
	}
	return cp
}

// Markdown renders the profile as plain sections for the terminal.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[RECORDINGS]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Clients: %s\n", strings.Join(p.Clients, ", ")))
	sessions := make([]string, len(p.Sessions))
	for i, s := range p.Sessions {
		sessions[i] = strconv.Itoa(s)
	}
	b.WriteString(fmt.Sprintf("Sessions: %s\n", strings.Join(sessions, ", ")))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(p.Cols)))

	if len(p.Exercises) > 0 {
		b.WriteString("\n[EXERCISES]\n")
		for _, e := range p.Exercises {
			b.WriteString(fmt.Sprintf("- %s: %d rows across %d sessions\n", e.Name, e.Rows, e.Sessions))
		}
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "text":
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
			}
		}
		b.WriteString("\n")
	}

	if len(p.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString("| ")
		b.WriteString(strings.Join(p.header, " | "))
		b.WriteString(" |\n|")
		b.WriteString(strings.Repeat(" --- |", len(p.header)))
		b.WriteString("\n")
		for _, r := range p.Samples {
			cells := make([]string, len(p.header))
			for i, c := range p.header {
				cells[i] = cellText(r, c)
			}
			b.WriteString("| ")
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func cellText(r Row, col string) string {
	switch col {
	case ColClient:
		return r.Client
	case ColSession:
		return strconv.Itoa(r.Session)
	case ColExercise:
		return r.Exercise
	}
	if v, ok := r.Values[col]; ok {
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
	return r.Attrs[col]
}
