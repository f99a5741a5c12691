package analysis

import (
	"math"

	"github.com/KaramelBytes/leapmetrics-cli/internal/recording"
)

// Joint-angle columns of the five fingertips, three axes each.
var (
	fingers = []string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

	HandClosureColumns = fingerColumns(fingers, "X", "Y", "Z")
	FlexionColumns     = fingerColumns([]string{"Middle", "Ring", "Pinky"}, "X", "Y", "Z")
	ThumbTipColumns    = [3]string{"Thumb X", "Thumb Y", "Thumb Z"}
	IndexTipColumns    = [3]string{"Index X", "Index Y", "Index Z"}
	WristROMColumns    = []string{"Wrist Flexion", "Wrist Extension", "Radial Deviation", "Ulnar Deviation"}
	FingerROMColumns   = fingerColumns(fingers, "MCP", "PIP", "DIP")
)

func fingerColumns(names []string, parts ...string) []string {
	out := make([]string, 0, len(names)*len(parts))
	for _, n := range names {
		for _, p := range parts {
			out = append(out, n+" "+p)
		}
	}
	return out
}

// SessionSummary is the per-session distribution of one derived quantity.
type SessionSummary struct {
	Session int
	Summary
}

// MakeAFist sums the fifteen fingertip joint angles of every frame into a
// total hand closure and summarizes it per session. Higher is a tighter fist.
func MakeAFist(t *recording.Table) ([]SessionSummary, error) {
	if err := missingColumns("make_a_fist", t.MissingColumns(HandClosureColumns...)); err != nil {
		return nil, err
	}
	return perSession(t, func(r recording.Row) float64 {
		return sumColumns(r, HandClosureColumns)
	}), nil
}

// ThumbTouch summarizes the thumb-tip to index-tip distance per session.
// Smaller is better opposition.
func ThumbTouch(t *recording.Table) ([]SessionSummary, error) {
	if err := requireTips(t, "thumb_touch"); err != nil {
		return nil, err
	}
	return perSession(t, thumbIndexDistance), nil
}

// PincerGrip adds the thumb-index distance to the total flexion of the
// middle, ring and pinky fingers. The distance is always computed from the
// tip positions; a recorded "Thumb-Index Distance" column is ignored.
func PincerGrip(t *recording.Table) ([]SessionSummary, error) {
	if err := requireTips(t, "pincer_grip", FlexionColumns...); err != nil {
		return nil, err
	}
	return perSession(t, func(r recording.Row) float64 {
		return thumbIndexDistance(r) + sumColumns(r, FlexionColumns)
	}), nil
}

// WristAROM adds total wrist range of motion (flexion, extension, radial and
// ulnar deviation) to total finger range of motion (MCP, PIP, DIP of every
// finger).
func WristAROM(t *recording.Table) ([]SessionSummary, error) {
	cols := append(append([]string{}, WristROMColumns...), FingerROMColumns...)
	if err := missingColumns("wrist_arom", t.MissingColumns(cols...)); err != nil {
		return nil, err
	}
	return perSession(t, func(r recording.Row) float64 {
		return addColumns(r, WristROMColumns) + sumColumns(r, FingerROMColumns)
	}), nil
}

func requireTips(t *recording.Table, exercise string, extra ...string) error {
	cols := append(append(ThumbTipColumns[:], IndexTipColumns[:]...), extra...)
	return missingColumns(exercise, t.MissingColumns(cols...))
}

func thumbIndexDistance(r recording.Row) float64 {
	return Distance(pointOf(r, ThumbTipColumns), pointOf(r, IndexTipColumns))
}

func pointOf(r recording.Row, cols [3]string) Point {
	return Point{X: valueOf(r, cols[0]), Y: valueOf(r, cols[1]), Z: valueOf(r, cols[2])}
}

// valueOf treats a column the row's source file never had as a blank cell.
func valueOf(r recording.Row, col string) float64 {
	if v, ok := r.Values[col]; ok {
		return v
	}
	return math.NaN()
}

// sumColumns totals cols on one row, skipping blank cells. A row with every
// cell blank sums to 0.
func sumColumns(r recording.Row, cols []string) float64 {
	var s float64
	for _, c := range cols {
		if v := valueOf(r, c); !math.IsNaN(v) {
			s += v
		}
	}
	return s
}

// addColumns adds cols on one row; any blank cell makes the result NaN.
func addColumns(r recording.Row, cols []string) float64 {
	var s float64
	for _, c := range cols {
		s += valueOf(r, c)
	}
	return s
}

// perSession derives one value per row and summarizes it per session in
// ascending session order.
func perSession(t *recording.Table, derive func(recording.Row) float64) []SessionSummary {
	bySession := map[int][]float64{}
	for _, r := range t.Rows {
		bySession[r.Session] = append(bySession[r.Session], derive(r))
	}
	out := make([]SessionSummary, 0, len(bySession))
	for _, s := range t.Sessions() {
		out = append(out, SessionSummary{Session: s, Summary: Summarize(bySession[s])})
	}
	return out
}
