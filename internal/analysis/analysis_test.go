package analysis_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
	"github.com/KaramelBytes/leapmetrics-cli/internal/recording"
)

// newTable builds an exercise table; each row maps column -> value and
// carries its session under the "session" key.
func newTable(exercise string, cols []string, rows ...map[string]float64) *recording.Table {
	header := append([]string{recording.ColClient, recording.ColSession, recording.ColExercise}, cols...)
	t := recording.NewTable(header)
	for i, r := range rows {
		vals := map[string]float64{}
		for k, v := range r {
			if k != "session" {
				vals[k] = v
			}
		}
		t.Rows = append(t.Rows, recording.Row{
			Client:   "Ana",
			Session:  int(r["session"]),
			Exercise: exercise,
			Index:    i,
			Values:   vals,
		})
	}
	return t
}

func uniform(cols []string, v float64) map[string]float64 {
	m := map[string]float64{}
	for _, c := range cols {
		m[c] = v
	}
	return m
}

func withSession(m map[string]float64, s int) map[string]float64 {
	m["session"] = float64(s)
	return m
}

func TestDistance_SymmetricAndZero(t *testing.T) {
	pts := []analysis.Point{{0, 0, 0}, {1, 2, 2}, {-3.5, 4, 12}, {10, -10, 0.25}}
	for _, a := range pts {
		assert.Equal(t, 0.0, analysis.Distance(a, a))
		for _, b := range pts {
			assert.Equal(t, analysis.Distance(a, b), analysis.Distance(b, a))
		}
	}
	assert.InDelta(t, 3.0, analysis.Distance(pts[0], pts[1]), 1e-12)

	d, err := analysis.Distances(pts[:2], pts[2:])
	require.NoError(t, err)
	assert.Len(t, d, 2)

	_, err = analysis.Distances(pts, pts[:3])
	assert.True(t, errors.Is(err, analysis.ErrShapeMismatch))
}

func TestSummarize(t *testing.T) {
	s := analysis.Summarize([]float64{4, 1, math.NaN(), 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 2.5, s.Median)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 3.0, s.Range())

	one := analysis.Summarize([]float64{7})
	assert.Equal(t, 7.0, one.Median)
	assert.True(t, math.IsNaN(one.Std))

	empty := analysis.Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestMakeAFist_ConstantClosure(t *testing.T) {
	var rows []map[string]float64
	for i := 0; i < 10; i++ {
		rows = append(rows, withSession(uniform(analysis.HandClosureColumns, 3), 1))
	}
	res, err := analysis.MakeAFist(newTable("make_a_fist", analysis.HandClosureColumns, rows...))
	require.NoError(t, err)
	require.Len(t, res, 1)
	s := res[0]
	assert.Equal(t, 45.0, s.Min)
	assert.Equal(t, s.Min, s.Max)
	assert.Equal(t, s.Min, s.Mean)
	assert.Equal(t, s.Min, s.Median)
	assert.Equal(t, 0.0, s.Std)
}

func TestMakeAFist_BlankCellSkippedInClosure(t *testing.T) {
	a := uniform(analysis.HandClosureColumns, 1)
	a["Thumb X"] = math.NaN()
	b := uniform(analysis.HandClosureColumns, 2)
	res, err := analysis.MakeAFist(newTable("make_a_fist", analysis.HandClosureColumns, withSession(a, 1), withSession(b, 1)))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 2, res[0].Count)
	assert.Equal(t, 14.0, res[0].Min)
	assert.Equal(t, 30.0, res[0].Max)
	assert.Equal(t, 22.0, res[0].Mean)
}

func TestMakeAFist_MissingColumn(t *testing.T) {
	cols := analysis.HandClosureColumns[:14]
	_, err := analysis.MakeAFist(newTable("make_a_fist", cols, withSession(uniform(cols, 1), 1)))
	require.Error(t, err)
	var ve *analysis.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"Pinky Z"}, ve.Missing)
}

func tips(thumb, index analysis.Point, session int) map[string]float64 {
	return map[string]float64{
		"Thumb X": thumb.X, "Thumb Y": thumb.Y, "Thumb Z": thumb.Z,
		"Index X": index.X, "Index Y": index.Y, "Index Z": index.Z,
		"session": float64(session),
	}
}

func TestThumbTouch_PerSessionOrdering(t *testing.T) {
	cols := []string{"Thumb X", "Thumb Y", "Thumb Z", "Index X", "Index Y", "Index Z"}
	tbl := newTable("thumb_touch", cols,
		tips(analysis.Point{0, 0, 0}, analysis.Point{3, 4, 0}, 2),
		tips(analysis.Point{0, 0, 0}, analysis.Point{0, 0, 10}, 1),
		tips(analysis.Point{1, 1, 1}, analysis.Point{1, 1, 2}, 2),
		tips(analysis.Point{0, 0, 0}, analysis.Point{6, 8, 0}, 1),
	)
	res, err := analysis.ThumbTouch(tbl)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 1, res[0].Session)
	assert.Equal(t, 2, res[1].Session)
	assert.Equal(t, 10.0, res[0].Min)
	assert.Equal(t, 10.0, res[0].Max)
	assert.Equal(t, 1.0, res[1].Min)
	assert.Equal(t, 5.0, res[1].Max)
	for _, s := range res {
		assert.LessOrEqual(t, s.Min, s.Mean)
		assert.LessOrEqual(t, s.Mean, s.Max)
	}
}

func TestPincerGrip_ComputesDistanceInline(t *testing.T) {
	cols := append([]string{"Thumb X", "Thumb Y", "Thumb Z", "Index X", "Index Y", "Index Z", "Thumb-Index Distance"},
		analysis.FlexionColumns...)
	row := tips(analysis.Point{0, 0, 0}, analysis.Point{3, 4, 0}, 1)
	for _, c := range analysis.FlexionColumns {
		row[c] = 2
	}
	row["Thumb-Index Distance"] = 999

	res, err := analysis.PincerGrip(newTable("pincer_grip", cols, row))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 5.0+18.0, res[0].Mean)
}

func TestWristAROM(t *testing.T) {
	cols := append(append([]string{}, analysis.WristROMColumns...), analysis.FingerROMColumns...)
	a := uniform(cols, 1)
	b := uniform(cols, 2)
	b["Wrist Flexion"] = math.NaN()
	res, err := analysis.WristAROM(newTable("wrist_arom", cols, withSession(a, 4), withSession(b, 4)))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].Count, "row with a blank cell is skipped")
	assert.Equal(t, 19.0, res[0].Mean)

	// Blank finger ROM cells are skipped, blank wrist cells are not.
	c := uniform(cols, 1)
	c["Index PIP"] = math.NaN()
	res, err = analysis.WristAROM(newTable("wrist_arom", cols, withSession(c, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1, res[0].Count)
	assert.Equal(t, 18.0, res[0].Mean)

	_, err = analysis.WristAROM(newTable("wrist_arom", analysis.FingerROMColumns, uniform(analysis.FingerROMColumns, 1)))
	assert.True(t, errors.Is(err, analysis.ErrMissingColumn))
}

func TestClassifyAndSegmentCycles(t *testing.T) {
	roll := []float64{0, 5, 10, 5, 0, -5}
	dirs := analysis.Classify(roll, analysis.FirstFramePronation)
	assert.Equal(t, []analysis.Direction{
		analysis.Pronation, analysis.Supination, analysis.Supination,
		analysis.Pronation, analysis.Pronation, analysis.Pronation,
	}, dirs)

	cycles := analysis.SegmentCycles(roll, dirs)
	require.Len(t, cycles, 3)
	assert.Equal(t, []float64{0, 5, 10}, []float64{cycles[0].Range(), cycles[1].Range(), cycles[2].Range()})
	assert.Equal(t, analysis.Supination, cycles[1].Direction)
	assert.Equal(t, 1, cycles[1].Start)
	assert.Equal(t, 2, cycles[1].Len)

	unclassified := analysis.Classify(roll, analysis.FirstFrameUnclassified)
	assert.Equal(t, analysis.Unclassified, unclassified[0])
	merged := analysis.SegmentCycles(roll, unclassified)
	require.Len(t, merged, 2)
	assert.Equal(t, 10.0, merged[0].Range())
	assert.Equal(t, 3, merged[0].Len)
	assert.Equal(t, 10.0, merged[1].Range())
}

func rolls(session int, palm, hand []float64) []map[string]float64 {
	out := make([]map[string]float64, len(palm))
	for i := range palm {
		out[i] = map[string]float64{"Palm Roll": palm[i], "Hand Roll": hand[i], "session": float64(session)}
	}
	return out
}

func TestPronationSupination(t *testing.T) {
	palm := []float64{0, 5, 10, 5, 0, -5}
	hand := []float64{1, 1, 1, 1, 1, 1}
	rows := append(rolls(2, palm, hand), rolls(1, []float64{0, 2}, []float64{0, 2})...)
	res, err := analysis.PronationSupination(newTable("pronation_supination", []string{"Palm Roll", "Hand Roll"}, rows...),
		analysis.FirstFramePronation)
	require.NoError(t, err)
	require.Len(t, res, 2)

	s1 := res[0]
	assert.Equal(t, 1, s1.Session)
	assert.Equal(t, 1, s1.Transitions())

	s2 := res[1]
	assert.Equal(t, 2, s2.Session)
	assert.Equal(t, 2, s2.Transitions())
	assert.Equal(t, 5.0, s2.RangeMean)
	assert.Equal(t, 10.0, s2.RangeMax)
	assert.Equal(t, 0.0, s2.HandRoll.Std)
	want := (5.0 + analysis.Summarize(palm).Std + 0) / 3
	assert.InDelta(t, want, s2.Metric, 1e-12)
}

func TestPronationSupination_MissingHandRoll(t *testing.T) {
	tbl := newTable("pronation_supination", []string{"Palm Roll"}, map[string]float64{"Palm Roll": 1, "session": 1})
	res, err := analysis.PronationSupination(tbl, analysis.FirstFramePronation)
	require.Error(t, err)
	assert.Nil(t, res)
	var ve *analysis.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"Hand Roll"}, ve.Missing)
	assert.True(t, errors.Is(err, analysis.ErrMissingColumn))
}

func TestExerciseRegistry_LongFormat(t *testing.T) {
	names := make([]string, len(analysis.Exercises))
	for i, e := range analysis.Exercises {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"make_a_fist", "thumb_touch", "pincer_grip", "wrist_arom", "pronation_supination"}, names)

	ex, ok := analysis.Lookup("make_a_fist")
	require.True(t, ok)
	assert.Equal(t, "Make A Fist", ex.Title())

	tbl := newTable("make_a_fist", analysis.HandClosureColumns,
		withSession(uniform(analysis.HandClosureColumns, 1), 2),
		withSession(uniform(analysis.HandClosureColumns, 2), 1),
		withSession(uniform(analysis.HandClosureColumns, 4), 1),
	)
	res, err := ex.Analyze(tbl, analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, "make_a_fist", res.Exercise)
	assert.Equal(t, "Total Hand Closure", res.Quantity)

	long := res.Long()
	require.Len(t, long, 10)
	assert.Equal(t, analysis.LongRecord{Session: 1, Metric: "min", Value: 30}, long[0])
	assert.Equal(t, analysis.LongRecord{Session: 2, Metric: "min", Value: 15}, long[1])
	assert.Equal(t, "max", long[2].Metric)
	assert.Equal(t, "std", long[9].Metric)
	assert.True(t, math.IsNaN(long[9].Value), "single-frame session has undefined std")

	mean, ok := res.Value(1, analysis.MetricMean)
	require.True(t, ok)
	assert.Equal(t, 45.0, mean)

	pron, ok := analysis.Lookup("pronation_supination")
	require.True(t, ok)
	pres, err := pron.Analyze(newTable("pronation_supination", []string{"Palm Roll", "Hand Roll"},
		rolls(1, []float64{0, 5, 10, 5, 0, -5}, []float64{0, 1, 0, 1, 0, 1})...), analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Pronation Supination Metric", "Palm Roll Range Mean", "Palm Roll Std", "Hand Roll Std",
	}, pres.Metrics)
	assert.Len(t, pres.Long(), 4)
}
