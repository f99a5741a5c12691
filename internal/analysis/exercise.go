package analysis

import (
	"strings"

	"github.com/KaramelBytes/leapmetrics-cli/internal/recording"
)

// Metric names of the per-session statistics, in export order.
const (
	MetricMin    = "min"
	MetricMax    = "max"
	MetricMean   = "mean"
	MetricMedian = "median"
	MetricStd    = "std"

	MetricPronationSupination = "Pronation Supination Metric"
	MetricPalmRollRangeMean   = "Palm Roll Range Mean"
	MetricPalmRollStd         = "Palm Roll Std"
	MetricHandRollStd         = "Hand Roll Std"
)

var summaryMetrics = []string{MetricMin, MetricMax, MetricMean, MetricMedian, MetricStd}

// Options tunes exercise analysis.
type Options struct {
	FirstFrame FirstFramePolicy
}

// Exercise is a named motion task with its metric definition.
type Exercise struct {
	Name     string
	Quantity string
	Columns  []string
	analyze  func(*recording.Table, Options) (*Result, error)
}

// Title renders the exercise name for display, e.g. "Make A Fist".
func (e Exercise) Title() string { return Title(e.Name) }

// Analyze computes the per-session metrics of the exercise's rows.
func (e Exercise) Analyze(t *recording.Table, opt Options) (*Result, error) {
	res, err := e.analyze(t, opt)
	if err != nil {
		return nil, err
	}
	res.Exercise = e.Name
	res.Quantity = e.Quantity
	return res, nil
}

// Exercises is the fixed analysis order.
var Exercises = []Exercise{
	{
		Name:     "make_a_fist",
		Quantity: "Total Hand Closure",
		Columns:  HandClosureColumns,
		analyze:  summarized(MakeAFist),
	},
	{
		Name:     "thumb_touch",
		Quantity: "Thumb-Index Distance",
		Columns:  concat(ThumbTipColumns[:], IndexTipColumns[:]),
		analyze:  summarized(ThumbTouch),
	},
	{
		Name:     "pincer_grip",
		Quantity: "Pincer Grip Metric",
		Columns:  concat(ThumbTipColumns[:], IndexTipColumns[:], FlexionColumns),
		analyze:  summarized(PincerGrip),
	},
	{
		Name:     "wrist_arom",
		Quantity: "Wrist AROM Metric",
		Columns:  concat(WristROMColumns, FingerROMColumns),
		analyze:  summarized(WristAROM),
	},
	{
		Name:     "pronation_supination",
		Quantity: MetricPronationSupination,
		Columns:  []string{ColPalmRoll, ColHandRoll, recording.ColSession},
		analyze:  analyzePronation,
	},
}

// Lookup finds a registered exercise by name.
func Lookup(name string) (Exercise, bool) {
	for _, e := range Exercises {
		if e.Name == name {
			return e, true
		}
	}
	return Exercise{}, false
}

// Title turns a snake_case exercise name into title case.
func Title(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func summarized(fn func(*recording.Table) ([]SessionSummary, error)) func(*recording.Table, Options) (*Result, error) {
	return func(t *recording.Table, _ Options) (*Result, error) {
		sums, err := fn(t)
		if err != nil {
			return nil, err
		}
		res := &Result{Metrics: summaryMetrics}
		for _, s := range sums {
			res.Sessions = append(res.Sessions, SessionRow{
				Session: s.Session,
				Values:  []float64{s.Min, s.Max, s.Mean, s.Median, s.Std},
			})
		}
		return res, nil
	}
}

func analyzePronation(t *recording.Table, opt Options) (*Result, error) {
	sessions, err := PronationSupination(t, opt.FirstFrame)
	if err != nil {
		return nil, err
	}
	res := &Result{Metrics: []string{
		MetricPronationSupination, MetricPalmRollRangeMean, MetricPalmRollStd, MetricHandRollStd,
	}}
	for _, s := range sessions {
		res.Sessions = append(res.Sessions, SessionRow{
			Session: s.Session,
			Values:  []float64{s.Metric, s.RangeMean, s.PalmRoll.Std, s.HandRoll.Std},
		})
	}
	return res, nil
}

// Result is the per-session metric table of one exercise.
type Result struct {
	Exercise string
	Quantity string
	Metrics  []string
	Sessions []SessionRow
}

// SessionRow holds one session's values, aligned with Result.Metrics.
type SessionRow struct {
	Session int
	Values  []float64
}

// LongRecord is one (session, metric, value) cell of a result.
type LongRecord struct {
	Session int
	Metric  string
	Value   float64
}

// Long reshapes the result metric by metric, sessions ascending within each.
func (r *Result) Long() []LongRecord {
	out := make([]LongRecord, 0, len(r.Metrics)*len(r.Sessions))
	for mi, m := range r.Metrics {
		for _, s := range r.Sessions {
			out = append(out, LongRecord{Session: s.Session, Metric: m, Value: s.Values[mi]})
		}
	}
	return out
}

// Value returns the named metric of one session.
func (r *Result) Value(session int, metric string) (float64, bool) {
	mi := -1
	for i, m := range r.Metrics {
		if m == metric {
			mi = i
			break
		}
	}
	if mi < 0 {
		return 0, false
	}
	for _, s := range r.Sessions {
		if s.Session == session {
			return s.Values[mi], true
		}
	}
	return 0, false
}
