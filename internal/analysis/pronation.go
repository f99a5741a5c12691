package analysis

import (
	"math"

	"github.com/KaramelBytes/leapmetrics-cli/internal/recording"
)

const (
	ColPalmRoll = "Palm Roll"
	ColHandRoll = "Hand Roll"
)

// Direction is the forearm rotation inferred from the change in palm roll.
type Direction int

const (
	Unclassified Direction = iota
	Pronation
	Supination
)

func (d Direction) String() string {
	switch d {
	case Pronation:
		return "Pronation"
	case Supination:
		return "Supination"
	default:
		return "Unclassified"
	}
}

// FirstFramePolicy decides how the first frame of a session, which has no
// previous frame to diff against, is classified.
type FirstFramePolicy int

const (
	// FirstFramePronation classifies the first frame as Pronation, like any
	// other non-positive change.
	FirstFramePronation FirstFramePolicy = iota
	// FirstFrameUnclassified leaves the first frame Unclassified; it then joins
	// the session's first classified cycle.
	FirstFrameUnclassified
)

// Cycle is a maximal run of consecutive frames sharing one direction.
type Cycle struct {
	Direction Direction
	Start     int // index of the first frame within the session
	Len       int
	Min       float64
	Max       float64
}

// Range is the palm roll excursion covered by the cycle.
func (c Cycle) Range() float64 { return c.Max - c.Min }

// PronationSession is the pronation/supination result for one session.
type PronationSession struct {
	Session int
	// Metric is (RangeMean + PalmRoll.Std + HandRoll.Std) / 3.
	Metric    float64
	RangeMean float64
	RangeMax  float64
	PalmRoll  Summary
	HandRoll  Summary
	Cycles    []Cycle
}

// Transitions is the number of direction changes within the session.
func (p PronationSession) Transitions() int {
	if len(p.Cycles) == 0 {
		return 0
	}
	return len(p.Cycles) - 1
}

// Classify labels every frame of one session's palm roll sequence:
// Supination when roll increased since the previous frame, otherwise
// Pronation.
func Classify(palmRoll []float64, policy FirstFramePolicy) []Direction {
	dirs := make([]Direction, len(palmRoll))
	for i := range palmRoll {
		if i == 0 {
			if policy == FirstFrameUnclassified {
				dirs[i] = Unclassified
			} else {
				dirs[i] = Pronation
			}
			continue
		}
		// A NaN change compares false and lands on Pronation.
		if palmRoll[i]-palmRoll[i-1] > 0 {
			dirs[i] = Supination
		} else {
			dirs[i] = Pronation
		}
	}
	return dirs
}

// SegmentCycles splits a session into cycles, starting a new one whenever
// the direction differs from the previous frame's. A leading Unclassified
// frame is folded into the cycle that follows it.
func SegmentCycles(palmRoll []float64, dirs []Direction) []Cycle {
	if len(dirs) == 0 {
		return nil
	}
	eff := make([]Direction, len(dirs))
	copy(eff, dirs)
	if eff[0] == Unclassified && len(eff) > 1 {
		eff[0] = eff[1]
	}
	var cycles []Cycle
	for i, d := range eff {
		if i == 0 || d != eff[i-1] {
			cycles = append(cycles, Cycle{Direction: d, Start: i, Min: math.NaN(), Max: math.NaN()})
		}
		c := &cycles[len(cycles)-1]
		c.Len++
		v := palmRoll[i]
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(c.Min) || v < c.Min {
			c.Min = v
		}
		if math.IsNaN(c.Max) || v > c.Max {
			c.Max = v
		}
	}
	return cycles
}

// PronationSupination detects rotation cycles in the palm roll of every
// session and combines the mean cycle range with the spread of palm roll and
// hand roll into one score per session.
func PronationSupination(t *recording.Table, policy FirstFramePolicy) ([]PronationSession, error) {
	if err := missingColumns("pronation_supination",
		t.MissingColumns(ColPalmRoll, ColHandRoll, recording.ColSession)); err != nil {
		return nil, err
	}
	palm := map[int][]float64{}
	hand := map[int][]float64{}
	for _, r := range t.Rows {
		palm[r.Session] = append(palm[r.Session], valueOf(r, ColPalmRoll))
		hand[r.Session] = append(hand[r.Session], valueOf(r, ColHandRoll))
	}

	out := make([]PronationSession, 0, len(palm))
	for _, s := range t.Sessions() {
		cycles := SegmentCycles(palm[s], Classify(palm[s], policy))
		ranges := make([]float64, len(cycles))
		for i, c := range cycles {
			ranges[i] = c.Range()
		}
		rs := Summarize(ranges)
		ps := PronationSession{
			Session:   s,
			RangeMean: rs.Mean,
			RangeMax:  rs.Max,
			PalmRoll:  Summarize(palm[s]),
			HandRoll:  Summarize(hand[s]),
			Cycles:    cycles,
		}
		ps.Metric = (ps.RangeMean + ps.PalmRoll.Std + ps.HandRoll.Std) / 3
		out = append(out, ps)
	}
	return out, nil
}
