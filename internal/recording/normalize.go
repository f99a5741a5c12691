package recording

type groupKey struct {
	client   string
	session  int
	exercise string
}

// NormalizeTime stamps every row with its fractional position within its
// (client, session, exercise) group: cumulative count divided by group size,
// so values fall in [0, 1) in table order.
func NormalizeTime(t *Table) {
	if t == nil {
		return
	}
	sizes := make(map[groupKey]int)
	for _, r := range t.Rows {
		sizes[keyOf(r)]++
	}
	seen := make(map[groupKey]int, len(sizes))
	for i := range t.Rows {
		k := keyOf(t.Rows[i])
		t.Rows[i].NormalizedTime = float64(seen[k]) / float64(sizes[k])
		seen[k]++
	}
}

func keyOf(r Row) groupKey {
	return groupKey{client: r.Client, session: r.Session, exercise: r.Exercise}
}
