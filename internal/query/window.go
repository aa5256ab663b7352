package query

// MostRecent returns exactly one row per partition: the row with the
// maximum value in dateCol. Ties on the date are broken by the greater
// tieBreakCol value, so the winner is deterministic under any input
// permutation. Rows missing the partition key or the date are dropped.
func MostRecent(t *Table, partitionCol, dateCol, tieBreakCol string) *Table {
	out := NewTable(t.Columns...)

	winners := make(map[string]Row)
	order := make([]string, 0)

	for _, r := range t.Rows {
		k, ok := ColumnKey(partitionCol)(r)
		if !ok {
			continue
		}
		d, ok := r.Time(dateCol)
		if !ok {
			continue
		}
		cur, seen := winners[k]
		if !seen {
			winners[k] = r
			order = append(order, k)
			continue
		}
		cd, _ := cur.Time(dateCol)
		switch {
		case d.After(cd):
			winners[k] = r
		case d.Equal(cd):
			nv, _ := r.Float(tieBreakCol)
			cv, _ := cur.Float(tieBreakCol)
			if nv > cv {
				winners[k] = r
			}
		}
	}

	for _, k := range order {
		out.Append(winners[k])
	}
	return out
}

// PartitionMean computes the mean of valueCol across every row of each
// partition, keyed by the partition value. All rows participate; in
// particular the row MostRecent would pick is not excluded from its
// own partition's mean. A size-1 partition's mean equals its single
// value exactly.
func PartitionMean(t *Table, partitionCol, valueCol string) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range t.Rows {
		k, ok := ColumnKey(partitionCol)(r)
		if !ok {
			continue
		}
		v, ok := r.Float(valueCol)
		if !ok {
			continue
		}
		sums[k] += v
		counts[k]++
	}
	means := make(map[string]float64, len(sums))
	for k, s := range sums {
		means[k] = s / float64(counts[k])
	}
	return means
}
