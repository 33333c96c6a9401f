package stats

import "sort"

// LongestRun finds the longest run of consecutive calendar days in the
// given set of active dates. On ties the earliest run in sorted order wins:
// a later run must be strictly longer to displace the current best. An
// empty set yields a zero-length Streak.
func LongestRun(dates map[Date]struct{}) Streak {
	if len(dates) == 0 {
		return Streak{}
	}

	sorted := make([]Date, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best := Streak{Length: 1, Start: sorted[0], End: sorted[0]}
	cur := best

	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1].Next() {
			cur.Length++
			cur.End = sorted[i]
		} else {
			cur = Streak{Length: 1, Start: sorted[i], End: sorted[i]}
		}
		if cur.Length > best.Length {
			best = cur
		}
	}

	return best
}
