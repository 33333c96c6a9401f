package stats

import "sort"

// counter is a frequency table that remembers first-insertion order so that
// top-N truncation has a deterministic tie-break. A plain map plus a naive
// sort would leave equal counts in unspecified order; here equal counts rank
// by the order their keys first appeared.
type counter struct {
	counts map[string]int
	order  map[string]int
	keys   []string
}

func newCounter() *counter {
	return &counter{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order[key] = len(c.keys)
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *counter) len() int {
	return len(c.keys)
}

// top returns up to n entries sorted by count descending, ties broken by
// first-insertion order. n <= 0 returns all entries.
func (c *counter) top(n int) []kv {
	out := make([]kv, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, kv{Key: k, Count: c.counts[k]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return c.order[out[i].Key] < c.order[out[j].Key]
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// kv is one frequency-table entry.
type kv struct {
	Key   string
	Count int
}

// dayCounter counts messages per calendar date, remembering the order in
// which dates first appeared.
type dayCounter struct {
	counts map[Date]int
	order  []Date
}

func newDayCounter() *dayCounter {
	return &dayCounter{counts: make(map[Date]int)}
}

func (c *dayCounter) add(d Date) {
	if _, ok := c.counts[d]; !ok {
		c.order = append(c.order, d)
	}
	c.counts[d]++
}

// busiest returns the date with the highest count, first-seen date winning
// ties. Returns nil when no dates were recorded.
func (c *dayCounter) busiest() *DayCount {
	var best *DayCount
	for _, d := range c.order {
		if best == nil || c.counts[d] > best.Count {
			best = &DayCount{Date: d, Count: c.counts[d]}
		}
	}
	return best
}
