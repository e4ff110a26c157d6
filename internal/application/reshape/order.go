package reshape

import (
	"sort"
	"strconv"
	"strings"
)

// monthOrder fixes chronological ordering for derived month columns; a
// lexicographic sort would put April before January.
var monthOrder = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// leadTimeOrder fixes the ordering of lead-time buckets, which are neither
// lexicographic nor numeric as strings.
var leadTimeOrder = map[string]int{
	"0": 1, "1-7": 2, "8-15": 3, "16-30": 4,
	"31-90": 5, "91-180": 6, "181-365": 7, "+365": 8,
}

// compareCells orders two grouping-key values. Total rows sort last; month
// names sort chronologically; lead-time buckets sort by range; pure numbers
// sort numerically; everything else sorts as plain strings.
func compareCells(a, b string) int {
	if a == b {
		return 0
	}
	if a == TotalGroup {
		return 1
	}
	if b == TotalGroup {
		return -1
	}
	if ka, ok := monthOrder[a]; ok {
		if kb, ok := monthOrder[b]; ok {
			return ka - kb
		}
	}
	if ka, ok := leadTimeOrder[a]; ok {
		if kb, ok := leadTimeOrder[b]; ok {
			return ka - kb
		}
	}
	if na, errA := strconv.ParseFloat(a, 64); errA == nil {
		if nb, errB := strconv.ParseFloat(b, 64); errB == nil {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a, b)
}

// compareKeys orders two grouping-key tuples column by column.
func compareKeys(a, b string) int {
	pa, pb := splitKey(a), splitKey(b)
	for i := range pa {
		if i >= len(pb) {
			return 1
		}
		if c := compareCells(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	if len(pa) < len(pb) {
		return -1
	}
	return 0
}

// sortedKeys returns the map keys in output order.
func sortedKeys(counts map[string]*counter) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})
	return keys
}
