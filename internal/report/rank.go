package report

import (
	"sort"

	"scaffold/internal/linkage"
)

// Less orders edges by descending support, then by creation order.
func Less(a, b linkage.Edge) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Seq < b.Seq
}

// Rank returns the edges in report order. The input slice is sorted in place.
func Rank(edges []linkage.Edge) []linkage.Edge {
	sort.SliceStable(edges, func(i, j int) bool { return Less(edges[i], edges[j]) })
	return edges
}
