package variant

import "sort"

// SortForDisplay returns a copy with in-stock options first. Relative order
// inside each group is preserved; stock levels are not otherwise compared.
func SortForDisplay(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stock > 0 && out[j].Stock <= 0
	})
	return out
}
