package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortForDisplay(t *testing.T) {
	in := []Node{{Key: "A", Stock: 0}, {Key: "B", Stock: 5}, {Key: "C", Stock: 0}, {Key: "D", Stock: 3}}

	out := SortForDisplay(in)
	assert.Equal(t, []string{"B", "D", "A", "C"}, keys(out))
	assert.Equal(t, []string{"A", "B", "C", "D"}, keys(in), "input is not reordered")

	assert.Empty(t, SortForDisplay(nil))
	assert.Equal(t, []string{"B", "A"}, keys(SortForDisplay([]Node{{Key: "B", Stock: 1}, {Key: "A", Stock: 9}})),
		"stock levels are not compared")
}
