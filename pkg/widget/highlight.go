package widget

import (
	"github.com/bastiangx/autocomplete/internal/utils"
)

// Match splits a dropdown row around the highlighted query.
type Match struct {
	Before string
	Text   string
	After  string
}

// String joins the parts back into the original row.
func (m Match) String() string {
	return m.Before + m.Text + m.After
}

// Highlight finds the first case-insensitive occurrence of query in item.
// When there is none, the whole item is returned in Before and found is
// false. An empty query is found at offset zero with an empty Text.
func Highlight(item, query string) (m Match, found bool) {
	start, width := utils.IndexFold(item, query)
	if start < 0 {
		return Match{Before: item}, false
	}
	return Match{
		Before: item[:start],
		Text:   item[start : start+width],
		After:  item[start+width:],
	}, true
}
