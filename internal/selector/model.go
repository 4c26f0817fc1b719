package selector

import "github.com/connect4systems/c4pricing-cli/internal/doc"

// Model holds the dialog state between renders. Every filter change starts a
// new search; answers from older searches are ignored.
type Model struct {
	Options Options
	Filters Filters
	Results []Item
	// Cursor is the highlighted result, -1 when there is none.
	Cursor int
	Err    error

	seq uint64
}

// New opens the dialog with default filters.
func New(opts Options) *Model {
	return &Model{Options: opts, Filters: DefaultFilters(opts), Cursor: -1}
}

// Search starts a search for the current filters and returns its sequence
// number and query.
func (m *Model) Search() (uint64, doc.ListQuery) {
	m.seq++
	return m.seq, m.Filters.Query(m.Options)
}

// Deliver stores the answer of search seq. It reports false and changes
// nothing when a newer search has been started since.
func (m *Model) Deliver(seq uint64, items []Item, err error) bool {
	if seq != m.seq {
		return false
	}
	m.Err = err
	if err != nil {
		m.Results = nil
		m.Cursor = -1
		return true
	}
	m.Results = items
	m.Cursor = -1
	if len(items) > 0 {
		m.Cursor = 0
	}
	return true
}

// Highlight moves the cursor to result i.
func (m *Model) Highlight(i int) {
	if i >= 0 && i < len(m.Results) {
		m.Cursor = i
	}
}

// Current returns the highlighted result.
func (m *Model) Current() (Item, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Results) {
		return Item{}, false
	}
	return m.Results[m.Cursor], true
}

// Target is where the highlighted result would be added.
func (m *Model) Target() Target {
	return TargetFor(m.Filters.ItemType, m.Options)
}

// Find looks a result up by item code.
func (m *Model) Find(code string) (Item, bool) {
	for _, it := range m.Results {
		if it.Code == code {
			return it, true
		}
	}
	return Item{}, false
}
