package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

func TestModelDropsStaleResults(t *testing.T) {
	m := New(DefaultOptions())

	first, _ := m.Search()
	m.Filters.Text = "oak"
	second, q := m.Search()
	require.Len(t, q.OrFilters, 3)

	require.True(t, m.Deliver(second, []Item{{Code: "B"}}, nil))
	require.False(t, m.Deliver(first, []Item{{Code: "A"}}, nil))

	cur, ok := m.Current()
	require.True(t, ok)
	require.Equal(t, "B", cur.Code)
}

func TestModelErrorClearsResults(t *testing.T) {
	m := New(DefaultOptions())
	seq, _ := m.Search()
	m.Deliver(seq, []Item{{Code: "A"}}, nil)

	seq, _ = m.Search()
	require.True(t, m.Deliver(seq, nil, errors.New("boom")))
	require.Empty(t, m.Results)
	_, ok := m.Current()
	require.False(t, ok)
}

func TestModelHighlightAndFind(t *testing.T) {
	m := New(DefaultOptions())
	seq, _ := m.Search()
	m.Deliver(seq, []Item{{Code: "A"}, {Code: "B"}}, nil)

	m.Highlight(1)
	cur, _ := m.Current()
	require.Equal(t, "B", cur.Code)

	m.Highlight(7)
	require.Equal(t, 1, m.Cursor)

	_, ok := m.Find("Z")
	require.False(t, ok)
}

func TestTargetAndNewRow(t *testing.T) {
	opts := DefaultOptions()
	it := Item{Code: "KIT-001", Name: "Kitchen", StockUOM: "Nos"}

	std := TargetFor(StandardProduct, opts)
	require.Equal(t, "custom_standard", std.Table)
	row := NewRow(std, it)
	require.Equal(t, "KIT-001", row.Str("item"))
	require.Equal(t, 1.0, row.Float(pricing.FieldQty))
	_, hasBase := row[pricing.FieldBaseRate]
	require.False(t, hasBase)

	items := TargetFor(CustomizedProduct, opts)
	require.Equal(t, pricing.OpportunityItems, items.Table)
	row = NewRow(items, it)
	require.Equal(t, "KIT-001", row.Str(pricing.FieldItemCode))
	require.Equal(t, 0.0, row[pricing.FieldBaseAmount])
}

func TestTargetForConfiguredStandardType(t *testing.T) {
	opts := DefaultOptions()
	opts.ItemTypes = []string{"Catalogue Product", CustomizedProduct}

	require.Equal(t, "custom_standard", TargetFor("Catalogue Product", opts).Table)
	require.Equal(t, pricing.OpportunityItems, TargetFor(StandardProduct, opts).Table)
	require.True(t, Options{}.IsStandard(StandardProduct))
}

func TestLastPriceQuery(t *testing.T) {
	q := LastPriceQuery("KIT-001", "")
	require.Len(t, q.Filters, 2)
	require.Equal(t, 1, q.Limit)
	require.Equal(t, "modified desc", q.OrderBy)

	q = LastPriceQuery("KIT-001", "Retail")
	f, ok := q.Filter("price_list")
	require.True(t, ok)
	require.Equal(t, "Retail", f.Value)
}
