package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

func openOpp(t *testing.T, f *fakeBackend, d doc.Doc) *Opportunity {
	t.Helper()
	d["name"] = "CRM-OPP-0001"
	f.put(pricing.OpportunityDoctype, d)
	o, err := OpenOpportunity(context.Background(), f, nil, selector.DefaultOptions(), "CRM-OPP-0001")
	require.NoError(t, err)
	return o
}

func TestAddStandardProduct(t *testing.T) {
	f := newFake()
	f.lists["Item Price"] = []doc.Doc{{"price_list_rate": 450.0}}
	o := openOpp(t, f, doc.Doc{"selling_price_list": "Retail"})

	table, i := o.AddItem(context.Background(), selector.Item{Code: "KIT-001", Name: "Kitchen"}, selector.StandardProduct)

	require.Equal(t, "custom_standard", table)
	require.Equal(t, 0, i)
	row := o.Form.Doc.Row(table, i)
	require.Equal(t, "KIT-001", row.Str("item"))
	require.Equal(t, 450.0, row.Float("rate"))
	require.Equal(t, 450.0, row.Float("amount"))

	q := f.queries["Item Price"][0]
	pl, ok := q.Filter("price_list")
	require.True(t, ok)
	require.Equal(t, "Retail", pl.Value)
	require.Equal(t, 1, q.Limit)
	require.Empty(t, f.saves, "selection does not save")
}

func TestAddCustomizedProductWithoutPrice(t *testing.T) {
	f := newFake()
	o := openOpp(t, f, doc.Doc{"items": []interface{}{map[string]interface{}{"item_code": "X"}}})

	table, i := o.AddItem(context.Background(), selector.Item{Code: "CP-1"}, selector.CustomizedProduct)

	require.Equal(t, "items", table)
	require.Equal(t, 1, i)
	row := o.Form.Doc.Row(table, i)
	require.Equal(t, "CP-1", row.Str("item_code"))
	require.Equal(t, 0.0, row.Float("rate"))
	require.Equal(t, 0.0, row[pricing.FieldBaseAmount])
	_, ok := f.queries["Item Price"][0].Filter("price_list")
	require.False(t, ok)
}

func TestPriceLookupFailureKeepsRate(t *testing.T) {
	f := newFake()
	f.listErr["Item Price"] = errors.New("timeout")
	log, buf := testLogger()
	o := openOpp(t, f, doc.Doc{"items": []interface{}{map[string]interface{}{"item_code": "X", "rate": 9.0, "qty": 2.0}}})
	o.Log = log

	o.SetItemCode(context.Background(), "items", 0, "Y")

	row := o.Form.Doc.Row("items", 0)
	require.Equal(t, "Y", row.Str("item_code"))
	require.Equal(t, 9.0, row.Float("rate"))
	require.Contains(t, buf.String(), "timeout")
}

func TestRateAndQtyRecalc(t *testing.T) {
	f := newFake()
	o := openOpp(t, f, doc.Doc{"items": []interface{}{map[string]interface{}{"item_code": "X", "rate": 10.0, "qty": 1.0}}})

	o.SetQty("items", 0, 3)
	o.SetRate("items", 0, 12.5)

	row := o.Form.Doc.Row("items", 0)
	require.Equal(t, 37.5, row.Float("amount"))
	require.Equal(t, 12.5, row.Float("base_rate"))
	require.Equal(t, 37.5, row.Float("base_amount"))
}

func TestOpportunitySaveZeroesPrices(t *testing.T) {
	f := newFake()
	o := openOpp(t, f, doc.Doc{"items": []interface{}{map[string]interface{}{"item_code": "X"}}})

	require.NoError(t, o.Save(context.Background()))
	require.Equal(t, 0.0, f.saves[0].Row("items", 0)["base_amount"])
}

func TestCreateCostingNote(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	f.methods[MethodMakeMappedDoc] = func(args map[string]interface{}) (interface{}, error) {
		require.Equal(t, MethodCreateCostingNote, args["method"])
		require.Equal(t, "CRM-OPP-0001", args["source_name"])
		return map[string]interface{}{"name": "new-costing-note-1", "opportunity": "CRM-OPP-0001"}, nil
	}
	o := openOpp(t, f, doc.Doc{})

	cn, err := o.CreateCostingNote(ctx)
	require.NoError(t, err)
	require.Equal(t, "Costing Note-0001", cn.Name())
	require.Equal(t, "CRM-OPP-0001", cn.Str("opportunity"))

	unsaved := &Opportunity{Backend: f, Form: NewForm(pricing.OpportunityDoctype, nil)}
	_, err = unsaved.CreateCostingNote(ctx)
	require.Error(t, err)
}

func TestMakeQuotationAddsStandardRows(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	f.methods[MethodMakeMappedDoc] = func(args map[string]interface{}) (interface{}, error) {
		require.Equal(t, MethodMakeQuotation, args["method"])
		return map[string]interface{}{
			"name":        "new-quotation-1",
			"opportunity": "CRM-OPP-0001",
			"items":       []interface{}{map[string]interface{}{"item_code": "CP-1", "qty": 1.0}},
		}, nil
	}
	o := openOpp(t, f, doc.Doc{
		"items": []interface{}{map[string]interface{}{"item_code": "CP-1", "qty": 1.0}},
		"custom_standard": []interface{}{
			map[string]interface{}{"item": "KIT-001", "item_name": "Kitchen", "qty": 2.0, "rate": 450.0},
		},
	})

	qtn, err := o.MakeQuotation(ctx)
	require.NoError(t, err)
	require.Equal(t, "Quotation-0001", qtn.Name())

	rows := qtn.Rows(pricing.QuotationItems)
	require.Len(t, rows, 2)
	require.Equal(t, "KIT-001", rows[1].Str("item_code"))
	require.Equal(t, 900.0, rows[1].Float("amount"))
	require.Len(t, f.saves, 1)

	unsaved := &Opportunity{Backend: f, Form: NewForm(pricing.OpportunityDoctype, nil)}
	_, err = unsaved.MakeQuotation(ctx)
	require.Error(t, err)
}

func TestSearchItems(t *testing.T) {
	f := newFake()
	f.lists["Item"] = []doc.Doc{{"name": "KIT-001", "item_name": "Kitchen", "custom_width": 60.0}}

	m := selector.New(selector.DefaultOptions())
	m.Filters.Width = "60"
	_, q := m.Search()

	items, err := SearchItems(context.Background(), f, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Kitchen", items[0].Title())

	w, ok := f.queries["Item"][0].Filter("custom_width")
	require.True(t, ok)
	require.Equal(t, 60.0, w.Value)
}
