package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

func seedNote(f *fakeBackend) {
	f.put(pricing.CostingNoteDoctype, doc.Doc{
		"name":                     "CN-0001",
		"opportunity":              "CRM-OPP-0001",
		pricing.FieldDefaultMargin: 20.0,
		pricing.CostingItemsTable: []interface{}{
			map[string]interface{}{"name": "r1", "idx": 1.0, "item": "A", "cost": 100.0, "qty": 1.0, "target_selling_price": 120.0},
			map[string]interface{}{"name": "r2", "idx": 2.0, "item": "B", "cost": 100.0, "qty": 2.0, "target_selling_price": 150.0},
			map[string]interface{}{"name": "r3", "idx": 3.0, "item": "C", "cost": 100.0, "qty": 1.0},
		},
	})
}

func tspOf(cn *CostingNote, i int) float64 {
	return cn.Form.Doc.Row(pricing.CostingItemsTable, i).Float(pricing.FieldTSP)
}

func TestCostingNoteMarginFlow(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	seedNote(f)
	log, _ := testLogger()

	cn, err := OpenCostingNote(ctx, f, log, "CN-0001")
	require.NoError(t, err)
	require.Equal(t, 120.0, tspOf(cn, 2), "refresh backfills blank rows")

	cn.SetMargin(30)
	require.InDelta(t, 130.0, tspOf(cn, 0), 1e-9)
	require.Equal(t, 150.0, tspOf(cn, 1))
	require.InDelta(t, 130.0, tspOf(cn, 2), 1e-9)

	// a second change compares against 30, not the loaded 20
	cn.SetMargin(10)
	require.InDelta(t, 110.0, tspOf(cn, 0), 1e-9)

	require.NoError(t, cn.Save(ctx))
	require.False(t, cn.Form.Dirty)
	require.InDelta(t, 110.0+300.0+110.0, f.saves[0].Float("total_target_selling_price"), 1e-9)
}

func TestCostingNoteSetCost(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	f.put(pricing.CostingNoteDoctype, doc.Doc{
		"name":                     "CN-0002",
		pricing.FieldDefaultMargin: 10.0,
		pricing.CostingItemsTable: []interface{}{
			map[string]interface{}{"item": "A", "target_selling_price": ""},
		},
	})
	cn, err := OpenCostingNote(ctx, f, nil, "CN-0002")
	require.NoError(t, err)
	require.Equal(t, 0.0, tspOf(cn, 0), "backfill of a zero-cost row")

	require.NoError(t, cn.SetCost(0, 50))
	require.Equal(t, 0.0, tspOf(cn, 0), "price was no longer blank")
	require.Error(t, cn.SetCost(4, 1))
}

func TestCostingNoteLinkBOQ(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	seedNote(f)
	f.methods[MethodGetBOQTotals] = func(args map[string]interface{}) (interface{}, error) {
		require.Equal(t, "BOQ-1", args["boq_name"])
		return map[string]interface{}{"total_cost": 250.0}, nil
	}

	cn, err := OpenCostingNote(ctx, f, nil, "CN-0001")
	require.NoError(t, err)
	require.NoError(t, cn.LinkBOQ(ctx, 1, "BOQ-1"))

	row := cn.Form.Doc.Row(pricing.CostingItemsTable, 1)
	require.Equal(t, 250.0, row.Float(pricing.FieldCost))
	require.Equal(t, 500.0, row.Float(pricing.FieldTotalCost))
	require.Equal(t, 150.0, row.Float(pricing.FieldTSP))
	require.Equal(t, "BOQ-1", row.Str(pricing.FieldBOQLink))
}

func TestCostingNoteLinkBOQFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	seedNote(f)
	f.methods[MethodGetBOQTotals] = func(map[string]interface{}) (interface{}, error) {
		return nil, errors.New("permission denied")
	}
	log, buf := testLogger()

	cn, err := OpenCostingNote(ctx, f, log, "CN-0001")
	require.NoError(t, err)
	require.NoError(t, cn.LinkBOQ(ctx, 0, "BOQ-9"))

	row := cn.Form.Doc.Row(pricing.CostingItemsTable, 0)
	require.Equal(t, 100.0, row.Float(pricing.FieldCost))
	require.Equal(t, "BOQ-9", row.Str(pricing.FieldBOQLink))
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "permission denied")
}

func TestCostingNoteCreateBOQSavesFirst(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	f.methods[MethodCreateBOQ] = func(args map[string]interface{}) (interface{}, error) {
		require.NotEmpty(t, args["source_name"])
		return map[string]interface{}{"name": "BOQ-2026-00001"}, nil
	}

	cn := &CostingNote{Backend: f, Log: orDefault(nil), Form: NewForm(pricing.CostingNoteDoctype, doc.Doc{
		pricing.CostingItemsTable: []interface{}{map[string]interface{}{"item": "A"}},
	})}

	name, err := cn.CreateBOQ(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "BOQ-2026-00001", name)
	require.Len(t, f.saves, 1)
	require.Equal(t, "BOQ-2026-00001", cn.Form.Doc.Row(pricing.CostingItemsTable, 0).Str(pricing.FieldBOQLink))

	args := f.callsTo(MethodCreateBOQ)[0].Args
	require.Equal(t, cn.Form.Doc.Name(), args["source_name"])
}

func TestCostingNoteBOQChoices(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	seedNote(f)
	cn, err := OpenCostingNote(ctx, f, nil, "CN-0001")
	require.NoError(t, err)

	_, err = cn.BOQChoices(ctx, 1)
	require.NoError(t, err)
	q := f.queries[pricing.BOQDoctype][0]
	require.Equal(t, []doc.Filter{doc.Eq("item", "B")}, q.Filters)
}

func TestCostingNotePushRates(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	seedNote(f)
	f.put(pricing.OpportunityDoctype, doc.Doc{
		"name": "CRM-OPP-0001",
		"items": []interface{}{
			map[string]interface{}{"item_code": "B", "qty": 2.0},
			map[string]interface{}{"item_code": "A", "qty": 1.0},
		},
	})

	cn, err := OpenCostingNote(ctx, f, nil, "CN-0001")
	require.NoError(t, err)
	n, err := cn.PushRates(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	opp, _ := f.GetDoc(ctx, pricing.OpportunityDoctype, "CRM-OPP-0001")
	require.Equal(t, 150.0, opp.Row("items", 0).Float("rate"))
	require.Equal(t, 300.0, opp.Row("items", 0).Float("amount"))
	require.Equal(t, 120.0, opp.Row("items", 1).Float("rate"))
}

func TestCostingNotePushRatesNeedsOpportunity(t *testing.T) {
	cn := &CostingNote{Backend: newFake(), Log: orDefault(nil), Form: NewForm(pricing.CostingNoteDoctype, doc.Doc{"name": "CN-9"})}
	_, err := cn.PushRates(context.Background())
	require.Error(t, err)
}
