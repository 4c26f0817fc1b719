package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

func TestRecalcRow(t *testing.T) {
	opp := doc.Doc{OpportunityItems: []interface{}{
		map[string]interface{}{FieldItemCode: "A", FieldRate: 12.5, FieldQty: 4.0},
	}}

	doc.Apply(opp, RecalcRow(OpportunityItems, 0, opp.Row(OpportunityItems, 0)))
	row := opp.Row(OpportunityItems, 0)

	require.Equal(t, 50.0, row.Float(FieldAmount))
	require.Equal(t, 12.5, row.Float(FieldBaseRate))
	require.Equal(t, 50.0, row.Float(FieldBaseAmount))
}

func TestSetRate(t *testing.T) {
	row := doc.Doc{FieldQty: 3.0, FieldRate: 0.0}
	p := SetRate(OpportunityItems, 2, row, 7)

	v, ok := p.Value(OpportunityItems, 2, FieldAmount)
	require.True(t, ok)
	require.Equal(t, 21.0, v)
	require.Equal(t, 0.0, row.Float(FieldRate), "row passed in is not modified")
}

func TestZeroPrices(t *testing.T) {
	opp := doc.Doc{OpportunityItems: []interface{}{
		map[string]interface{}{FieldItemCode: "A"},
		map[string]interface{}{FieldItemCode: "B", FieldRate: 5.0, FieldAmount: 5.0, FieldBaseRate: 5.0, FieldBaseAmount: 5.0},
	}}

	p := ZeroPrices(opp)
	require.Len(t, p.Changes, 4)
	doc.Apply(opp, p)
	require.Equal(t, 0.0, opp.Row(OpportunityItems, 0)[FieldBaseAmount])
}

func TestPushRatesToOpportunity(t *testing.T) {
	note := doc.Doc{CostingItemsTable: []interface{}{
		map[string]interface{}{"idx": 1.0, FieldItem: "B", FieldTSP: 200.0},
		map[string]interface{}{"idx": 2.0, FieldItem: "B", FieldTSP: 300.0},
		map[string]interface{}{"idx": 3.0, FieldItem: "Z", FieldTSP: 50.0},
	}}
	opp := doc.Doc{OpportunityItems: []interface{}{
		map[string]interface{}{FieldItemCode: "B", FieldQty: 2.0},
		map[string]interface{}{FieldItemCode: "B", FieldQty: 1.0},
		map[string]interface{}{FieldItemCode: "C", FieldQty: 3.0},
	}}

	doc.Apply(opp, PushRatesToOpportunity(note, opp))
	rows := opp.Rows(OpportunityItems)

	require.Equal(t, 200.0, rows[0].Float(FieldRate))
	require.Equal(t, 400.0, rows[0].Float(FieldAmount))
	require.Equal(t, 300.0, rows[1].Float(FieldRate), "second B claims the next unmatched B")
	require.Equal(t, 50.0, rows[2].Float(FieldRate), "unknown code falls back to its index")
	require.Equal(t, 150.0, rows[2].Float(FieldBaseAmount))
}

func TestPushRatesIndexOutOfRange(t *testing.T) {
	note := doc.Doc{CostingItemsTable: []interface{}{
		map[string]interface{}{"idx": 7.0, FieldItem: "X", FieldTSP: 1.0},
	}}
	opp := doc.Doc{OpportunityItems: []interface{}{
		map[string]interface{}{FieldItemCode: "A", FieldQty: 1.0},
	}}
	require.True(t, PushRatesToOpportunity(note, opp).Empty())
}
