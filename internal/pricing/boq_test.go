package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

func sampleBOQ() doc.Doc {
	return doc.Doc{
		"name":          "BOQ-0001",
		FieldBaseMargin: 10.0,
		FieldSMargin:    50.0,
		MaterialCosts: []interface{}{
			map[string]interface{}{FieldDirectCost: 100.0, FieldMargin: 0.0, FieldQty: 2.0},
		},
		LaborCosts: []interface{}{
			map[string]interface{}{FieldDirectCost: 40.0, FieldMargin: 0.0, FieldQty: 1.0},
		},
		ExpensesTable: []interface{}{
			map[string]interface{}{FieldCost: 15.0, FieldQty: 2.0},
		},
		ContractorsTable: []interface{}{
			map[string]interface{}{FieldCost: 100.0, FieldQty: 1.0},
		},
	}
}

func TestRecalcBOQ(t *testing.T) {
	boq := sampleBOQ()
	boq.Row(MaterialCosts, 0)[FieldMargin] = 10.0

	p, totals := RecalcBOQ(boq)

	require.Equal(t, BOQTotals{Material: 220, Labor: 40, Expenses: 30, Contractors: 100, Total: 390}, totals)

	work := boq.Clone()
	doc.Apply(work, p)
	require.Equal(t, 110.0, work.Row(MaterialCosts, 0).Float(FieldCost))
	require.Equal(t, 390.0, work.Float(FieldTotalCost))
}

func TestSyncBOQMargins(t *testing.T) {
	tests := []struct {
		name         string
		saved        *BOQMargins
		wantMaterial float64
		wantLabor    float64
	}{
		{"new document", nil, 10, 50},
		{"nothing changed", &BOQMargins{Base: 10, S: 50}, 0, 0},
		{"base changed", &BOQMargins{Base: 5, S: 50}, 10, 0},
		{"s changed", &BOQMargins{Base: 10, S: 20}, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boq := sampleBOQ()
			doc.Apply(boq, SyncBOQMargins(boq, tt.saved))
			require.Equal(t, tt.wantMaterial, boq.Row(MaterialCosts, 0).Float(FieldMargin))
			require.Equal(t, tt.wantLabor, boq.Row(LaborCosts, 0).Float(FieldMargin))
		})
	}
}

func TestValidateBOQ(t *testing.T) {
	boq := sampleBOQ()
	_, totals := ValidateBOQ(boq, nil)

	// material 100*1.1*2 + labor 40*1.5 + 30 + 100
	require.InDelta(t, 410.0, totals.Total, 1e-9)
	require.Equal(t, 0.0, boq.Row(MaterialCosts, 0).Float(FieldMargin), "input is not modified")
}

func TestApplyBOQSubmit(t *testing.T) {
	note := doc.Doc{CostingItemsTable: []interface{}{
		map[string]interface{}{"name": "row-a", FieldQty: 2.0},
		map[string]interface{}{"name": "row-b", FieldQty: 3.0},
	}}
	boq := doc.Doc{"name": "BOQ-2026-00001", FieldLineID: "row-b", FieldTotalCost: 40.0}

	doc.Apply(note, ApplyBOQSubmit(note, boq))

	row := note.Row(CostingItemsTable, 1)
	require.Equal(t, 40.0, row.Float(FieldCost))
	require.Equal(t, 120.0, row.Float(FieldTotalCost))
	require.Equal(t, "BOQ-2026-00001", row.Str(FieldBOQLink))
	require.True(t, note.Row(CostingItemsTable, 0).IsBlank(FieldCost))

	require.True(t, ApplyBOQSubmit(note, doc.Doc{"name": "BOQ-X"}).Empty())
}
