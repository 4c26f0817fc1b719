package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// BOQ tables and fields.
const (
	BOQDoctype = "BOQ"

	MaterialCosts    = "material_costs"
	LaborCosts       = "labor_costs"
	ExpensesTable    = "expenses_table"
	ContractorsTable = "contractors_table"

	FieldDirectCost = "direct_cost"
	FieldMargin     = "margin"
	FieldBaseMargin = "base_margin"
	FieldSMargin    = "s_margin"
)

// BOQMargins are the header margins as last saved.
type BOQMargins struct {
	Base float64
	S    float64
}

// BOQTotals are the header roll-ups of a BOQ.
type BOQTotals struct {
	Material    float64
	Labor       float64
	Expenses    float64
	Contractors float64
	Total       float64
}

// SyncBOQMargins pushes the header margins into the rows, but only for a
// header value that changed since the last save (saved == nil means the BOQ
// was never saved). Material rows follow base_margin, labor rows s_margin.
func SyncBOQMargins(boq doc.Doc, saved *BOQMargins) doc.Patch {
	var p doc.Patch
	base := boq.Float(FieldBaseMargin)
	s := boq.Float(FieldSMargin)

	if saved == nil || saved.Base != base {
		for i := range boq.Rows(MaterialCosts) {
			p.SetRow(MaterialCosts, i, FieldMargin, base)
		}
	}
	if saved == nil || saved.S != s {
		for i := range boq.Rows(LaborCosts) {
			p.SetRow(LaborCosts, i, FieldMargin, s)
		}
	}
	return p
}

// RecalcBOQ recomputes row costs and header totals. Material and labor rows
// derive cost from direct_cost and margin; expense and contractor rows carry
// their cost as entered.
func RecalcBOQ(boq doc.Doc) (doc.Patch, BOQTotals) {
	var p doc.Patch

	material := recalcMarginRows(&p, boq, MaterialCosts)
	labor := recalcMarginRows(&p, boq, LaborCosts)
	expenses := recalcSimpleRows(&p, boq, ExpensesTable)
	contractors := recalcSimpleRows(&p, boq, ContractorsTable)
	total := material.Add(labor).Add(expenses).Add(contractors)

	t := BOQTotals{
		Material:    material.InexactFloat64(),
		Labor:       labor.InexactFloat64(),
		Expenses:    expenses.InexactFloat64(),
		Contractors: contractors.InexactFloat64(),
		Total:       total.InexactFloat64(),
	}
	p.Set("total_material_costs", t.Material)
	p.Set("total_labor_costs", t.Labor)
	p.Set("total_expenses", t.Expenses)
	p.Set("total_contractors", t.Contractors)
	p.Set(FieldTotalCost, t.Total)
	return p, t
}

// ValidateBOQ runs the margin sync and the recalculation the way a save
// would, on a copy of boq.
func ValidateBOQ(boq doc.Doc, saved *BOQMargins) (doc.Patch, BOQTotals) {
	work := boq.Clone()
	p := SyncBOQMargins(work, saved)
	doc.Apply(work, p)

	recalc, totals := RecalcBOQ(work)
	p.Merge(recalc)
	return p, totals
}

func recalcMarginRows(p *doc.Patch, boq doc.Doc, table string) decimal.Decimal {
	sum := decimal.Zero
	for i, row := range boq.Rows(table) {
		cost := tsp(row.Float(FieldDirectCost), row.Float(FieldMargin))
		total := cost.Mul(decimal.NewFromFloat(row.Float(FieldQty)))

		p.SetRow(table, i, FieldCost, cost.InexactFloat64())
		p.SetRow(table, i, FieldTotalCost, total.InexactFloat64())
		sum = sum.Add(total)
	}
	return sum
}

func recalcSimpleRows(p *doc.Patch, boq doc.Doc, table string) decimal.Decimal {
	sum := decimal.Zero
	for i, row := range boq.Rows(table) {
		total := decimal.NewFromFloat(row.Float(FieldCost)).Mul(decimal.NewFromFloat(row.Float(FieldQty)))
		p.SetRow(table, i, FieldTotalCost, total.InexactFloat64())
		sum = sum.Add(total)
	}
	return sum
}

// Fields linking a BOQ back to the costing-note row it prices.
const (
	FieldCostingNote = "costing_note"
	FieldLineID      = "line_id"
)

// ApplyBOQSubmit copies a submitted BOQ's total cost into the costing-note
// row it was created for, and links the row to it.
func ApplyBOQSubmit(note, boq doc.Doc) doc.Patch {
	var p doc.Patch
	lineID := boq.Str(FieldLineID)
	if lineID == "" {
		return p
	}
	for i, row := range note.Rows(CostingItemsTable) {
		if row.Name() != lineID {
			continue
		}
		cost := boq.Float(FieldTotalCost)
		p.SetRow(CostingItemsTable, i, FieldCost, cost)
		p.SetRow(CostingItemsTable, i, FieldTotalCost,
			decimal.NewFromFloat(cost).Mul(decimal.NewFromFloat(row.Float(FieldQty))).InexactFloat64())
		p.SetRow(CostingItemsTable, i, FieldBOQLink, boq.Name())
		break
	}
	return p
}
