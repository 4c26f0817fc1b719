// Package pricing holds the money rules of costing notes, BOQs and
// opportunities: target selling prices, margin propagation, row and header
// totals.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// Costing Note fields.
const (
	CostingNoteDoctype = "Costing Note"
	CostingItemsTable  = "costing_note_items"

	FieldDefaultMargin = "default_profit_margin"
	FieldCost          = "cost"
	FieldQty           = "qty"
	FieldTSP           = "target_selling_price"
	FieldTotalCost     = "total_cost"
	FieldTotalSelling  = "total_selling"
	FieldBOQLink       = "boq_link"
	FieldItem          = "item"
)

// comparePlaces is the precision at which a stored price is considered to
// still equal a formula result.
const comparePlaces = 6

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func tsp(cost, margin float64) decimal.Decimal {
	c := decimal.NewFromFloat(cost)
	m := decimal.NewFromFloat(margin)
	return c.Mul(one.Add(m.Div(hundred)))
}

// TargetSellingPrice returns cost × (1 + margin/100).
func TargetSellingPrice(cost, margin float64) float64 {
	return tsp(cost, margin).InexactFloat64()
}

func sameAmount(a, b decimal.Decimal) bool {
	return a.Round(comparePlaces).Equal(b.Round(comparePlaces))
}

// PropagateMargin carries a change of the parent default margin into the
// rows. A row adopts the new formula price only when its stored price is
// blank or still equals what the formula gave under prevMargin; any other
// value is treated as a manual override and kept.
//
// The "still equals the old formula" test is a heuristic: a user who typed
// exactly the old formula value is indistinguishable from an untouched row.
func PropagateMargin(note doc.Doc, prevMargin float64) doc.Patch {
	var p doc.Patch
	cur := note.Float(FieldDefaultMargin)

	for i, row := range note.Rows(CostingItemsTable) {
		cost := row.Float(FieldCost)
		prevFormula := tsp(cost, prevMargin)
		curFormula := tsp(cost, cur)

		blank := row.IsBlank(FieldTSP)
		matchesPrev := sameAmount(decimal.NewFromFloat(row.Float(FieldTSP)), prevFormula)

		if blank || matchesPrev {
			p.SetRow(CostingItemsTable, i, FieldTSP, curFormula.InexactFloat64())
		}
	}
	return p
}

// BackfillTSP fills every blank row price from the parent margin.
func BackfillTSP(note doc.Doc) doc.Patch {
	var p doc.Patch
	margin := note.Float(FieldDefaultMargin)
	for i, row := range note.Rows(CostingItemsTable) {
		if row.IsBlank(FieldTSP) {
			p.SetRow(CostingItemsTable, i, FieldTSP, TargetSellingPrice(row.Float(FieldCost), margin))
		}
	}
	return p
}

// OnCostChange sets the row price after its cost changed, only if the price
// is still blank.
func OnCostChange(note doc.Doc, i int) doc.Patch {
	var p doc.Patch
	row := note.Row(CostingItemsTable, i)
	if row == nil || !row.IsBlank(FieldTSP) {
		return p
	}
	p.SetRow(CostingItemsTable, i, FieldTSP, TargetSellingPrice(row.Float(FieldCost), note.Float(FieldDefaultMargin)))
	return p
}

// ApplyBOQTotal pulls a linked BOQ's total cost into row i.
func ApplyBOQTotal(note doc.Doc, i int, totalCost float64) doc.Patch {
	var p doc.Patch
	row := note.Row(CostingItemsTable, i)
	if row == nil {
		return p
	}

	tc := decimal.NewFromFloat(totalCost)
	p.SetRow(CostingItemsTable, i, FieldCost, totalCost)
	p.SetRow(CostingItemsTable, i, FieldTotalCost, tc.Mul(decimal.NewFromFloat(row.Float(FieldQty))).InexactFloat64())
	if row.IsBlank(FieldTSP) {
		p.SetRow(CostingItemsTable, i, FieldTSP, TargetSellingPrice(totalCost, note.Float(FieldDefaultMargin)))
	}
	return p
}

// BOQLinkFilters restricts the BOQ dropdown of a row to BOQs for its item.
func BOQLinkFilters(row doc.Doc) []doc.Filter {
	var item interface{}
	if row != nil && !row.IsBlank(FieldItem) {
		item = row.Str(FieldItem)
	}
	return []doc.Filter{doc.Eq(FieldItem, item)}
}

// NoteTotals are the header roll-ups of a costing note.
type NoteTotals struct {
	TotalCost    float64
	TotalSelling float64
	TotalProfit  float64
	// ProfitMargin is a ratio of TotalCost, not a percentage.
	ProfitMargin float64
}

// CostingNoteTotals computes row and header totals from stored prices. Row
// prices are taken as they are, overrides included.
func CostingNoteTotals(note doc.Doc) (doc.Patch, NoteTotals) {
	var p doc.Patch
	costSum := decimal.Zero
	sellSum := decimal.Zero

	for i, row := range note.Rows(CostingItemsTable) {
		qty := decimal.NewFromFloat(row.Float(FieldQty))
		rowCost := decimal.NewFromFloat(row.Float(FieldCost)).Mul(qty)
		rowSell := decimal.NewFromFloat(row.Float(FieldTSP)).Mul(qty)

		p.SetRow(CostingItemsTable, i, FieldTotalCost, rowCost.InexactFloat64())
		p.SetRow(CostingItemsTable, i, FieldTotalSelling, rowSell.InexactFloat64())

		costSum = costSum.Add(rowCost)
		sellSum = sellSum.Add(rowSell)
	}

	profit := sellSum.Sub(costSum)
	margin := decimal.Zero
	if !costSum.IsZero() {
		margin = profit.Div(costSum)
	}

	t := NoteTotals{
		TotalCost:    costSum.InexactFloat64(),
		TotalSelling: sellSum.InexactFloat64(),
		TotalProfit:  profit.InexactFloat64(),
		ProfitMargin: margin.InexactFloat64(),
	}
	p.Set(FieldTotalCost, t.TotalCost)
	p.Set("total_target_selling_price", t.TotalSelling)
	p.Set("total_profit", t.TotalProfit)
	p.Set("profit_margin", t.ProfitMargin)
	return p, t
}
