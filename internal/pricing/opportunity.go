package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// Opportunity fields.
const (
	OpportunityDoctype = "Opportunity"
	OpportunityItems   = "items"

	FieldItemCode   = "item_code"
	FieldRate       = "rate"
	FieldAmount     = "amount"
	FieldBaseRate   = "base_rate"
	FieldBaseAmount = "base_amount"
)

// RecalcRow recomputes amount = rate × qty for an opportunity row and mirrors
// both into the base currency fields.
func RecalcRow(table string, i int, row doc.Doc) doc.Patch {
	var p doc.Patch
	rate := row.Float(FieldRate)
	qty := row.Float(FieldQty)
	amount := decimal.NewFromFloat(rate).Mul(decimal.NewFromFloat(qty)).InexactFloat64()

	p.SetRow(table, i, FieldRate, rate)
	p.SetRow(table, i, FieldQty, qty)
	p.SetRow(table, i, FieldAmount, amount)
	p.SetRow(table, i, FieldBaseRate, rate)
	p.SetRow(table, i, FieldBaseAmount, amount)
	return p
}

// SetRate sets a row's rate and recomputes its amounts.
func SetRate(table string, i int, row doc.Doc, rate float64) doc.Patch {
	r := row.Clone()
	r[FieldRate] = rate
	return RecalcRow(table, i, r)
}

// ZeroPrices defaults missing price fields of opportunity items to 0, so rows
// without a price can still be saved.
func ZeroPrices(opp doc.Doc) doc.Patch {
	var p doc.Patch
	for i, row := range opp.Rows(OpportunityItems) {
		for _, f := range []string{FieldRate, FieldAmount, FieldBaseRate, FieldBaseAmount} {
			if v, ok := row[f]; !ok || v == nil {
				p.SetRow(OpportunityItems, i, f, 0.0)
			}
		}
	}
	return p
}

// PushRatesToOpportunity copies submitted costing-note prices into the linked
// opportunity. Each costing row claims the first unclaimed opportunity item
// with the same code, or else the item at its own position.
func PushRatesToOpportunity(note, opp doc.Doc) doc.Patch {
	var p doc.Patch
	items := opp.Rows(OpportunityItems)
	matched := make(map[int]bool)

	for _, cnr := range note.Rows(CostingItemsTable) {
		code := cnr.Str(FieldItem)
		price := decimal.NewFromFloat(cnr.Float(FieldTSP))

		target := -1
		for j, it := range items {
			if matched[j] {
				continue
			}
			if it.Str(FieldItemCode) == code {
				target = j
				break
			}
		}

		if target < 0 {
			idx := cnr.Int("idx")
			if idx == 0 {
				idx = 1
			}
			if idx-1 >= 0 && idx-1 < len(items) {
				target = idx - 1
			}
		}

		if target < 0 {
			continue
		}

		amount := price.Mul(decimal.NewFromFloat(items[target].Float(FieldQty))).InexactFloat64()
		p.SetRow(OpportunityItems, target, FieldRate, price.InexactFloat64())
		p.SetRow(OpportunityItems, target, FieldBaseRate, price.InexactFloat64())
		p.SetRow(OpportunityItems, target, FieldAmount, amount)
		p.SetRow(OpportunityItems, target, FieldBaseAmount, amount)
		matched[target] = true
	}
	return p
}
