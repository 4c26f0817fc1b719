package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// Quotation fields.
const (
	QuotationDoctype = "Quotation"
	QuotationItems   = "items"
)

// QuotationRow maps a standard-product row of an opportunity to a quotation
// item. A blank amount is qty × rate.
func QuotationRow(r doc.Doc) doc.Doc {
	qty := r.Float(FieldQty)
	rate := r.Float(FieldRate)
	amount := r.Float(FieldAmount)
	if r.IsBlank(FieldAmount) {
		amount = decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
	}
	return doc.Doc{
		FieldItemCode:       r.Str("item"),
		"item_name":         r.Str("item_name"),
		"description":       r.Str("description"),
		"uom":               r.Str("uom"),
		"conversion_factor": 1.0,
		FieldQty:            qty,
		FieldRate:           rate,
		FieldAmount:         amount,
	}
}

// MergeStandardRows appends the opportunity's standard-product rows to a
// mapped quotation. Rows the mapper already carried over are not added
// again: quotation items are first claimed by the opportunity's own items
// (by code), then by standard rows with the same code, qty and rate.
func MergeStandardRows(qtn, opp doc.Doc, standardTable string) doc.Patch {
	var p doc.Patch
	existing := qtn.Rows(QuotationItems)
	claimed := make(map[int]bool)

	claim := func(match func(doc.Doc) bool) bool {
		for j, q := range existing {
			if !claimed[j] && match(q) {
				claimed[j] = true
				return true
			}
		}
		return false
	}

	for _, it := range opp.Rows(OpportunityItems) {
		code := it.Str(FieldItemCode)
		claim(func(q doc.Doc) bool { return q.Str(FieldItemCode) == code })
	}

	for _, r := range opp.Rows(standardTable) {
		row := QuotationRow(r)
		if row.Str(FieldItemCode) == "" {
			continue
		}
		found := claim(func(q doc.Doc) bool {
			return q.Str(FieldItemCode) == row.Str(FieldItemCode) &&
				sameAmount(decimal.NewFromFloat(q.Float(FieldQty)), decimal.NewFromFloat(row.Float(FieldQty))) &&
				sameAmount(decimal.NewFromFloat(q.Float(FieldRate)), decimal.NewFromFloat(row.Float(FieldRate)))
		})
		if !found {
			p.Append(QuotationItems, row)
		}
	}
	return p
}
