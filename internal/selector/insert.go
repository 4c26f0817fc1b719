package selector

import (
	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// Target is the opportunity table a selected item lands in.
type Target struct {
	Table     string
	Doctype   string
	ItemField string
	// BaseFields means the row carries base_rate and base_amount.
	BaseFields bool
}

// TargetFor picks the table for an item type: standard products go to the
// standard table, everything else to items.
func TargetFor(itemType string, opts Options) Target {
	if opts.IsStandard(itemType) {
		return Target{Table: opts.StandardTable, Doctype: opts.StandardDoctype, ItemField: "item"}
	}
	return Target{Table: pricing.OpportunityItems, Doctype: "Opportunity Item", ItemField: pricing.FieldItemCode, BaseFields: true}
}

// NewRow is the child row appended for a selected item, priced at zero
// until the price lookup answers.
func NewRow(t Target, it Item) doc.Doc {
	row := doc.Doc{
		t.ItemField:         it.Code,
		"item_name":         it.Name,
		"description":       it.Description,
		"uom":               it.StockUOM,
		pricing.FieldQty:    1.0,
		pricing.FieldRate:   0.0,
		pricing.FieldAmount: 0.0,
	}
	if t.BaseFields {
		row[pricing.FieldBaseRate] = 0.0
		row[pricing.FieldBaseAmount] = 0.0
	}
	return row
}

// PriceListOf is the selling price list of an opportunity, empty for any.
func PriceListOf(opp doc.Doc) string {
	if pl := opp.Str("selling_price_list"); pl != "" {
		return pl
	}
	return opp.Str("price_list")
}

// LastPriceQuery asks for the newest selling Item Price of an item.
func LastPriceQuery(itemCode, priceList string) doc.ListQuery {
	q := doc.ListQuery{
		Fields:  []string{"price_list_rate"},
		Filters: []doc.Filter{doc.Eq("item_code", itemCode), doc.Eq("selling", 1)},
		OrderBy: "modified desc",
		Limit:   1,
	}
	if priceList != "" {
		q.Filters = append(q.Filters, doc.Eq("price_list", priceList))
	}
	return q
}
