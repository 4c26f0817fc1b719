package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

// Opportunity edits an Opportunity: item selection, row price math and the
// costing-note action.
type Opportunity struct {
	Backend Backend
	Log     *slog.Logger
	Form    *Form
	Options selector.Options
}

// OpenOpportunity loads an opportunity.
func OpenOpportunity(ctx context.Context, b Backend, log *slog.Logger, opts selector.Options, name string) (*Opportunity, error) {
	f, err := LoadForm(ctx, b, pricing.OpportunityDoctype, name)
	if err != nil {
		return nil, fmt.Errorf("load opportunity %s: %w", name, err)
	}
	return &Opportunity{Backend: b, Log: orDefault(log), Form: f, Options: opts}, nil
}

// SearchItems runs the selector query.
func SearchItems(ctx context.Context, b Backend, q doc.ListQuery) ([]selector.Item, error) {
	ds, err := b.GetList(ctx, "Item", q)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return selector.ItemsFromDocs(ds), nil
}

// ItemGroups lists the groups the selector's item-group picker offers.
func ItemGroups(ctx context.Context, b Backend) ([]string, error) {
	ds, err := b.GetList(ctx, "Item Group", selector.ItemGroupQuery())
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name()
	}
	return names, nil
}

// LastSellingRate returns the newest selling price of an item, 0 when there
// is none.
func LastSellingRate(ctx context.Context, b Backend, itemCode, priceList string) (float64, error) {
	rows, err := b.GetList(ctx, "Item Price", selector.LastPriceQuery(itemCode, priceList))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Float("price_list_rate"), nil
}

// AddItem appends a selected item to the table its type belongs to and
// prices it. It returns the table and the new row index. Nothing is saved.
func (o *Opportunity) AddItem(ctx context.Context, it selector.Item, itemType string) (string, int) {
	t := selector.TargetFor(itemType, o.Options)
	var p doc.Patch
	p.Append(t.Table, selector.NewRow(t, it))
	o.Form.Apply(p)

	i := len(o.Form.Doc.Rows(t.Table)) - 1
	o.PriceRow(ctx, t.Table, i, t.ItemField)
	return t.Table, i
}

// PriceRow looks up the last selling rate of row i's item and recomputes the
// row. A failed lookup leaves the rate as it was.
func (o *Opportunity) PriceRow(ctx context.Context, table string, i int, itemField string) {
	row := o.Form.Doc.Row(table, i)
	if row == nil {
		return
	}
	code := row.Str(itemField)
	if code == "" {
		return
	}

	rate, err := LastSellingRate(ctx, o.Backend, code, selector.PriceListOf(o.Form.Doc))
	if err != nil {
		o.Log.Warn("last selling rate unavailable",
			slog.String("hook", "opportunity.price_row"),
			slog.String("item", code),
			slog.Any("error", err))
		return
	}
	o.Form.Apply(pricing.SetRate(table, i, row, rate))
}

// SetItemCode changes the item of row i and prices it.
func (o *Opportunity) SetItemCode(ctx context.Context, table string, i int, code string) {
	field := pricing.FieldItemCode
	if table == o.Options.StandardTable {
		field = "item"
	}
	o.Form.SetRow(table, i, field, code)
	o.PriceRow(ctx, table, i, field)
}

// SetRate changes the rate of row i and recomputes its amounts.
func (o *Opportunity) SetRate(table string, i int, rate float64) {
	o.Form.SetRow(table, i, pricing.FieldRate, rate)
	o.recalc(table, i)
}

// SetQty changes the quantity of row i and recomputes its amounts.
func (o *Opportunity) SetQty(table string, i int, qty float64) {
	o.Form.SetRow(table, i, pricing.FieldQty, qty)
	o.recalc(table, i)
}

func (o *Opportunity) recalc(table string, i int) {
	if row := o.Form.Doc.Row(table, i); row != nil {
		o.Form.Apply(pricing.RecalcRow(table, i, row))
	}
}

// Save defaults missing item prices to zero and stores the opportunity.
func (o *Opportunity) Save(ctx context.Context) error {
	o.Form.Apply(pricing.ZeroPrices(o.Form.Doc))
	if err := o.Form.Save(ctx, o.Backend); err != nil {
		return fmt.Errorf("save opportunity: %w", err)
	}
	return nil
}

// CreateCostingNote maps the opportunity into a new costing note and inserts
// it. Only saved opportunities can be mapped.
func (o *Opportunity) CreateCostingNote(ctx context.Context) (doc.Doc, error) {
	if o.Form.IsNew() {
		return nil, fmt.Errorf("save the opportunity before creating a costing note")
	}
	mapped, err := MakeMappedDoc(ctx, o.Backend, MethodCreateCostingNote, o.Form.Doc.Name())
	if err != nil {
		return nil, err
	}
	if mapped == nil {
		return nil, fmt.Errorf("%s returned no document", MethodCreateCostingNote)
	}
	delete(mapped, "name")
	saved, err := o.Backend.SaveDoc(ctx, pricing.CostingNoteDoctype, mapped)
	if err != nil {
		return nil, fmt.Errorf("insert costing note: %w", err)
	}
	return saved, nil
}

// MakeQuotation maps the opportunity into a new quotation, adds its
// standard-product rows and inserts it.
func (o *Opportunity) MakeQuotation(ctx context.Context) (doc.Doc, error) {
	if o.Form.IsNew() {
		return nil, fmt.Errorf("save the opportunity before making a quotation")
	}
	mapped, err := MakeMappedDoc(ctx, o.Backend, MethodMakeQuotation, o.Form.Doc.Name())
	if err != nil {
		return nil, err
	}
	if mapped == nil {
		return nil, fmt.Errorf("%s returned no document", MethodMakeQuotation)
	}
	p := pricing.MergeStandardRows(mapped, o.Form.Doc, o.Options.StandardTable)
	doc.Apply(mapped, p)
	o.Log.Debug("standard rows merged into quotation",
		slog.String("hook", "opportunity.make_quotation"),
		slog.String("opportunity", o.Form.Doc.Name()),
		slog.Int("added", len(p.Added)))

	delete(mapped, "name")
	saved, err := o.Backend.SaveDoc(ctx, pricing.QuotationDoctype, mapped)
	if err != nil {
		return nil, fmt.Errorf("insert quotation: %w", err)
	}
	return saved, nil
}
