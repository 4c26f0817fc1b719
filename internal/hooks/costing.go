package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// CostingNote edits a Costing Note. It remembers the default margin as it was
// before the latest change, which margin propagation needs.
type CostingNote struct {
	Backend Backend
	Log     *slog.Logger
	Form    *Form

	prevMargin float64
}

// OpenCostingNote loads a costing note and runs its refresh rules.
func OpenCostingNote(ctx context.Context, b Backend, log *slog.Logger, name string) (*CostingNote, error) {
	f, err := LoadForm(ctx, b, pricing.CostingNoteDoctype, name)
	if err != nil {
		return nil, fmt.Errorf("load costing note %s: %w", name, err)
	}
	cn := &CostingNote{Backend: b, Log: orDefault(log), Form: f}
	cn.Refresh()
	return cn, nil
}

// Refresh fills blank selling prices and records the current margin as the
// baseline for the next margin change.
func (c *CostingNote) Refresh() {
	c.Form.Apply(pricing.BackfillTSP(c.Form.Doc))
	c.prevMargin = c.Form.Doc.Float(pricing.FieldDefaultMargin)
}

// SetMargin changes the default margin and carries it into rows that still
// follow the formula.
func (c *CostingNote) SetMargin(margin float64) doc.Patch {
	c.Form.Set(pricing.FieldDefaultMargin, margin)
	p := pricing.PropagateMargin(c.Form.Doc, c.prevMargin)
	c.Form.Apply(p)
	c.Log.Debug("margin propagated",
		slog.String("costing_note", c.Form.Doc.Name()),
		slog.Float64("from", c.prevMargin),
		slog.Float64("to", margin),
		slog.Int("rows_updated", len(p.Changes)))
	c.prevMargin = margin
	return p
}

// SetCost changes the cost of row i.
func (c *CostingNote) SetCost(i int, cost float64) error {
	if c.Form.Doc.Row(pricing.CostingItemsTable, i) == nil {
		return fmt.Errorf("costing note has no row %d", i+1)
	}
	c.Form.SetRow(pricing.CostingItemsTable, i, pricing.FieldCost, cost)
	c.Form.Apply(pricing.OnCostChange(c.Form.Doc, i))
	return nil
}

// LinkBOQ links row i to a BOQ and pulls in the BOQ's total cost. When the
// totals cannot be fetched the link is kept and the cost left alone.
func (c *CostingNote) LinkBOQ(ctx context.Context, i int, boqName string) error {
	if c.Form.Doc.Row(pricing.CostingItemsTable, i) == nil {
		return fmt.Errorf("costing note has no row %d", i+1)
	}
	c.Form.SetRow(pricing.CostingItemsTable, i, pricing.FieldBOQLink, boqName)
	if boqName == "" {
		return nil
	}

	totals, err := GetBOQTotals(ctx, c.Backend, boqName)
	if err != nil {
		c.Log.Warn("boq totals unavailable",
			slog.String("hook", "costing_note.boq_link"),
			slog.String("boq", boqName),
			slog.Any("error", err))
		return nil
	}
	c.Form.Apply(pricing.ApplyBOQTotal(c.Form.Doc, i, totals.Total))
	return nil
}

// CreateBOQ creates the BOQ for row i, saving the note first when needed, and
// links the row to it.
func (c *CostingNote) CreateBOQ(ctx context.Context, i int) (string, error) {
	if c.Form.Doc.Row(pricing.CostingItemsTable, i) == nil {
		return "", fmt.Errorf("costing note has no row %d", i+1)
	}
	if err := c.Form.SaveIfNeeded(ctx, c.Backend); err != nil {
		return "", fmt.Errorf("save costing note: %w", err)
	}

	row := c.Form.Doc.Row(pricing.CostingItemsTable, i)
	name, err := CreateBOQ(ctx, c.Backend, c.Form.Doc.Name(), row)
	if err != nil {
		return "", err
	}
	c.Form.SetRow(pricing.CostingItemsTable, i, pricing.FieldBOQLink, name)
	return name, nil
}

// BOQChoices lists the BOQs row i may link to.
func (c *CostingNote) BOQChoices(ctx context.Context, i int) ([]doc.Doc, error) {
	q := doc.ListQuery{
		Fields:  []string{"name", pricing.FieldItem, pricing.FieldTotalCost, "docstatus"},
		Filters: pricing.BOQLinkFilters(c.Form.Doc.Row(pricing.CostingItemsTable, i)),
		OrderBy: "modified desc",
	}
	return c.Backend.GetList(ctx, pricing.BOQDoctype, q)
}

// Totals recomputes row and header totals.
func (c *CostingNote) Totals() pricing.NoteTotals {
	p, t := pricing.CostingNoteTotals(c.Form.Doc)
	c.Form.Apply(p)
	return t
}

// Save runs the totals and stores the note.
func (c *CostingNote) Save(ctx context.Context) error {
	c.Totals()
	if err := c.Form.Save(ctx, c.Backend); err != nil {
		return fmt.Errorf("save costing note: %w", err)
	}
	c.prevMargin = c.Form.Doc.Float(pricing.FieldDefaultMargin)
	return nil
}

// PushRates writes the note's selling prices into its opportunity and saves
// it. It reports how many opportunity rows changed.
func (c *CostingNote) PushRates(ctx context.Context) (int, error) {
	oppName := c.Form.Doc.Str("opportunity")
	if oppName == "" {
		return 0, fmt.Errorf("costing note %s has no opportunity", c.Form.Doc.Name())
	}
	opp, err := LoadForm(ctx, c.Backend, pricing.OpportunityDoctype, oppName)
	if err != nil {
		return 0, fmt.Errorf("load opportunity %s: %w", oppName, err)
	}

	p := pricing.PushRatesToOpportunity(c.Form.Doc, opp.Doc)
	opp.Apply(p)
	if err := opp.Save(ctx, c.Backend); err != nil {
		return 0, fmt.Errorf("save opportunity %s: %w", oppName, err)
	}
	rows := map[int]bool{}
	for _, ch := range p.Changes {
		rows[ch.Row] = true
	}
	return len(rows), nil
}
