package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// BOQ edits a bill of quantities.
type BOQ struct {
	Backend Backend
	Log     *slog.Logger
	Form    *Form
	// DefaultPriceList is used when UpdateCosts gets none.
	DefaultPriceList string

	saved *pricing.BOQMargins
}

// OpenBOQ loads a BOQ.
func OpenBOQ(ctx context.Context, b Backend, log *slog.Logger, defaultPriceList, name string) (*BOQ, error) {
	f, err := LoadForm(ctx, b, pricing.BOQDoctype, name)
	if err != nil {
		return nil, fmt.Errorf("load boq %s: %w", name, err)
	}
	q := &BOQ{Backend: b, Log: orDefault(log), Form: f, DefaultPriceList: defaultPriceList}
	q.markSaved()
	return q, nil
}

func (q *BOQ) markSaved() {
	if q.Form.IsNew() {
		q.saved = nil
		return
	}
	q.saved = &pricing.BOQMargins{
		Base: q.Form.Doc.Float(pricing.FieldBaseMargin),
		S:    q.Form.Doc.Float(pricing.FieldSMargin),
	}
}

// Preview computes the totals a save would produce, without changing the
// form.
func (q *BOQ) Preview() pricing.BOQTotals {
	_, t := pricing.ValidateBOQ(q.Form.Doc, q.saved)
	return t
}

// Recalculate applies the margin sync and row recalculation to the form.
func (q *BOQ) Recalculate() pricing.BOQTotals {
	p, t := pricing.ValidateBOQ(q.Form.Doc, q.saved)
	q.Form.Apply(p)
	return t
}

// UpdateCosts refreshes unit costs on the server from source, then reloads
// the BOQ. Unsaved changes are saved first.
func (q *BOQ) UpdateCosts(ctx context.Context, source pricing.CostSource, priceList string) (pricing.UpdateCostsResult, error) {
	if priceList == "" && source == pricing.SourcePriceList {
		priceList = q.DefaultPriceList
	}
	if err := q.Form.SaveIfNeeded(ctx, q.Backend); err != nil {
		return pricing.UpdateCostsResult{}, fmt.Errorf("save boq: %w", err)
	}

	q.Log.Info(source.FreezeMessage(), slog.String("boq", q.Form.Doc.Name()))
	res, err := UpdateBOQCosts(ctx, q.Backend, q.Form.Doc.Name(), source, priceList)
	if err != nil {
		return res, err
	}
	if res.PriceList == "" {
		res.PriceList = priceList
	}

	if err := q.Form.Reload(ctx, q.Backend); err != nil {
		return res, fmt.Errorf("reload boq: %w", err)
	}
	q.markSaved()
	return res, nil
}

// PushToCostingNote copies the BOQ total into the costing-note row it was
// created for, as happens when the BOQ is submitted. It reports false when
// the BOQ is not tied to a costing-note row.
func (q *BOQ) PushToCostingNote(ctx context.Context) (bool, error) {
	cnName := q.Form.Doc.Str(pricing.FieldCostingNote)
	if cnName == "" || q.Form.Doc.Str(pricing.FieldLineID) == "" {
		return false, nil
	}
	cn, err := LoadForm(ctx, q.Backend, pricing.CostingNoteDoctype, cnName)
	if err != nil {
		return false, fmt.Errorf("load costing note %s: %w", cnName, err)
	}
	p := pricing.ApplyBOQSubmit(cn.Doc, q.Form.Doc)
	if p.Empty() {
		return false, nil
	}
	cn.Apply(p)
	if err := cn.Save(ctx, q.Backend); err != nil {
		return false, fmt.Errorf("save costing note %s: %w", cnName, err)
	}
	return true, nil
}
