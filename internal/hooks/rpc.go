package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// Server methods.
const (
	MethodUpdateBOQCosts    = "c4pricing.c4pricing.doctype.boq.boq.update_boq_costs"
	MethodGetBOQTotals      = "c4pricing.api.get_boq_totals"
	MethodCreateBOQ         = "c4pricing.api.create_boq"
	MethodCreateCostingNote = "c4pricing.api.create_costing_note"
	MethodBounds            = "c4pricing.api.bounds"
	MethodNextCode          = "c4pricing.api.next_code"
	MethodDefaultWarehouse  = "c4pricing.api.stock_entry.get_item_group_default_wh"
	MethodMakeMappedDoc     = "frappe.model.mapper.make_mapped_doc"
	MethodMakeQuotation     = "erpnext.crm.doctype.opportunity.opportunity.make_quotation"
)

// ServerBOQTotals is the answer of get_boq_totals.
type ServerBOQTotals struct {
	Material    float64 `json:"total_material_costs"`
	Labor       float64 `json:"total_labor_costs"`
	Expenses    float64 `json:"total_expenses"`
	Contractors float64 `json:"total_contractors"`
	Total       float64 `json:"total_cost"`
}

type docRef struct {
	Name string `json:"name"`
}

func call[T any](ctx context.Context, b Backend, method string, args map[string]interface{}) (T, error) {
	var out T
	raw, err := b.Call(ctx, method, args)
	if err != nil {
		return out, fmt.Errorf("%s: %w", method, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%s: decode: %w", method, err)
	}
	return out, nil
}

// GetBOQTotals asks the server to roll up a BOQ and returns its totals.
func GetBOQTotals(ctx context.Context, b Backend, boqName string) (ServerBOQTotals, error) {
	return call[ServerBOQTotals](ctx, b, MethodGetBOQTotals, map[string]interface{}{"boq_name": boqName})
}

// CreateBOQ creates (or finds) the BOQ of a costing-note row.
func CreateBOQ(ctx context.Context, b Backend, costingNote string, row doc.Doc) (string, error) {
	res, err := call[docRef](ctx, b, MethodCreateBOQ, map[string]interface{}{
		"source_name": costingNote,
		"item_row":    row,
	})
	if err != nil {
		return "", err
	}
	if res.Name == "" {
		return "", fmt.Errorf("%s: no BOQ returned", MethodCreateBOQ)
	}
	return res.Name, nil
}

// UpdateBOQCosts refreshes BOQ unit costs from source.
func UpdateBOQCosts(ctx context.Context, b Backend, boqName string, source pricing.CostSource, priceList string) (pricing.UpdateCostsResult, error) {
	return call[pricing.UpdateCostsResult](ctx, b, MethodUpdateBOQCosts, map[string]interface{}{
		"name":       boqName,
		"source":     string(source),
		"price_list": priceList,
	})
}

// ErrNoBounds is returned when the server knows no bounds for a group.
var ErrNoBounds = errors.New("no bounds returned")

// GroupBounds returns the nested-set bounds of an item group.
func GroupBounds(ctx context.Context, b Backend, group string) (itemrules.Bounds, error) {
	res, err := call[*itemrules.Bounds](ctx, b, MethodBounds, map[string]interface{}{"parent_group": group})
	if err != nil {
		return itemrules.Bounds{}, err
	}
	if res == nil {
		return itemrules.Bounds{}, fmt.Errorf("%s %q: %w", MethodBounds, group, ErrNoBounds)
	}
	return *res, nil
}

// NextCode asks the server for a new item code.
func NextCode(ctx context.Context, b Backend, args map[string]interface{}) (string, error) {
	return call[string](ctx, b, MethodNextCode, args)
}

// DefaultWarehouse returns the item group's default warehouse for company,
// empty when none is configured.
func DefaultWarehouse(ctx context.Context, b Backend, itemCode, company string) (string, error) {
	args := map[string]interface{}{"item_code": itemCode, "company": nil}
	if company != "" {
		args["company"] = company
	}
	wh, err := call[*string](ctx, b, MethodDefaultWarehouse, args)
	if err != nil || wh == nil {
		return "", err
	}
	return *wh, nil
}

// MakeMappedDoc runs a server mapper and returns the unsaved target document.
func MakeMappedDoc(ctx context.Context, b Backend, method, sourceName string) (doc.Doc, error) {
	return call[doc.Doc](ctx, b, MethodMakeMappedDoc, map[string]interface{}{
		"method":      method,
		"source_name": sourceName,
	})
}
