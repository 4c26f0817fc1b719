// Package selector is the view-model behind the opportunity "Select Item"
// dialog: the filter form, the Item query it produces, the result preview and
// the row that selecting an item appends.
package selector

import (
	"fmt"
	"strings"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
)

// Item types offered by the dialog.
const (
	StandardProduct   = "Standard Product"
	CustomizedProduct = "Customized Product"
)

// Filters is the state of the filter form. Dimensions keep the raw input so
// that an empty box can be told apart from zero.
type Filters struct {
	ItemType     string
	MaterialLine string
	Text         string
	ItemGroup    string
	Brand        string
	Limit        int
	Width        string
	Height       string
	Depth        string
}

// DefaultFilters is the form as first opened.
func DefaultFilters(opts Options) Filters {
	return Filters{
		ItemType: opts.ItemTypes[0],
		Limit:    opts.DefaultPageSize,
	}
}

// Validate checks the required item type and the page size.
func (f Filters) Validate(opts Options) error {
	if strings.TrimSpace(f.ItemType) == "" {
		return fmt.Errorf("item type is required")
	}
	if f.Limit == 0 {
		return nil
	}
	for _, n := range opts.PageSizes {
		if n == f.Limit {
			return nil
		}
	}
	return fmt.Errorf("results per page must be one of %v", opts.PageSizes)
}

// ResultFields are the Item fields the dialog reads.
var ResultFields = []string{
	"name", "item_name", "description", "stock_uom", "image",
	"item_group", "custom_material_line",
	itemrules.FieldWidth, itemrules.FieldHeight, itemrules.FieldDepth,
}

// Query builds the Item list request for the current filters.
func (f Filters) Query(opts Options) doc.ListQuery {
	q := doc.ListQuery{
		Fields:  ResultFields,
		Filters: []doc.Filter{doc.Eq("disabled", 0)},
		OrderBy: "item_name asc",
		Limit:   f.Limit,
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	add := func(field, value string) {
		if value != "" {
			q.Filters = append(q.Filters, doc.Eq(field, value))
		}
	}
	add(itemrules.FieldCustomItemType, f.ItemType)
	if opts.IsStandard(f.ItemType) {
		add(itemrules.FieldBrand, f.Brand)
	}
	add(itemrules.FieldItemGroup, f.ItemGroup)
	add("custom_material_line", f.MaterialLine)

	for _, dim := range []struct{ field, raw string }{
		{itemrules.FieldWidth, f.Width},
		{itemrules.FieldHeight, f.Height},
		{itemrules.FieldDepth, f.Depth},
	} {
		if strings.TrimSpace(dim.raw) == "" {
			continue
		}
		q.Filters = append(q.Filters, doc.Eq(dim.field, doc.ToFloat(dim.raw)))
	}

	if txt := strings.TrimSpace(f.Text); txt != "" {
		like := "%" + txt + "%"
		q.OrFilters = []doc.Filter{
			{Field: "name", Op: "like", Value: like},
			{Field: "item_name", Op: "like", Value: like},
			{Field: "description", Op: "like", Value: like},
		}
	}
	return q
}

// ItemGroupQuery lists the groups the item-group picker may offer.
func ItemGroupQuery() doc.ListQuery {
	return doc.ListQuery{
		Fields:  []string{"name", "parent_item_group"},
		Filters: []doc.Filter{doc.Eq("custom_allow_sales", 1)},
		OrderBy: "name asc",
	}
}
