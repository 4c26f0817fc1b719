package selector

import (
	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
)

// Item is one search result.
type Item struct {
	Code         string
	Name         string
	Description  string
	StockUOM     string
	Image        string
	ItemGroup    string
	MaterialLine string
	// Dimensions stay untyped so that a blank value is kept blank.
	Width  interface{}
	Height interface{}
	Depth  interface{}
}

// ItemFromDoc reads a result row returned for ResultFields.
func ItemFromDoc(d doc.Doc) Item {
	return Item{
		Code:         d.Name(),
		Name:         d.Str("item_name"),
		Description:  d.Str("description"),
		StockUOM:     d.Str("stock_uom"),
		Image:        d.Str("image"),
		ItemGroup:    d.Str("item_group"),
		MaterialLine: d.Str("custom_material_line"),
		Width:        d[itemrules.FieldWidth],
		Height:       d[itemrules.FieldHeight],
		Depth:        d[itemrules.FieldDepth],
	}
}

// ItemsFromDocs converts a result page.
func ItemsFromDocs(ds []doc.Doc) []Item {
	out := make([]Item, len(ds))
	for i, d := range ds {
		out[i] = ItemFromDoc(d)
	}
	return out
}

// Title is the display name, falling back to the code.
func (it Item) Title() string {
	if it.Name != "" {
		return it.Name
	}
	return it.Code
}
