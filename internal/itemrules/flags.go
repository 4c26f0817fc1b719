package itemrules

import "github.com/connect4systems/c4pricing-cli/internal/doc"

// Flag fields.
const (
	FieldIsPurchase   = "is_purchase_item"
	FieldIsSales      = "is_sales_item"
	FieldIsStock      = "is_stock_item"
	FieldIsFixedAsset = "is_fixed_asset"
)

// Flags are the four check fields derived from an item type.
type Flags struct {
	Purchase   int
	Sales      int
	Stock      int
	FixedAsset int
}

// FlagFields lists the flag fields in form order.
var FlagFields = []string{FieldIsPurchase, FieldIsSales, FieldIsStock, FieldIsFixedAsset}

// Value returns the flag stored under a flag field name.
func (f Flags) Value(field string) int {
	switch field {
	case FieldIsPurchase:
		return f.Purchase
	case FieldIsSales:
		return f.Sales
	case FieldIsStock:
		return f.Stock
	case FieldIsFixedAsset:
		return f.FixedAsset
	}
	return 0
}

var flagTable = map[string]Flags{
	TypeStandardProduct:   {Purchase: 0, Sales: 1, Stock: 1, FixedAsset: 0},
	TypeCustomizedProduct: {Purchase: 0, Sales: 1, Stock: 1, FixedAsset: 0},
	TypeMaterialItem:      {Purchase: 1, Sales: 0, Stock: 1, FixedAsset: 0},
	TypeAccessories:       {Purchase: 1, Sales: 0, Stock: 1, FixedAsset: 0},
	TypeAsset:             {Purchase: 1, Sales: 0, Stock: 0, FixedAsset: 1},
	TypeServiceItem:       {Purchase: 1, Sales: 1, Stock: 0, FixedAsset: 0},
}

// FlagsFor returns the flags of an item type. Unknown types report false and
// must leave the item untouched.
func FlagsFor(itemType string) (Flags, bool) {
	f, ok := flagTable[Normalize(itemType)]
	return f, ok
}

// ApplyFlags sets the flags dictated by the item's custom_item_type, touching
// only fields whose stored value differs.
func ApplyFlags(item doc.Doc) doc.Patch {
	var p doc.Patch
	t := item.Str(FieldCustomItemType)
	if t == "" {
		return p
	}
	f, ok := FlagsFor(t)
	if !ok {
		return p
	}
	for _, field := range FlagFields {
		v := f.Value(field)
		if item.IsBlank(field) || item.Int(field) != v {
			p.Set(field, v)
		}
	}
	return p
}
