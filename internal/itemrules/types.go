// Package itemrules classifies Item records by their item type: the
// purchase/sales/stock/asset flags, the item groups a type may use, when an
// item code can be generated and what it will look like.
package itemrules

import (
	"strings"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// Item fields.
const (
	ItemDoctype      = "Item"
	ItemGroupDoctype = "Item Group"

	FieldCustomItemType = "custom_item_type"
	FieldItemType       = "item_type"
	FieldItemCode       = "item_code"
	FieldItemGroup      = "item_group"
	FieldBrand          = "brand"
	FieldMainProduct    = "custom_main_product"
	FieldPartType       = "custom_part_type"
	FieldItemName       = "item_name"
)

// Normalized item type names.
const (
	TypeStandardProduct   = "standard product"
	TypeCustomizedProduct = "customized product"
	TypeMaterialItem      = "material item"
	TypeAccessories       = "accessories"
	TypeAsset             = "asset"
	TypeAssetItem         = "asset item"
	TypeServiceItem       = "service item"
	TypeServices          = "services"
	TypeService           = "service"
	TypePart              = "part"
	TypeWIP               = "wip"
)

// Normalize trims and lower-cases an item type name.
func Normalize(itemType string) string {
	return strings.ToLower(strings.TrimSpace(itemType))
}

// ItemTypeOf returns custom_item_type, or item_type when that is blank.
func ItemTypeOf(item doc.Doc) string {
	if t := item.Str(FieldCustomItemType); t != "" {
		return t
	}
	return item.Str(FieldItemType)
}
