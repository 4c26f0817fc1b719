package itemrules

import "github.com/connect4systems/c4pricing-cli/internal/doc"

// TriggerFields are the Item fields whose change may complete the inputs of
// a code request.
var TriggerFields = []string{
	FieldCustomItemType,
	FieldItemType,
	FieldItemGroup,
	FieldBrand,
	FieldMainProduct,
	FieldPartType,
	FieldItemName,
}

var requiredByType = map[string][]string{
	TypeStandardProduct:   {FieldBrand, FieldItemGroup},
	TypeMaterialItem:      {FieldItemGroup},
	TypeCustomizedProduct: {FieldItemGroup},
	TypePart:              {FieldMainProduct, FieldPartType},
	TypeWIP:               {FieldMainProduct, FieldItemName},
	TypeAssetItem:         {FieldItemGroup},
	TypeAsset:             {FieldItemGroup},
}

// RequiredFields lists the fields that must be filled before a code can be
// requested for itemType. Services and unknown types need none.
func RequiredFields(itemType string) []string {
	return requiredByType[Normalize(itemType)]
}

// MissingFields returns the required fields the item still lacks.
func MissingFields(item doc.Doc) []string {
	var missing []string
	for _, f := range RequiredFields(ItemTypeOf(item)) {
		if item.IsBlank(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// ShouldRequestCode reports whether next_code may be called: the item has a
// type, no code yet, and every required field of its type.
func ShouldRequestCode(item doc.Doc) bool {
	if ItemTypeOf(item) == "" {
		return false
	}
	if !item.IsBlank(FieldItemCode) {
		return false
	}
	return len(MissingFields(item)) == 0
}

// CodeRequestArgs builds the next_code arguments. Blank values are sent as
// null.
func CodeRequestArgs(item doc.Doc) map[string]interface{} {
	orNull := func(field string) interface{} {
		if s := item.Str(field); s != "" {
			return s
		}
		return nil
	}
	return map[string]interface{}{
		"item_type":    ItemTypeOf(item),
		"item_group":   orNull(FieldItemGroup),
		"brand":        orNull(FieldBrand),
		"main_product": orNull(FieldMainProduct),
		"part_type":    orNull(FieldPartType),
		"item_name":    orNull(FieldItemName),
	}
}
