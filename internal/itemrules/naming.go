package itemrules

import (
	"regexp"
	"strings"
)

var namingPatterns = map[string]string{
	TypeStandardProduct:   "{Brand.custom_abr}-{ItemGroup.custom_abr}-###",
	TypeAssetItem:         "AS-{ItemGroup.custom_abr}-###",
	TypeAsset:             "AS-{ItemGroup.custom_abr}-###",
	TypeAccessories:       "ACS-####",
	TypeServices:          "SRV-###",
	TypePart:              "PRT-{custom_main_product}-{custom_part_type}",
	TypeWIP:               "WIP-{custom_main_product}-{item_name}",
	TypeMaterialItem:      "MTR-{ItemGroup.custom_abr}-###",
	TypeCustomizedProduct: "{ItemType.abr}-{ItemGroup.custom_abr}-###",
}

// NamingPattern describes the code the server generates for an item type.
// Types without a rule report false; the server rejects them.
func NamingPattern(itemType string) (string, bool) {
	p, ok := namingPatterns[Normalize(itemType)]
	return p, ok
}

var slugStrip = regexp.MustCompile(`[^A-Z0-9\-]`)

// Slug upper-cases s, turns spaces into dashes and drops everything else
// outside A-Z, 0-9 and dash.
func Slug(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(s)), " ", "-")
	return slugStrip.ReplaceAllString(s, "")
}

// SubAssemblyBase predicts the code of a part or WIP item before the server
// adds a uniqueness suffix. mainCode is the item code of the main product.
func SubAssemblyBase(itemType, mainCode, detail string) (string, bool) {
	var prefix string
	switch Normalize(itemType) {
	case TypePart:
		prefix = "PRT"
	case TypeWIP:
		prefix = "WIP"
	default:
		return "", false
	}
	mp, d := Slug(mainCode), Slug(detail)
	if mp == "" || d == "" {
		return "", false
	}
	return prefix + "-" + mp + "-" + d, true
}
