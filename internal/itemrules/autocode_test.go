package itemrules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

func TestShouldRequestCode(t *testing.T) {
	tests := []struct {
		name string
		item doc.Doc
		want bool
	}{
		{"no type", doc.Doc{FieldItemGroup: "Kitchens"}, false},
		{"code already set", doc.Doc{FieldCustomItemType: "Services", FieldItemCode: "SRV-001"}, false},
		{"standard product missing brand", doc.Doc{FieldCustomItemType: "Standard Product", FieldItemGroup: "Kitchens"}, false},
		{"standard product complete", doc.Doc{FieldCustomItemType: "Standard Product", FieldItemGroup: "Kitchens", FieldBrand: "Acme"}, true},
		{"part missing part type", doc.Doc{FieldCustomItemType: "Part", FieldMainProduct: "KIT-001"}, false},
		{"part complete", doc.Doc{FieldCustomItemType: "Part", FieldMainProduct: "KIT-001", FieldPartType: "Door"}, true},
		{"wip needs name", doc.Doc{FieldCustomItemType: "WIP", FieldMainProduct: "KIT-001"}, false},
		{"services need nothing", doc.Doc{FieldCustomItemType: "Services"}, true},
		{"falls back to item_type", doc.Doc{FieldItemType: "Material Item", FieldItemGroup: "Steel"}, true},
		{"unknown type still asks", doc.Doc{FieldCustomItemType: "Widget"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ShouldRequestCode(tt.item))
		})
	}
}

func TestMissingFields(t *testing.T) {
	item := doc.Doc{FieldCustomItemType: "Standard Product", FieldBrand: ""}
	require.Equal(t, []string{FieldBrand, FieldItemGroup}, MissingFields(item))
}

func TestCodeRequestArgs(t *testing.T) {
	item := doc.Doc{
		FieldCustomItemType: "Part",
		FieldItemGroup:      "Sub Assemblies",
		FieldMainProduct:    "KIT-001",
		FieldPartType:       "Door",
		FieldBrand:          "",
	}

	require.Equal(t, map[string]interface{}{
		"item_type":    "Part",
		"item_group":   "Sub Assemblies",
		"brand":        nil,
		"main_product": "KIT-001",
		"part_type":    "Door",
		"item_name":    nil,
	}, CodeRequestArgs(item))
}
