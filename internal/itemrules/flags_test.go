package itemrules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

func TestFlagsFor(t *testing.T) {
	tests := []struct {
		itemType string
		want     Flags
		known    bool
	}{
		{"Standard Product", Flags{0, 1, 1, 0}, true},
		{"  customized PRODUCT ", Flags{0, 1, 1, 0}, true},
		{"Material Item", Flags{1, 0, 1, 0}, true},
		{"Accessories", Flags{1, 0, 1, 0}, true},
		{"Asset", Flags{1, 0, 0, 1}, true},
		{"Service Item", Flags{1, 1, 0, 0}, true},
		{"Part", Flags{}, false},
		{"", Flags{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.itemType, func(t *testing.T) {
			got, ok := FlagsFor(tt.itemType)
			require.Equal(t, tt.known, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFlagsOnlyTouchesDifferences(t *testing.T) {
	item := doc.Doc{
		FieldCustomItemType: "Asset",
		FieldIsPurchase:     1.0,
		FieldIsSales:        1.0,
		FieldIsStock:        1.0,
	}

	got := ApplyFlags(item)

	want := doc.Patch{Changes: []doc.Change{
		{Field: FieldIsSales, Value: 0},
		{Field: FieldIsStock, Value: 0},
		{Field: FieldIsFixedAsset, Value: 1},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyFlags() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFlagsUnknownOrMissingType(t *testing.T) {
	require.True(t, ApplyFlags(doc.Doc{FieldCustomItemType: "Widget", FieldIsSales: 1.0}).Empty())
	require.True(t, ApplyFlags(doc.Doc{FieldItemType: "Asset"}).Empty(), "flags follow custom_item_type only")
}
