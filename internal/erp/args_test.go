package erp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

func TestSplitArgs(t *testing.T) {
	pos, flags := splitArgs([]string{"BOQ-0001", "--source=valuation", "--price-list=Standard Buying", "--dry"})
	require.Equal(t, []string{"BOQ-0001"}, pos)
	require.Equal(t, map[string]string{"source": "valuation", "price-list": "Standard Buying", "dry": ""}, flags)
}

func TestRowArg(t *testing.T) {
	i, err := rowArg("3")
	require.NoError(t, err)
	require.Equal(t, 2, i)

	for _, bad := range []string{"0", "-1", "x", ""} {
		_, err := rowArg(bad)
		require.Error(t, err, bad)
	}
}

func TestAmountArg(t *testing.T) {
	v, err := amountArg("margin", " 12.5 ")
	require.NoError(t, err)
	require.Equal(t, 12.5, v)

	_, err = amountArg("margin", "ten")
	require.EqualError(t, err, "invalid margin: ten")
}

func TestFieldArgs(t *testing.T) {
	fields, err := fieldArgs([]string{"item_name=Panel 40", "custom_width=120", "brand=ACME"})
	require.NoError(t, err)
	require.Equal(t, []fieldArg{
		{"item_name", "Panel 40"},
		{"custom_width", 120.0},
		{"brand", "ACME"},
	}, fields)

	fields, err = fieldArgs([]string{"main_product=KIT-001", "item_group=Sub Assemblies", "part_type=Door", "part_type=Frame"})
	require.NoError(t, err)
	var order []string
	for _, f := range fields {
		order = append(order, f.Field+"="+fmt.Sprint(f.Value))
	}
	require.Equal(t, []string{"main_product=KIT-001", "item_group=Sub Assemblies", "part_type=Door", "part_type=Frame"}, order)

	_, err = fieldArgs([]string{"novalue"})
	require.Error(t, err)
}

func TestListParams(t *testing.T) {
	params, err := listParams(doc.ListQuery{Fields: []string{"name"}})
	require.NoError(t, err)
	require.Equal(t, "0", params.Get("limit_page_length"))
	require.False(t, params.Has("filters"))
	require.False(t, params.Has("or_filters"))
	require.False(t, params.Has("order_by"))
	require.Equal(t, `["name"]`, params.Get("fields"))
}
