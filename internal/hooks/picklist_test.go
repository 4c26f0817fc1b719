package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

func TestFillWarehouses(t *testing.T) {
	ctx := context.Background()
	f := newFake()
	f.put(PickListDoctype, doc.Doc{
		"name":    "PICK-0001",
		"company": "C4 Systems",
		PickLocations: []interface{}{
			map[string]interface{}{"item_code": "A"},
			map[string]interface{}{"item_code": "B", "warehouse": "Stores - C4"},
			map[string]interface{}{"warehouse": ""},
			map[string]interface{}{"item_code": "NOPE"},
			map[string]interface{}{"item_code": "ERR"},
		},
	})
	f.methods[MethodDefaultWarehouse] = func(args map[string]interface{}) (interface{}, error) {
		require.Equal(t, "C4 Systems", args["company"])
		switch args["item_code"] {
		case "A":
			return "Raw - C4", nil
		case "ERR":
			return nil, errors.New("boom")
		}
		return nil, nil
	}

	pl, err := OpenPickList(ctx, f, "PICK-0001")
	require.NoError(t, err)
	log, buf := testLogger()

	n := FillWarehouses(ctx, f, log, pl)

	require.Equal(t, 1, n)
	rows := pl.Doc.Rows(PickLocations)
	require.Equal(t, "Raw - C4", rows[0].Str("warehouse"))
	require.Equal(t, "Stores - C4", rows[1].Str("warehouse"))
	require.True(t, rows[3].IsBlank("warehouse"))
	require.True(t, rows[4].IsBlank("warehouse"))
	require.Len(t, f.callsTo(MethodDefaultWarehouse), 3)
	require.Contains(t, buf.String(), "boom")
}
