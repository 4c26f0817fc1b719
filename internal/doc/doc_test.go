package doc

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"nil", nil, 0},
		{"float", 12.5, 12.5},
		{"int", 3, 3},
		{"numeric string", " 42.5 ", 42.5},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"json number", json.Number("7"), 7},
		{"true", true, 1},
		{"map", map[string]interface{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ToFloat(tt.in))
		})
	}
}

func TestIsBlank(t *testing.T) {
	d := Doc{"zero": 0.0, "empty": "", "nil": nil, "text": "x"}

	require.False(t, d.IsBlank("zero"))
	require.True(t, d.IsBlank("empty"))
	require.True(t, d.IsBlank("nil"))
	require.True(t, d.IsBlank("missing"))
	require.False(t, d.IsBlank("text"))
}

func TestRowsShareStorage(t *testing.T) {
	d := Doc{"items": []interface{}{
		map[string]interface{}{"item": "A"},
		map[string]interface{}{"item": "B"},
	}}

	rows := d.Rows("items")
	require.Len(t, rows, 2)
	rows[1]["qty"] = 3.0

	require.Equal(t, 3.0, d.Row("items", 1).Float("qty"))
	require.Nil(t, d.Row("items", 2))
	require.Nil(t, d.Rows("missing"))
}

func TestCloneIsDeep(t *testing.T) {
	d := Doc{"name": "CN-1", "items": []interface{}{map[string]interface{}{"cost": 10.0}}}
	c := d.Clone()
	c.Row("items", 0)["cost"] = 99.0
	c["name"] = "CN-2"

	require.Equal(t, 10.0, d.Row("items", 0).Float("cost"))
	require.Equal(t, "CN-1", d.Name())
}

func TestAddChildSetsIdx(t *testing.T) {
	d := Doc{}
	d.AddChild("items", Doc{"item_code": "A"})
	d.AddChild("items", Doc{"item_code": "B"})

	rows := d.Rows("items")
	require.Len(t, rows, 2)
	require.Equal(t, 2, rows[1].Int("idx"))
}

func TestApply(t *testing.T) {
	d := Doc{"items": []interface{}{map[string]interface{}{"rate": 0.0}}}

	var p Patch
	p.Append("items", Doc{"item_code": "NEW"})
	p.SetRow("items", 1, "rate", 12.0)
	p.SetRow("items", 5, "rate", 1.0)
	p.Set("status", "Open")

	Apply(d, p)

	want := Doc{
		"status": "Open",
		"items": []interface{}{
			map[string]interface{}{"rate": 0.0},
			map[string]interface{}{"item_code": "NEW", "idx": 2.0, "rate": 12.0},
		},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchValue(t *testing.T) {
	var p Patch
	p.SetRow("items", 0, "rate", 1.0)
	p.SetRow("items", 0, "rate", 2.0)
	p.Set("total", 5.0)

	v, ok := p.Value("items", 0, "rate")
	require.True(t, ok)
	require.Equal(t, 2.0, v)

	_, ok = p.Value("items", 1, "rate")
	require.False(t, ok)

	v, ok = p.Value("", 0, "total")
	require.True(t, ok)
	require.Equal(t, 5.0, v)
}

func TestFilterMarshal(t *testing.T) {
	b, err := json.Marshal([]Filter{Eq("disabled", 0), {Field: "lft", Op: ">=", Value: 10}})
	require.NoError(t, err)
	require.JSONEq(t, `[["disabled","=",0],["lft",">=",10]]`, string(b))
}
