// Package doc models the form records exchanged with Frappe: a parent document
// with scalar fields and named child tables, plus the patches that rules
// produce against it.
package doc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Doc is a form record as returned by /api/resource. Child tables are stored
// under their field name as []interface{} of maps.
type Doc map[string]interface{}

// Name returns the record identifier, empty for records not yet saved.
func (d Doc) Name() string {
	return d.Str("name")
}

// Str returns a field as a string. Missing and nil fields are empty.
func (d Doc) Str(field string) string {
	v, ok := d[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Float returns a field as a number. Anything that does not parse is zero.
func (d Doc) Float(field string) float64 {
	return ToFloat(d[field])
}

// Int returns a field truncated to an int.
func (d Doc) Int(field string) int {
	return int(d.Float(field))
}

// IsBlank reports whether a field is missing, nil or an empty string.
// Zero is not blank.
func (d Doc) IsBlank(field string) bool {
	v, ok := d[field]
	if !ok || v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// Rows returns the rows of a child table. The returned Docs share storage
// with d, so writes through them are visible on the parent.
func (d Doc) Rows(table string) []Doc {
	raw, ok := d[table]
	if !ok || raw == nil {
		return nil
	}

	switch rows := raw.(type) {
	case []Doc:
		return rows
	case []map[string]interface{}:
		out := make([]Doc, len(rows))
		for i, r := range rows {
			out[i] = Doc(r)
		}
		return out
	case []interface{}:
		out := make([]Doc, 0, len(rows))
		for _, r := range rows {
			switch m := r.(type) {
			case map[string]interface{}:
				out = append(out, Doc(m))
			case Doc:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Row returns row i of a table, or nil when out of range.
func (d Doc) Row(table string, i int) Doc {
	rows := d.Rows(table)
	if i < 0 || i >= len(rows) {
		return nil
	}
	return rows[i]
}

// AddChild appends a row to a child table and returns it.
func (d Doc) AddChild(table string, row Doc) Doc {
	if row == nil {
		row = Doc{}
	}
	var rows []interface{}
	switch existing := d[table].(type) {
	case []interface{}:
		rows = existing
	case []Doc:
		for _, r := range existing {
			rows = append(rows, map[string]interface{}(r))
		}
	case []map[string]interface{}:
		for _, r := range existing {
			rows = append(rows, r)
		}
	}
	if _, ok := row["idx"]; !ok {
		row["idx"] = float64(len(rows) + 1)
	}
	rows = append(rows, map[string]interface{}(row))
	d[table] = rows
	return row
}

// Clone returns a deep copy, so rules can be evaluated without touching the
// caller's record.
func (d Doc) Clone() Doc {
	if d == nil {
		return nil
	}
	return Doc(cloneMap(d))
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case Doc:
		return map[string]interface{}(cloneMap(t))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []Doc:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = map[string]interface{}(cloneMap(e))
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneMap(e)
		}
		return out
	default:
		return v
	}
}

// ToFloat coerces a JSON value to a number. Non-numeric input is zero.
func ToFloat(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Bool maps 0/1 check fields to a bool.
func (d Doc) Bool(field string) bool {
	return d.Float(field) != 0
}
