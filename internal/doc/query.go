package doc

import "encoding/json"

// Filter is one Frappe list condition, serialised as [field, op, value].
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Eq is shorthand for an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: "=", Value: value}
}

// MarshalJSON encodes the filter in Frappe's list form.
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{f.Field, f.Op, f.Value})
}

// ListQuery describes a /api/resource list request.
type ListQuery struct {
	Fields    []string
	Filters   []Filter
	OrFilters []Filter
	OrderBy   string
	// Limit 0 means no limit.
	Limit int
}

// Filter returns the first filter on field, if present.
func (q ListQuery) Filter(field string) (Filter, bool) {
	for _, f := range q.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return Filter{}, false
}
