package erp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// encodeFilters renders a filter list the way Frappe's list API expects it.
// The result is not escaped; url.Values does that.
func encodeFilters(filters []doc.Filter) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}

	encoded, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("failed to encode filters: %w", err)
	}

	return string(encoded), nil
}

// listParams turns a list query into /api/resource query parameters.
func listParams(q doc.ListQuery) (url.Values, error) {
	params := url.Values{}

	if len(q.Fields) > 0 {
		fields, err := json.Marshal(q.Fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fields: %w", err)
		}
		params.Set("fields", string(fields))
	}

	filters, err := encodeFilters(q.Filters)
	if err != nil {
		return nil, err
	}
	if filters != "" {
		params.Set("filters", filters)
	}

	orFilters, err := encodeFilters(q.OrFilters)
	if err != nil {
		return nil, err
	}
	if orFilters != "" {
		params.Set("or_filters", orFilters)
	}

	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}
	// Frappe treats 0 as "no limit" and applies its own default of 20 when
	// the parameter is missing.
	params.Set("limit_page_length", strconv.Itoa(q.Limit))

	return params, nil
}
