package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CostSource selects where update_boq_costs reads unit costs from.
type CostSource string

const (
	SourcePriceList    CostSource = "price_list"
	SourceValuation    CostSource = "valuation"
	SourceLastPurchase CostSource = "last_purchase"
)

// CostSources lists the sources in the order the dialog offers them.
var CostSources = []CostSource{SourcePriceList, SourceValuation, SourceLastPurchase}

// ParseCostSource accepts a source name; empty means price_list.
func ParseCostSource(s string) (CostSource, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return SourcePriceList, nil
	}
	for _, src := range CostSources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown cost source %q (want price_list, valuation or last_purchase)", s)
}

// Label is the human name of the source.
func (s CostSource) Label() string {
	switch s {
	case SourceValuation:
		return "Valuation Rate"
	case SourceLastPurchase:
		return "Last Purchase Rate"
	default:
		return "Price List"
	}
}

// FreezeMessage is shown while the update runs.
func (s CostSource) FreezeMessage() string {
	switch s {
	case SourceValuation:
		return "Updating costs from valuation rates..."
	case SourceLastPurchase:
		return "Updating costs from last purchase rates..."
	default:
		return "Updating costs from price list..."
	}
}

// UpdateCostsResult is the answer of update_boq_costs.
type UpdateCostsResult struct {
	UpdatedRows  int     `json:"updated_rows"`
	PriceList    string  `json:"price_list"`
	NewTotalCost float64 `json:"new_total_cost"`
}

// Summary renders the confirmation shown after an update.
func (r UpdateCostsResult) Summary(source CostSource, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated %d rows\n", r.UpdatedRows)
	if source == SourcePriceList {
		fmt.Fprintf(&b, "Source: %s (%s)\n", source.Label(), r.PriceList)
	} else {
		fmt.Fprintf(&b, "Source: %s\n", source.Label())
	}
	fmt.Fprintf(&b, "New Total Cost: %s", FormatMoney(r.NewTotalCost, currency))
	return b.String()
}

// FormatMoney renders an amount with two decimals and thousands separators,
// followed by the currency when one is given.
func FormatMoney(amount float64, currency string) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	if currency != "" {
		b.WriteString(" " + currency)
	}
	return b.String()
}
