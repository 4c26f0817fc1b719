package selector

// Options are the site-specific names the dialog depends on.
type Options struct {
	// StandardTable is the opportunity child table for standard products.
	StandardTable string
	// StandardDoctype is the child doctype of StandardTable.
	StandardDoctype string
	// ItemTypes lists the selectable types; the first is the standard
	// product type.
	ItemTypes       []string
	PageSizes       []int
	DefaultPageSize int
}

// DefaultOptions matches a stock c4pricing site.
func DefaultOptions() Options {
	return Options{
		StandardTable:   "custom_standard",
		StandardDoctype: "Opportunity Standard (C4)",
		ItemTypes:       []string{StandardProduct, CustomizedProduct},
		PageSizes:       []int{10, 20},
		DefaultPageSize: 20,
	}
}

// IsStandard reports whether itemType is the standard product type.
func (o Options) IsStandard(itemType string) bool {
	if len(o.ItemTypes) == 0 {
		return itemType == StandardProduct
	}
	return itemType == o.ItemTypes[0]
}
