package itemrules

import "github.com/connect4systems/c4pricing-cli/internal/doc"

// Dimension fields. The height field keeps the site's spelling.
const (
	FieldWidth           = "custom_width"
	FieldHeight          = "custom_hight"
	FieldDepth           = "custom_depth"
	FieldMeasurementType = "custom_measurement_type"
	FieldTotal           = "custom_total"
	FieldTotalStockUOM   = "custom_total_stock_uom"
)

// MeasureTotal computes the measured quantity of an item from its
// dimensions and measurement type.
func MeasureTotal(item doc.Doc) float64 {
	w, h, d := item.Float(FieldWidth), item.Float(FieldHeight), item.Float(FieldDepth)
	switch item.Str(FieldMeasurementType) {
	case "Area":
		return w * h
	case "Perimeter":
		return 2 * (w + h)
	case "Depth":
		return w * h * d
	case "Width Only":
		return w
	case "Height Only":
		return h
	}
	return 0
}

// MeasureTotals sets custom_total and its stock-UOM equivalent, using the
// conversion factor of the uoms row that matches stock_uom.
func MeasureTotals(item doc.Doc) doc.Patch {
	var p doc.Patch
	total := MeasureTotal(item)

	factor := 1.0
	for _, row := range item.Rows("uoms") {
		if row.Str("uom") == item.Str("stock_uom") {
			factor = row.Float("conversion_factor")
			if factor == 0 {
				factor = 1
			}
			break
		}
	}

	p.Set(FieldTotal, total)
	p.Set(FieldTotalStockUOM, total/factor)
	return p
}
