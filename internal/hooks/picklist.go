package hooks

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	PickListDoctype = "Pick List"
	PickLocations   = "locations"
)

// FillWarehouses gives every pick-list row that has an item but no warehouse
// its item group's default warehouse. Lookups that fail or find nothing leave
// the row blank. It returns the number of rows filled.
func FillWarehouses(ctx context.Context, b Backend, log *slog.Logger, f *Form) int {
	log = orDefault(log)
	company := f.Doc.Str("company")
	filled := 0

	for i, row := range f.Doc.Rows(PickLocations) {
		code := row.Str("item_code")
		if code == "" || !row.IsBlank("warehouse") {
			continue
		}
		wh, err := DefaultWarehouse(ctx, b, code, company)
		if err != nil {
			log.Warn("default warehouse unavailable",
				slog.String("hook", "pick_list.refresh"),
				slog.String("item", code),
				slog.Any("error", err))
			continue
		}
		if wh == "" {
			continue
		}
		f.SetRow(PickLocations, i, "warehouse", wh)
		filled++
	}
	return filled
}

// OpenPickList loads a pick list.
func OpenPickList(ctx context.Context, b Backend, name string) (*Form, error) {
	f, err := LoadForm(ctx, b, PickListDoctype, name)
	if err != nil {
		return nil, fmt.Errorf("load pick list %s: %w", name, err)
	}
	return f, nil
}
