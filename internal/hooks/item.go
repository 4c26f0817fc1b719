package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
)

// Item edits an Item record: flags and group constraint follow the item
// type, and a code is requested from the server once its inputs are known.
type Item struct {
	Backend Backend
	Log     *slog.Logger
	Form    *Form
	// MaterialsRoot is the root of the materials group tree.
	MaterialsRoot string
}

// NewItem starts an unsaved item.
func NewItem(b Backend, log *slog.Logger, materialsRoot string, d doc.Doc) *Item {
	return &Item{Backend: b, Log: orDefault(log), Form: NewForm(itemrules.ItemDoctype, d), MaterialsRoot: materialsRoot}
}

// OpenItem loads an item and runs its refresh rules.
func OpenItem(ctx context.Context, b Backend, log *slog.Logger, materialsRoot, code string) (*Item, error) {
	f, err := LoadForm(ctx, b, itemrules.ItemDoctype, code)
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", code, err)
	}
	it := &Item{Backend: b, Log: orDefault(log), Form: f, MaterialsRoot: materialsRoot}
	it.Refresh(ctx)
	return it, nil
}

// Refresh applies the flags and group constraint of the current type and
// returns the group rule.
func (it *Item) Refresh(ctx context.Context) itemrules.GroupRule {
	it.Form.Apply(itemrules.ApplyFlags(it.Form.Doc))
	rule := it.GroupRule(ctx)
	it.Form.Apply(rule.ForceGroup(it.Form.Doc))
	return rule
}

// GroupRule returns the item_group constraint of the current type, with
// subtree bounds resolved. If the bounds cannot be fetched the rule falls
// back to direct children of the root.
func (it *Item) GroupRule(ctx context.Context) itemrules.GroupRule {
	rule := itemrules.GroupRuleFor(itemrules.ItemTypeOf(it.Form.Doc), it.MaterialsRoot)
	if !rule.NeedsBounds() {
		return rule
	}
	b, err := GroupBounds(ctx, it.Backend, rule.Group)
	if err != nil {
		it.Log.Warn("item group bounds unavailable, using direct children",
			slog.String("hook", "item.item_group_filter"),
			slog.String("group", rule.Group),
			slog.Any("error", err))
		return rule.Fallback()
	}
	return rule.WithBounds(b)
}

// SetType changes the item type, then applies flags, the group constraint
// and, when possible, the code request.
func (it *Item) SetType(ctx context.Context, itemType string) (itemrules.GroupRule, error) {
	it.Form.Set(itemrules.FieldCustomItemType, itemType)
	rule := it.Refresh(ctx)
	return rule, it.FillCode(ctx)
}

// SetField changes a field and requests a code when the field is one of its
// inputs.
func (it *Item) SetField(ctx context.Context, field string, value interface{}) error {
	it.Form.Set(field, value)
	if field == itemrules.FieldCustomItemType || field == itemrules.FieldItemType {
		it.Refresh(ctx)
	}
	if slices.Contains(itemrules.TriggerFields, field) {
		return it.FillCode(ctx)
	}
	return nil
}

// FillCode requests the next item code when the item has none and all
// inputs of its type are filled. A code is never requested twice: once set,
// item_code blocks further requests.
func (it *Item) FillCode(ctx context.Context) error {
	if !itemrules.ShouldRequestCode(it.Form.Doc) {
		return nil
	}
	code, err := NextCode(ctx, it.Backend, itemrules.CodeRequestArgs(it.Form.Doc))
	if err != nil {
		return fmt.Errorf("auto code: %w", err)
	}
	if code != "" {
		it.Form.Set(itemrules.FieldItemCode, code)
	}
	return nil
}

// Validate runs the pre-save rules.
func (it *Item) Validate(ctx context.Context) error {
	it.Form.Apply(itemrules.ApplyFlags(it.Form.Doc))
	it.Form.Apply(itemrules.MeasureTotals(it.Form.Doc))
	return it.FillCode(ctx)
}

// Save validates and stores the item. New items are inserted under their
// item code.
func (it *Item) Save(ctx context.Context) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}
	if err := it.Form.Save(ctx, it.Backend); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// AllowedGroups lists the item groups the current type may use.
func (it *Item) AllowedGroups(ctx context.Context) ([]itemrules.ItemGroup, itemrules.GroupRule, error) {
	rule := it.GroupRule(ctx)
	return ListGroups(ctx, it.Backend, rule)
}

// ListGroups lists item groups matching a rule.
func ListGroups(ctx context.Context, b Backend, rule itemrules.GroupRule) ([]itemrules.ItemGroup, itemrules.GroupRule, error) {
	ds, err := b.GetList(ctx, itemrules.ItemGroupDoctype, doc.ListQuery{
		Fields:  []string{"name", "parent_item_group", "lft", "rgt", "is_group"},
		Filters: rule.Filters(),
		OrderBy: "lft asc",
	})
	if err != nil {
		return nil, rule, err
	}
	groups := make([]itemrules.ItemGroup, 0, len(ds))
	for _, d := range ds {
		g := itemrules.ItemGroup{
			Name:    d.Name(),
			Parent:  d.Str("parent_item_group"),
			Lft:     d.Int("lft"),
			Rgt:     d.Int("rgt"),
			IsGroup: d.Int("is_group"),
		}
		if rule.Allows(g) {
			groups = append(groups, g)
		}
	}
	return groups, rule, nil
}
