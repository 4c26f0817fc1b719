package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
)

// CmdItem handles item commands
func (c *Client) CmdItem(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: c4p item <subcommand> [args...]")
		fmt.Println("Subcommands: get, apply-type, groups, autocode, new, rules")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  c4p item get STD-LG-001")
		fmt.Println("  c4p item apply-type STD-LG-001 \"Standard Product\"")
		fmt.Println("  c4p item groups \"Material Item\"")
		fmt.Println("  c4p item new \"Standard Product\" brand=LG item_group=Screens item_name=\"LG 55\"")
		fmt.Println("  c4p item new Part custom_main_product=STD-LG-001 custom_part_type=Frame")
		fmt.Println("  c4p item rules Part")
		return nil
	}

	pos, _ := splitArgs(args[1:])
	ctx := context.Background()

	switch args[0] {
	case "get":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p item get <code>")
		}
		return c.itemGet(ctx, pos[0])
	case "apply-type":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p item apply-type <code> [type]")
		}
		itemType := ""
		if len(pos) > 1 {
			itemType = pos[1]
		}
		return c.itemApplyType(ctx, pos[0], itemType)
	case "groups":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p item groups <type>")
		}
		return c.itemGroups(ctx, pos[0])
	case "autocode":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p item autocode <code>")
		}
		return c.itemAutocode(ctx, pos[0])
	case "new":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p item new <type> [field=value...]")
		}
		fields, err := fieldArgs(pos[1:])
		if err != nil {
			return err
		}
		return c.itemNew(ctx, pos[0], fields)
	case "rules":
		if len(pos) == 0 {
			return c.itemRulesAll()
		}
		return c.itemRules(pos[0])
	default:
		return fmt.Errorf("unknown item subcommand: %s", args[0])
	}
}

func (c *Client) openItem(ctx context.Context, code string) (*hooks.Item, error) {
	return hooks.OpenItem(ctx, c, c.Log, c.Settings.MaterialsRoot, code)
}

func (c *Client) itemGet(ctx context.Context, code string) error {
	fmt.Printf("%sFetching item: %s%s\n", Blue, code, Reset)

	d, err := c.GetDoc(ctx, itemrules.ItemDoctype, code)
	if err != nil {
		return err
	}

	output := map[string]interface{}{
		"item_code":        d[itemrules.FieldItemCode],
		"item_name":        d[itemrules.FieldItemName],
		"item_group":       d[itemrules.FieldItemGroup],
		"brand":            d[itemrules.FieldBrand],
		"custom_item_type": d[itemrules.FieldCustomItemType],
		"stock_uom":        d["stock_uom"],
	}
	for _, f := range itemrules.FlagFields {
		output[f] = d.Int(f)
	}
	for k, v := range output {
		if v == nil || v == "" {
			delete(output, k)
		}
	}

	jsonOut, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonOut))

	if want, ok := itemrules.FlagsFor(itemrules.ItemTypeOf(d)); ok {
		p := itemrules.ApplyFlags(d)
		if !p.Empty() {
			fmt.Printf("%sFlags differ from %s (%d fields). Run 'c4p item apply-type %s'%s\n",
				Yellow, itemrules.ItemTypeOf(d), len(p.Changes), code, Reset)
			printFlags(want)
		}
	}
	return nil
}

func (c *Client) itemApplyType(ctx context.Context, code, itemType string) error {
	it, err := c.openItem(ctx, code)
	if err != nil {
		return err
	}

	var rule itemrules.GroupRule
	if itemType != "" {
		rule, err = it.SetType(ctx, itemType)
		if err != nil {
			return err
		}
	} else {
		rule = it.GroupRule(ctx)
	}

	if g := it.Form.Doc.Str(itemrules.FieldItemGroup); g != "" && rule.Kind != itemrules.Unrestricted {
		groups, _, err := hooks.ListGroups(ctx, c, rule)
		if err != nil {
			return err
		}
		if !containsGroup(groups, g) {
			fmt.Printf("%sItem group %s is not allowed for %s (%s)%s\n", Yellow, g, itemrules.ItemTypeOf(it.Form.Doc), rule, Reset)
		}
	}

	if !it.Form.Dirty {
		fmt.Printf("%sItem %s already matches its type%s\n", Green, code, Reset)
		return nil
	}
	if err := it.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("%s✓ Item %s updated%s\n", Green, it.Form.Doc.Name(), Reset)
	fmt.Printf("  Group rule: %s\n", rule)
	return nil
}

func containsGroup(groups []itemrules.ItemGroup, name string) bool {
	for _, g := range groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (c *Client) itemGroups(ctx context.Context, itemType string) error {
	it := hooks.NewItem(c, c.Log, c.Settings.MaterialsRoot, doc.Doc{itemrules.FieldCustomItemType: itemType})
	groups, rule, err := it.AllowedGroups(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%sItem groups for %s%s (%s)\n", Cyan, itemType, Reset, rule)
	if len(groups) == 0 {
		fmt.Printf("%sNo item groups found%s\n", Yellow, Reset)
		return nil
	}
	for _, g := range groups {
		marker := "  "
		if g.IsGroup == 1 {
			marker = "▸ "
		}
		if rule.Force && g.Name == rule.Group {
			marker = "★ "
		}
		fmt.Printf("  %s%s\n", marker, g.Name)
	}
	return nil
}

func (c *Client) itemAutocode(ctx context.Context, code string) error {
	it, err := c.openItem(ctx, code)
	if err != nil {
		return err
	}
	if missing := itemrules.MissingFields(it.Form.Doc); len(missing) > 0 {
		return fmt.Errorf("cannot generate code, missing: %s", strings.Join(missing, ", "))
	}
	if !itemrules.ShouldRequestCode(it.Form.Doc) {
		fmt.Printf("%sItem %s already has code %s%s\n", Yellow, code, it.Form.Doc.Str(itemrules.FieldItemCode), Reset)
		return nil
	}
	if err := it.FillCode(ctx); err != nil {
		return err
	}
	if err := it.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("%s✓ Item code: %s%s\n", Green, it.Form.Doc.Str(itemrules.FieldItemCode), Reset)
	return nil
}

func (c *Client) itemNew(ctx context.Context, itemType string, fields []fieldArg) error {
	fmt.Printf("%sCreating %s item...%s\n", Blue, itemType, Reset)

	it := hooks.NewItem(c, c.Log, c.Settings.MaterialsRoot, doc.Doc{})
	if _, err := it.SetType(ctx, itemType); err != nil {
		return err
	}
	for _, f := range fields {
		if err := it.SetField(ctx, f.Field, f.Value); err != nil {
			return err
		}
	}

	if missing := itemrules.MissingFields(it.Form.Doc); len(missing) > 0 && it.Form.Doc.IsBlank(itemrules.FieldItemCode) {
		return fmt.Errorf("missing fields for %s: %s", itemType, strings.Join(missing, ", "))
	}
	if err := it.Save(ctx); err != nil {
		return err
	}

	fmt.Printf("%s✓ Item created: %s%s\n", Green, it.Form.Doc.Name(), Reset)
	if g := it.Form.Doc.Str(itemrules.FieldItemGroup); g != "" {
		fmt.Printf("  Group: %s\n", g)
	}
	return nil
}

func (c *Client) itemRules(itemType string) error {
	fmt.Printf("%sRules for %s%s\n", Cyan, itemType, Reset)

	if f, ok := itemrules.FlagsFor(itemType); ok {
		printFlags(f)
	} else {
		fmt.Printf("  Flags: %sunchanged (unknown type)%s\n", Yellow, Reset)
	}

	fmt.Printf("  Item group: %s\n", itemrules.GroupRuleFor(itemType, c.Settings.MaterialsRoot))

	if req := itemrules.RequiredFields(itemType); len(req) > 0 {
		fmt.Printf("  Code needs: %s\n", strings.Join(req, ", "))
	} else {
		fmt.Printf("  Code needs: nothing\n")
	}
	if p, ok := itemrules.NamingPattern(itemType); ok {
		fmt.Printf("  Code pattern: %s\n", p)
	} else {
		fmt.Printf("  Code pattern: %snone, the server rejects this type%s\n", Yellow, Reset)
	}
	return nil
}

func (c *Client) itemRulesAll() error {
	for _, t := range ruleTypes {
		if err := c.itemRules(t); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func printFlags(f itemrules.Flags) {
	on := func(v int) string {
		if v == 1 {
			return Green + "yes" + Reset
		}
		return "no"
	}
	fmt.Printf("  Purchase: %s | Sales: %s | Stock: %s | Fixed asset: %s\n",
		on(f.Purchase), on(f.Sales), on(f.Stock), on(f.FixedAsset))
}
