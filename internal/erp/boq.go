package erp

import (
	"context"
	"fmt"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// CmdBOQ handles BOQ commands
func (c *Client) CmdBOQ(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: c4p boq <subcommand> [args...]")
		fmt.Println("Subcommands: show, update-costs, totals, push")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  c4p boq show BOQ-2026-00001")
		fmt.Println("  c4p boq update-costs BOQ-2026-00001")
		fmt.Println("  c4p boq update-costs BOQ-2026-00001 --source=valuation")
		fmt.Println("  c4p boq update-costs BOQ-2026-00001 --price-list=\"Supplier Buying\"")
		fmt.Println("  c4p boq totals BOQ-2026-00001")
		fmt.Println("  c4p boq push BOQ-2026-00001")
		return nil
	}

	pos, flags := splitArgs(args[1:])
	ctx := context.Background()

	switch args[0] {
	case "show":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p boq show <name>")
		}
		return c.boqShow(ctx, pos[0])
	case "update-costs":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p boq update-costs <name> [--source=price_list|valuation|last_purchase] [--price-list=X]")
		}
		source, err := pricing.ParseCostSource(flags["source"])
		if err != nil {
			return err
		}
		return c.boqUpdateCosts(ctx, pos[0], source, flags["price-list"])
	case "totals":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p boq totals <name>")
		}
		return c.boqTotals(ctx, pos[0])
	case "push":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p boq push <name>")
		}
		return c.boqPush(ctx, pos[0])
	default:
		return fmt.Errorf("unknown boq subcommand: %s", args[0])
	}
}

func (c *Client) openBOQ(ctx context.Context, name string) (*hooks.BOQ, error) {
	return hooks.OpenBOQ(ctx, c, c.Log, c.Settings.BuyingPriceList, name)
}

func (c *Client) boqShow(ctx context.Context, name string) error {
	fmt.Printf("%sFetching BOQ: %s%s\n", Blue, name, Reset)

	q, err := c.openBOQ(ctx, name)
	if err != nil {
		return err
	}
	totals := q.Recalculate()
	d := q.Form.Doc

	fmt.Printf("\n%sBOQ %s%s", Cyan, d.Name(), Reset)
	if cn := d.Str(pricing.FieldCostingNote); cn != "" {
		fmt.Printf("  (costing note %s)", cn)
	}
	fmt.Println()
	fmt.Printf("  Margins: base %.2f%% | s %.2f%%\n", d.Float(pricing.FieldBaseMargin), d.Float(pricing.FieldSMargin))

	printBOQTable("Material", d, pricing.MaterialCosts, true)
	printBOQTable("Labor", d, pricing.LaborCosts, true)
	printBOQTable("Expenses", d, pricing.ExpensesTable, false)
	printBOQTable("Contractors", d, pricing.ContractorsTable, false)

	cur := c.Settings.CurrencyOf(d)
	fmt.Printf("\n  Material:    %s\n", pricing.FormatMoney(totals.Material, cur))
	fmt.Printf("  Labor:       %s\n", pricing.FormatMoney(totals.Labor, cur))
	fmt.Printf("  Expenses:    %s\n", pricing.FormatMoney(totals.Expenses, cur))
	fmt.Printf("  Contractors: %s\n", pricing.FormatMoney(totals.Contractors, cur))
	fmt.Printf("  %sTotal:       %s%s\n", Green, pricing.FormatMoney(totals.Total, cur), Reset)
	return nil
}

func printBOQTable(title string, d doc.Doc, table string, withMargin bool) {
	rows := d.Rows(table)
	if len(rows) == 0 {
		return
	}
	fmt.Printf("\n  %s%s (%d)%s\n", Yellow, title, len(rows), Reset)
	for i, r := range rows {
		label := r.Str("item")
		if label == "" {
			label = r.Str("description")
		}
		if withMargin {
			fmt.Printf("  %3d. %-28s direct %10.2f  margin %6.2f%%  qty %8.2f  total %12.2f\n",
				i+1, label, r.Float(pricing.FieldDirectCost), r.Float(pricing.FieldMargin),
				r.Float(pricing.FieldQty), r.Float(pricing.FieldTotalCost))
		} else {
			fmt.Printf("  %3d. %-28s cost %12.2f  qty %8.2f  total %12.2f\n",
				i+1, label, r.Float(pricing.FieldCost), r.Float(pricing.FieldQty), r.Float(pricing.FieldTotalCost))
		}
	}
}

func (c *Client) boqUpdateCosts(ctx context.Context, name string, source pricing.CostSource, priceList string) error {
	q, err := c.openBOQ(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("%s%s%s\n", Blue, source.FreezeMessage(), Reset)
	res, err := q.UpdateCosts(ctx, source, priceList)
	if err != nil {
		return err
	}

	fmt.Printf("%s✓ Costs updated%s\n", Green, Reset)
	fmt.Println(indent(res.Summary(source, c.Settings.CurrencyOf(q.Form.Doc)), "  "))
	return nil
}

func (c *Client) boqTotals(ctx context.Context, name string) error {
	fmt.Printf("%sFetching BOQ totals: %s%s\n", Blue, name, Reset)

	t, err := hooks.GetBOQTotals(ctx, c, name)
	if err != nil {
		return err
	}
	cur := c.Settings.Currency
	if d, err := c.GetDoc(ctx, pricing.BOQDoctype, name); err == nil {
		cur = c.Settings.CurrencyOf(d)
	}
	fmt.Printf("  Material:    %s\n", pricing.FormatMoney(t.Material, cur))
	fmt.Printf("  Labor:       %s\n", pricing.FormatMoney(t.Labor, cur))
	fmt.Printf("  Expenses:    %s\n", pricing.FormatMoney(t.Expenses, cur))
	fmt.Printf("  Contractors: %s\n", pricing.FormatMoney(t.Contractors, cur))
	fmt.Printf("  %sTotal:       %s%s\n", Green, pricing.FormatMoney(t.Total, cur), Reset)
	return nil
}

func (c *Client) boqPush(ctx context.Context, name string) error {
	q, err := c.openBOQ(ctx, name)
	if err != nil {
		return err
	}
	pushed, err := q.PushToCostingNote(ctx)
	if err != nil {
		return err
	}
	if !pushed {
		fmt.Printf("%sBOQ %s is not linked to a costing note row%s\n", Yellow, name, Reset)
		return nil
	}
	fmt.Printf("%s✓ Pushed %s to costing note %s%s\n", Green,
		pricing.FormatMoney(q.Form.Doc.Float(pricing.FieldTotalCost), c.Settings.CurrencyOf(q.Form.Doc)),
		q.Form.Doc.Str(pricing.FieldCostingNote), Reset)
	return nil
}
