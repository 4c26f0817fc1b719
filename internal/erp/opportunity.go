package erp

import (
	"context"
	"fmt"

	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

// CmdOpportunity handles opportunity commands
func (c *Client) CmdOpportunity(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: c4p opp <subcommand> [args...]")
		fmt.Println("Subcommands: show, select, add, costing-note, quotation")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  c4p opp show CRM-OPP-2026-00012")
		fmt.Println("  c4p opp select CRM-OPP-2026-00012")
		fmt.Println("  c4p opp add CRM-OPP-2026-00012 STD-LG-001")
		fmt.Println("  c4p opp add CRM-OPP-2026-00012 CP-KIOSK-004 --type=\"Customized Product\" --qty=3")
		fmt.Println("  c4p opp costing-note CRM-OPP-2026-00012")
		fmt.Println("  c4p opp quotation CRM-OPP-2026-00012")
		return nil
	}

	pos, flags := splitArgs(args[1:])
	ctx := context.Background()

	switch args[0] {
	case "show":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p opp show <name>")
		}
		return c.oppShow(ctx, pos[0])
	case "select":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p opp select <name>")
		}
		return RunSelector(c, pos[0])
	case "add":
		if len(pos) < 2 {
			return fmt.Errorf("usage: c4p opp add <name> <item_code> [--type=X] [--qty=N]")
		}
		itemType := flags["type"]
		if itemType == "" {
			itemType = c.Settings.ItemTypes[0]
		}
		qty := 1.0
		if s, ok := flags["qty"]; ok {
			var err error
			if qty, err = amountArg("quantity", s); err != nil {
				return err
			}
		}
		return c.oppAdd(ctx, pos[0], pos[1], itemType, qty)
	case "costing-note":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p opp costing-note <name>")
		}
		return c.oppCostingNote(ctx, pos[0])
	case "quotation":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p opp quotation <name>")
		}
		return c.oppQuotation(ctx, pos[0])
	default:
		return fmt.Errorf("unknown opp subcommand: %s", args[0])
	}
}

func (c *Client) openOpportunity(ctx context.Context, name string) (*hooks.Opportunity, error) {
	return hooks.OpenOpportunity(ctx, c, c.Log, c.Settings.SelectorOptions(), name)
}

func (c *Client) oppShow(ctx context.Context, name string) error {
	fmt.Printf("%sFetching opportunity: %s%s\n", Blue, name, Reset)

	o, err := c.openOpportunity(ctx, name)
	if err != nil {
		return err
	}
	d := o.Form.Doc
	fmt.Printf("\n%sOpportunity %s%s  %s\n", Cyan, d.Name(), Reset, d.Str("party_name"))

	opts := o.Options
	for _, table := range []string{opts.StandardTable, pricing.OpportunityItems} {
		rows := d.Rows(table)
		if len(rows) == 0 {
			continue
		}
		t := selector.TargetFor(opts.ItemTypes[0], opts)
		if table == pricing.OpportunityItems {
			t = selector.TargetFor("", opts)
		}
		fmt.Printf("\n  %s%s (%d)%s\n", Yellow, table, len(rows), Reset)
		for i, r := range rows {
			fmt.Printf("  %3d. %-24s qty %8.2f  rate %12.2f  amount %12.2f\n",
				i+1, truncate(r.Str(t.ItemField), 24), r.Float(pricing.FieldQty),
				r.Float(pricing.FieldRate), r.Float(pricing.FieldAmount))
		}
	}
	return nil
}

func (c *Client) oppAdd(ctx context.Context, name, code, itemType string, qty float64) error {
	o, err := c.openOpportunity(ctx, name)
	if err != nil {
		return err
	}

	d, err := c.GetDoc(ctx, itemrules.ItemDoctype, code)
	if err != nil {
		return err
	}
	it := selector.ItemFromDoc(d)

	table, i := o.AddItem(ctx, it, itemType)
	if qty != 1 {
		o.SetQty(table, i, qty)
	}
	if err := o.Save(ctx); err != nil {
		return err
	}

	row := o.Form.Doc.Row(table, i)
	fmt.Printf("%s✓ %s added to %s row %d%s\n", Green, it.Title(), table, i+1, Reset)
	fmt.Printf("  Rate: %.2f | Qty: %.2f | Amount: %.2f\n",
		row.Float(pricing.FieldRate), row.Float(pricing.FieldQty), row.Float(pricing.FieldAmount))
	return nil
}

func (c *Client) oppCostingNote(ctx context.Context, name string) error {
	fmt.Printf("%sCreating costing note from %s...%s\n", Blue, name, Reset)

	o, err := c.openOpportunity(ctx, name)
	if err != nil {
		return err
	}
	cn, err := o.CreateCostingNote(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s✓ Costing note created: %s%s\n", Green, cn.Name(), Reset)
	fmt.Printf("  Rows: %d\n", len(cn.Rows(pricing.CostingItemsTable)))
	return nil
}

func (c *Client) oppQuotation(ctx context.Context, name string) error {
	fmt.Printf("%sMaking quotation from %s...%s\n", Blue, name, Reset)

	o, err := c.openOpportunity(ctx, name)
	if err != nil {
		return err
	}
	qtn, err := o.MakeQuotation(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s✓ Quotation created: %s%s\n", Green, qtn.Name(), Reset)
	for i, r := range qtn.Rows(pricing.QuotationItems) {
		fmt.Printf("  %3d. %-24s qty %8.2f  rate %12.2f  amount %12.2f\n",
			i+1, truncate(r.Str(pricing.FieldItemCode), 24), r.Float(pricing.FieldQty),
			r.Float(pricing.FieldRate), r.Float(pricing.FieldAmount))
	}
	if total := qtn.Float("grand_total"); total != 0 {
		fmt.Printf("  Grand Total: %.2f\n", total)
	}
	return nil
}
