package erp

import (
	"context"
	"fmt"
	"strings"

	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// CmdCostingNote handles costing note commands
func (c *Client) CmdCostingNote(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: c4p cn <subcommand> [args...]")
		fmt.Println("Subcommands: show, set-margin, backfill, set-cost, link-boq, create-boq, boqs, push-rates")
		fmt.Println()
		fmt.Println("Rows are numbered from 1, as shown by 'cn show'.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  c4p cn show CN-2026-00001")
		fmt.Println("  c4p cn set-margin CN-2026-00001 25")
		fmt.Println("  c4p cn set-cost CN-2026-00001 2 1450")
		fmt.Println("  c4p cn link-boq CN-2026-00001 2 BOQ-2026-00004")
		fmt.Println("  c4p cn create-boq CN-2026-00001 3")
		fmt.Println("  c4p cn push-rates CN-2026-00001")
		return nil
	}

	pos, _ := splitArgs(args[1:])
	ctx := context.Background()

	switch args[0] {
	case "show":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p cn show <name>")
		}
		return c.cnShow(ctx, pos[0])
	case "set-margin":
		if len(pos) < 2 {
			return fmt.Errorf("usage: c4p cn set-margin <name> <pct>")
		}
		margin, err := amountArg("margin", pos[1])
		if err != nil {
			return err
		}
		return c.cnSetMargin(ctx, pos[0], margin)
	case "backfill":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p cn backfill <name>")
		}
		return c.cnBackfill(ctx, pos[0])
	case "set-cost":
		if len(pos) < 3 {
			return fmt.Errorf("usage: c4p cn set-cost <name> <row> <cost>")
		}
		i, err := rowArg(pos[1])
		if err != nil {
			return err
		}
		cost, err := amountArg("cost", pos[2])
		if err != nil {
			return err
		}
		return c.cnSetCost(ctx, pos[0], i, cost)
	case "link-boq":
		if len(pos) < 3 {
			return fmt.Errorf("usage: c4p cn link-boq <name> <row> <boq>")
		}
		i, err := rowArg(pos[1])
		if err != nil {
			return err
		}
		return c.cnLinkBOQ(ctx, pos[0], i, pos[2])
	case "create-boq":
		if len(pos) < 2 {
			return fmt.Errorf("usage: c4p cn create-boq <name> <row>")
		}
		i, err := rowArg(pos[1])
		if err != nil {
			return err
		}
		return c.cnCreateBOQ(ctx, pos[0], i)
	case "boqs":
		if len(pos) < 2 {
			return fmt.Errorf("usage: c4p cn boqs <name> <row>")
		}
		i, err := rowArg(pos[1])
		if err != nil {
			return err
		}
		return c.cnBOQs(ctx, pos[0], i)
	case "push-rates":
		if len(pos) < 1 {
			return fmt.Errorf("usage: c4p cn push-rates <name>")
		}
		return c.cnPushRates(ctx, pos[0])
	default:
		return fmt.Errorf("unknown cn subcommand: %s", args[0])
	}
}

func (c *Client) openCostingNote(ctx context.Context, name string) (*hooks.CostingNote, error) {
	return hooks.OpenCostingNote(ctx, c, c.Log, name)
}

func (c *Client) cnShow(ctx context.Context, name string) error {
	fmt.Printf("%sFetching costing note: %s%s\n", Blue, name, Reset)

	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	totals := cn.Totals()
	printCostingNote(cn, totals, c.Settings.CurrencyOf(cn.Form.Doc))
	return nil
}

func printCostingNote(cn *hooks.CostingNote, totals pricing.NoteTotals, currency string) {
	d := cn.Form.Doc
	fmt.Printf("\n%sCosting Note %s%s", Cyan, d.Name(), Reset)
	if opp := d.Str("opportunity"); opp != "" {
		fmt.Printf("  (opportunity %s)", opp)
	}
	fmt.Println()
	fmt.Printf("  Default margin: %.2f%%\n\n", d.Float(pricing.FieldDefaultMargin))

	fmt.Printf("  %3s  %-24s %8s %12s %12s %14s  %s\n", "#", "Item", "Qty", "Cost", "TSP", "Total Selling", "BOQ")
	fmt.Printf("  %s\n", strings.Repeat("-", 96))
	for i, r := range d.Rows(pricing.CostingItemsTable) {
		tsp := fmt.Sprintf("%12.2f", r.Float(pricing.FieldTSP))
		if r.IsBlank(pricing.FieldTSP) {
			tsp = fmt.Sprintf("%12s", "-")
		}
		fmt.Printf("  %3d  %-24s %8.2f %12.2f %s %14.2f  %s\n",
			i+1, truncate(r.Str(pricing.FieldItem), 24), r.Float(pricing.FieldQty),
			r.Float(pricing.FieldCost), tsp, r.Float(pricing.FieldTotalSelling),
			orDash(r.Str(pricing.FieldBOQLink)))
	}

	fmt.Println()
	fmt.Printf("  Total cost:    %s\n", pricing.FormatMoney(totals.TotalCost, currency))
	fmt.Printf("  Total selling: %s\n", pricing.FormatMoney(totals.TotalSelling, currency))
	fmt.Printf("  %sProfit:        %s (%.2f%%)%s\n", Green,
		pricing.FormatMoney(totals.TotalProfit, currency), totals.ProfitMargin*100, Reset)
}

func (c *Client) cnSetMargin(ctx context.Context, name string, margin float64) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	prev := cn.Form.Doc.Float(pricing.FieldDefaultMargin)
	p := cn.SetMargin(margin)
	if err := cn.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("%s✓ Margin %.2f%% -> %.2f%%, %d rows repriced%s\n", Green, prev, margin, len(p.Changes), Reset)
	return nil
}

func (c *Client) cnBackfill(ctx context.Context, name string) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	if !cn.Form.Dirty {
		fmt.Printf("%sEvery row already has a selling price%s\n", Yellow, Reset)
		return nil
	}
	if err := cn.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("%s✓ Blank selling prices filled%s\n", Green, Reset)
	return nil
}

func (c *Client) cnSetCost(ctx context.Context, name string, i int, cost float64) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	if err := cn.SetCost(i, cost); err != nil {
		return err
	}
	if err := cn.Save(ctx); err != nil {
		return err
	}
	row := cn.Form.Doc.Row(pricing.CostingItemsTable, i)
	fmt.Printf("%s✓ Row %d cost %.2f, selling price %.2f%s\n", Green, i+1, row.Float(pricing.FieldCost), row.Float(pricing.FieldTSP), Reset)
	return nil
}

func (c *Client) cnLinkBOQ(ctx context.Context, name string, i int, boq string) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	if err := cn.LinkBOQ(ctx, i, boq); err != nil {
		return err
	}
	if err := cn.Save(ctx); err != nil {
		return err
	}
	row := cn.Form.Doc.Row(pricing.CostingItemsTable, i)
	fmt.Printf("%s✓ Row %d linked to %s%s\n", Green, i+1, boq, Reset)
	fmt.Printf("  Cost: %.2f | Total cost: %.2f | TSP: %.2f\n",
		row.Float(pricing.FieldCost), row.Float(pricing.FieldTotalCost), row.Float(pricing.FieldTSP))
	return nil
}

func (c *Client) cnCreateBOQ(ctx context.Context, name string, i int) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	boq, err := cn.CreateBOQ(ctx, i)
	if err != nil {
		return err
	}
	if err := cn.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("%s✓ BOQ %s ready for row %d%s\n", Green, boq, i+1, Reset)
	return nil
}

func (c *Client) cnBOQs(ctx context.Context, name string, i int) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	row := cn.Form.Doc.Row(pricing.CostingItemsTable, i)
	if row == nil {
		return fmt.Errorf("costing note has no row %d", i+1)
	}
	boqs, err := cn.BOQChoices(ctx, i)
	if err != nil {
		return err
	}
	if len(boqs) == 0 {
		fmt.Printf("%sNo BOQ for item %s%s\n", Yellow, orDash(row.Str(pricing.FieldItem)), Reset)
		return nil
	}
	for _, b := range boqs {
		fmt.Printf("  %-20s %14s  %s\n", b.Name(), pricing.FormatMoney(b.Float(pricing.FieldTotalCost), ""), docStatus(b.Int("docstatus")))
	}
	return nil
}

func (c *Client) cnPushRates(ctx context.Context, name string) error {
	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return err
	}
	n, err := cn.PushRates(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s✓ %d opportunity rows repriced from %s%s\n", Green, n, name, Reset)
	return nil
}

func docStatus(s int) string {
	switch s {
	case 1:
		return "Submitted"
	case 2:
		return "Cancelled"
	default:
		return "Draft"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
