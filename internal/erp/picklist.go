package erp

import (
	"context"
	"fmt"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/hooks"
)

// CmdPickList handles pick list commands
func (c *Client) CmdPickList(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: c4p picklist <subcommand> [args...]")
		fmt.Println("Subcommands: fill-warehouses")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  c4p picklist fill-warehouses STO-PICK-2026-00003")
		return nil
	}

	switch args[0] {
	case "fill-warehouses":
		if len(args) < 2 {
			return fmt.Errorf("usage: c4p picklist fill-warehouses <name>")
		}
		return c.pickListFill(context.Background(), args[1])
	default:
		return fmt.Errorf("unknown picklist subcommand: %s", args[0])
	}
}

func (c *Client) pickListFill(ctx context.Context, name string) error {
	fmt.Printf("%sFilling default warehouses for %s...%s\n", Blue, name, Reset)

	f, err := hooks.OpenPickList(ctx, c, name)
	if err != nil {
		return err
	}
	if f.Doc.Str("company") == "" {
		company, err := c.GetCompany(ctx)
		if err != nil {
			return err
		}
		f.Doc["company"] = company
	}

	n := hooks.FillWarehouses(ctx, c, c.Log, f)
	if n == 0 {
		fmt.Printf("%sNo rows needed a warehouse%s\n", Yellow, Reset)
		return nil
	}
	if err := f.Save(ctx, c); err != nil {
		return fmt.Errorf("save pick list: %w", err)
	}
	fmt.Printf("%s✓ %d rows got a default warehouse%s\n", Green, n, Reset)
	return nil
}

// GetCompany returns the configured company, or the first one on the site.
func (c *Client) GetCompany(ctx context.Context) (string, error) {
	if c.Config.Company != "" {
		return c.Config.Company, nil
	}

	rows, err := c.GetList(ctx, "Company", doc.ListQuery{Fields: []string{"name"}, Limit: 1})
	if err != nil {
		return "", err
	}
	if len(rows) > 0 && rows[0].Name() != "" {
		return rows[0].Name(), nil
	}

	return "", fmt.Errorf("no company found. Set ERP_COMPANY in config")
}
