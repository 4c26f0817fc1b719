package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/connect4systems/c4pricing-cli/internal/erp"
)

func main() {
	// No arguments or "tui" command -> launch TUI
	if len(os.Args) < 2 || os.Args[1] == "tui" {
		client := newClient()
		if err := erp.RunTUI(client); err != nil {
			fail(err)
		}
		os.Exit(0)
	}

	cmd := os.Args[1]

	// Help doesn't need config
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		os.Exit(0)
	}

	// Version
	if cmd == "version" || cmd == "-v" || cmd == "--version" {
		fmt.Printf("C4 Pricing CLI v%s\n", erp.Version)
		fmt.Printf("Created by %s in %s\n", erp.Author, erp.Year)
		os.Exit(0)
	}

	client := newClient()

	// Detect connection mode (except for ping/config which do it themselves)
	if cmd != "ping" && cmd != "config" {
		client.DetectConnection(context.Background())
	}

	// Route commands
	var cmdErr error
	switch cmd {
	case "ping":
		cmdErr = client.CmdPing()
	case "config":
		cmdErr = client.CmdConfig()
	case "cn", "costing-note":
		cmdErr = client.CmdCostingNote(os.Args[2:])
	case "boq":
		cmdErr = client.CmdBOQ(os.Args[2:])
	case "opp", "opportunity":
		cmdErr = client.CmdOpportunity(os.Args[2:])
	case "item":
		cmdErr = client.CmdItem(os.Args[2:])
	case "picklist", "pick-list":
		cmdErr = client.CmdPickList(os.Args[2:])
	case "export":
		cmdErr = client.CmdExport(os.Args[2:])
	default:
		fmt.Printf("%sUnknown command: %s%s\n", erp.Red, cmd, erp.Reset)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		fail(cmdErr)
	}
}

// newClient loads the config and site settings or exits.
func newClient() *erp.Client {
	config, err := erp.LoadConfig()
	if err != nil {
		fail(err)
	}
	settings, err := erp.LoadSettingsFor(config)
	if err != nil {
		fail(err)
	}

	client := erp.NewClient(config)
	client.Settings = settings
	return client
}

func fail(err error) {
	fmt.Printf("%sError: %s%s\n", erp.Red, err, erp.Reset)
	os.Exit(1)
}

const usage = `{b}C4 Pricing CLI{r} - pricing workflow for ERPNext

Usage: c4p <command> [subcommand] [args...]
       c4p                                 Start the interactive UI

{y}Commands:{r}
  {g}ping{r}                                 Test connection and authentication
  {g}config{r}                               Show current configuration and site settings
  {g}version{r}                              Show version information

{y}Costing Notes:{r}
  {g}cn show <name>{r}                       Rows, selling prices and profit
  {g}cn set-margin <name> <margin>{r}        Change the default margin and reprice rows
  {g}cn backfill <name>{r}                   Fill blank target selling prices
  {g}cn set-cost <name> <row> <cost>{r}      Change a row cost
  {g}cn link-boq <name> <row> <boq>{r}       Link a row to a BOQ and take its total cost
  {g}cn create-boq <name> <row>{r}           Create (or reuse) the BOQ of a row
  {g}cn boqs <name> <row>{r}                 BOQs available for a row
  {g}cn push-rates <name>{r}                 Copy selling prices into the opportunity

{y}Bills of Quantities:{r}
  {g}boq show <name>{r}                      Cost tables and totals
  {g}boq update-costs <name> [--source=X] [--price-list=X]{r}
                                       Refresh unit costs (price_list, valuation, last_purchase)
  {g}boq totals <name>{r}                    Totals as computed by the server
  {g}boq push <name>{r}                      Send the BOQ total to its costing note row

{y}Opportunities:{r}
  {g}opp show <name>{r}                      Items and standard products
  {g}opp select <name>{r}                    Open the item selector
  {g}opp add <name> <item> [--type=X] [--qty=N]{r}
                                       Add an item at its last selling rate
  {g}opp costing-note <name>{r}              Create a costing note from the opportunity
  {g}opp quotation <name>{r}                 Quotation with standard-product rows

{y}Items:{r}
  {g}item get <code>{r}                      Item details and flag check
  {g}item apply-type <code> <type>{r}        Set the item type and its flags and group
  {g}item groups <type>{r}                   Item groups allowed for a type
  {g}item autocode <code>{r}                 Generate the item code
  {g}item new <type> <field=value> [...]{r}  Create an item with a generated code
  {g}item rules [type]{r}                    Flags, group and code rules per type

{y}Pick Lists:{r}
  {g}picklist fill-warehouses <name>{r}      Default warehouses for rows without one

{y}Export:{r}
  {g}export costing-note <name> -o <file>{r} Costing note to .xlsx or .csv
  {g}export boq <name> -o <file>{r}          BOQ cost tables to .xlsx or .csv

{y}Examples:{r}
  c4p ping
  c4p cn set-margin CN-2026-00001 25
  c4p boq update-costs BOQ-2026-00001 --source=valuation
  c4p opp select CRM-OPP-2026-00012
  c4p item new Part custom_main_product=STD-LG-001 custom_part_type=Frame

`

func printUsage() {
	fmt.Print(strings.NewReplacer(
		"{b}", erp.Blue,
		"{y}", erp.Yellow,
		"{g}", erp.Green,
		"{r}", erp.Reset,
	).Replace(usage))
}
