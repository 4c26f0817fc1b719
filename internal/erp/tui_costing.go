package erp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

type costingState struct {
	note   *hooks.CostingNote
	table  table.Model
	totals pricing.NoteTotals
}

func newCostingState(cn *hooks.CostingNote) *costingState {
	s := &costingState{note: cn}
	s.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Item", Width: 24},
			{Title: "Qty", Width: 8},
			{Title: "Cost", Width: 12},
			{Title: "Selling Price", Width: 14},
			{Title: "Total Selling", Width: 14},
			{Title: "BOQ", Width: 18},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styles.Selected = selectedStyle
	s.table.SetStyles(styles)
	s.rebuild()
	return s
}

// rebuild reloads the table rows and totals from the note.
func (s *costingState) rebuild() {
	d := s.note.Form.Doc
	var rows []table.Row
	for i, r := range d.Rows(pricing.CostingItemsTable) {
		tsp := fmt.Sprintf("%.2f", r.Float(pricing.FieldTSP))
		if r.IsBlank(pricing.FieldTSP) {
			tsp = "-"
		}
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			r.Str(pricing.FieldItem),
			fmt.Sprintf("%.2f", r.Float(pricing.FieldQty)),
			fmt.Sprintf("%.2f", r.Float(pricing.FieldCost)),
			tsp,
			fmt.Sprintf("%.2f", r.Float(pricing.FieldTotalSelling)),
			orDash(r.Str(pricing.FieldBOQLink)),
		})
	}
	cursor := s.table.Cursor()
	s.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor >= 0 {
		s.table.SetCursor(cursor)
	}
	s.totals = s.note.Totals()
}

func (s *costingState) resize(width, height int) {
	if s == nil || height == 0 {
		return
	}
	h := height - 18
	if h < 5 {
		h = 5
	}
	s.table.SetHeight(h)
}

func (m *Model) enterCostingNote(cn *hooks.CostingNote) {
	m.cn = newCostingState(cn)
	m.cn.resize(m.width, m.height)
	m.view = ViewCostingNote
}

func (m Model) updateCostingNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.cn
	if msg.String() == "esc" {
		m.goMain()
		return m, nil
	}
	if s == nil || m.loading {
		return m, nil
	}

	switch msg.String() {
	case "m":
		m.initMarginForm()
		return m, nil
	case "c":
		m.initCostForm()
		return m, nil
	case "s":
		m.loading = true
		return m, m.saveCostingNote()
	case "p":
		m.loading = true
		return m, m.pushRates()
	case "r":
		name := s.note.Form.Doc.Name()
		m.loading = true
		return m, m.openDoc(ViewCostingNote, name)
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return m, cmd
}

func (m Model) saveCostingNote() tea.Cmd {
	cn := m.cn.note
	return func() tea.Msg {
		if err := cn.Save(context.Background()); err != nil {
			return formSubmittedMsg{false, err.Error()}
		}
		return formSubmittedMsg{true, fmt.Sprintf("Costing note %s saved", cn.Form.Doc.Name())}
	}
}

func (m Model) pushRates() tea.Cmd {
	cn := m.cn.note
	return func() tea.Msg {
		n, err := cn.PushRates(context.Background())
		if err != nil {
			return formSubmittedMsg{false, err.Error()}
		}
		return formSubmittedMsg{true, fmt.Sprintf("%d opportunity rows repriced", n)}
	}
}

func (m Model) renderCostingNote() string {
	s := m.cn
	if s == nil {
		return fmt.Sprintf("\n  %s Loading...", m.spinner.View())
	}
	d := s.note.Form.Doc
	cur := m.client.Settings.CurrencyOf(d)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Costing Note "+d.Name()+" ") + "  ")
	if opp := d.Str("opportunity"); opp != "" {
		b.WriteString(helpStyle.Render("opportunity " + opp))
	}
	if s.note.Form.Dirty {
		b.WriteString("  " + activeBadge.Render("unsaved"))
	}
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Default margin") + fmt.Sprintf("%.2f%%", d.Float(pricing.FieldDefaultMargin)) + "\n\n")

	if len(d.Rows(pricing.CostingItemsTable)) == 0 {
		b.WriteString(helpStyle.Render("No items") + "\n")
	} else {
		b.WriteString(s.table.View() + "\n")
	}

	t := s.totals
	summary := strings.Join([]string{
		labelStyle.Render("Total cost") + pricing.FormatMoney(t.TotalCost, cur),
		labelStyle.Render("Total selling") + pricing.FormatMoney(t.TotalSelling, cur),
		labelStyle.Render("Profit") + successStyle.Render(fmt.Sprintf("%s (%.2f%%)", pricing.FormatMoney(t.TotalProfit, cur), t.ProfitMargin*100)),
	}, "\n")
	b.WriteString("\n" + boxStyle.Render(summary))
	return b.String()
}
