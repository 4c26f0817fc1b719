package erp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

type boqState struct {
	boq       *hooks.BOQ
	source    int
	priceList textinput.Model
	totals    pricing.BOQTotals
	summary   string
}

type costsUpdatedMsg struct {
	summary string
}

func (m *Model) enterBOQ(q *hooks.BOQ) {
	s := &boqState{boq: q, totals: q.Preview()}
	s.priceList = newInput(q.DefaultPriceList, "")
	s.priceList.Width = 30
	s.priceList.Focus()
	m.boq = s
	m.view = ViewUpdateCosts
}

func (s *boqState) current() pricing.CostSource {
	return pricing.CostSources[s.source]
}

// updateInput passes a message to the price list input.
func (s *boqState) updateInput(msg tea.Msg) tea.Cmd {
	if s == nil || s.current() != pricing.SourcePriceList {
		return nil
	}
	var cmd tea.Cmd
	s.priceList, cmd = s.priceList.Update(msg)
	return cmd
}

func (m Model) updateBOQ(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.boq
	if msg.String() == "esc" {
		m.goMain()
		return m, nil
	}
	if s == nil || m.loading {
		return m, nil
	}

	n := len(pricing.CostSources)
	switch msg.String() {
	case "left":
		s.source = (s.source + n - 1) % n
		return m, nil
	case "right":
		s.source = (s.source + 1) % n
		return m, nil
	case "enter":
		m.loading = true
		m.busy = s.current().FreezeMessage()
		return m, m.updateCosts()
	case "ctrl+p":
		m.loading = true
		return m, m.pushBOQ()
	}
	return m, s.updateInput(msg)
}

func (m Model) updateCosts() tea.Cmd {
	s := m.boq
	source := s.current()
	priceList := strings.TrimSpace(s.priceList.Value())
	currency := m.client.Settings.CurrencyOf(s.boq.Form.Doc)
	return func() tea.Msg {
		res, err := s.boq.UpdateCosts(context.Background(), source, priceList)
		if err != nil {
			return errorMsg{err}
		}
		s.totals = s.boq.Preview()
		return costsUpdatedMsg{summary: res.Summary(source, currency)}
	}
}

func (m Model) pushBOQ() tea.Cmd {
	q := m.boq.boq
	return func() tea.Msg {
		pushed, err := q.PushToCostingNote(context.Background())
		if err != nil {
			return formSubmittedMsg{false, err.Error()}
		}
		if !pushed {
			return formSubmittedMsg{false, "BOQ has no costing note row to update"}
		}
		return formSubmittedMsg{true, fmt.Sprintf("Costing note %s updated", q.Form.Doc.Str(pricing.FieldCostingNote))}
	}
}

func (m Model) renderBOQ() string {
	s := m.boq
	if s == nil {
		return fmt.Sprintf("\n  %s Loading...", m.spinner.View())
	}
	d := s.boq.Form.Doc
	cur := m.client.Settings.CurrencyOf(d)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" BOQ "+d.Name()+" ") + "  ")
	if cn := d.Str(pricing.FieldCostingNote); cn != "" {
		b.WriteString(helpStyle.Render("costing note " + cn))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Cost source"))
	for i, src := range pricing.CostSources {
		if i == s.source {
			b.WriteString(activeBadge.Render(src.Label()))
		} else {
			b.WriteString(inactiveBadge.Render(src.Label()))
		}
	}
	b.WriteString("\n")
	if s.current() == pricing.SourcePriceList {
		b.WriteString(labelStyle.Render("Price list") + s.priceList.View() + "\n")
	}
	b.WriteString("\n")

	t := s.totals
	lines := []string{
		labelStyle.Render("Material") + pricing.FormatMoney(t.Material, cur),
		labelStyle.Render("Labor") + pricing.FormatMoney(t.Labor, cur),
		labelStyle.Render("Expenses") + pricing.FormatMoney(t.Expenses, cur),
		labelStyle.Render("Contractors") + pricing.FormatMoney(t.Contractors, cur),
		labelStyle.Render("Total") + successStyle.Render(pricing.FormatMoney(t.Total, cur)),
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))

	if s.summary != "" {
		b.WriteString("\n\n" + boxStyle.Render(s.summary))
	}
	return b.String()
}
