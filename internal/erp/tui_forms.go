package erp

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// formLabels returns the field labels of the current form.
func (m Model) formLabels() (string, []string) {
	switch m.view {
	case ViewSetMargin:
		return " Default Margin ", []string{"Margin %:"}
	case ViewSetCost:
		return " Row Cost ", []string{"Cost:"}
	}
	switch m.openTarget {
	case ViewSelector:
		return " Select Items ", []string{"Opportunity:"}
	case ViewCostingNote:
		return " Costing Note ", []string{"Costing Note:"}
	case ViewUpdateCosts:
		return " Update BOQ Costs ", []string{"BOQ:"}
	}
	return " Open ", []string{"Name:"}
}

func newInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.SetValue(value)
	in.Width = 40
	return in
}

// initOpenDocForm asks for the document the target screen edits.
func (m *Model) initOpenDocForm(target View, placeholder string) {
	m.inputs = []textinput.Model{newInput(placeholder, "")}
	m.inputs[0].Focus()
	m.focusIndex = 0
	m.openTarget = target
	m.prevView = ViewMain
	m.view = ViewOpenDoc
}

func (m *Model) initMarginForm() {
	current := m.cn.note.Form.Doc.Float(pricing.FieldDefaultMargin)
	m.inputs = []textinput.Model{newInput("e.g. 25", fmt.Sprintf("%g", current))}
	m.inputs[0].Focus()
	m.focusIndex = 0
	m.prevView = ViewCostingNote
	m.view = ViewSetMargin
}

func (m *Model) initCostForm() {
	row := m.cn.note.Form.Doc.Row(pricing.CostingItemsTable, m.cn.table.Cursor())
	if row == nil {
		return
	}
	m.inputs = []textinput.Model{newInput("unit cost", fmt.Sprintf("%g", row.Float(pricing.FieldCost)))}
	m.inputs[0].Focus()
	m.focusIndex = 0
	m.prevView = ViewCostingNote
	m.view = ViewSetCost
}

// updateFormInputs handles form input updates
func (m *Model) updateFormInputs(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			m.focusIndex++
			if m.focusIndex >= len(m.inputs) {
				m.focusIndex = 0
			}
			return m.updateFocus()

		case "shift+tab", "up":
			m.focusIndex--
			if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs) - 1
			}
			return m.updateFocus()

		case "enter":
			return m.submitCurrentForm()

		case "esc":
			m.inputs = nil
			if m.prevView == ViewMain {
				m.goMain()
				return nil
			}
			m.view = m.prevView
			return nil
		}
	}

	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return cmd
	}

	return nil
}

// updateFocus updates which input has focus
func (m *Model) updateFocus() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds = append(cmds, m.inputs[i].Focus())
		} else {
			m.inputs[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// submitCurrentForm submits the current form based on view
func (m *Model) submitCurrentForm() tea.Cmd {
	value := strings.TrimSpace(m.inputs[0].Value())

	switch m.view {
	case ViewOpenDoc:
		if value == "" {
			m.message, m.messageType = "A name is required", "error"
			return nil
		}
		m.view = m.openTarget
		m.breadcrumbs = append(m.breadcrumbs, value)
		m.loading = true
		m.inputs = nil
		return m.openDoc(m.openTarget, value)

	case ViewSetMargin:
		margin, err := amountArg("margin", value)
		if err != nil {
			m.message, m.messageType = err.Error(), "error"
			return nil
		}
		p := m.cn.note.SetMargin(margin)
		m.cn.rebuild()
		m.view = ViewCostingNote
		m.inputs = nil
		return notifyCmd(fmt.Sprintf("Margin %.2f%%, %d rows repriced (unsaved)", margin, len(p.Changes)))

	case ViewSetCost:
		cost, err := amountArg("cost", value)
		if err != nil {
			m.message, m.messageType = err.Error(), "error"
			return nil
		}
		i := m.cn.table.Cursor()
		if err := m.cn.note.SetCost(i, cost); err != nil {
			m.message, m.messageType = err.Error(), "error"
			return nil
		}
		m.cn.rebuild()
		m.view = ViewCostingNote
		m.inputs = nil
		return notifyCmd(fmt.Sprintf("Row %d cost %.2f (unsaved)", i+1, cost))
	}
	return nil
}

// notifyCmd reports a local change through the success notification.
func notifyCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return formSubmittedMsg{success: true, message: message}
	}
}

// renderForm renders the current single-page form
func (m Model) renderForm() string {
	var b strings.Builder
	title, labels := m.formLabels()
	b.WriteString(titleStyle.Render(title) + "\n\n")

	for i, input := range m.inputs {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		b.WriteString(fmt.Sprintf("  %s\n", label))
		b.WriteString(fmt.Sprintf("  %s\n\n", input.View()))
	}

	return boxStyle.Render(b.String())
}
