package erp

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/connect4systems/c4pricing-cli/internal/itemrules"
)

// ruleTypes are the item types listed by "item rules" and the rules screen.
var ruleTypes = []string{
	"Standard Product", "Customized Product", "Material Item", "Accessories",
	"Asset Item", "Services", "Part", "WIP",
}

func (m *Model) initRulesMenu() {
	items := make([]list.Item, len(ruleTypes))
	for i, t := range ruleTypes {
		desc := "no code pattern"
		if p, ok := itemrules.NamingPattern(t); ok {
			desc = p
		}
		items[i] = MenuItem{t, desc, ViewItemRuleDetail}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle

	m.rulesMenu = list.New(items, delegate, m.width-4, m.height-8)
	m.rulesMenu.Title = "Item Types"
	m.rulesMenu.SetShowStatusBar(false)
	m.rulesMenu.SetFilteringEnabled(false)
	m.rulesMenu.Styles.Title = titleStyle
}

func (m Model) updateRules(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == ViewItemRuleDetail {
		switch msg.String() {
		case "esc", "q":
			m.view = ViewItemRules
			m.breadcrumbs = m.breadcrumbs[:len(m.breadcrumbs)-1]
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.goMain()
		return m, nil
	case "enter":
		item, ok := m.rulesMenu.SelectedItem().(MenuItem)
		if !ok {
			return m, nil
		}
		m.viewport.SetContent(describeRules(item.title, m.client.Settings.MaterialsRoot))
		m.viewport.GotoTop()
		m.breadcrumbs = append(m.breadcrumbs, item.title)
		m.view = ViewItemRuleDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.rulesMenu, cmd = m.rulesMenu.Update(msg)
	return m, cmd
}

// describeRules renders what saving an item of itemType does.
func describeRules(itemType, materialsRoot string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" "+itemType+" ") + "\n\n")

	yesNo := func(v int) string {
		if v == 1 {
			return successStyle.Render("yes")
		}
		return "no"
	}
	if f, ok := itemrules.FlagsFor(itemType); ok {
		b.WriteString(labelStyle.Render("Purchase") + yesNo(f.Purchase) + "\n")
		b.WriteString(labelStyle.Render("Sales") + yesNo(f.Sales) + "\n")
		b.WriteString(labelStyle.Render("Stock") + yesNo(f.Stock) + "\n")
		b.WriteString(labelStyle.Render("Fixed asset") + yesNo(f.FixedAsset) + "\n")
	} else {
		b.WriteString(labelStyle.Render("Flags") + "left as entered\n")
	}
	b.WriteString("\n")

	rule := itemrules.GroupRuleFor(itemType, materialsRoot)
	b.WriteString(labelStyle.Render("Item group") + rule.String() + "\n")
	if rule.NeedsBounds() {
		b.WriteString(labelStyle.Render("") + helpStyle.Render("groups under "+rule.Group+", looked up on the server") + "\n")
	}

	req := itemrules.RequiredFields(itemType)
	need := "nothing"
	if len(req) > 0 {
		need = strings.Join(req, ", ")
	}
	b.WriteString(labelStyle.Render("Code needs") + need + "\n")

	if p, ok := itemrules.NamingPattern(itemType); ok {
		b.WriteString(labelStyle.Render("Code pattern") + p + "\n")
	} else {
		b.WriteString(labelStyle.Render("Code pattern") + errorStyle.Render("none, the server rejects this type") + "\n")
	}

	if base, ok := itemrules.SubAssemblyBase(itemType, "MAIN-001", "Frame"); ok {
		b.WriteString(labelStyle.Render("Example") + fmt.Sprintf("MAIN-001 / Frame → %s…", base) + "\n")
	}
	return b.String()
}
