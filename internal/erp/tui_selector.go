package erp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/connect4systems/c4pricing-cli/internal/hooks"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

// Selector filter inputs, in tab order. The results table follows them.
const (
	selText = iota
	selGroup
	selBrand
	selLine
	selWidth
	selHeight
	selDepth
	selInputs
)

var selLabels = [selInputs]string{"Search", "Item Group", "Brand", "Material Line", "Width", "Height", "Depth"}

type selectorState struct {
	opp    *hooks.Opportunity
	model  *selector.Model
	inputs []textinput.Model
	focus  int
	table  table.Model
	added  int
}

type searchResultMsg struct {
	seq   uint64
	items []selector.Item
	err   error
}

type itemAddedMsg struct {
	title string
	table string
	row   int
}

func newSelectorState(opp *hooks.Opportunity, groups []string) *selectorState {
	s := &selectorState{
		opp:   opp,
		model: selector.New(opp.Options),
	}

	s.inputs = make([]textinput.Model, selInputs)
	for i := range s.inputs {
		s.inputs[i] = newInput(selLabels[i], "")
		s.inputs[i].Width = 24
	}
	s.inputs[selText].Placeholder = "code, name or description"
	s.inputs[selGroup].SetSuggestions(groups)
	s.inputs[selGroup].ShowSuggestions = true
	for _, i := range []int{selWidth, selHeight, selDepth} {
		s.inputs[i].Width = 8
		s.inputs[i].Placeholder = "any"
	}
	s.inputs[selText].Focus()

	s.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Code", Width: 18},
			{Title: "Name", Width: 30},
			{Title: "Group", Width: 16},
		}),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styles.Selected = selectedStyle
	s.table.SetStyles(styles)
	return s
}

func (m Model) enterSelector(opp *hooks.Opportunity, groups []string) (tea.Model, tea.Cmd) {
	m.sel = newSelectorState(opp, groups)
	m.sel.resize(m.width, m.height)
	m.view = ViewSelector
	return m, m.search()
}

// search starts a search for the current filters.
func (m Model) search() tea.Cmd {
	s := m.sel
	if err := s.model.Filters.Validate(s.model.Options); err != nil {
		return func() tea.Msg { return errorMsg{err} }
	}
	seq, q := s.model.Search()
	c := m.client
	return func() tea.Msg {
		items, err := hooks.SearchItems(context.Background(), c, q)
		return searchResultMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) deliverSearch(msg searchResultMsg) Model {
	if m.sel == nil || !m.sel.model.Deliver(msg.seq, msg.items, msg.err) {
		return m
	}
	if msg.err != nil {
		m.message, m.messageType = msg.err.Error(), "error"
	}
	m.sel.rebuildTable()
	return m
}

// readFilters copies the inputs into the selector filters.
func (s *selectorState) readFilters() {
	f := &s.model.Filters
	f.Text = s.inputs[selText].Value()
	f.ItemGroup = strings.TrimSpace(s.inputs[selGroup].Value())
	f.Brand = strings.TrimSpace(s.inputs[selBrand].Value())
	f.MaterialLine = strings.TrimSpace(s.inputs[selLine].Value())
	f.Width = s.inputs[selWidth].Value()
	f.Height = s.inputs[selHeight].Value()
	f.Depth = s.inputs[selDepth].Value()
}

func (s *selectorState) rebuildTable() {
	rows := make([]table.Row, len(s.model.Results))
	for i, it := range s.model.Results {
		rows[i] = table.Row{it.Code, it.Title(), it.ItemGroup}
	}
	s.table.SetRows(rows)
	if s.model.Cursor >= 0 {
		s.table.SetCursor(s.model.Cursor)
	}
}

func (s *selectorState) resize(width, height int) {
	if s == nil || height == 0 {
		return
	}
	h := height - 20
	if h < 5 {
		h = 5
	}
	s.table.SetHeight(h)
}

func (s *selectorState) tableFocused() bool {
	return s.focus == selInputs
}

func (s *selectorState) setFocus(i int) tea.Cmd {
	s.focus = (i + selInputs + 1) % (selInputs + 1)
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == s.focus {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	if s.tableFocused() {
		s.table.Focus()
	} else {
		s.table.Blur()
	}
	return cmd
}

// updateFocused passes a message to the focused input.
func (s *selectorState) updateFocused(msg tea.Msg) tea.Cmd {
	if s == nil || s.tableFocused() {
		return nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sel
	if msg.String() == "esc" {
		m.goMain()
		return m, nil
	}
	if s == nil || m.loading {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m, s.setFocus(s.focus + 1)
	case "shift+tab":
		return m, s.setFocus(s.focus - 1)
	case "ctrl+t":
		types := s.model.Options.ItemTypes
		s.model.Filters.ItemType = types[(indexOf(types, s.model.Filters.ItemType)+1)%len(types)]
		return m, m.search()
	case "ctrl+l":
		sizes := s.model.Options.PageSizes
		s.model.Filters.Limit = sizes[(indexOfInt(sizes, s.model.Filters.Limit)+1)%len(sizes)]
		return m, m.search()
	case "ctrl+s":
		m.loading = true
		return m, m.saveOpportunity()
	}

	if s.tableFocused() {
		switch msg.String() {
		case "enter":
			it, ok := s.model.Current()
			if !ok {
				return m, nil
			}
			m.loading = true
			return m, m.addItem(it)
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		s.model.Highlight(s.table.Cursor())
		return m, cmd
	}

	before := s.model.Filters
	cmd := s.updateFocused(msg)
	s.readFilters()
	if s.model.Filters != before {
		return m, tea.Batch(cmd, m.search())
	}
	return m, cmd
}

func (m Model) addItem(it selector.Item) tea.Cmd {
	s := m.sel
	itemType := s.model.Filters.ItemType
	return func() tea.Msg {
		table, row := s.opp.AddItem(context.Background(), it, itemType)
		s.added++
		return itemAddedMsg{title: it.Title(), table: table, row: row}
	}
}

func (m Model) saveOpportunity() tea.Cmd {
	s := m.sel
	return func() tea.Msg {
		if err := s.opp.Save(context.Background()); err != nil {
			return formSubmittedMsg{false, err.Error()}
		}
		added := s.added
		s.added = 0
		return formSubmittedMsg{true, fmt.Sprintf("Opportunity %s saved (%d items added)", s.opp.Form.Doc.Name(), added)}
	}
}

func (m Model) renderSelector() string {
	s := m.sel
	if s == nil {
		return fmt.Sprintf("\n  %s Loading...", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Select Item ") + "  ")
	for _, t := range s.model.Options.ItemTypes {
		if t == s.model.Filters.ItemType {
			b.WriteString(activeBadge.Render(t))
		} else {
			b.WriteString(inactiveBadge.Render(t))
		}
	}
	b.WriteString(fmt.Sprintf("   %d per page\n\n", s.model.Filters.Limit))

	for i := selText; i < selWidth; i++ {
		if i == selBrand && !s.model.Options.IsStandard(s.model.Filters.ItemType) {
			b.WriteString(labelStyle.Render(selLabels[i]) + helpStyle.Render("(standard products only)") + "\n")
			continue
		}
		b.WriteString(labelStyle.Render(selLabels[i]) + s.inputs[i].View() + "\n")
	}
	b.WriteString(labelStyle.Render("W × H × D"))
	for _, i := range []int{selWidth, selHeight, selDepth} {
		b.WriteString(s.inputs[i].View() + " ")
	}
	b.WriteString("\n\n")

	results := s.table.View()
	if len(s.model.Results) == 0 {
		results = helpStyle.Render("No items match the filters")
	}
	preview := ""
	if it, ok := s.model.Current(); ok {
		preview = renderPreview(selector.PreviewOf(it, m.client.ActiveURL), m.width-72)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, results, "  ", preview))

	target := s.model.Target()
	b.WriteString("\n" + helpStyle.Render(fmt.Sprintf("Adds to %s", target.Table)))
	return b.String()
}

func renderPreview(p selector.Preview, width int) string {
	if width < 30 {
		width = 30
	}
	var b strings.Builder
	b.WriteString(selectedStyle.Render(p.Title) + "\n")
	b.WriteString(helpStyle.Render(p.Code) + "\n\n")
	rows := [][2]string{
		{"Group", p.ItemGroup},
		{"Material Line", p.MaterialLine},
		{"W × H × D", p.Dimensions},
		{"UOM", p.UOM},
	}
	if p.ImageURL != "" {
		rows = append(rows, [2]string{"Image", p.ImageURL})
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]) + r[1] + "\n")
	}
	if p.Description != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(width-6).Render(p.Description))
	}
	return boxStyle.Width(width).Render(b.String())
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func indexOfInt(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
