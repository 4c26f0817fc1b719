package erp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/connect4systems/c4pricing-cli/internal/hooks"
)

// Version info
const (
	Version = "0.4.0"
	Author  = "Connect4 Systems"
	Year    = "2026"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	vpnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	internetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF9500")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	creditStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(16)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)

	// Badge styles for the item type switch
	activeBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFF")).
			Padding(0, 1)

	inactiveBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	notificationSuccess = lipgloss.NewStyle().
				Background(lipgloss.Color("#04B575")).
				Foreground(lipgloss.Color("#FFF")).
				Padding(0, 1).
				Bold(true)

	notificationError = lipgloss.NewStyle().
				Background(lipgloss.Color("#FF4444")).
				Foreground(lipgloss.Color("#FFF")).
				Padding(0, 1).
				Bold(true)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// View represents different screens
type View int

const (
	ViewMain View = iota
	// ViewOpenDoc asks for the name of the document the next screen edits.
	ViewOpenDoc
	ViewSelector
	ViewCostingNote
	ViewSetMargin
	ViewSetCost
	ViewUpdateCosts
	ViewItemRules
	ViewItemRuleDetail
)

// MenuItem for the main menu
type MenuItem struct {
	title       string
	description string
	view        View
}

func (i MenuItem) Title() string       { return i.title }
func (i MenuItem) Description() string { return i.description }
func (i MenuItem) FilterValue() string { return i.title }

// Model is the main TUI model
type Model struct {
	client      *Client
	view        View
	prevView    View
	width       int
	height      int
	mainMenu    list.Model
	rulesMenu   list.Model
	inputs      []textinput.Model
	focusIndex  int
	openTarget  View // screen ViewOpenDoc leads to
	message     string
	messageType string
	loading     bool
	busy        string // shown next to the spinner
	user        string

	spinner          spinner.Model
	breadcrumbs      []string
	notification     string
	notificationType string // "success" or "error"
	showNotification bool
	viewport         viewport.Model
	viewportReady    bool

	sel *selectorState
	cn  *costingState
	boq *boqState

	// startup opens a document right away, for "opp select <name>".
	startup tea.Cmd
}

// Messages
type connectedMsg struct {
	mode string
	url  string
	user string
}

type errorMsg struct {
	err error
}

type formSubmittedMsg struct {
	success bool
	message string
}

type clearNotificationMsg struct{}

type oppLoadedMsg struct {
	opp    *hooks.Opportunity
	groups []string
}

type cnLoadedMsg struct {
	cn *hooks.CostingNote
}

type boqLoadedMsg struct {
	boq *hooks.BOQ
}

// NewTUI creates a new TUI model
func NewTUI(client *Client) Model {
	menuItems := []list.Item{
		MenuItem{"Select Items", "Add items to an opportunity", ViewSelector},
		MenuItem{"Costing Note", "Margins, costs and selling prices", ViewCostingNote},
		MenuItem{"Update BOQ Costs", "Refresh BOQ unit costs from a cost source", ViewUpdateCosts},
		MenuItem{"Item Rules", "Flags, groups and codes per item type", ViewItemRules},
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	mainMenu := list.New(menuItems, delegate, 0, 0)
	mainMenu.Title = client.Config.Brand
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)
	mainMenu.Styles.Title = titleStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return Model{
		client:      client,
		view:        ViewMain,
		mainMenu:    mainMenu,
		loading:     true,
		spinner:     s,
		breadcrumbs: []string{"Main"},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.detectConnection(),
		m.spinner.Tick,
		m.startup,
	)
}

func (m Model) detectConnection() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		m.client.DetectConnection(ctx)
		user, err := m.client.LoggedUser(ctx)
		if err != nil {
			return errorMsg{fmt.Errorf("connection failed: %w", err)}
		}
		return connectedMsg{
			mode: m.client.Mode,
			url:  m.client.ActiveURL,
			user: user,
		}
	}
}

// openDoc loads the document a screen edits.
func (m Model) openDoc(target View, name string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		switch target {
		case ViewSelector:
			opp, err := c.openOpportunity(ctx, name)
			if err != nil {
				return errorMsg{err}
			}
			groups, err := hooks.ItemGroups(ctx, c)
			if err != nil {
				c.Log.Warn("item groups unavailable", slog.Any("error", err))
			}
			return oppLoadedMsg{opp: opp, groups: groups}
		case ViewCostingNote:
			cn, err := c.openCostingNote(ctx, name)
			if err != nil {
				return errorMsg{err}
			}
			return cnLoadedMsg{cn: cn}
		case ViewUpdateCosts:
			q, err := c.openBOQ(ctx, name)
			if err != nil {
				return errorMsg{err}
			}
			return boqLoadedMsg{boq: q}
		}
		return errorMsg{fmt.Errorf("nothing to open")}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		m.messageType = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.view {
		case ViewMain:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				return m.handleEnter()
			}
			var cmd tea.Cmd
			m.mainMenu, cmd = m.mainMenu.Update(msg)
			return m, cmd
		case ViewOpenDoc, ViewSetMargin, ViewSetCost:
			cmd := m.updateFormInputs(msg)
			return m, cmd
		case ViewSelector:
			return m.updateSelector(msg)
		case ViewCostingNote:
			return m.updateCostingNote(msg)
		case ViewUpdateCosts:
			return m.updateBOQ(msg)
		case ViewItemRules, ViewItemRuleDetail:
			return m.updateRules(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		h := msg.Height - 8
		w := msg.Width - 4

		m.mainMenu.SetSize(w, h)
		if m.rulesMenu.Items() != nil {
			m.rulesMenu.SetSize(w, h)
		}

		headerHeight := 4 // status bar + breadcrumbs + notification + padding
		footerHeight := 4 // help + credits
		m.viewport = viewport.New(w, msg.Height-headerHeight-footerHeight)
		m.viewport.YPosition = headerHeight
		m.viewportReady = true

		m.resizeTables()
		return m, nil

	case connectedMsg:
		m.loading = false
		m.client.Mode = msg.mode
		m.client.ActiveURL = msg.url
		m.user = msg.user
		return m, nil

	case errorMsg:
		m.loading = false
		m.busy = ""
		m.message = msg.err.Error()
		m.messageType = "error"
		return m, nil

	case oppLoadedMsg:
		m.loading = false
		return m.enterSelector(msg.opp, msg.groups)

	case searchResultMsg:
		return m.deliverSearch(msg), nil

	case itemAddedMsg:
		m.loading = false
		return m.notify(fmt.Sprintf("%s added to %s row %d", msg.title, msg.table, msg.row+1))

	case cnLoadedMsg:
		m.loading = false
		m.enterCostingNote(msg.cn)
		return m, nil

	case boqLoadedMsg:
		m.loading = false
		m.enterBOQ(msg.boq)
		return m, nil

	case costsUpdatedMsg:
		m.loading = false
		m.busy = ""
		if m.boq != nil {
			m.boq.summary = msg.summary
		}
		return m.notify("Costs updated")

	case formSubmittedMsg:
		m.loading = false
		if msg.success {
			m.refreshCurrentView()
			return m.notify(msg.message)
		}
		m.message = msg.message
		m.messageType = "error"
		return m, nil

	case clearNotificationMsg:
		m.showNotification = false
		m.notification = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Remaining messages (cursor blink and the like) go to the focused input.
	var cmd tea.Cmd
	switch m.view {
	case ViewOpenDoc, ViewSetMargin, ViewSetCost:
		cmd = m.updateFormInputs(msg)
	case ViewSelector:
		cmd = m.sel.updateFocused(msg)
	case ViewUpdateCosts:
		cmd = m.boq.updateInput(msg)
	case ViewItemRuleDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// notify shows a success notification that dismisses itself.
func (m Model) notify(message string) (tea.Model, tea.Cmd) {
	m.notification = message
	m.notificationType = "success"
	m.showNotification = true
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	item, ok := m.mainMenu.SelectedItem().(MenuItem)
	if !ok {
		return m, nil
	}
	m.breadcrumbs = []string{"Main", item.title}

	switch item.view {
	case ViewSelector:
		m.initOpenDocForm(ViewSelector, "Opportunity (e.g. CRM-OPP-2026-00012)")
	case ViewCostingNote:
		m.initOpenDocForm(ViewCostingNote, "Costing Note (e.g. CN-2026-00001)")
	case ViewUpdateCosts:
		m.initOpenDocForm(ViewUpdateCosts, "BOQ (e.g. BOQ-2026-00001)")
	case ViewItemRules:
		m.initRulesMenu()
		m.view = ViewItemRules
	}
	return m, nil
}

// goMain returns to the main menu and forgets the open documents.
func (m *Model) goMain() {
	m.view = ViewMain
	m.breadcrumbs = []string{"Main"}
	m.sel, m.cn, m.boq = nil, nil, nil
	m.inputs = nil
}

// refreshCurrentView rebuilds tables from the open document.
func (m *Model) refreshCurrentView() {
	switch m.view {
	case ViewCostingNote:
		if m.cn != nil {
			m.cn.rebuild()
		}
	case ViewSelector:
		if m.sel != nil {
			m.sel.rebuildTable()
		}
	}
}

func (m *Model) resizeTables() {
	if m.sel != nil {
		m.sel.resize(m.width, m.height)
	}
	if m.cn != nil {
		m.cn.resize(m.width, m.height)
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	switch m.view {
	case ViewMain:
		content = m.mainMenu.View()
	case ViewOpenDoc, ViewSetMargin, ViewSetCost:
		content = m.renderForm()
	case ViewSelector:
		content = m.renderSelector()
	case ViewCostingNote:
		content = m.renderCostingNote()
	case ViewUpdateCosts:
		content = m.renderBOQ()
	case ViewItemRules:
		content = m.rulesMenu.View()
	case ViewItemRuleDetail:
		content = m.viewport.View()
	}
	if m.loading && m.view != ViewMain {
		busy := m.busy
		if busy == "" {
			busy = "Loading..."
		}
		content = fmt.Sprintf("\n  %s %s", m.spinner.View(), busy)
	}

	var b strings.Builder

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	b.WriteString(m.renderBreadcrumbs())
	b.WriteString("\n")

	// Notification (success feedback that auto-dismisses)
	if m.showNotification {
		if m.notificationType == "success" {
			b.WriteString(notificationSuccess.Render("✓ " + m.notification))
		} else {
			b.WriteString(notificationError.Render("✗ " + m.notification))
		}
		b.WriteString("\n")
	}

	b.WriteString(content)

	// Error message (persists until user takes action)
	if m.message != "" {
		b.WriteString("\n\n")
		if m.messageType == "error" {
			b.WriteString(errorStyle.Render("Error: " + m.message))
		} else if m.messageType == "success" {
			b.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())

	b.WriteString("\n")
	b.WriteString(m.renderCredits())

	return b.String()
}

func (m Model) renderStatusBar() string {
	var mode string
	if m.client.Mode == "vpn" {
		mode = vpnStyle.Render("● VPN")
	} else {
		mode = internetStyle.Render("● Internet")
	}

	status := fmt.Sprintf(" %s | %s | %s ", m.client.Config.Brand, mode, m.client.ActiveURL)
	if m.user != "" {
		status += "| " + m.user + " "
	}
	return statusBarStyle.Render(status)
}

func (m Model) renderBreadcrumbs() string {
	if len(m.breadcrumbs) == 0 {
		return ""
	}
	return breadcrumbStyle.Render("  " + strings.Join(m.breadcrumbs, " > "))
}

func (m Model) renderHelp() string {
	var help string
	switch m.view {
	case ViewMain:
		help = "↑/↓: navigate • enter: select • q: quit"
	case ViewOpenDoc, ViewSetMargin, ViewSetCost:
		help = "tab: next field • enter: submit • esc: cancel"
	case ViewSelector:
		help = "tab: next field • ctrl+t: item type • ctrl+l: page size • ↑/↓: results • enter: add • ctrl+s: save • esc: back"
	case ViewCostingNote:
		help = "↑/↓: rows • m: margin • c: cost • s: save • p: push rates • r: reload • esc: back"
	case ViewUpdateCosts:
		help = "←/→: cost source • enter: update costs • ctrl+p: push to costing note • esc: back"
	case ViewItemRules:
		help = "↑/↓: navigate • enter: show rules • esc: back"
	case ViewItemRuleDetail:
		help = "↑/↓/pgup/pgdn: scroll • esc: back"
	}
	return helpStyle.Render(help)
}

func (m Model) renderCredits() string {
	return creditStyle.Render(fmt.Sprintf("Created by %s in %s • v%s", Author, Year, Version))
}

// RunTUI starts the TUI
func RunTUI(client *Client) error {
	p := tea.NewProgram(NewTUI(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunSelector starts the TUI on the item selector of one opportunity.
func RunSelector(client *Client, opportunity string) error {
	m := NewTUI(client)
	m.view = ViewSelector
	m.breadcrumbs = []string{"Main", "Select Items", opportunity}
	m.startup = m.openDoc(ViewSelector, opportunity)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
