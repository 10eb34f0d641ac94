package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mealprep/internal/live"
	"mealprep/internal/models"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))
	activeTabStyle = tabStyle.Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#0a84ff"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type view int

const (
	viewWorkload view = iota
	viewKitchen
	viewPackaging
)

var viewNames = []string{"Workload", "Kitchen", "Packaging"}

type planMsg struct {
	plan models.DailyPlan
}

// serverErrMsg is an error reported by the API; the subscription stays open
type serverErrMsg struct {
	err string
}

// disconnectedMsg ends the subscription
type disconnectedMsg struct {
	err error
}

// Model is the live production board of one delivery date
type Model struct {
	date    string
	source  Source
	spinner spinner.Model
	bar     progress.Model
	table   table.Model

	plan      *models.DailyPlan
	view      view
	err       string
	connected bool
}

// New creates a board reading from source
func New(date string, source Source) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		date:      date,
		source:    source,
		spinner:   s,
		bar:       bar,
		table:     table.New(table.WithHeight(15)),
		connected: true,
	}
}

// Init starts the spinner and the first read
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForMessage(m.source))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right":
			m.view = (m.view + 1) % view(len(viewNames))
			m.refreshTable()
			return m, nil
		case "shift+tab", "left":
			m.view = (m.view + view(len(viewNames)) - 1) % view(len(viewNames))
			m.refreshTable()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-40))
		return m, nil
	case planMsg:
		plan := msg.plan
		m.plan = &plan
		m.err = ""
		m.refreshTable()
		return m, waitForMessage(m.source)
	case serverErrMsg:
		m.err = msg.err
		return m, waitForMessage(m.source)
	case disconnectedMsg:
		m.connected = false
		m.err = fmt.Sprintf("disconnected: %v", msg.err)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Production board " + m.date))
	b.WriteString("\n\n")

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.view {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	switch {
	case m.plan == nil && m.connected:
		b.WriteString(m.spinner.View() + " waiting for plan...\n")
	case m.plan == nil:
	case m.view == viewWorkload:
		b.WriteString(m.workloadView())
	default:
		b.WriteString(m.table.View() + "\n")
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}
	b.WriteString(helpStyle.Render("\ntab: switch view • q: quit"))
	return docStyle.Render(b.String())
}

func (m Model) workloadView() string {
	var b strings.Builder
	grand := m.plan.Workload.GrandTotal
	fmt.Fprintf(&b, "%d orders, %d dishes\n", m.plan.OrderCount, grand)

	pools := []struct {
		name    string
		results []models.AllocationResult
	}{
		{"Kitchen", m.plan.Workload.Kitchen},
		{"Packaging", m.plan.Workload.Packaging},
	}
	for _, pool := range pools {
		fmt.Fprintf(&b, "\n%s\n", lipgloss.NewStyle().Bold(true).Render(pool.name))
		if len(pool.results) == 0 {
			b.WriteString(helpStyle.Render("no workers") + "\n")
			continue
		}
		for _, r := range pool.results {
			ratio := 0.0
			if grand > 0 {
				ratio = float64(r.Total) / float64(grand)
			}
			fmt.Fprintf(&b, "%-14s %s %3d\n", r.Worker, m.bar.ViewAs(ratio), r.Total)
		}
	}
	return b.String()
}

// refreshTable loads the rows of the current view into the table
func (m *Model) refreshTable() {
	if m.plan == nil {
		return
	}
	switch m.view {
	case viewKitchen:
		m.table.SetRows(nil)
		m.table.SetColumns([]table.Column{
			{Title: "Menu", Width: 12},
			{Title: "#", Width: 3},
			{Title: "Protein", Width: 18},
			{Title: "Grams", Width: 8},
			{Title: "Carb", Width: 20},
			{Title: "Vegetable", Width: 20},
			{Title: "Dishes", Width: 6},
		})
		m.table.SetRows(kitchenRows(m.plan.Kitchen))
	case viewPackaging:
		m.table.SetRows(nil)
		m.table.SetColumns([]table.Column{
			{Title: "Client", Width: 24},
			{Title: "Menu", Width: 12},
			{Title: "Dishes", Width: 6},
			{Title: "Breakfast", Width: 9},
			{Title: "Packager", Width: 14},
		})
		m.table.SetRows(packagingRows(m.plan.Packaging))
	}
}

func kitchenRows(sheet models.KitchenSheet) []table.Row {
	rows := []table.Row{}
	for _, menuType := range sheet.MenuTypes {
		for _, d := range sheet.ByMenuType[menuType].SortedDishes() {
			rows = append(rows, table.Row{
				menuType,
				fmt.Sprint(d.Slot),
				d.ProteinName,
				fmt.Sprintf("%g", d.ProteinGrams),
				componentCell(d.Carb),
				componentCell(d.Vegetable),
				fmt.Sprint(d.DishCount),
			})
		}
	}
	return rows
}

func packagingRows(sheet models.PackagingSheet) []table.Row {
	rows := make([]table.Row, 0, len(sheet.Clients))
	for _, c := range sheet.Clients {
		breakfast := ""
		if c.IncludesBreakfast {
			breakfast = "yes"
		}
		rows = append(rows, table.Row{
			c.Client,
			c.MenuType,
			fmt.Sprint(len(c.Dishes) * c.MenuCount),
			breakfast,
			c.Packager,
		})
	}
	return rows
}

func componentCell(t models.ComponentTotals) string {
	parts := []string{t.Name}
	if t.Grams > 0 {
		parts = append(parts, fmt.Sprintf("%gg", t.Grams))
	}
	if t.Cups > 0 {
		parts = append(parts, fmt.Sprintf("%gc", t.Cups))
	}
	return strings.Join(parts, " ")
}

func waitForMessage(source Source) tea.Cmd {
	return func() tea.Msg {
		msg, err := source.Next()
		if err != nil {
			return disconnectedMsg{err: err}
		}
		switch {
		case msg.Type == live.TypeError:
			return serverErrMsg{err: msg.Error}
		case msg.Plan == nil:
			return serverErrMsg{err: "empty plan message"}
		}
		return planMsg{plan: *msg.Plan}
	}
}

// ErrNoPlan is returned by Run when the subscription ends before any plan arrived
var ErrNoPlan = errors.New("no plan received")

// Run shows the board until the user quits
func Run(date string, source Source) error {
	final, err := tea.NewProgram(New(date, source), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.plan == nil && !m.connected {
		return ErrNoPlan
	}
	return nil
}
