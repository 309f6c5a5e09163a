package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/usersadmin/usersadmin/internal/models"
	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/store"
	"github.com/usersadmin/usersadmin/internal/style"
)

type homeAction int

const (
	homeActionNone homeAction = iota
	homeActionCreate
	homeActionEdit
	homeActionLogout
	homeActionQuit
)

type usersChangedMsg store.UserState

type fetchedMsg struct {
	err error
}

type deletedMsg struct {
	id  string
	err error
}

type homeModel struct {
	ctx        context.Context
	users      *store.UserStore
	table      table.Model
	spinner    spinner.Model
	state      store.UserState
	confirming *models.User
	status     string
	action     homeAction
	selectedID string
}

func newHomeModel(ctx context.Context, users *store.UserStore) homeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style.Info

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Full name", Width: 28},
			{Title: "Email", Width: 30},
			{Title: "Telephone", Width: 14},
			{Title: "Employment", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	m := homeModel{
		ctx:     ctx,
		users:   users,
		table:   t,
		spinner: s,
	}
	m.apply(users.State())
	m.state.Loading = true

	return m
}

func (m homeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m homeModel) fetch() tea.Msg {
	_, err := m.users.FetchAll(m.ctx)
	return fetchedMsg{err: err}
}

func (m homeModel) remove(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.users.DeleteByID(m.ctx, id)
		return deletedMsg{id: id, err: err}
	}
}

func (m *homeModel) apply(state store.UserState) {
	m.state = state

	rows := make([]table.Row, 0, len(state.Users))
	for _, user := range state.Users {
		rows = append(rows, table.Row{
			user.GetName(),
			user.Email,
			user.Telephone,
			user.Employment.Label(),
		})
	}
	m.table.SetRows(rows)

	// SetRows on an empty table leaves the cursor at -1
	if cursor := m.table.Cursor(); len(rows) > 0 {
		switch {
		case cursor < 0:
			m.table.SetCursor(0)
		case cursor >= len(rows):
			m.table.SetCursor(len(rows) - 1)
		}
	}
}

func (m homeModel) selected() *models.User {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.state.Users) {
		return nil
	}
	user := m.state.Users[cursor]
	return &user
}

func (m homeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming != nil {
			return m.updateConfirm(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.action = homeActionQuit
			return m, tea.Quit
		case "n", "c":
			m.action = homeActionCreate
			return m, tea.Quit
		case "e", "enter":
			if user := m.selected(); user != nil {
				m.action = homeActionEdit
				m.selectedID = user.ID
				return m, tea.Quit
			}
			return m, nil
		case "d", "delete":
			if user := m.selected(); user != nil {
				m.confirming = user
				m.status = ""
			}
			return m, nil
		case "r":
			m.state.Loading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.fetch)
		case "l":
			m.action = homeActionLogout
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case usersChangedMsg:
		m.apply(store.UserState(msg))
		return m, nil

	case fetchedMsg:
		m.apply(m.users.State())
		return m, nil

	case deletedMsg:
		m.apply(m.users.State())
		if msg.err == nil {
			m.status = fmt.Sprintf("Deleted user %s", msg.id)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m homeModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirming.ID
		m.confirming = nil
		return m, m.remove(id)
	case "n", "N", "esc", "q":
		m.confirming = nil
		return m, nil
	case "ctrl+c":
		m.action = homeActionQuit
		return m, tea.Quit
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.action != homeActionNone {
		return ""
	}

	var content strings.Builder

	content.WriteString(style.Title.Render("Users"))
	content.WriteString("\n")

	if m.state.Loading {
		content.WriteString(fmt.Sprintf("%s Loading users...\n\n", m.spinner.View()))
	}

	if len(m.state.Error) > 0 {
		content.WriteString(style.ErrorPrefix + " " + style.Error.Render(m.state.Error))
		content.WriteString("\n\n")
	}

	if len(m.state.Users) == 0 && !m.state.Loading {
		content.WriteString(style.Dim.Render("No users yet."))
		content.WriteString("\n")
	} else {
		content.WriteString(m.table.View())
		content.WriteString("\n")
	}

	if m.confirming != nil {
		content.WriteString("\n")
		content.WriteString(style.WarningPrefix + " " + style.Warning.Render(
			fmt.Sprintf("Delete %s (%s)? [y/N]", m.confirming.GetName(), m.confirming.Email)))
		content.WriteString("\n")
	} else if len(m.status) > 0 {
		content.WriteString("\n")
		content.WriteString(style.SuccessPrefix + " " + m.status)
		content.WriteString("\n")
	}

	content.WriteString(style.Help.Render("n create • e/enter edit • d delete • r refresh • l logout • q quit"))
	content.WriteString("\n")

	return content.String()
}

// HomeView lists the users and dispatches the list actions.
type HomeView struct {
	sessions *store.SessionStore
	users    *store.UserStore
	router   *router.Router
}

func NewHomeView(sessions *store.SessionStore, users *store.UserStore, r *router.Router) *HomeView {
	return &HomeView{sessions: sessions, users: users, router: r}
}

func (v *HomeView) Show(ctx context.Context, _ router.Resolution) (Navigation, error) {

	program := tea.NewProgram(newHomeModel(ctx, v.users), tea.WithContext(ctx))

	unsubscribe := v.users.Subscribe(func(state store.UserState) {
		program.Send(usersChangedMsg(state))
	})
	defer unsubscribe()

	final, err := program.Run()
	if err != nil {
		return Navigation{}, fmt.Errorf("failed to run user list: %w", err)
	}

	m, ok := final.(homeModel)
	if !ok {
		return Quit(), nil
	}

	return v.navigate(m), nil
}

func (v *HomeView) navigate(m homeModel) Navigation {
	switch m.action {
	case homeActionCreate:
		return GoTo(router.CreateUserPath)
	case homeActionEdit:
		return GoTo(v.router.EditPath(m.selectedID))
	case homeActionLogout:
		v.sessions.Logout()
		return GoTo(router.LoginPath)
	default:
		return Quit()
	}
}
