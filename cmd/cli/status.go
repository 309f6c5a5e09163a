package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/style"
)

const statusPollInterval = 3 * time.Second

type healthMsg struct {
	health *client.Health
}

type errorMsg struct {
	err error
}

type statusModel struct {
	ctx        context.Context
	fetch      func(context.Context) (*client.Health, error)
	endpoint   string
	spinner    spinner.Model
	health     *client.Health
	err        error
	loading    bool
	watch      bool
	lastUpdate time.Time
	quitting   bool
}

func newStatusModel(ctx context.Context, api *client.Client, watch bool) statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style.Info

	return statusModel{
		ctx:      ctx,
		fetch:    api.Health,
		endpoint: api.GetEndpoint(),
		spinner:  s,
		loading:  true,
		watch:    watch,
	}
}

func (m statusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchHealth)
}

func (m statusModel) fetchHealth() tea.Msg {
	health, err := m.fetch(m.ctx)
	if err != nil {
		return errorMsg{err: err}
	}
	return healthMsg{health: health}
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case healthMsg:
		m.loading = false
		m.err = nil
		m.health = msg.health
		m.lastUpdate = time.Now()

		if !m.watch {
			return m, tea.Quit
		}
		return m, tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
			return m.fetchHealth()
		})

	case errorMsg:
		m.loading = false
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m statusModel) View() string {
	if m.quitting {
		return ""
	}

	if m.err != nil {
		return fmt.Sprintf("%s %s %s\n", style.ErrorPrefix,
			style.Expired.Render("UNREACHABLE"), style.Dim.Render(m.err.Error()))
	}

	if m.loading {
		return fmt.Sprintf("\n %s Checking %s...\n\n", m.spinner.View(), m.endpoint)
	}

	var content strings.Builder

	content.WriteString(style.Header.Render("Users API: "))
	if strings.EqualFold(m.health.Status, "ok") {
		content.WriteString(style.Active.Render("HEALTHY"))
	} else {
		content.WriteString(style.Warning.Render(strings.ToUpper(m.health.Status)))
	}
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("  Server:   %s\n", m.endpoint))
	content.WriteString(fmt.Sprintf("  Version:  %s\n", m.health.Version))
	content.WriteString(fmt.Sprintf("  Uptime:   %s\n", m.health.Uptime))
	content.WriteString(fmt.Sprintf("  Requests: %d\n", m.health.Requests))

	if m.watch {
		content.WriteString("\n")
		content.WriteString(style.Dim.Render(fmt.Sprintf("Last updated: %s", m.lastUpdate.Format("15:04:05"))))
		content.WriteString("\n")
		content.WriteString(style.Help.Render("Press q to quit"))
		content.WriteString("\n")
	}

	return content.String()
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the users API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {

		watch, _ := cmd.Flags().GetBool("watch")

		program := tea.NewProgram(newStatusModel(cmd.Context(), apiClient, watch))
		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("failed to run status view: %w", err)
		}

		if model, ok := final.(statusModel); ok && model.err != nil {
			return model.err
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().BoolP("watch", "w", false, "Keep polling the server")
	rootCmd.AddCommand(statusCmd)
}
