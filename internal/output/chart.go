package output

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"triagetrack/internal/core"
	"triagetrack/internal/snapshot"
)

const maxBarWidth = 40

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	barStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	labelStyle      = lipgloss.NewStyle().Faint(true)
)

// chartModel renders a horizontal bar per day of opened issue counts.
type chartModel struct {
	days []*snapshot.Day
}

func (m chartModel) Init() tea.Cmd {
	return nil
}

func (m chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m chartModel) View() string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Issues Opened"))
	b.WriteString("\n\n")

	max := 1
	for _, d := range m.days {
		if n := len(d.Opened()); n > max {
			max = n
		}
	}

	for _, d := range m.days {
		n := len(d.Opened())
		width := n * maxBarWidth / max
		if n > 0 && width == 0 {
			width = 1
		}
		b.WriteString(labelStyle.Render(core.FormatDate(d.Date)))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", width)))
		if n > 0 {
			b.WriteString(" ")
		}
		b.WriteString(labelStyle.Render(strconv.Itoa(n)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("press q to quit"))
	b.WriteString("\n")
	return b.String()
}

// ShowChart runs the interactive bar chart for a range of days.
func ShowChart(days []*snapshot.Day) error {
	p := tea.NewProgram(chartModel{days: days})
	_, err := p.Run()
	return err
}
