package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type interactiveModel struct {
	viewport viewport.Model
	title    string
	content  string
	ready    bool
}

func newInteractiveModel(title string, g any) *interactiveModel {
	return &interactiveModel{
		title:   title,
		content: renderTree(title, g),
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := msg.Height - m.chromeHeight()
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *interactiveModel) chromeHeight() int {
	return strings.Count(m.header(), "\n") + strings.Count(m.footer(), "\n") + 2
}

func (m *interactiveModel) header() string {
	return titleStyle.Render("graphdump") + " " + m.title
}

func (m *interactiveModel) footer() string {
	return helpStyle.Render(fmt.Sprintf("%3.f%% • ↑/↓ scroll • g/G top/bottom • q quit", m.viewport.ScrollPercent()*100))
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
}

func runInteractive(title string, g any) error {
	p := tea.NewProgram(newInteractiveModel(title, g), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
