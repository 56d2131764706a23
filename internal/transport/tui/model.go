// Package tui is the interactive terminal search screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/search/state"
	leadscout "github.com/kailas-cloud/leadscout/pkg/sdk"
)

// Searcher runs a lead search.
type Searcher interface {
	Search(ctx context.Context, keyword string, filters leadscout.Filters) (leadscout.Result, error)
}

const (
	fieldKeyword = iota
	fieldMinFollowers
	fieldMaxFollowers
	fieldBio
	fieldCount
)

// searchDoneMsg carries a finished search. seq drops answers to superseded searches.
type searchDoneMsg struct {
	seq    int
	result leadscout.Result
	err    error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cbd5e1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	handleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#f87171")).Padding(0, 1)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#1e293b")).Padding(0, 1)
	focusedLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8"))
)

// Model is the bubbletea model of the search screen.
type Model struct {
	ctx         context.Context
	searcher    Searcher
	suggestions []string

	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model

	state  state.State
	result leadscout.Result
	seq    int
	width  int
}

// New creates the search screen.
func New(ctx context.Context, searcher Searcher, suggestions []string) Model {
	placeholders := [fieldCount]string{
		"Profissão ou nicho (ex: Tatuador em São Paulo)",
		"Mín. seguidores",
		"Máx. seguidores",
		"Palavra-chave na bio",
	}

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		inputs[i] = ti
	}
	inputs[fieldBio].CharLimit = 100
	inputs[fieldKeyword].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		searcher:    searcher,
		suggestions: suggestions,
		inputs:      inputs,
		spinner:     sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case searchDoneMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.state = state.Fail(msg.err)
			m.result = leadscout.Result{}
			return m, nil
		}
		m.state = state.Succeed()
		m.result = msg.result
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		return m.moveFocus(1), nil
	case tea.KeyShiftTab, tea.KeyUp:
		return m.moveFocus(-1), nil
	case tea.KeyEnter:
		return m.startSearch(m.inputs[fieldKeyword].Value())
	}

	// Alt+digit picks a suggestion; plain digits are always typed.
	if msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if idx := int(msg.Runes[0] - '1'); idx >= 0 && idx < len(m.suggestions) {
			m.inputs[fieldKeyword].SetValue(m.suggestions[idx])
			return m.startSearch(m.suggestions[idx])
		}
	}

	return m.updateFocused(msg)
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) startSearch(keyword string) (tea.Model, tea.Cmd) {
	if m.state.Loading {
		return m, nil
	}
	if strings.TrimSpace(keyword) == "" {
		m.state = state.Fail(domain.ErrInvalidQuery)
		return m, nil
	}

	m.seq++
	m.state = state.Start()
	m.result = leadscout.Result{}

	filters := leadscout.Filters{
		MinFollowers: m.inputs[fieldMinFollowers].Value(),
		MaxFollowers: m.inputs[fieldMaxFollowers].Value(),
		BioKeyword:   m.inputs[fieldBio].Value(),
	}
	return m, tea.Batch(m.spinner.Tick, searchCmd(m.ctx, m.searcher, m.seq, keyword, filters))
}

func searchCmd(ctx context.Context, s Searcher, seq int, keyword string, filters leadscout.Filters) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Search(ctx, keyword, filters)
		return searchDoneMsg{seq: seq, result: res, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Lead Scout · perfis do Instagram"))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Busca", "Mín.", "Máx.", "Bio"}
	for i, in := range m.inputs {
		label := mutedStyle.Render(fmt.Sprintf("%-6s", labels[i]))
		if i == m.focus {
			label = focusedLabel.Render(fmt.Sprintf("%-6s", labels[i]))
		}
		b.WriteString(label + in.View() + "\n")
	}

	if len(m.suggestions) > 0 {
		parts := make([]string, len(m.suggestions))
		for i, s := range m.suggestions {
			parts[i] = fmt.Sprintf("[Alt+%d] %s", i+1, s)
		}
		b.WriteString("\n" + mutedStyle.Render("Sugestões: "+strings.Join(parts, "  ")) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " Buscando perfis...\n")
	case m.state.Failed():
		b.WriteString(errorStyle.Render(m.state.Err) + "\n")
	case m.state.Idle():
		b.WriteString(mutedStyle.Render("Digite uma profissão e pressione Enter.") + "\n")
	case len(m.result.Profiles) == 0:
		b.WriteString(mutedStyle.Render(domain.MessageNoResults) + "\n")
	default:
		b.WriteString(m.renderResults())
	}

	b.WriteString("\n" + mutedStyle.Render("tab: próximo campo · enter: buscar · esc: sair") + "\n")
	return b.String()
}

func (m Model) renderResults() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d resultados para %q", len(m.result.Profiles), m.result.Keyword)))
	b.WriteString("\n")

	width := m.width - 4
	for _, p := range m.result.Profiles {
		var c strings.Builder
		c.WriteString(handleStyle.Render("@"+p.Username) + "  " + p.Name)
		if p.Followers != "" {
			c.WriteString(mutedStyle.Render("  " + p.Followers + " seguidores"))
		}
		if p.Bio != "" {
			c.WriteString("\n" + p.Bio)
		}
		c.WriteString("\n" + mutedStyle.Render(p.InstagramURL))
		if p.ContactURL != "" {
			c.WriteString("\n" + mutedStyle.Render("WhatsApp: "+p.ContactURL))
		}

		style := cardStyle
		if width > 20 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(c.String()) + "\n")
	}
	return b.String()
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, searcher Searcher, suggestions []string) error {
	p := tea.NewProgram(New(ctx, searcher, suggestions), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
