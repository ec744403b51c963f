// brain-chat — минимальный TUI-клиент для прогона текстовой операции
// brain'а против реальных настроек из config.yaml.
//
// Запуск:
//
//	go run ./cmd/brain-chat -config config.yaml
//
// История диалога живёт только в памяти этого процесса: как и хост,
// клиент присылает её brain'у целиком на каждый вызов.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gethubai/openai-brain/pkg/brain"
	"github.com/gethubai/openai-brain/pkg/config"
	"github.com/gethubai/openai-brain/pkg/hubai"
	"github.com/gethubai/openai-brain/pkg/settings"
	"github.com/gethubai/openai-brain/pkg/utils"
)

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	brainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// answerMsg приходит из фоновой команды после ответа brain'а.
type answerMsg struct {
	envelope hubai.ResponseEnvelope
	err      error
}

type model struct {
	brain    *brain.Brain
	provider settings.ProviderSettings

	history  []hubai.ConversationTurn
	waiting  bool
	viewport viewport.Model
	input    textarea.Model
	width    int
}

func newModel(b *brain.Brain, provider settings.ProviderSettings) model {
	input := textarea.New()
	input.Placeholder = "Спросите что-нибудь..."
	input.SetHeight(3)
	input.Focus()

	vp := viewport.New(80, 20)

	return model{
		brain:    b,
		provider: provider,
		viewport: vp,
		input:    input,
		width:    80,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		m.input.SetWidth(msg.Width - 2)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.history = append(m.history, hubai.ConversationTurn{
				Role:    hubai.RoleUser,
				Message: text,
			})
			m.input.Reset()
			m.waiting = true
			m.refresh()
			return m, m.ask()
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.history = append(m.history, hubai.ConversationTurn{
				Role:    hubai.RoleBrain,
				Message: errStyle.Render(fmt.Sprintf("ошибка: %v", msg.err)),
			})
		} else if !msg.envelope.Validation.Success {
			m.history = append(m.history, hubai.ConversationTurn{
				Role:    hubai.RoleBrain,
				Message: errStyle.Render(msg.envelope.Result),
			})
		} else {
			m.history = append(m.history, hubai.ConversationTurn{
				Role:    hubai.RoleBrain,
				Message: msg.envelope.Result,
			})
		}
		m.refresh()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ask отправляет всю историю brain'у в фоновой команде.
func (m model) ask() tea.Cmd {
	history := m.history
	provider := m.provider
	b := m.brain
	return func() tea.Msg {
		envelope, err := b.Prompt(context.Background(), history, provider, "brain-chat")
		return answerMsg{envelope: envelope, err: err}
	}
}

// refresh перерисовывает содержимое viewport из истории.
func (m *model) refresh() {
	var sb strings.Builder
	for _, turn := range m.history {
		label := userStyle.Render("you")
		if turn.Role == hubai.RoleBrain {
			label = brainStyle.Render("brain")
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(wordwrap.String(turn.Message, m.width-8))
		sb.WriteString("\n\n")
	}
	if m.waiting {
		sb.WriteString(hintStyle.Render("thinking..."))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	return fmt.Sprintf("%s\n\n%s\n%s",
		m.viewport.View(),
		m.input.View(),
		hintStyle.Render("enter — отправить, esc — выход"))
}

func main() {
	configPath := flag.String("config", "config.yaml", "путь к config.yaml")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer utils.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(brain.New(), cfg.Provider), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
