package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nova/internal/auth"
	"nova/internal/chat"
	"nova/internal/models"
	"nova/internal/speech"
	"nova/internal/styles"
)

func newFormInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 40
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.HintColor)
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func newChatInput() textarea.Model {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = 6
	ti.SetHeight(2)
	ti.SetWidth(80)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	return ti
}

func NewModel(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB"))

	if opts.Synthesizer == nil {
		opts.Synthesizer = speech.Disabled{}
	}
	if opts.Recognizer == nil {
		opts.Recognizer = speech.Disabled{}
	}
	if opts.Model == "" {
		opts.Model = models.DefaultModelID
	}
	if opts.Persona == "" {
		opts.Persona = models.PersonaDefault
	}

	conv := chat.New(opts.Model, opts.Persona)
	conv.SetMemory(opts.Memory)

	current := models.ModelOrCustom(opts.Model)
	_, selected, _ := models.FindModelByID(current.ID)

	m := Model{
		Screen:             ScreenLogin,
		EmailInput:         newFormInput("you@example.com", false),
		PasswordInput:      newFormInput("password", true),
		TextInput:          newChatInput(),
		Viewport:           viewport.New(60, 15),
		ModelViewport:      viewport.New(ModalWidth-4, 15),
		Spinner:            sp,
		Messages:           []string{},
		Conv:               conv,
		Gateway:            opts.Gateway,
		Auth:               opts.Auth,
		Synthesizer:        opts.Synthesizer,
		Recognizer:         opts.Recognizer,
		ExportDir:          opts.ExportDir,
		Timeout:            opts.Timeout,
		CurrentModel:       current,
		SelectedModelIndex: selected,
	}
	m.EmailInput.Focus()

	if opts.Guest {
		m.enterChat(auth.Guest())
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.Spinner.Tick,
	)
}

func NewProgram(opts Options) (*tea.Program, *Model) {
	styles.InitTheme()
	m := NewModel(opts)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	return p, &m
}
