package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nova/internal/models"
	"nova/internal/styles"
)

func (m *Model) UpdateModelSelectorContent() {
	var items []string
	var lastProvider string
	for i, mdl := range models.AvailableModels {
		if mdl.Provider != lastProvider {
			if lastProvider != "" {
				items = append(items, "")
			}
			header := styles.ModalHeaderStyle.
				Foreground(styles.ProviderColor(mdl.Provider)).
				Render(mdl.Provider)
			items = append(items, header)
			lastProvider = mdl.Provider
		}

		isSelected := i == m.SelectedModelIndex
		isCurrent := m.CurrentModel.ID == mdl.ID

		displayName := "  " + mdl.Name
		if isCurrent {
			displayName = "● " + mdl.Name
		}

		var styledItem string
		if isSelected {
			styledItem = styles.ModalSelectedStyle.
				Width(styles.ContentWidth).
				Render(displayName)
		} else {
			style := styles.ModalItemStyle.Width(styles.ContentWidth)
			if isCurrent {
				style = style.Foreground(lipgloss.Color("#90CAF9"))
			} else {
				style = style.Foreground(lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#FFFFFF"})
			}
			styledItem = style.Render(displayName)
		}

		items = append(items, styledItem)
	}

	m.ModelViewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m *Model) RenderModelSelector() string {
	title := styles.ModalTitleStyle.Render("Select AI Model")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.ModelViewport.View())

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: navigate • Enter: select • Esc: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

var chatShortcuts = []struct {
	key  string
	desc string
}{
	{"Enter", "Send Message"},
	{"Shift+Enter", "New Line"},
	{"Tab", "Next Persona"},
	{"Ctrl+N", "New Chat"},
	{"Ctrl+T", "Toggle Memory"},
	{"Ctrl+B", "Select AI Model"},
	{"Ctrl+E", "Export Chat to File"},
	{"Ctrl+Y", "Copy Chat to Clipboard"},
	{"Ctrl+P", "Speak Last Reply"},
	{"Ctrl+W", "Rewrite Draft"},
	{"Ctrl+O", "Voice Input"},
	{"Ctrl+F", "Send Feedback"},
	{"Ctrl+L", "Log Out"},
	{"Ctrl+S", "View Shortcuts (this menu)"},
	{"Ctrl+C", "Quit Application"},
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.ModalTitleStyle.Render("Keyboard Shortcuts")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFCC80")).
		Bold(true).
		Width(13)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0E0E0"))

	var items []string
	for _, s := range chatShortcuts {
		line := fmt.Sprintf("%s %s", keyStyle.Render(s.key), descStyle.Render(s.desc))
		items = append(items, styles.ModalItemStyle.Render(line))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, listContent)

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderAlert() string {
	text := lipgloss.NewStyle().
		Width(styles.ContentWidth).
		Render(m.Alert.Text)
	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Enter: OK")
	return lipgloss.JoinVertical(lipgloss.Left, text, hint)
}

// RenderPersonaBar shows every persona with the active one highlighted.
func (m *Model) RenderPersonaBar() string {
	var badges []string
	for _, p := range models.Personas() {
		badges = append(badges, styles.PersonaBadge(string(p), p == m.Conv.Persona()))
	}
	label := lipgloss.NewStyle().Foreground(styles.HintColor).Render("Mood (Tab): ")
	return label + strings.Join(badges, " ")
}

func (m *Model) RenderBottomBar() string {
	user := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(TruncateRunes(m.Session.DisplayName(), 30))

	model := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B39DDB")).
		Render(TruncateRunes(m.CurrentModel.Name, 25))

	leftParts := []string{styles.MemoryBadge(m.Conv.MemoryEnabled()), "  ", user, "  ", model}
	if m.Speaking {
		leftParts = append(leftParts, "  ", lipgloss.NewStyle().Foreground(styles.CurrentTheme.Accent).Render("♪ speaking"))
	}

	tokens := fmt.Sprintf("%s %s",
		styles.InputTokenStyle.Render(fmt.Sprintf("In:%d", m.InputTokens)),
		styles.OutputTokenStyle.Render(fmt.Sprintf("Out:%d", m.OutputTokens)))

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Render("Help: ^S")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, leftParts...)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, tokens, "  ", help)

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.CurrentTheme.Border).
		Padding(0, 1).
		Render(bar)
}

const logo = `
 ███╗   ██╗ ██████╗ ██╗   ██╗ █████╗
 ████╗  ██║██╔═══██╗██║   ██║██╔══██╗
 ██╔██╗ ██║██║   ██║██║   ██║███████║
 ██║╚██╗██║██║   ██║╚██╗ ██╔╝██╔══██║
 ██║ ╚████║╚██████╔╝ ╚████╔╝ ██║  ██║
 ╚═╝  ╚═══╝ ╚═════╝   ╚═══╝  ╚═╝  ╚═╝
`

func GetWelcomeScreen(width, height int) string {
	subtitle := "Ask me anything. Tab changes my mood, Ctrl+T toggles memory."

	styledArt := styles.WelcomeArtStyle.Render(logo)
	styledSubtitle := styles.SubtitleStyle.Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, styledArt, "", styledSubtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	if len(m.Messages) == 0 && !m.Loading {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}

	content := strings.Join(m.Messages, "\n\n")
	if m.Loading {
		loadingMsg := fmt.Sprintf("%s\n%s Thinking...", styles.NovaLabelStyle.Render("NOVA"), m.Spinner.View())
		if len(m.Messages) > 0 {
			content = content + "\n\n" + loadingMsg
		} else {
			content = loadingMsg
		}
	}
	m.Viewport.SetContent(content)
	m.Viewport.GotoBottom()
}

func (m *Model) renderAuthForm() string {
	title := "Sign in to Nova"
	action := "Enter: sign in • Ctrl+R: create account • Ctrl+G: continue as guest"
	if m.Screen == ScreenRegister {
		title = "Create your Nova account"
		action = "Enter: create account • Esc: back to sign in"
	}

	field := func(label string, view string, focused bool) string {
		box := styles.FieldStyle
		if focused {
			box = styles.FocusedFieldStyle
		}
		return lipgloss.JoinHorizontal(lipgloss.Center,
			styles.FormLabelStyle.Render(label),
			box.Width(42).Render(view))
	}

	status := " "
	if m.AuthBusy {
		status = m.Spinner.View() + " Please wait..."
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		field("Email", m.EmailInput.View(), m.FocusIndex == fieldEmail),
		field("Password", m.PasswordInput.View(), m.FocusIndex == fieldPassword),
		"",
		styles.StatusStyle.Render(status),
		lipgloss.NewStyle().Foreground(styles.HintColor).PaddingTop(1).Render(action),
	)

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.WelcomeArtStyle.Render(logo),
		styles.ModalStyle.Render(form),
	)
	return lipgloss.Place(m.WindowWidth, m.WindowHeight, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderChat() string {
	inputWidth := m.WindowWidth - 4
	inputBox := styles.InputBoxStyle.Width(inputWidth).Render(m.TextInput.View())

	status := m.Status
	if m.Rewriting && status == "" {
		status = "Rewriting draft..."
	}

	chatContent := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("NOVA AI"),
		m.RenderPersonaBar(),
		m.Viewport.View(),
		styles.StatusStyle.Render(TruncateRunes(status, max(inputWidth, 1))),
		inputBox,
	)
	chatArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, chatContent)

	return lipgloss.JoinVertical(lipgloss.Left, chatArea, m.RenderBottomBar())
}

func (m *Model) overlay(body string, box lipgloss.Style) string {
	modal := box.Width(ModalWidth).Render(body)
	return lipgloss.Place(
		m.WindowWidth,
		m.WindowHeight,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (m *Model) View() string {
	if m.Alert != nil {
		return m.overlay(m.RenderAlert(), styles.AlertStyle)
	}

	if m.Screen != ScreenChat {
		return m.renderAuthForm()
	}

	if m.ModelSelectorOpen {
		return m.overlay(m.RenderModelSelector(), styles.ModalStyle)
	}

	if m.ShortcutsOpen {
		return m.overlay(m.RenderShortcutsModal(), styles.ModalStyle)
	}

	return m.renderChat()
}
