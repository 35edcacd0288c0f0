package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"nova/internal/export"
	"nova/internal/gateway"
	"nova/internal/models"
	"nova/internal/styles"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Loading {
			m.UpdateViewport()
		}
		return m, spCmd

	case tea.KeyMsg:
		if m.Alert != nil {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter", "esc", " ":
				m.dismissAlert()
			}
			return m, nil
		}

		if m.Screen != ScreenChat {
			return m.updateAuthKeys(msg)
		}

		if m.ModelSelectorOpen {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "ctrl+b":
				m.ModelSelectorOpen = false
				return m, nil
			case "up", "k":
				m.SelectedModelIndex--
				if m.SelectedModelIndex < 0 {
					m.SelectedModelIndex = len(models.AvailableModels) - 1
				}
				m.SyncModelViewportScroll()
				m.UpdateModelSelectorContent()
				return m, nil
			case "down", "j":
				m.SelectedModelIndex++
				if m.SelectedModelIndex >= len(models.AvailableModels) {
					m.SelectedModelIndex = 0
				}
				m.SyncModelViewportScroll()
				m.UpdateModelSelectorContent()
				return m, nil
			case "enter":
				m.CurrentModel = models.AvailableModels[m.SelectedModelIndex]
				m.Conv.SetModel(m.CurrentModel.ID)
				m.ModelSelectorOpen = false
				return m, nil
			}
			return m, nil
		}

		if m.ShortcutsOpen {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "?", "ctrl+s":
				m.ShortcutsOpen = false
				return m, nil
			}
			return m, nil
		}

		if isNewlineShortcut(msg) {
			m.TextInput.InsertString("\n")
			m.updateInputLayout()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab:
			m.Conv.SetPersona(m.Conv.Persona().Next())
			return m, nil

		case tea.KeyCtrlN:
			m.resetChat()
			return m, nil

		case tea.KeyCtrlT:
			if m.Conv.ToggleMemory() {
				m.Status = "Memory on: the whole conversation is sent with each message"
			} else {
				m.Status = "Memory off: only your latest message is sent"
			}
			return m, nil

		case tea.KeyCtrlB:
			m.ModelSelectorOpen = true
			m.ShortcutsOpen = false
			m.UpdateModelSelectorContent()
			m.SyncModelViewportScroll()
			return m, nil

		case tea.KeyCtrlS:
			m.ShortcutsOpen = true
			m.ModelSelectorOpen = false
			return m, nil

		case tea.KeyCtrlE:
			m.exportToFile()
			return m, nil

		case tea.KeyCtrlY:
			m.copyTranscript()
			return m, nil

		case tea.KeyCtrlP:
			return m, m.speakLastReply()

		case tea.KeyCtrlW:
			return m, m.rewriteDraft()

		case tea.KeyCtrlO:
			return m, m.listen()

		case tea.KeyCtrlF:
			m.Alert = &Alert{Text: FeedbackNotice, Then: ScreenChat}
			return m, nil

		case tea.KeyCtrlL:
			cmd := m.signOut()
			m.Session = nil
			m.resetChat()
			m.showScreen(ScreenLogin)
			return m, cmd

		case tea.KeyEnter:
			return m, m.submit()
		}

	case ResponseMsg:
		if msg.Session != m.ChatSession {
			log.Printf("ui: dropping reply for closed chat %d", msg.Session)
			return m, nil
		}
		m.Loading = false
		reply := m.Conv.AppendAssistantTurn(msg.Result.AssistantText())
		m.InputTokens += msg.Result.Usage.PromptTokens
		m.OutputTokens += msg.Result.Usage.CompletionTokens
		m.Messages = append(m.Messages, m.formatMessage(reply, len(m.Messages) == 0))
		m.UpdateViewport()
		return m, nil

	case RewriteMsg:
		m.Rewriting = false
		if !msg.Result.OK() {
			m.Status = "Rewrite failed: " + msg.Result.AssistantText()
			return m, nil
		}
		m.TextInput.SetValue(strings.TrimSpace(msg.Result.Content))
		m.updateInputLayout()
		m.Status = ""
		return m, nil

	case RecognitionMsg:
		m.Listening = false
		if msg.Err != nil {
			m.Status = fmt.Sprintf("Mic: %v", msg.Err)
			return m, nil
		}
		m.TextInput.SetValue(msg.Transcript)
		m.updateInputLayout()
		m.Status = ""
		return m, nil

	case SpeechDoneMsg:
		m.Speaking = false
		if msg.Err != nil {
			m.Status = fmt.Sprintf("Speak: %v", msg.Err)
		}
		return m, nil

	case AuthMsg:
		m.handleAuthResult(msg)
		return m, nil

	case SignedOutMsg:
		if msg.Err != nil {
			log.Printf("auth: sign out failed: %v", msg.Err)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		ModalWidth = msg.Width - 10
		if ModalWidth > 60 {
			ModalWidth = 60
		}
		if ModalWidth < 30 {
			ModalWidth = 30
		}
		styles.ContentWidth = ModalWidth - 6

		m.ModelViewport.Width = styles.ContentWidth
		m.ModelViewport.Height = msg.Height - 15
		if m.ModelViewport.Height > 20 {
			m.ModelViewport.Height = 20
		}
		if m.ModelViewport.Height < 5 {
			m.ModelViewport.Height = 5
		}

		chatWidth := msg.Width - 2
		if chatWidth > MaxChatWidth {
			chatWidth = MaxChatWidth
		}
		m.Viewport.Width = chatWidth - 2

		m.updateInputLayout()
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(styles.GlamourStyle()),
			glamour.WithWordWrap(chatWidth-6),
		)
		m.rebuildMessages()
		m.UpdateViewport()
		return m, nil
	}

	if m.Screen != ScreenChat {
		return m, nil
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.updateInputLayout()

	// Terminal background and cursor reports can leak into the input
	val := m.TextInput.Value()
	if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
		m.TextInput.Reset()
	}

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "alt+enter":
		return true
	default:
		return false
	}
}

func (m *Model) dismissAlert() {
	next := m.Alert.Then
	m.Alert = nil
	if m.Screen != ScreenChat && next != m.Screen {
		m.showScreen(next)
	}
}

// submit appends the draft as a user turn and sends the outbound request.
// While a reply is outstanding further submits are ignored.
func (m *Model) submit() tea.Cmd {
	if m.Loading {
		return nil
	}
	userMsg, ok := m.Conv.AppendUserTurn(m.TextInput.Value())
	if !ok {
		return nil
	}

	m.Messages = append(m.Messages, m.formatMessage(userMsg, len(m.Messages) == 0))
	m.TextInput.Reset()
	m.updateInputLayout()
	m.Status = ""
	m.Loading = true
	m.UpdateViewport()

	return tea.Batch(m.sendMessage(m.Conv.Outbound()), m.Spinner.Tick)
}

func (m *Model) sendMessage(outbound []models.Message) tea.Cmd {
	client := m.Gateway
	model := m.Conv.ModelID()
	session := m.ChatSession
	timeout := m.Timeout

	return func() tea.Msg {
		if client == nil {
			return ResponseMsg{Session: session, Result: gateway.Result{Kind: gateway.KindMissingKey}}
		}
		ctx, cancel := withTimeout(context.Background(), timeout)
		defer cancel()
		return ResponseMsg{Session: session, Result: client.Complete(ctx, model, outbound)}
	}
}

// rewriteDraft sends the current input through the rewrite prompt. The reply
// replaces whatever the input holds when it arrives.
func (m *Model) rewriteDraft() tea.Cmd {
	draft := m.TextInput.Value()
	if strings.TrimSpace(draft) == "" {
		m.Status = "Nothing to rewrite"
		return nil
	}
	if m.Gateway == nil {
		m.Status = "Rewrite failed: " + gateway.ErrorPrefix + gateway.MissingKeyText
		return nil
	}

	client := m.Gateway
	model := m.Conv.ModelID()
	timeout := m.Timeout
	m.Rewriting = true
	m.Status = "Rewriting draft..."

	return func() tea.Msg {
		ctx, cancel := withTimeout(context.Background(), timeout)
		defer cancel()
		return RewriteMsg{Result: client.Rewrite(ctx, model, draft)}
	}
}

func (m *Model) speakLastReply() tea.Cmd {
	last, ok := m.Conv.LastAssistant()
	if !ok {
		m.Status = "Nothing to speak yet"
		return nil
	}
	m.Speaking = true
	done := m.Synthesizer.Speak(context.Background(), last.Content)
	return func() tea.Msg {
		return SpeechDoneMsg{Err: <-done}
	}
}

func (m *Model) listen() tea.Cmd {
	if m.Listening {
		return nil
	}
	m.Listening = true
	m.Status = "Listening..."
	result := m.Recognizer.Listen(context.Background())
	return func() tea.Msg {
		return RecognitionMsg(<-result)
	}
}

func (m *Model) exportToFile() {
	path, err := export.ToFile(m.ExportDir, m.Conv.Messages(), time.Now())
	switch {
	case errors.Is(err, export.ErrEmpty):
		m.Status = "Nothing to export yet"
	case err != nil:
		log.Printf("export: %v", err)
		m.Status = fmt.Sprintf("Export failed: %v", err)
	default:
		m.Status = "Chat exported to " + path
	}
}

func (m *Model) copyTranscript() {
	err := export.ToClipboard(m.Conv.Messages())
	switch {
	case errors.Is(err, export.ErrEmpty):
		m.Status = "Nothing to copy yet"
	case err != nil:
		log.Printf("export: %v", err)
		m.Status = fmt.Sprintf("Copy failed: %v", err)
	default:
		m.Status = "Chat copied to clipboard"
	}
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.WindowWidth - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	maxInputHeight := 6
	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > maxInputHeight {
		lineCount = maxInputHeight
	}

	m.TextInput.MaxHeight = maxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 7
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Height = viewportHeight
}

// resetChat starts a new conversation. Replies still in flight for the old
// one are dropped when they arrive.
func (m *Model) resetChat() {
	m.ChatSession++
	m.Conv.Reset()
	m.Messages = []string{}
	m.Loading = false
	m.Status = ""
	m.InputTokens = 0
	m.OutputTokens = 0
	m.ModelSelectorOpen = false
	m.ShortcutsOpen = false
	m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
	m.Viewport.GotoTop()
	m.TextInput.Reset()
	m.updateInputLayout()
}

// rebuildMessages re-renders the transcript, e.g. after the renderer changed.
func (m *Model) rebuildMessages() {
	m.Messages = m.Messages[:0]
	for _, msg := range m.Conv.Messages() {
		m.Messages = append(m.Messages, m.formatMessage(msg, len(m.Messages) == 0))
	}
}

func (m *Model) formatMessage(msg models.Message, first bool) string {
	switch msg.Role {
	case models.RoleUser:
		return FormatUserMessage(msg.Content, m.Viewport.Width, first)
	case models.RoleAssistant:
		if strings.HasPrefix(msg.Content, gateway.ErrorPrefix) {
			return FormatErrorReply(msg.Content, m.Viewport.Width)
		}
		display := msg.Content
		if m.Renderer != nil {
			if rendered, err := m.Renderer.Render(msg.Content); err == nil {
				display = strings.TrimSpace(rendered)
			}
		}
		return FormatNovaMessage(display)
	default:
		return styles.StatusStyle.Render(msg.Content)
	}
}
