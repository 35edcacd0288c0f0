package ui

import (
	"context"
	"errors"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"nova/internal/auth"
)

var errNoProvider = errors.New("no identity provider configured")

func (m *Model) updateAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		m.setFormFocus(m.FocusIndex + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFormFocus(m.FocusIndex - 1)
		return m, nil
	case "ctrl+r":
		if m.Screen == ScreenLogin && !m.AuthBusy {
			m.showScreen(ScreenRegister)
		}
		return m, nil
	case "ctrl+g":
		if m.Screen == ScreenLogin && !m.AuthBusy {
			m.enterChat(auth.Guest())
		}
		return m, nil
	case "esc":
		if m.Screen == ScreenRegister && !m.AuthBusy {
			m.showScreen(ScreenLogin)
			return m, nil
		}
		return m, tea.Quit
	case "enter":
		if m.AuthBusy {
			return m, nil
		}
		if m.FocusIndex == fieldEmail {
			m.setFormFocus(fieldPassword)
			return m, nil
		}
		m.AuthBusy = true
		return m, tea.Batch(m.authenticate(m.Screen == ScreenRegister), m.Spinner.Tick)
	}

	var cmd tea.Cmd
	if m.FocusIndex == fieldEmail {
		m.EmailInput, cmd = m.EmailInput.Update(msg)
	} else {
		m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	}
	return m, cmd
}

// authenticate signs in or up with the current form values.
func (m *Model) authenticate(register bool) tea.Cmd {
	provider := m.Auth
	email := m.EmailInput.Value()
	password := m.PasswordInput.Value()
	timeout := m.Timeout

	return func() tea.Msg {
		if provider == nil {
			return AuthMsg{Register: register, Err: errNoProvider}
		}
		ctx, cancel := withTimeout(context.Background(), timeout)
		defer cancel()

		var (
			session *auth.Session
			err     error
		)
		if register {
			session, err = provider.SignUp(ctx, email, password)
		} else {
			session, err = provider.SignIn(ctx, email, password)
		}
		return AuthMsg{Register: register, Session: session, Err: err}
	}
}

func (m *Model) handleAuthResult(msg AuthMsg) {
	m.AuthBusy = false
	m.PasswordInput.Reset()

	if msg.Register {
		if msg.Err != nil {
			log.Printf("auth: sign up failed: %v", msg.Err)
			m.Alert = &Alert{Text: SignupFailedPrefix + auth.Message(msg.Err), Then: ScreenRegister}
			return
		}
		// Registration never signs in; the user is sent to the login screen.
		m.Alert = &Alert{Text: RegisteredNotice, Then: ScreenLogin}
		return
	}

	if msg.Err != nil {
		log.Printf("auth: sign in failed: %v", msg.Err)
		m.Alert = &Alert{Text: LoginFailedPrefix + auth.Message(msg.Err), Then: ScreenLogin}
		return
	}
	m.enterChat(msg.Session)
}

func (m *Model) signOut() tea.Cmd {
	provider := m.Auth
	session := m.Session
	timeout := m.Timeout
	return func() tea.Msg {
		if provider == nil || session == nil || session.Guest {
			return SignedOutMsg{}
		}
		ctx, cancel := withTimeout(context.Background(), timeout)
		defer cancel()
		return SignedOutMsg{Err: provider.SignOut(ctx, session)}
	}
}

func (m *Model) setFormFocus(i int) {
	if i < fieldEmail {
		i = fieldPassword
	}
	if i > fieldPassword {
		i = fieldEmail
	}
	m.FocusIndex = i
	if i == fieldEmail {
		m.EmailInput.Focus()
		m.PasswordInput.Blur()
	} else {
		m.PasswordInput.Focus()
		m.EmailInput.Blur()
	}
}

// showScreen switches between the login and register forms.
func (m *Model) showScreen(s Screen) {
	m.Screen = s
	m.PasswordInput.Reset()
	m.setFormFocus(fieldEmail)
	m.TextInput.Blur()
}

func (m *Model) enterChat(session *auth.Session) {
	m.Session = session
	m.Screen = ScreenChat
	m.resetChat()
	m.EmailInput.Blur()
	m.PasswordInput.Blur()
	m.TextInput.Focus()
}
