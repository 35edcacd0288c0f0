package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"nova/internal/auth"
	"nova/internal/chat"
	"nova/internal/gateway"
	"nova/internal/models"
	"nova/internal/speech"
)

const (
	MaxChatWidth = 100

	// Form field indexes on the login and register screens
	fieldEmail    = 0
	fieldPassword = 1
)

var ModalWidth = 60

const (
	FeedbackNotice     = "Feedback feature coming soon!"
	RegisteredNotice   = "Account created successfully!"
	LoginFailedPrefix  = "Login failed: "
	SignupFailedPrefix = "Registration failed: "
)

// Screen is one of the three routes of the app.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenChat
)

// Completer is the part of the gateway client the view uses.
type Completer interface {
	Complete(ctx context.Context, model string, msgs []models.Message) gateway.Result
	Rewrite(ctx context.Context, model, draft string) gateway.Result
}

// Options wires the view to its collaborators.
type Options struct {
	Gateway     Completer
	Auth        auth.Provider
	Synthesizer speech.Synthesizer
	Recognizer  speech.Recognizer
	ExportDir   string
	Timeout     time.Duration
	Model       string
	Persona     models.Persona
	Memory      bool

	// Guest skips the login screen.
	Guest bool
}

// ResponseMsg carries the gateway outcome for one submitted user turn.
// Session ties it to the conversation it was sent from.
type ResponseMsg struct {
	Session int
	Result  gateway.Result
}

// RewriteMsg carries a rewritten draft.
type RewriteMsg struct {
	Result gateway.Result
}

type AuthMsg struct {
	Register bool
	Session  *auth.Session
	Err      error
}

type SignedOutMsg struct{ Err error }

type SpeechDoneMsg struct{ Err error }

type RecognitionMsg speech.Recognition

type Model struct {
	Screen Screen

	// Login / register form
	EmailInput    textinput.Model
	PasswordInput textinput.Model
	FocusIndex    int
	AuthBusy      bool

	// Blocking alert modal; nil when closed
	Alert *Alert

	Viewport      viewport.Model
	ModelViewport viewport.Model
	Messages      []string
	TextInput     textarea.Model
	Spinner       spinner.Model
	Renderer      *glamour.TermRenderer

	Conv         *chat.Conversation
	Gateway      Completer
	Auth         auth.Provider
	Session      *auth.Session
	Synthesizer  speech.Synthesizer
	Recognizer   speech.Recognizer
	ExportDir    string
	Timeout      time.Duration
	CurrentModel models.AIModel

	// Incremented on new chat and logout so late replies are dropped
	ChatSession int

	Loading   bool
	Rewriting bool
	Listening bool
	Speaking  bool
	Status    string

	InputTokens  int64
	OutputTokens int64

	WindowWidth        int
	WindowHeight       int
	ModelSelectorOpen  bool
	ShortcutsOpen      bool
	SelectedModelIndex int
}

// Alert is a message the user has to dismiss before continuing.
type Alert struct {
	Text string
	// Screen to show once dismissed
	Then Screen
}
