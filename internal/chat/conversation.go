// Package chat holds the in-memory conversation state and assembles the
// message list sent to the completion gateway on every turn.
package chat

import (
	"strings"

	"nova/internal/models"
)

// Conversation is the session-local chat state. It is owned by the UI update
// loop and is not safe for concurrent use.
type Conversation struct {
	messages []models.Message
	persona  models.Persona
	memory   bool
	modelID  string
}

func New(modelID string, persona models.Persona) *Conversation {
	if modelID == "" {
		modelID = models.DefaultModelID
	}
	return &Conversation{
		persona: persona,
		memory:  true,
		modelID: modelID,
	}
}

// AppendUserTurn appends text as a user message. Empty or whitespace-only
// input is rejected and leaves the history untouched.
func (c *Conversation) AppendUserTurn(text string) (models.Message, bool) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, false
	}
	msg := models.UserMessage(text)
	c.messages = append(c.messages, msg)
	return msg, true
}

// AppendAssistantTurn appends a reply, including error substitutes.
func (c *Conversation) AppendAssistantTurn(text string) models.Message {
	msg := models.AssistantMessage(text)
	c.messages = append(c.messages, msg)
	return msg
}

// Outbound builds the gateway request for the current state.
func (c *Conversation) Outbound() []models.Message {
	return BuildOutboundRequest(c.messages, c.persona, c.memory)
}

// BuildOutboundRequest returns the persona system message followed by either
// the whole history minus system messages (memory on) or only the newest
// user message (memory off).
func BuildOutboundRequest(history []models.Message, persona models.Persona, memoryEnabled bool) []models.Message {
	out := []models.Message{models.SystemMessage(persona.Prompt())}

	if !memoryEnabled {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Role == models.RoleUser {
				return append(out, history[i])
			}
		}
		return out
	}

	for _, msg := range history {
		if msg.Role == models.RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// Reset starts a new chat. Persona, memory flag and model survive.
func (c *Conversation) Reset() {
	c.messages = nil
}

// Messages returns a copy of the history in conversation order.
func (c *Conversation) Messages() []models.Message {
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int { return len(c.messages) }

// LastAssistant returns the newest assistant message, if any.
func (c *Conversation) LastAssistant() (models.Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

// TurnParity reports whether every user turn has been answered.
func (c *Conversation) TurnParity() bool {
	users, replies := 0, 0
	for _, msg := range c.messages {
		switch msg.Role {
		case models.RoleUser:
			users++
		case models.RoleAssistant:
			replies++
		}
	}
	return users == replies
}

func (c *Conversation) Persona() models.Persona {
	return c.persona
}

func (c *Conversation) SetPersona(p models.Persona) {
	c.persona = p
}

func (c *Conversation) MemoryEnabled() bool {
	return c.memory
}

func (c *Conversation) SetMemory(enabled bool) {
	c.memory = enabled
}

func (c *Conversation) ModelID() string {
	return c.modelID
}

func (c *Conversation) SetModel(id string) {
	c.modelID = id
}

// ToggleMemory flips the memory flag and returns the new value.
func (c *Conversation) ToggleMemory() bool {
	c.memory = !c.memory
	return c.memory
}
