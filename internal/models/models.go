package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Label is the speaker name used in transcripts and the chat view
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Nova"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// Message is one entry of a conversation. Values are never mutated after
// creation; slices of Message are copied, not shared, across packages.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func UserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

func AssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

func SystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

type AIModel struct {
	ID          string
	Name        string
	Provider    string
	Description string
}

const DefaultModelID = "openai/gpt-4o"

var AvailableModels = []AIModel{
	{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: "OpenAI", Description: "General purpose multimodal model"},
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o mini", Provider: "OpenAI", Description: "Small, fast and cheap"},
	{ID: "google/gemini-3-flash-preview", Name: "Gemini 3 Flash Preview", Provider: "Google", Description: "Fast multimodal model"},
	{ID: "deepseek/deepseek-v3.2", Name: "DeepSeek V3.2", Provider: "DeepSeek", Description: "Reasoning model"},
	{ID: "x-ai/grok-4.1-fast", Name: "Grok 4.1 Fast", Provider: "xAI", Description: "General purpose fast model"},
	{ID: "openai/gpt-oss-120b:free", Name: "GPT-OSS 120B Free", Provider: "OpenAI", Description: "Open-source large language model"},
}

// FindModelByID returns the model and its index in AvailableModels.
func FindModelByID(id string) (AIModel, int, bool) {
	for i, mdl := range AvailableModels {
		if mdl.ID == id {
			return mdl, i, true
		}
	}
	return AIModel{}, 0, false
}

// ModelOrCustom resolves id against AvailableModels, falling back to an
// ad-hoc entry so any gateway model id can be used.
func ModelOrCustom(id string) AIModel {
	if mdl, _, ok := FindModelByID(id); ok {
		return mdl
	}
	return AIModel{ID: id, Name: id, Provider: "Custom"}
}

// Persona is a named system-prompt preset (the "mood" of the assistant).
type Persona string

const (
	PersonaDefault      Persona = "Default"
	PersonaFriendly     Persona = "Friendly"
	PersonaProfessional Persona = "Professional"
	PersonaCasual       Persona = "Casual"
)

var personaPrompts = map[Persona]string{
	PersonaDefault:      "You are Nova, a helpful AI assistant. Answer clearly, accurately and concisely.",
	PersonaFriendly:     "You are Nova, a warm and friendly AI assistant. Be encouraging and upbeat, and keep answers helpful and easy to follow.",
	PersonaProfessional: "You are Nova, a professional AI assistant. Use a formal, precise tone, structure your answers, and avoid slang.",
	PersonaCasual:       "You are Nova, a laid-back AI assistant. Talk casually like a friend would, keep it short and relaxed.",
}

// Personas returns the selectable personas in display order.
func Personas() []Persona {
	return []Persona{PersonaDefault, PersonaFriendly, PersonaProfessional, PersonaCasual}
}

// Prompt returns the system prompt for p; unknown personas get the default prompt.
func (p Persona) Prompt() string {
	if prompt, ok := personaPrompts[p]; ok {
		return prompt
	}
	return personaPrompts[PersonaDefault]
}

// Next cycles to the following persona in display order.
func (p Persona) Next() Persona {
	all := Personas()
	for i, candidate := range all {
		if candidate == p {
			return all[(i+1)%len(all)]
		}
	}
	return PersonaDefault
}

// ParsePersona matches name case-insensitively, falling back to PersonaDefault.
func ParsePersona(name string) Persona {
	name = strings.TrimSpace(name)
	for _, p := range Personas() {
		if strings.EqualFold(string(p), name) {
			return p
		}
	}
	return PersonaDefault
}
