package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersona(t *testing.T) {
	assert.Equal(t, PersonaCasual, ParsePersona("casual"))
	assert.Equal(t, PersonaProfessional, ParsePersona(" PROFESSIONAL "))
	assert.Equal(t, PersonaDefault, ParsePersona("grumpy"))
	assert.Equal(t, PersonaDefault, ParsePersona(""))
}

func TestPersonaNextCycles(t *testing.T) {
	p := PersonaDefault
	seen := map[Persona]bool{}
	for range Personas() {
		seen[p] = true
		p = p.Next()
	}
	assert.Equal(t, PersonaDefault, p)
	assert.Len(t, seen, len(Personas()))
}

func TestPersonaPromptsAreDistinct(t *testing.T) {
	prompts := map[string]Persona{}
	for _, p := range Personas() {
		prompt := p.Prompt()
		require.NotEmpty(t, prompt)
		_, dup := prompts[prompt]
		assert.False(t, dup, "persona %s shares a prompt", p)
		prompts[prompt] = p
	}
	assert.Equal(t, PersonaDefault.Prompt(), Persona("unknown").Prompt())
}

func TestNewMessageAssignsIdentity(t *testing.T) {
	a := UserMessage("hi")
	b := UserMessage("hi")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, RoleUser, a.Role)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestModelOrCustom(t *testing.T) {
	mdl := ModelOrCustom(DefaultModelID)
	assert.Equal(t, "OpenAI", mdl.Provider)

	custom := ModelOrCustom("acme/llm-1")
	assert.Equal(t, "acme/llm-1", custom.Name)
	assert.Equal(t, "Custom", custom.Provider)
}
