package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova/internal/models"
)

func roles(msgs []models.Message) []models.Role {
	out := make([]models.Role, len(msgs))
	for i, m := range msgs {
		out[i] = m.Role
	}
	return out
}

func contents(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestAppendUserTurnRejectsBlankInput(t *testing.T) {
	c := New("", models.PersonaDefault)
	for _, in := range []string{"", " ", "\t\n  "} {
		_, ok := c.AppendUserTurn(in)
		assert.False(t, ok, "input %q", in)
	}
	assert.Equal(t, 0, c.Len())
}

func TestAppendUserTurnKeepsText(t *testing.T) {
	c := New("", models.PersonaDefault)
	msg, ok := c.AppendUserTurn("  hello  ")
	require.True(t, ok)
	assert.Equal(t, models.RoleUser, msg.Role)
	assert.Equal(t, "  hello  ", msg.Content)
	assert.Equal(t, 1, c.Len())
}

func TestOutboundMemoryOffScenario(t *testing.T) {
	history := []models.Message{
		models.UserMessage("hi"),
		models.AssistantMessage("hello"),
		models.UserMessage("what's up"),
	}

	out := BuildOutboundRequest(history, models.PersonaCasual, false)

	require.Len(t, out, 2)
	assert.Equal(t, []models.Role{models.RoleSystem, models.RoleUser}, roles(out))
	assert.Equal(t, models.PersonaCasual.Prompt(), out[0].Content)
	assert.Equal(t, "what's up", out[1].Content)
}

func TestOutboundMemoryOffLengthIndependentOfHistory(t *testing.T) {
	c := New("", models.PersonaFriendly)
	c.SetMemory(false)
	for i := 0; i < 25; i++ {
		c.AppendUserTurn("question")
		c.AppendAssistantTurn("answer")
	}
	c.AppendUserTurn("latest")

	out := c.Outbound()
	require.Len(t, out, 2)
	assert.Equal(t, "latest", out[1].Content)
	assert.Equal(t, 2*25+1, c.Len(), "on-screen history keeps every turn")
}

func TestOutboundMemoryOnKeepsOrderAndDropsSystem(t *testing.T) {
	history := []models.Message{
		models.SystemMessage("stale persona"),
		models.UserMessage("one"),
		models.AssistantMessage("two"),
		models.SystemMessage("another"),
		models.UserMessage("three"),
	}

	out := BuildOutboundRequest(history, models.PersonaProfessional, true)

	assert.Equal(t, []string{models.PersonaProfessional.Prompt(), "one", "two", "three"}, contents(out))
	assert.Equal(t, []models.Role{models.RoleSystem, models.RoleUser, models.RoleAssistant, models.RoleUser}, roles(out))
	// the input slice is untouched
	assert.Len(t, history, 5)
	assert.Equal(t, "stale persona", history[0].Content)
}

func TestOutboundEmptyHistory(t *testing.T) {
	for _, memory := range []bool{true, false} {
		out := BuildOutboundRequest(nil, models.PersonaDefault, memory)
		require.Len(t, out, 1)
		assert.Equal(t, models.RoleSystem, out[0].Role)
	}
}

func TestTurnParity(t *testing.T) {
	c := New("", models.PersonaDefault)
	assert.True(t, c.TurnParity())

	c.AppendUserTurn("hi")
	assert.False(t, c.TurnParity())

	c.AppendAssistantTurn("⚠️ API Error: Something went wrong.")
	assert.True(t, c.TurnParity())
}

func TestResetKeepsSettings(t *testing.T) {
	c := New("openai/gpt-4o-mini", models.PersonaCasual)
	c.SetMemory(false)
	c.AppendUserTurn("hi")
	c.AppendAssistantTurn("hello")

	c.Reset()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, models.PersonaCasual, c.Persona())
	assert.False(t, c.MemoryEnabled())
	assert.Equal(t, "openai/gpt-4o-mini", c.ModelID())
}

func TestMessagesReturnsCopy(t *testing.T) {
	c := New("", models.PersonaDefault)
	c.AppendUserTurn("hi")

	msgs := c.Messages()
	msgs[0].Content = "tampered"

	assert.Equal(t, "hi", c.Messages()[0].Content)
}

func TestLastAssistantAndToggle(t *testing.T) {
	c := New("", models.PersonaDefault)
	_, ok := c.LastAssistant()
	assert.False(t, ok)

	c.AppendUserTurn("hi")
	c.AppendAssistantTurn("first")
	c.AppendUserTurn("again")
	c.AppendAssistantTurn("second")

	last, ok := c.LastAssistant()
	require.True(t, ok)
	assert.Equal(t, "second", last.Content)

	assert.True(t, c.MemoryEnabled())
	assert.False(t, c.ToggleMemory())
	assert.True(t, c.ToggleMemory())
}

func TestNewDefaultsModel(t *testing.T) {
	c := New("", models.PersonaDefault)
	assert.Equal(t, models.DefaultModelID, c.ModelID())
}
