package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova/internal/models"
)

func sample() []models.Message {
	return []models.Message{
		models.UserMessage("hi"),
		models.AssistantMessage("hello"),
		models.UserMessage("what's up"),
		models.AssistantMessage("⚠️ API Error: rate limited"),
	}
}

func TestTranscriptLayout(t *testing.T) {
	got := Transcript(sample())

	want := "You:\nhi\n\nNova:\nhello\n\nYou:\nwhat's up\n\nNova:\n⚠️ API Error: rate limited"
	assert.Equal(t, want, got)
}

func TestTranscriptLineCount(t *testing.T) {
	msgs := sample()
	lines := strings.Split(Transcript(msgs), "\n")

	nonBlank := 0
	for _, l := range lines {
		if l != "" {
			nonBlank++
		}
	}
	assert.Equal(t, 2*len(msgs), nonBlank)
	assert.Equal(t, 2*len(msgs)+len(msgs)-1, len(lines))
}

func TestTranscriptEmpty(t *testing.T) {
	assert.Equal(t, "", Transcript(nil))
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	path, err := ToFile(dir, sample(), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nova-chat-20250314_150926.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Transcript(sample())+"\n", string(data))
}

func TestToFileEmpty(t *testing.T) {
	_, err := ToFile(t.TempDir(), nil, time.Now())
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorIs(t, ToClipboard(nil), ErrEmpty)
}
