// Package export turns a conversation into a plain-text transcript and
// saves or copies it.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"nova/internal/models"
)

var ErrEmpty = errors.New("conversation has no messages")

// Transcript renders one block per message, a "Speaker:" line followed by the
// content, with blocks separated by a blank line.
func Transcript(msgs []models.Message) string {
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, msg.Role.Label()+":\n"+msg.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// Filename is the name used for a transcript saved at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("nova-chat-%s.txt", now.Format("20060102_150405"))
}

// ToFile writes the transcript into dir and returns the file path.
func ToFile(dir string, msgs []models.Message, now time.Time) (string, error) {
	if len(msgs) == 0 {
		return "", ErrEmpty
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, []byte(Transcript(msgs)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// ToClipboard copies the transcript to the system clipboard.
func ToClipboard(msgs []models.Message) error {
	if len(msgs) == 0 {
		return ErrEmpty
	}
	if clipboard.Unsupported {
		return errors.New("clipboard is not available on this system")
	}
	return clipboard.WriteAll(Transcript(msgs))
}
