// Package speech provides text-to-speech and one-shot speech-to-text.
//
// Both operations are asynchronous: the returned channel delivers exactly one
// completion value and is then closed. Callers that only care about firing the
// request may ignore the channel; it is buffered so nothing leaks.
package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

var ErrUnavailable = errors.New("speech is not configured")

type Synthesizer interface {
	Speak(ctx context.Context, text string) <-chan error
}

// Recognition is the outcome of a Listen call.
type Recognition struct {
	Transcript string
	Err        error
}

type Recognizer interface {
	Listen(ctx context.Context) <-chan Recognition
}

// CommandSynthesizer speaks by running an external program (espeak, say,
// piper wrappers...) with the text as its final argument.
type CommandSynthesizer struct {
	Command []string
}

func NewCommandSynthesizer(command string) Synthesizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Disabled{}
	}
	return &CommandSynthesizer{Command: fields}
}

func (s *CommandSynthesizer) Speak(ctx context.Context, text string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if strings.TrimSpace(text) == "" {
			done <- errors.New("nothing to speak")
			return
		}
		args := append(append([]string{}, s.Command[1:]...), text)
		cmd := exec.CommandContext(ctx, s.Command[0], args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			log.Printf("speech: %s failed: %v %s", s.Command[0], err, strings.TrimSpace(stderr.String()))
			done <- fmt.Errorf("speak: %w", err)
			return
		}
		done <- nil
	}()
	return done
}

// CommandRecognizer runs an external speech-to-text program and takes the
// first non-empty line it prints as the transcript.
type CommandRecognizer struct {
	Command []string
}

func NewCommandRecognizer(command string) Recognizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Disabled{}
	}
	return &CommandRecognizer{Command: fields}
}

func (r *CommandRecognizer) Listen(ctx context.Context) <-chan Recognition {
	done := make(chan Recognition, 1)
	go func() {
		defer close(done)
		cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
		out, err := cmd.Output()
		if err != nil {
			log.Printf("speech: %s failed: %v", r.Command[0], err)
			done <- Recognition{Err: fmt.Errorf("listen: %w", err)}
			return
		}
		transcript := firstLine(out)
		if transcript == "" {
			done <- Recognition{Err: errors.New("no speech recognized")}
			return
		}
		done <- Recognition{Transcript: transcript}
	}()
	return done
}

func firstLine(out []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}

// Disabled is used when no speech command is configured.
type Disabled struct{}

func (Disabled) Speak(context.Context, string) <-chan error {
	done := make(chan error, 1)
	done <- ErrUnavailable
	close(done)
	return done
}

func (Disabled) Listen(context.Context) <-chan Recognition {
	done := make(chan Recognition, 1)
	done <- Recognition{Err: ErrUnavailable}
	close(done)
	return done
}
