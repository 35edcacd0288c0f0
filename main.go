package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"nova/internal/auth"
	"nova/internal/config"
	"nova/internal/db"
	"nova/internal/gateway"
	"nova/internal/models"
	"nova/internal/speech"
	"nova/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: <config dir>/nova/config.toml)")
	modelID := flag.String("model", "", "model id to start with")
	persona := flag.String("persona", "", "persona to start with (default, friendly, professional, casual)")
	guest := flag.Bool("guest", false, "skip sign-in and chat as a guest")
	noMemory := flag.Bool("no-memory", false, "start with conversation memory off")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *modelID != "" {
		cfg.Gateway.Model = *modelID
	}
	if *persona != "" {
		cfg.Chat.Persona = *persona
	}
	if *noMemory {
		cfg.Chat.Memory = false
	}

	logPath, err := cfg.LogPath()
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(logPath), 0o700); err == nil {
			var f *os.File
			f, err = tea.LogToFile(logPath, "nova")
			if err == nil {
				defer f.Close()
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	provider, conn, err := newAuthProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if conn != nil {
		defer conn.Close()
	}

	client := gateway.New(gateway.Config{
		APIKey:    cfg.Gateway.APIKey,
		BaseURL:   cfg.Gateway.BaseURL,
		MaxTokens: cfg.Gateway.MaxTokens,
		Timeout:   cfg.Timeout(),
	})
	if !client.Configured() {
		log.Printf("gateway: no API key configured, replies will report it")
	}

	p, _ := ui.NewProgram(ui.Options{
		Gateway:     client,
		Auth:        provider,
		Synthesizer: speech.NewCommandSynthesizer(cfg.Speech.TTSCommand),
		Recognizer:  speech.NewCommandRecognizer(cfg.Speech.STTCommand),
		ExportDir:   cfg.Export.Dir,
		Timeout:     cfg.Timeout(),
		Model:       cfg.Gateway.Model,
		Persona:     models.ParsePersona(cfg.Chat.Persona),
		Memory:      cfg.Chat.Memory,
		Guest:       *guest,
	})
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAuthProvider builds the configured identity provider. The returned
// connection is non-nil only for the local provider.
func newAuthProvider(cfg *config.Config) (auth.Provider, *sql.DB, error) {
	switch cfg.Auth.Provider {
	case config.AuthFirebase:
		return auth.NewFirebaseProvider(cfg.Auth.FirebaseAPIKey, cfg.Auth.FirebaseURL, cfg.Timeout()), nil, nil
	case config.AuthLocal:
		path, err := cfg.DBPath()
		if err != nil {
			return nil, nil, err
		}
		conn, err := db.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open account database %s: %w", path, err)
		}
		if n, err := db.CountAccounts(conn); err == nil {
			log.Printf("auth: local accounts in %s: %d", path, n)
		}
		return auth.NewLocalProvider(conn), conn, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", auth.ErrUnknownProvider, cfg.Auth.Provider)
	}
}
