package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

// eventRetention is how long gesture events are kept in the log.
const eventRetention = 7 * 24 * time.Hour

func main() {
	fmt.Println("Mudra - Hand Gesture Desktop Control")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if n, err := st.Events().Prune(time.Now().Add(-eventRetention)); err != nil {
		log.Printf("Failed to prune event log: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d old gesture events", n)
	}

	cfg := loadEngineConfig(st)

	a := app.New(app.Config{
		Store:  st,
		Sink:   input.NewRobotSink(),
		Engine: cfg,
	})

	hub := server.NewEventHub()
	tr := tray.New()

	a.OnEvent(func(ev engine.Event) {
		hub.Publish(ev)
		tr.SetLastEvent(string(ev.Type))
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	a.SetEnabled(true)

	srv := server.New(server.Config{
		Store: st,
		App:   a,
		Hub:   hub,
	})

	addr := "127.0.0.1:8080"
	go func() {
		log.Printf("Control API listening on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	tr.OnToggle(a.SetEnabled)
	tr.OnQuit(a.Stop)

	// Blocks until quit.
	tr.Run()
}

// loadEngineConfig builds the translation parameters from the active
// profile, with the stored screen dimensions replaced by the real display
// size when it can be queried.
func loadEngineConfig(st *store.Store) engine.Config {
	cfg := engine.DefaultConfig()

	if p, err := st.Profiles().GetActive(); err != nil {
		log.Printf("No active profile (%v), using defaults", err)
	} else {
		cfg = p.Config
		log.Printf("Loaded profile %q", p.Name)
	}

	if w, h := input.ScreenSize(); w > 0 && h > 0 {
		cfg.ScreenWidth = w
		cfg.ScreenHeight = h
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("Stored config invalid (%v), using defaults", err)
		cfg = engine.DefaultConfig()
	}

	return cfg
}
