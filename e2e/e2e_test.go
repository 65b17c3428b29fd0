package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	sink := input.NewMockSink()
	application := app.New(app.Config{
		Store:  st,
		Sink:   sink,
		Engine: engine.DefaultConfig(),
	})

	hub := server.NewEventHub()
	srv := server.New(server.Config{Store: st, App: application, Hub: hub})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("TuneProfile", func(t *testing.T) {
		cfg := engine.DefaultConfig()
		cfg.Smoothing = 0.5
		body, _ := json.Marshal(map[string]any{"name": "snappy", "config": cfg})

		resp, err := client.Post(ts.URL+"/api/profiles", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("create profile error = %v", err)
		}
		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		resp, err = client.Post(ts.URL+"/api/profiles/"+created.ID+"/activate", "application/json", nil)
		if err != nil {
			t.Fatalf("activate error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("activate status = %d", resp.StatusCode)
		}

		if got := application.EngineConfig().Smoothing; got != 0.5 {
			t.Errorf("engine smoothing = %f, want 0.5", got)
		}
	})

	// Drive a scripted tap through the translation core and emit the
	// resulting action, the same path the pipeline loops take per frame.
	t.Run("TapBecomesClick", func(t *testing.T) {
		eng := application.Engine()
		emitter := input.NewEmitter(sink, time.Second)
		start := time.Unix(5000, 0)

		var events []engine.Event
		for _, frame := range testdata.Frames(testdata.TapScript(), start) {
			update := eng.Process(frame)
			events = append(events, update.Events...)
			for _, ev := range update.Events {
				if err := emitter.Emit(context.Background(), ev); err != nil {
					t.Fatalf("Emit() error = %v", err)
				}
			}
		}

		if len(events) != 1 || events[0].Type != engine.Tap {
			t.Fatalf("expected single tap, got %v", events)
		}
		if got := sink.LastCall(); got != "click(left)" {
			t.Errorf("last sink call = %q, want click(left)", got)
		}
	})

	t.Run("EventLogged", func(t *testing.T) {
		// The pipeline records events through the same repository.
		if err := st.Events().Insert(store.Event{
			ID: "evt_e2e", Type: "tap", Channel: "index", CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		resp, err := client.Get(ts.URL + "/api/events")
		if err != nil {
			t.Fatalf("get events error = %v", err)
		}
		var events []store.Event
		if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()

		if len(events) == 0 {
			t.Fatal("expected logged events")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after workflow")
		}
	})
}
