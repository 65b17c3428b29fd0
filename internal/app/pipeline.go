package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/store"
)

// runAcquire is the frame acquisition loop. It reads camera frames at the
// current duty-cycle rate, gates detection on motion, and deposits landmark
// frames into the box for the processing loop. Running acquisition and
// translation on separate goroutines means a slow detection never delays
// the frame clock; the box drops stale frames instead.
//
// Duty cycle:
//  1. Idle at capture.IdleFPS until motion is detected.
//  2. On motion, switch to capture.ActiveFPS and run hand detection.
//  3. After IdleTimeout without motion, drop back to idle.
func (a *App) runAcquire(stop chan struct{}) {
	defer a.wg.Done()

	activeMode := false
	lastMotionTime := time.Now()

	interval := time.Second / capture.IdleFPS
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, ts, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = ts
				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(capture.ActiveFPS)
					interval = time.Second / capture.ActiveFPS
					ticker.Reset(interval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && ts.Sub(lastMotionTime) > IdleTimeout {
				activeMode = false
				a.Camera().SetFPS(capture.IdleFPS)
				interval = time.Second / capture.IdleFPS
				ticker.Reset(interval)
				a.motion.Reset()
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				// Still feed the clock so a gesture interrupted by
				// tracking loss eventually expires.
				a.box.Put(detector.AbsentFrame(ts))
				continue
			}

			hand, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hand: %v", err)
				a.box.Put(detector.AbsentFrame(ts))
				continue
			}

			a.box.Put(detector.Frame{Hand: hand, Timestamp: ts})
		}
	}
}

// runProcess is the translation loop. It waits for frames, feeds them to
// the engine in arrival order, and turns the results into desktop actions.
func (a *App) runProcess(stop chan struct{}) {
	defer a.wg.Done()

	ctx := context.Background()

	for {
		select {
		case <-stop:
			return
		case <-a.box.Wait():
			frame, ok := a.box.Take()
			if !ok {
				continue
			}

			update := a.engine.Process(frame)

			if update.CursorMoved {
				if err := a.emitter.MoveTo(ctx, update.CursorX, update.CursorY); err != nil {
					log.Printf("Cursor move failed: %v", err)
				}
			}

			for _, ev := range update.Events {
				a.handleEvent(ctx, ev)
			}
		}
	}
}

// handleEvent performs the desktop action for one gesture event, records
// it, and notifies listeners. Action failures are logged and the event is
// still recorded and broadcast: the gesture happened even if the OS call
// did not land.
func (a *App) handleEvent(ctx context.Context, ev engine.Event) {
	if err := a.emitter.Emit(ctx, ev); err != nil {
		if errors.Is(err, input.ErrActionTimeout) {
			log.Printf("Action for %s dropped on timeout", ev.Type)
		} else {
			log.Printf("Action for %s failed: %v", ev.Type, err)
		}
	}

	a.setLastEvent(string(ev.Type))

	// DragMove fires per frame; logging each one would flood the table.
	if a.config.Store != nil && ev.Type != engine.DragMove {
		rec := store.Event{
			ID:         ev.ID,
			Type:       string(ev.Type),
			Channel:    string(ev.Channel),
			ScreenX:    ev.ScreenX,
			ScreenY:    ev.ScreenY,
			DurationMs: ev.Duration.Milliseconds(),
			Magnitude:  ev.Magnitude,
			Forced:     ev.Forced,
			CreatedAt:  ev.Time,
		}
		if err := a.config.Store.Events().Insert(rec); err != nil {
			log.Printf("Failed to record %s event: %v", ev.Type, err)
		}
	}

	a.mu.RLock()
	fn := a.onEvent
	a.mu.RUnlock()
	if fn != nil {
		fn(ev)
	}
}
