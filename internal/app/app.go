// Package app wires the capture, detection, and translation stages into the
// running gesture control pipeline.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleTimeout is how long without motion before dropping back to the
	// idle capture rate.
	IdleTimeout = 2 * time.Second
	// DefaultActionTimeout bounds each desktop input call.
	DefaultActionTimeout = 250 * time.Millisecond
)

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	CameraID      int
	MotionThresh  float64
	Sink          input.Sink
	Engine        engine.Config
	ActionTimeout time.Duration
}

// App orchestrates the full pipeline: camera frames in, desktop actions out.
type App struct {
	config  Config
	camera  capture.Camera
	motion  *capture.MotionDetector
	det     detector.Detector
	engine  *engine.Engine
	emitter *input.Emitter
	box     *FrameBox

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	wg        sync.WaitGroup
	onEvent   func(engine.Event)
	lastEvent string
}

// Status is the application-level telemetry snapshot.
type Status struct {
	Enabled        bool          `json:"enabled"`
	Running        bool          `json:"running"`
	CameraOpen     bool          `json:"camera_open"`
	FPS            int           `json:"fps"`
	DroppedFrames  uint64        `json:"dropped_frames"`
	DroppedActions uint64        `json:"dropped_actions"`
	LastEvent      string        `json:"last_event"`
	Engine         engine.Status `json:"engine"`
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0
	}
	timeout := config.ActionTimeout
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.CameraID),
		motion:  capture.NewMotionDetector(motionThreshold),
		engine:  engine.New(config.Engine),
		emitter: input.NewEmitter(config.Sink, timeout),
		box:     NewFrameBox(),
	}

	// Try MediaPipe first, fall back to the mock detector so the rest of
	// the pipeline stays exercisable without the Python sidecar.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.det = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.det = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture control. Disabling cancels any
// in-flight gesture without emitting its event; a held drag button is
// released so the desktop does not stay in a latched drag.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if !enabled {
		a.cancelGesture()
	}
}

// cancelGesture resets the engine and, if that cut a drag short, releases
// the mouse button the drag was holding down.
func (a *App) cancelGesture() {
	if a.engine.Reset() {
		if err := a.emitter.Release(context.Background(), input.ButtonLeft); err != nil {
			log.Printf("Error releasing drag button: %v", err)
		}
	}
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.det = d
}

// SetCamera replaces the camera, for tests that drive scripted frames.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnEvent registers a callback invoked for every gesture event, after the
// desktop action has been attempted. Must be set before Start.
func (a *App) OnEvent(fn func(engine.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

// ApplyConfig swaps the translation parameters, taking effect on the next
// frame.
func (a *App) ApplyConfig(cfg engine.Config) error {
	return a.engine.SetConfig(cfg)
}

// EngineConfig returns the active translation parameters.
func (a *App) EngineConfig() engine.Config {
	return a.engine.Config()
}

// Start begins the acquisition and processing loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.runAcquire(a.stopCh)
	go a.runProcess(a.stopCh)

	log.Println("Gesture pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources. Any in-flight gesture is
// cancelled without an event; a held drag button is released.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.mu.Unlock()

	a.wg.Wait()

	a.cancelGesture()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if a.det != nil {
		if err := a.det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Gesture pipeline stopped")
}

// Status returns the live telemetry snapshot.
func (a *App) Status() Status {
	a.mu.RLock()
	running := a.stopCh != nil
	enabled := a.enabled
	last := a.lastEvent
	cam := a.camera
	a.mu.RUnlock()

	return Status{
		Enabled:        enabled,
		Running:        running,
		CameraOpen:     cam.IsOpen(),
		FPS:            cam.FPS(),
		DroppedFrames:  a.box.Dropped(),
		DroppedActions: a.emitter.Dropped(),
		LastEvent:      last,
		Engine:         a.engine.Snapshot(),
	}
}

// Engine exposes the translation core, for the status and config surfaces.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.det
}

func (a *App) setLastEvent(s string) {
	a.mu.Lock()
	a.lastEvent = s
	a.mu.Unlock()
}
