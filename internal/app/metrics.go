package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/markpad/internal/command"
)

// Metrics tracks redraw timing, event handling and command use for one
// run. It is logged when the application shuts down.
type Metrics struct {
	mu sync.Mutex

	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Event processing
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64

	// Commands, by name, and rejected commands
	commands      map[string]uint64
	commandErrors atomic.Uint64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		commands:  make(map[string]uint64),
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records how long one redraw took.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent records how long handling one backend event took.
func (m *Metrics) RecordEvent(duration time.Duration) {
	m.eventCount.Add(1)
	m.eventTotalNs.Add(duration.Nanoseconds())
}

// RecordCommand counts a command or action run and whether it was rejected.
func (m *Metrics) RecordCommand(name string, status command.ResultStatus) {
	m.mu.Lock()
	m.commands[name]++
	m.mu.Unlock()
	if status == command.StatusError {
		m.commandErrors.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()
	eventCount := m.eventCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	var avgEventNs int64
	if eventCount > 0 {
		avgEventNs = m.eventTotalNs.Load() / int64(eventCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	m.mu.Lock()
	commands := make(map[string]uint64, len(m.commands))
	for k, v := range m.commands {
		commands[k] = v
	}
	m.mu.Unlock()

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frameCount,
		AvgFrameTimeNs: avgFrameNs,
		MinFrameTimeNs: minFrameNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		EventCount:     eventCount,
		AvgEventNs:     avgEventNs,
		Commands:       commands,
		CommandErrors:  m.commandErrors.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	EventCount     uint64
	AvgEventNs     int64
	Commands       map[string]uint64
	CommandErrors  uint64
}

// CommandCount returns the total number of commands run.
func (s MetricsSnapshot) CommandCount() uint64 {
	var n uint64
	for _, v := range s.Commands {
		n += v
	}
	return n
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// logMetrics writes a one-line summary of the run.
func (app *Application) logMetrics() {
	s := app.metrics.Snapshot()
	app.Logger().WithComponent("metrics").Info(
		"uptime %s, %d events, %d frames (avg %s, max %s), %d commands (%d rejected)",
		s.Uptime.Round(time.Second), s.EventCount, s.FrameCount,
		time.Duration(s.AvgFrameTimeNs), time.Duration(s.MaxFrameTimeNs),
		s.CommandCount(), s.CommandErrors,
	)
}
