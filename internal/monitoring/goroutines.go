// Package monitoring watches process-level health of long running binaries.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Gauge reports the current value of a tracked quantity
type Gauge func() int

// GoroutineMonitor samples the goroutine count and any registered gauges,
// warning when the count crosses a threshold.
type GoroutineMonitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	gauges         map[string]Gauge
	samples        map[string]int
	logger         zerolog.Logger
}

// Option configures a GoroutineMonitor
type Option func(*GoroutineMonitor)

// WithInterval sets how often the monitor samples
func WithInterval(d time.Duration) Option {
	return func(gm *GoroutineMonitor) {
		if d > 0 {
			gm.checkInterval = d
		}
	}
}

// WithThreshold sets the goroutine count that triggers a warning
func WithThreshold(n int) Option {
	return func(gm *GoroutineMonitor) {
		if n > 0 {
			gm.alertThreshold = n
		}
	}
}

// WithLogger sets the parent logger
func WithLogger(l zerolog.Logger) Option {
	return func(gm *GoroutineMonitor) {
		gm.logger = l
	}
}

// NewGoroutineMonitor creates a new goroutine monitor
func NewGoroutineMonitor(opts ...Option) *GoroutineMonitor {
	baseline := runtime.NumGoroutine()
	gm := &GoroutineMonitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  30 * time.Second,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		stopChan:       make(chan struct{}),
		gauges:         make(map[string]Gauge),
		samples:        make(map[string]int),
		logger:         log.Logger,
	}
	for _, opt := range opts {
		opt(gm)
	}
	gm.logger = gm.logger.With().Str("component", "monitor").Logger()
	return gm
}

// Track samples g under name on every check
func (gm *GoroutineMonitor) Track(name string, g Gauge) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.gauges[name] = g
}

// Start begins monitoring goroutines
func (gm *GoroutineMonitor) Start() {
	go gm.monitor()
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (gm *GoroutineMonitor) Stop() {
	gm.stopOnce.Do(func() { close(gm.stopChan) })
}

func (gm *GoroutineMonitor) monitor() {
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Goroutine monitor panicked - restarting")
			time.Sleep(5 * time.Second)
			go gm.monitor()
		}
	}()

	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.Check()
		case <-gm.stopChan:
			return
		}
	}
}

// Check takes one sample and logs it
func (gm *GoroutineMonitor) Check() {
	current := runtime.NumGoroutine()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	for name, g := range gm.gauges {
		gm.samples[name] = g()
	}
	samples := copyMap(gm.samples)
	peak := gm.peak

	growth := current - gm.baseline
	growthRate := float64(growth) / float64(gm.baseline) * 100

	shouldAlert := current > gm.alertThreshold &&
		time.Since(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = time.Now()
	}
	gm.mu.Unlock()

	e := gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate)
	for name, v := range samples {
		e = e.Int(name, v)
	}
	e.Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
}

// GetMetrics returns the latest sample
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return GoroutineMetrics{
		Current:  gm.current,
		Baseline: gm.baseline,
		Peak:     gm.peak,
		Growth:   gm.current - gm.baseline,
		Gauges:   copyMap(gm.samples),
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current  int            `json:"current"`
	Baseline int            `json:"baseline"`
	Peak     int            `json:"peak"`
	Growth   int            `json:"growth"`
	Gauges   map[string]int `json:"gauges"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
