// Package monitor implements the monitoring core: a periodic scheduler that
// feeds synthetic inputs through the dual-path classifiers, a bounded event
// log, and the model load lifecycle that gates the scheduler. All observable
// state is owned by the Controller; handlers and the scheduler goroutine go
// through its methods.
package monitor

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"plantwatch/internal/classify"
	"plantwatch/internal/metrics"
	"plantwatch/internal/simulate"
	"plantwatch/internal/sysinfo"
	"plantwatch/internal/utils"
)

// Monitoring intervals selectable from the dashboard, in milliseconds.
var validIntervals = []int{1000, 2000, 3000}

const defaultIntervalMs = 2000

var (
	// ErrNotReady is returned by Start before the models are loaded. The
	// refusal is also recorded as a danger entry in the event log.
	ErrNotReady = errors.New("models not ready")
	// ErrAlreadyRunning is returned by Start while the loop is active.
	ErrAlreadyRunning = errors.New("monitoring already running")
	// ErrInvalidInterval is returned by SetInterval for values outside the
	// selectable set.
	ErrInvalidInterval = errors.New("interval not in selectable set")
)

// Controller owns all monitoring state and drives the periodic loop.
type Controller struct {
	mu sync.RWMutex

	deviceStatus  classify.Status
	trafficStatus classify.Status
	lastSample    []float64

	ready    bool
	loading  bool
	progress int

	running    bool
	intervalMs int

	trafficCls *classify.TrafficClassifier
	deviceCls  *classify.DeviceClassifier

	// rng backs the generator, the device fallback, and the contextual log
	// roll. It is only touched from the scheduler and load goroutines,
	// which never overlap (loading requires !ready, running requires ready).
	rng *rand.Rand
	gen *simulate.Generator

	buildTrafficScorer func() (classify.TrafficScorer, error)
	buildDeviceScorer  func() (classify.DeviceScorer, error)
	stepDelay          time.Duration

	stopCh     chan struct{}
	loadCancel chan struct{}
	wg         sync.WaitGroup

	logs      *LogBuffer
	logger    *utils.Logger
	broadcast func(Snapshot)
	hostFn    func() *sysinfo.Telemetry
}

// NewController returns an idle controller with nothing loaded. The logger
// is optional and receives operational log lines in addition to the
// dashboard event log.
func NewController(logger *utils.Logger) *Controller {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	c := &Controller{
		intervalMs: defaultIntervalMs,
		rng:        rng,
		gen:        simulate.NewGenerator(rng),
		stepDelay:  120 * time.Millisecond,
		logs:       NewLogBuffer(),
		logger:     logger,
	}
	c.buildTrafficScorer = func() (classify.TrafficScorer, error) {
		return classify.NewTrafficModel(c.rng), nil
	}
	c.buildDeviceScorer = func() (classify.DeviceScorer, error) {
		return classify.NewDeviceModel(c.rng), nil
	}
	return c
}

// SetBroadcast registers a sink invoked with a fresh snapshot after every
// state change. Must be set before the controller is started.
func (c *Controller) SetBroadcast(fn func(Snapshot)) {
	c.broadcast = fn
}

// SetHostSource registers the host telemetry source merged into snapshots.
func (c *Controller) SetHostSource(fn func() *sysinfo.Telemetry) {
	c.hostFn = fn
}

// Logs exposes the dashboard event log.
func (c *Controller) Logs() *LogBuffer {
	return c.logs
}

// Start begins the monitoring loop. It requires loaded models and an idle
// loop; refusal before readiness is recorded as a danger entry and reported
// to the transport layer via ErrNotReady. The first tick runs immediately,
// before any interval elapses.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	if !c.ready {
		c.mu.Unlock()
		c.appendLog(SeverityDanger, "monitoring refused: models not loaded")
		c.publish()
		return ErrNotReady
	}
	c.running = true
	stop := make(chan struct{})
	c.stopCh = stop
	c.mu.Unlock()

	metrics.MonitoringRunning.Set(1)
	c.appendLog(SeverityInfo, "monitoring started")

	c.wg.Add(1)
	go c.run(stop)
	return nil
}

// Stop halts the loop. It cancels the pending reschedule outright; a tick
// already in flight finishes its classification work and is then discarded
// by its own running check.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop := c.stopCh
	c.stopCh = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	metrics.MonitoringRunning.Set(0)
	c.appendLog(SeverityInfo, "monitoring stopped")
	c.publish()
}

// Reset returns the controller to its initial state from any prior state:
// loop stopped, statuses normal, log cleared, models unloaded with their
// resources released.
func (c *Controller) Reset() {
	c.Stop()
	c.cancelLoad()
	c.wg.Wait()

	c.mu.Lock()
	c.deviceStatus = classify.StatusNormal
	c.trafficStatus = classify.StatusNormal
	c.lastSample = nil
	c.ready = false
	c.loading = false
	c.progress = 0
	if c.trafficCls != nil {
		c.trafficCls.Close()
		c.trafficCls = nil
	}
	if c.deviceCls != nil {
		c.deviceCls.Close()
		c.deviceCls = nil
	}
	c.mu.Unlock()

	metrics.ModelLoadProgress.Set(0)
	c.logs.Clear()
	c.appendLog(SeverityInfo, "system reset")
	c.publish()
}

// SetInterval changes the monitoring period. Only the values offered by the
// dashboard speed selector are accepted; a change takes effect at the next
// rescheduling decision.
func (c *Controller) SetInterval(ms int) error {
	ok := false
	for _, v := range validIntervals {
		if v == ms {
			ok = true
			break
		}
	}
	if !ok {
		return ErrInvalidInterval
	}
	c.mu.Lock()
	c.intervalMs = ms
	c.mu.Unlock()
	c.publish()
	return nil
}

// run executes ticks until stopped. The next tick is scheduled only after
// the current one completes, so at most one tick is ever pending.
func (c *Controller) run(stop <-chan struct{}) {
	defer c.wg.Done()
	for {
		if !c.tick() {
			return
		}
		c.mu.RLock()
		interval := time.Duration(c.intervalMs) * time.Millisecond
		c.mu.RUnlock()
		select {
		case <-stop:
			return
		case <-time.After(interval):
		}
	}
}

// tick runs one pass of the monitoring body. It reports false when the loop
// has been stopped, which also covers a stop that raced an in-flight tick.
func (c *Controller) tick() bool {
	c.mu.RLock()
	running := c.running
	deviceCls := c.deviceCls
	trafficCls := c.trafficCls
	currentDevice := c.deviceStatus
	c.mu.RUnlock()
	if !running {
		return false
	}

	frame := c.gen.Frame()
	deviceStatus, devicePath := deviceCls.Classify(frame, currentDevice)

	sample := c.gen.Traffic()
	trafficStatus, trafficPath := trafficCls.Classify(sample)

	c.mu.Lock()
	c.deviceStatus = deviceStatus
	c.trafficStatus = trafficStatus
	c.lastSample = sample
	c.mu.Unlock()

	metrics.TicksTotal.Inc()
	metrics.ClassificationsTotal.WithLabelValues("device", deviceStatus.String()).Inc()
	metrics.ClassificationsTotal.WithLabelValues("traffic", trafficStatus.String()).Inc()

	if devicePath == classify.PathFallback {
		metrics.FallbacksTotal.WithLabelValues("device", devicePath.String()).Inc()
		c.appendLog(SeverityWarning, "device inference failed, holding last known status")
	}
	switch trafficPath {
	case classify.PathFallback:
		metrics.FallbacksTotal.WithLabelValues("traffic", trafficPath.String()).Inc()
		c.appendLog(SeverityWarning, "traffic model failed, threshold heuristic applied")
	case classify.PathRejected:
		metrics.FallbacksTotal.WithLabelValues("traffic", trafficPath.String()).Inc()
		c.appendLog(SeverityWarning, "traffic sample rejected, defaulting to normal")
	}

	if c.rng.Float64() < contextProbability {
		pool := contextMessages[trafficStatus]
		c.appendLog(severityFor(trafficStatus), pool[c.rng.Intn(len(pool))])
	}

	c.publish()
	return true
}

func (c *Controller) appendLog(severity Severity, message string) {
	c.logs.Append(severity, message)
	metrics.LogEntries.Set(float64(c.logs.Len()))
	if c.logger != nil {
		c.logger.Write(string(severity) + ": " + message)
	}
}

func (c *Controller) publish() {
	metrics.LogEntries.Set(float64(c.logs.Len()))
	if c.broadcast != nil {
		c.broadcast(c.Snapshot())
	}
}
