package monitor

import (
	"errors"
	"fmt"
	"time"

	"plantwatch/internal/classify"
	"plantwatch/internal/metrics"
)

// Model load phases: the traffic model "trains" over ten epochs filling the
// first half of the progress bar, then the device model loads the second
// half in increments of five.
const (
	trafficTrainEpochs = 10
	deviceLoadSteps    = 10
)

var (
	// ErrLoadInProgress is returned by InitModels while a load is running.
	ErrLoadInProgress = errors.New("model load already in progress")
	// ErrAlreadyReady is returned by InitModels once models are loaded;
	// Reset unloads them first.
	ErrAlreadyReady = errors.New("models already loaded")
)

// InitModels starts the simulated model load in the background. Progress is
// observable on the snapshot; readiness gates Start. A failed load returns
// the controller to the unloaded state with progress zero.
func (c *Controller) InitModels() error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		c.appendLog(SeverityWarning, "model load already in progress")
		return ErrLoadInProgress
	}
	if c.ready {
		c.mu.Unlock()
		return ErrAlreadyReady
	}
	c.loading = true
	c.progress = 0
	cancel := make(chan struct{})
	c.loadCancel = cancel
	c.mu.Unlock()

	metrics.ModelLoadProgress.Set(0)
	c.appendLog(SeverityInfo, "model load started")
	c.publish()

	c.wg.Add(1)
	go c.loadModels(cancel)
	return nil
}

func (c *Controller) loadModels(cancel <-chan struct{}) {
	defer c.wg.Done()

	for epoch := 0; epoch < trafficTrainEpochs; epoch++ {
		if !c.waitStep(cancel) {
			return
		}
		p := (epoch + 1) * 10
		if p > 50 {
			p = 50
		}
		c.setProgress(p)
	}
	trafficScorer, err := c.buildTrafficScorer()
	if err != nil {
		c.failLoad(fmt.Sprintf("traffic model load failed: %v", err))
		return
	}

	for step := 1; step <= deviceLoadSteps; step++ {
		if !c.waitStep(cancel) {
			trafficScorer.Close()
			return
		}
		c.setProgress(50 + step*5)
	}
	deviceScorer, err := c.buildDeviceScorer()
	if err != nil {
		trafficScorer.Close()
		c.failLoad(fmt.Sprintf("device model load failed: %v", err))
		return
	}

	c.mu.Lock()
	select {
	case <-cancel:
		// Reset raced the final commit; discard the freshly built models.
		c.mu.Unlock()
		trafficScorer.Close()
		deviceScorer.Close()
		return
	default:
	}
	c.trafficCls = classify.NewTrafficClassifier(trafficScorer)
	c.deviceCls = classify.NewDeviceClassifier(deviceScorer, c.rng)
	c.ready = true
	c.loading = false
	c.loadCancel = nil
	c.mu.Unlock()

	c.appendLog(SeverityInfo, "models loaded, monitoring available")
	c.publish()
}

// waitStep sleeps one simulated load step, reporting false when the load was
// cancelled by Reset.
func (c *Controller) waitStep(cancel <-chan struct{}) bool {
	select {
	case <-cancel:
		return false
	case <-time.After(c.stepDelay):
		return true
	}
}

func (c *Controller) setProgress(p int) {
	c.mu.Lock()
	c.progress = p
	c.mu.Unlock()
	metrics.ModelLoadProgress.Set(float64(p))
	c.publish()
}

func (c *Controller) failLoad(message string) {
	c.mu.Lock()
	c.loading = false
	c.ready = false
	c.progress = 0
	c.loadCancel = nil
	c.mu.Unlock()
	metrics.ModelLoadProgress.Set(0)
	c.appendLog(SeverityDanger, message)
	c.publish()
}

func (c *Controller) cancelLoad() {
	c.mu.Lock()
	cancel := c.loadCancel
	c.loadCancel = nil
	c.mu.Unlock()
	if cancel != nil {
		close(cancel)
	}
}
