package monitor

import (
	"time"

	"plantwatch/internal/classify"
	"plantwatch/internal/sysinfo"
)

// deviceLabels are the display captions attached to the device status.
var deviceLabels = map[classify.Status]string{
	classify.StatusNormal:  "operating normally",
	classify.StatusWarning: "degraded performance",
	classify.StatusDanger:  "fault detected",
}

// Snapshot is the read-only view of the monitoring state served on the API
// and pushed over the WebSocket hub after every state change.
type Snapshot struct {
	DeviceStatus  classify.Status `json:"device_status"`
	DeviceLabel   string          `json:"device_label"`
	TrafficStatus classify.Status `json:"traffic_status"`
	TrafficSample []float64       `json:"traffic_sample,omitempty"`

	ModelReady   bool `json:"model_ready"`
	ModelLoading bool `json:"model_loading"`
	LoadProgress int  `json:"load_progress"`

	Monitoring bool `json:"monitoring"`
	IntervalMs int  `json:"interval_ms"`

	LogCount int                `json:"log_count"`
	Host     *sysinfo.Telemetry `json:"host,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Snapshot returns a point-in-time copy of the observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	snap := Snapshot{
		DeviceStatus:  c.deviceStatus,
		DeviceLabel:   deviceLabels[c.deviceStatus],
		TrafficStatus: c.trafficStatus,
		ModelReady:    c.ready,
		ModelLoading:  c.loading,
		LoadProgress:  c.progress,
		Monitoring:    c.running,
		IntervalMs:    c.intervalMs,
		GeneratedAt:   time.Now(),
	}
	if c.lastSample != nil {
		snap.TrafficSample = make([]float64, len(c.lastSample))
		copy(snap.TrafficSample, c.lastSample)
	}
	c.mu.RUnlock()

	snap.LogCount = c.logs.Len()
	if c.hostFn != nil {
		snap.Host = c.hostFn()
	}
	return snap
}
