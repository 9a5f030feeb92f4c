// Package handlers exposes the monitoring controller over the dashboard
// JSON API.
package handlers

import (
	"errors"
	"net/http"

	"plantwatch/internal/monitor"

	"github.com/gin-gonic/gin"
)

type MonitorHandlers struct {
	ctrl *monitor.Controller
}

func NewMonitorHandlers(ctrl *monitor.Controller) *MonitorHandlers {
	return &MonitorHandlers{ctrl: ctrl}
}

// SpeedRequest is the body of PUT /api/monitor/speed. Only the intervals
// offered by the dashboard selector are accepted.
type SpeedRequest struct {
	IntervalMs int `json:"interval_ms" validate:"required,oneof=1000 2000 3000"`
}

// APIState serves the current state snapshot.
func (h *MonitorHandlers) APIState(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// APILogs serves the event log, newest first.
func (h *MonitorHandlers) APILogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": h.ctrl.Logs().Entries()})
}

// APIInitModels kicks off the background model load.
func (h *MonitorHandlers) APIInitModels(c *gin.Context) {
	err := h.ctrl.InitModels()
	switch {
	case errors.Is(err, monitor.ErrLoadInProgress), errors.Is(err, monitor.ErrAlreadyReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, h.ctrl.Snapshot())
	}
}

// APIStart starts the monitoring loop. A refusal before readiness is also
// recorded as a danger entry in the event log by the controller.
func (h *MonitorHandlers) APIStart(c *gin.Context) {
	err := h.ctrl.Start()
	switch {
	case errors.Is(err, monitor.ErrNotReady), errors.Is(err, monitor.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, h.ctrl.Snapshot())
	}
}

// APIStop stops the monitoring loop; stopping an idle loop is a no-op.
func (h *MonitorHandlers) APIStop(c *gin.Context) {
	h.ctrl.Stop()
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// APIReset returns the whole system to its initial state.
func (h *MonitorHandlers) APIReset(c *gin.Context) {
	h.ctrl.Reset()
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// APISpeed applies a validated speed selection (see SpeedRequest).
func (h *MonitorHandlers) APISpeed(c *gin.Context) {
	data, ok := c.Get("validated_data")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	}
	req, ok := data.(*SpeedRequest)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := h.ctrl.SetInterval(req.IntervalMs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}
