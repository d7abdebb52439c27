package handlers

import (
	"errors"
	"net/http"

	"myhouse/internal/control"
	"myhouse/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errUpstream        = "home server request failed"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// upstreamError maps a control API failure to a response.
func (h *Handler) upstreamError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	var se *control.StatusError
	if errors.As(err, &se) {
		h.logAndJSONError(c, http.StatusBadGateway, errUpstream, logKey, err, append(kv, "upstream_status", se.Code)...)
		return
	}
	h.logAndJSONError(c, http.StatusBadGateway, errUpstream, logKey, err, kv...)
}

// TemperatureRequest is the body of POST /api/v1/temp.
type TemperatureRequest struct {
	// Temperature in Celsius, as text
	Temp string `json:"temp" binding:"required" example:"21.5"`
}

// ConnectionResponse is the body of GET /api/v1/connection.
type ConnectionResponse struct {
	IsConnected      bool   `json:"is_connected"`
	ConnectionError  string `json:"connection_error,omitempty"`
	ReconnectAttempt int    `json:"reconnect_attempt"`
	Badge            string `json:"badge" example:"Connected"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current home state
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.HomeState
// @Router       /api/v1/state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.State())
}

// @Summary      Current presence judgment
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  presence.Judgment
// @Router       /api/v1/presence [get]
func (h *Handler) getPresence(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Presence())
}

// @Summary      Connection health
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  ConnectionResponse
// @Router       /api/v1/connection [get]
func (h *Handler) getConnection(c *gin.Context) {
	c.JSON(http.StatusOK, connectionResponse(h.services.Dashboard.Connection()))
}

// @Summary      Recent notifications
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, notifications"
// @Router       /api/v1/notifications [get]
func (h *Handler) getNotifications(c *gin.Context) {
	items := h.services.Notifications.Recent()
	c.JSON(http.StatusOK, gin.H{
		"count":         len(items),
		"notifications": items,
	})
}

// @Summary      Toggle an actuator
// @Description  Forwards to the home server. The new state arrives later over the socket.
// @Tags         control
// @Produce      json
// @Param        device  path  string  true  "Actuator"  Enums(light,door,heat)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/toggle/{device} [post]
func (h *Handler) toggleDevice(c *gin.Context) {
	device := c.Param("device")
	out, err := h.services.Control.Toggle(c.Request.Context(), device)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDevice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.upstreamError(c, "toggle_failed", err, "device", device)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "device": device, "response": out})
}

// @Summary      Set temperature
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        payload  body  TemperatureRequest  true  "Temperature"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/temp [post]
func (h *Handler) setTemperature(c *gin.Context) {
	var req TemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	out, err := h.services.Control.SetTemperature(c.Request.Context(), req.Temp)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTemperature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.upstreamError(c, "set_temp_failed", err, "temp", req.Temp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "temp": req.Temp, "response": out})
}

// @Summary      Remote event history
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/history/remote [get]
func (h *Handler) getRemoteHistory(c *gin.Context) {
	events, err := h.services.Control.RemoteHistory(c.Request.Context())
	if err != nil {
		h.upstreamError(c, "remote_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

// @Summary      List devices
// @Tags         inventory
// @Produce      json
// @Param        q  query  string  false  "Search name, type or IP"
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Router       /api/v1/devices [get]
func (h *Handler) getDevices(c *gin.Context) {
	devices := h.services.Inventory.Devices(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"count": len(devices), "devices": devices})
}

// @Summary      List workflows
// @Tags         inventory
// @Produce      json
// @Param        q  query  string  false  "Search name, description or trigger"
// @Success      200  {object}  map[string]interface{}  "count, workflows"
// @Router       /api/v1/workflows [get]
func (h *Handler) getWorkflows(c *gin.Context) {
	workflows := h.services.Inventory.Workflows(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"count": len(workflows), "workflows": workflows})
}
