package control

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
	"timercraft/internal/logger"
	"timercraft/internal/ui/screen"
)

const (
	statusOK     = "ok"
	statusQueued = "queued"

	errUnknownAction = "unknown action"
	errClosed        = "stopwatch is shutting down"
	errTrigger       = "failed to queue action"
	errHistory       = "failed to load action history"
	errNoHistory     = "action history is disabled"
	errInvalidLimit  = "limit must be a positive integer"
)

// Stopwatch is the service surface exposed over HTTP.
type Stopwatch interface {
	Snapshot() stopwatch.Snapshot
	Subscribe(buffer int) (<-chan stopwatch.Event, func())
	Trigger(ctx context.Context, action model.Action) error
}

// History lists applied actions, newest first.
type History interface {
	RecentActions(ctx context.Context, limit int) ([]model.ActionRecord, error)
}

// Handler wires the HTTP layer to the stopwatch.
type Handler struct {
	stopwatch Stopwatch
	history   History
	metrics   http.Handler
	log       *logger.Logger
}

// NewHandler constructs the control API. history and metrics may be nil.
func NewHandler(sw Stopwatch, history History, metrics http.Handler, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{stopwatch: sw, history: history, metrics: metrics, log: log}
}

// InitRoutes builds the gin router.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.health)
	router.GET("/ws", h.wsConnect)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/state", h.getState)
		api.POST("/actions/:action", h.postAction)
		api.GET("/actions", h.listActions)
	}
	return router
}

// ControlsResponse mirrors what the screen shows for the current state.
type ControlsResponse struct {
	PrimaryLabel  string       `json:"primary_label"`
	PrimaryAction model.Action `json:"primary_action"`
	CancelEnabled bool         `json:"cancel_enabled"`
}

// StateResponse is the JSON form of a stopwatch snapshot.
type StateResponse struct {
	State     model.RunState   `json:"state"`
	Hours     string           `json:"hours"`
	Minutes   string           `json:"minutes"`
	Seconds   string           `json:"seconds"`
	ElapsedMs int64            `json:"elapsed_ms"`
	Controls  ControlsResponse `json:"controls"`
}

// NewStateResponse converts a snapshot.
func NewStateResponse(snapshot stopwatch.Snapshot) StateResponse {
	view := screen.Controls(snapshot.State, snapshot.Reading.Seconds)
	return StateResponse{
		State:     snapshot.State,
		Hours:     snapshot.Reading.Hours,
		Minutes:   snapshot.Reading.Minutes,
		Seconds:   snapshot.Reading.Seconds,
		ElapsedMs: snapshot.Elapsed.Milliseconds(),
		Controls: ControlsResponse{
			PrimaryLabel:  view.PrimaryLabel,
			PrimaryAction: view.PrimaryAction,
			CancelEnabled: view.CancelEnabled,
		},
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, NewStateResponse(h.stopwatch.Snapshot()))
}

func (h *Handler) postAction(c *gin.Context) {
	action, err := model.ParseAction(c.Param("action"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownAction})
		return
	}

	if err := h.stopwatch.Trigger(c.Request.Context(), action); err != nil {
		if errors.Is(err, stopwatch.ErrClosed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errClosed})
			return
		}
		h.log.Errorw("trigger_failed", "action", action.Short(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errTrigger})
		return
	}

	h.log.Debugw("action_queued", "action", action.Short(), "remote", c.ClientIP())
	c.JSON(http.StatusAccepted, gin.H{"status": statusQueued, "action": action})
}

func (h *Handler) listActions(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoHistory})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
			return
		}
		limit = parsed
	}

	records, err := h.history.RecentActions(c.Request.Context(), limit)
	if err != nil {
		h.log.Errorw("history_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errHistory})
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": records})
}
