package slack

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/ben-gunnels/advert-bot/internal/api/respond"
	"github.com/ben-gunnels/advert-bot/internal/model"
)

// router screens decoded events before dispatch.
type router interface {
	Accept(ev model.Event) bool
}

// dispatcher hands accepted events to the worker pool. It must not
// block: the webhook has to return before handling completes.
type dispatcher interface {
	Submit(ev model.Event) bool
}

// Handler terminates the Slack events webhook.
type Handler struct {
	router     router
	dispatcher dispatcher
}

// NewHandler creates a Handler over the event router and dispatcher.
func NewHandler(r router, d dispatcher) *Handler {
	return &Handler{router: r, dispatcher: d}
}

// envelope is the outer Slack events payload.
type envelope struct {
	Type      string      `json:"type"`
	Challenge string      `json:"challenge"`
	Event     model.Event `json:"event"`
}

// Events handles POST /slack/events: echoes url_verification handshakes
// and forwards recognized event callbacks to the dispatcher. Always
// answers quickly so Slack does not retry on slow handling.
func (h *Handler) Events(c *ginext.Context) {
	var payload envelope
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		zlog.Logger.Err(err).Msg("failed to decode event payload")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("invalid payload"))
		return
	}

	switch payload.Type {
	case "url_verification":
		respond.JSON(c, http.StatusOK, map[string]string{"challenge": payload.Challenge})
		return

	case "event_callback":
		ev := payload.Event
		if h.router.Accept(ev) {
			zlog.Logger.Info().
				Str("kind", ev.Kind).
				Str("channel", ev.Channel).
				Str("user", ev.User).
				Msg("event accepted")
			h.dispatcher.Submit(ev)
		}
	}

	c.Status(http.StatusOK)
}

// Health handles GET /: a liveness probe for the deployment platform.
func (h *Handler) Health(c *ginext.Context) {
	respond.OK(c, "advert-bot is running")
}
