package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chatvault/chatvault/internal/api/respond"
	"github.com/chatvault/chatvault/internal/chat"
	"github.com/chatvault/chatvault/internal/commands"
	"github.com/chatvault/chatvault/internal/components"
)

// interaction is the ingress payload for command invocations and control
// activations delivered by the chat platform.
type interaction struct {
	Type      string `json:"type"` // "command" | "component"
	Name      string `json:"name,omitempty"`
	CustomID  string `json:"custom_id,omitempty"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
}

// InteractionsHandler receives interaction events and routes them to the
// command registry or the one-shot control registry.
type InteractionsHandler struct {
	commands *commands.Registry
	controls *components.Registry

	statusFor func(token string) chat.Status
	ackFor    func(ctx context.Context, token string) (chat.Ack, error)

	log zerolog.Logger
}

func NewInteractionsHandler(
	cmds *commands.Registry,
	controls *components.Registry,
	statusFor func(token string) chat.Status,
	ackFor func(ctx context.Context, token string) (chat.Ack, error),
	log zerolog.Logger,
) *InteractionsHandler {
	return &InteractionsHandler{
		commands:  cmds,
		controls:  controls,
		statusFor: statusFor,
		ackFor:    ackFor,
		log:       log,
	}
}

// HandleInteraction handles POST /api/interactions
func (h *InteractionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	var in interaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid interaction payload")
		return
	}

	switch in.Type {
	case "command":
		h.handleCommand(r.Context(), w, in)
	case "component":
		h.handleComponent(r.Context(), w, in)
	default:
		respond.WriteBadRequest(w, "unknown interaction type")
	}
}

// handleCommand dispatches the command on its own goroutine so a long-running
// job never blocks the ingress.
func (h *InteractionsHandler) handleCommand(ctx context.Context, w http.ResponseWriter, in interaction) {
	if in.Name == "" || in.ChannelID == "" || in.Token == "" {
		respond.WriteBadRequest(w, "name, channel_id and token are required")
		return
	}

	inter := commands.Interaction{
		ChannelID: in.ChannelID,
		UserID:    in.UserID,
		Status:    h.statusFor(in.Token),
	}

	// The job outlives this request.
	jobCtx := context.WithoutCancel(ctx)

	if !h.commands.Dispatch(jobCtx, in.Name, inter) {
		respond.WriteNotFound(w, "unknown command: "+in.Name)
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, map[string]interface{}{"dispatched": true})
}

// handleComponent fires a one-shot control. A control that already fired is
// acknowledged as a no-op.
func (h *InteractionsHandler) handleComponent(ctx context.Context, w http.ResponseWriter, in interaction) {
	if in.CustomID == "" || in.Token == "" {
		respond.WriteBadRequest(w, "custom_id and token are required")
		return
	}

	handler, ok := h.controls.Take(in.CustomID)
	if !ok {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"handled": false})
		return
	}

	ack, err := h.ackFor(ctx, in.Token)
	if err != nil {
		h.log.Warn().Err(err).Msg("defer control acknowledgement")
		ack = nil
	}
	handler(context.WithoutCancel(ctx), ack)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"handled": true})
}
