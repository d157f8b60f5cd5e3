package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatvault/chatvault/internal/chat"
	"github.com/chatvault/chatvault/internal/commands"
	"github.com/chatvault/chatvault/internal/components"
)

type stubStatus struct{ token string }

func (s *stubStatus) Reply(ctx context.Context, content string, controls ...chat.Control) error {
	return nil
}
func (s *stubStatus) ReplyEphemeral(ctx context.Context, content string) error { return nil }
func (s *stubStatus) Edit(ctx context.Context, content string) error           { return nil }
func (s *stubStatus) Delete(ctx context.Context) error                         { return nil }
func (s *stubStatus) FollowUp(ctx context.Context, content string) error       { return nil }

type stubAck struct{ edits []string }

func (a *stubAck) Edit(ctx context.Context, content string) error {
	a.edits = append(a.edits, content)
	return nil
}

func newTestHandler(cmds *commands.Registry, controls *components.Registry, ackErr error) (*InteractionsHandler, *stubAck) {
	ack := &stubAck{}
	h := NewInteractionsHandler(
		cmds,
		controls,
		func(token string) chat.Status { return &stubStatus{token: token} },
		func(ctx context.Context, token string) (chat.Ack, error) {
			if ackErr != nil {
				return nil, ackErr
			}
			return ack, nil
		},
		zerolog.Nop(),
	)
	return h, ack
}

func postInteraction(t *testing.T, h *InteractionsHandler, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/interactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleInteraction(rec, req)
	return rec
}

func TestHandleCommandDispatches(t *testing.T) {
	cmds := commands.NewRegistry()
	got := make(chan commands.Interaction, 1)
	cmds.Register("archive", func(ctx context.Context, inter commands.Interaction) {
		got <- inter
	})

	h, _ := newTestHandler(cmds, components.NewRegistry(), nil)
	rec := postInteraction(t, h, map[string]interface{}{
		"type":       "command",
		"name":       "archive",
		"channel_id": "chan1",
		"user_id":    "u1",
		"token":      "itoken",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case inter := <-got:
		assert.Equal(t, "chan1", inter.ChannelID)
		assert.Equal(t, "u1", inter.UserID)
		require.NotNil(t, inter.Status)
	case <-time.After(time.Second):
		t.Fatal("command handler did not run")
	}
}

func TestHandleCommandUnknown(t *testing.T) {
	h, _ := newTestHandler(commands.NewRegistry(), components.NewRegistry(), nil)
	rec := postInteraction(t, h, map[string]interface{}{
		"type":       "command",
		"name":       "nope",
		"channel_id": "chan1",
		"token":      "itoken",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCommandMissingFields(t *testing.T) {
	h, _ := newTestHandler(commands.NewRegistry(), components.NewRegistry(), nil)
	rec := postInteraction(t, h, map[string]interface{}{
		"type":  "command",
		"name":  "archive",
		"token": "itoken",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleComponentFiresOnce(t *testing.T) {
	controls := components.NewRegistry()
	fired := 0
	var gotAck chat.Ack
	token := controls.Register(func(ctx context.Context, ack chat.Ack) {
		fired++
		gotAck = ack
	})

	h, ack := newTestHandler(commands.NewRegistry(), controls, nil)
	payload := map[string]interface{}{
		"type":      "component",
		"custom_id": token,
		"token":     "ctoken",
	}

	rec := postInteraction(t, h, payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"handled":true`)
	assert.Equal(t, 1, fired)
	assert.Same(t, ack, gotAck)

	// Second activation of the same control is a no-op.
	rec = postInteraction(t, h, payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"handled":false`)
	assert.Equal(t, 1, fired)
}

func TestHandleComponentAckFailure(t *testing.T) {
	controls := components.NewRegistry()
	var gotAck chat.Ack = &stubAck{}
	token := controls.Register(func(ctx context.Context, ack chat.Ack) {
		gotAck = ack
	})

	h, _ := newTestHandler(commands.NewRegistry(), controls, errors.New("webhook down"))
	rec := postInteraction(t, h, map[string]interface{}{
		"type":      "component",
		"custom_id": token,
		"token":     "ctoken",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotAck, "handler still runs, with a nil ack")
}

func TestHandleUnknownType(t *testing.T) {
	h, _ := newTestHandler(commands.NewRegistry(), components.NewRegistry(), nil)
	rec := postInteraction(t, h, map[string]interface{}{"type": "modal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleInvalidJSON(t *testing.T) {
	h, _ := newTestHandler(commands.NewRegistry(), components.NewRegistry(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/interactions", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.HandleInteraction(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
