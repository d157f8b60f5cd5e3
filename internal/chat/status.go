package chat

import (
	"context"
	"fmt"
	"net/http"
)

const (
	componentActionRow = 1
	componentButton    = 2
	buttonStyleDanger  = 4

	flagEphemeral = 64
)

type wireButton struct {
	Type     int    `json:"type"`
	Style    int    `json:"style"`
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
}

type wireActionRow struct {
	Type       int          `json:"type"`
	Components []wireButton `json:"components"`
}

type wireReply struct {
	Content    string          `json:"content"`
	Flags      int             `json:"flags,omitempty"`
	Components []wireActionRow `json:"components,omitempty"`
}

// InteractionStatus implements Status over the interaction webhook endpoints.
// One instance is bound to one interaction token.
type InteractionStatus struct {
	c     *Client
	token string
}

// StatusFor returns the Status handle for an interaction token.
func (c *Client) StatusFor(token string) *InteractionStatus {
	return &InteractionStatus{c: c, token: token}
}

func (s *InteractionStatus) webhookPath() string {
	return fmt.Sprintf("/webhooks/%s/%s", s.c.appID, s.token)
}

func (s *InteractionStatus) originalPath() string {
	return s.webhookPath() + "/messages/@original"
}

func (s *InteractionStatus) post(ctx context.Context, body wireReply) error {
	resp, err := s.c.client.R().SetContext(ctx).SetBody(&body).Post(s.webhookPath())
	if err != nil {
		return fmt.Errorf("post reply: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("post reply: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Reply posts the initial public reply, optionally with controls attached.
func (s *InteractionStatus) Reply(ctx context.Context, text string, controls ...Control) error {
	body := wireReply{Content: text}
	if len(controls) > 0 {
		row := wireActionRow{Type: componentActionRow}
		for _, ctl := range controls {
			row.Components = append(row.Components, wireButton{
				Type:     componentButton,
				Style:    buttonStyleDanger,
				Label:    ctl.Label,
				CustomID: ctl.Token,
			})
		}
		body.Components = []wireActionRow{row}
	}
	return s.post(ctx, body)
}

// ReplyEphemeral posts a reply only the requester can see.
func (s *InteractionStatus) ReplyEphemeral(ctx context.Context, text string) error {
	return s.post(ctx, wireReply{Content: text, Flags: flagEphemeral})
}

// Edit replaces the text of the initial reply.
func (s *InteractionStatus) Edit(ctx context.Context, text string) error {
	resp, err := s.c.client.R().
		SetContext(ctx).
		SetBody(&wireReply{Content: text}).
		Patch(s.originalPath())
	if err != nil {
		return fmt.Errorf("edit reply: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("edit reply: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Delete removes the initial reply.
func (s *InteractionStatus) Delete(ctx context.Context) error {
	resp, err := s.c.client.R().SetContext(ctx).Delete(s.originalPath())
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	if resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("delete reply: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// FollowUp posts a separate public message after the initial reply.
func (s *InteractionStatus) FollowUp(ctx context.Context, text string) error {
	return s.post(ctx, wireReply{Content: text})
}

// InteractionAck implements Ack for a component interaction's deferred
// ephemeral reply.
type InteractionAck struct {
	s *InteractionStatus
}

// AckFor returns the Ack handle for a component interaction token. It defers
// an ephemeral reply that Edit later fills in.
func (c *Client) AckFor(ctx context.Context, token string) (*InteractionAck, error) {
	s := c.StatusFor(token)
	if err := s.ReplyEphemeral(ctx, "..."); err != nil {
		return nil, err
	}
	return &InteractionAck{s: s}, nil
}

// Edit fills in the deferred ephemeral acknowledgement.
func (a *InteractionAck) Edit(ctx context.Context, text string) error {
	return a.s.Edit(ctx, text)
}
