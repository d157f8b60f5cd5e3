package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ManageChannelsBit is the permission bit required to archive a channel.
const ManageChannelsBit = 0x10

// Client talks to the chat platform's REST API. It implements History,
// Channels and Permissions.
type Client struct {
	client *resty.Client
	appID  string
}

// NewClient creates a Client for the given API base URL using bot-token
// authentication.
func NewClient(baseURL, token, appID string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "Bot "+token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{client: c, appID: appID}
}

// wire types for JSON binding

type wireAuthor struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

type wireAttachment struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type wireMessage struct {
	ID          string           `json:"id"`
	Content     string           `json:"content"`
	Timestamp   time.Time        `json:"timestamp"`
	Author      wireAuthor       `json:"author"`
	Attachments []wireAttachment `json:"attachments"`
}

type wireChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wirePermissions struct {
	Permissions string `json:"permissions"`
}

// Messages returns up to limit messages older than before, newest first.
func (c *Client) Messages(ctx context.Context, channelID, before string, limit int) ([]Message, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit))
	if before != "" {
		req.SetQueryParam("before", before)
	}

	resp, err := req.Get(fmt.Sprintf("/channels/%s/messages", channelID))
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch messages: status %d: %s", resp.StatusCode(), resp.String())
	}

	var wire []wireMessage
	if err := json.Unmarshal(resp.Body(), &wire); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	msgs := make([]Message, 0, len(wire))
	for _, wm := range wire {
		msgs = append(msgs, wm.toMessage())
	}
	return msgs, nil
}

func (wm wireMessage) toMessage() Message {
	m := Message{
		ID:        wm.ID,
		Content:   wm.Content,
		Timestamp: wm.Timestamp,
		Author: Author{
			ID:            wm.Author.ID,
			Username:      wm.Author.Username,
			Discriminator: wm.Author.Discriminator,
		},
	}
	if wm.Author.Avatar != "" {
		m.Author.AvatarURL = fmt.Sprintf("%s/avatars/%s/%s.png", CDNBaseURL, wm.Author.ID, wm.Author.Avatar)
	}
	for _, wa := range wm.Attachments {
		m.Attachments = append(m.Attachments, Attachment(wa))
	}
	return m
}

// ChannelInfo resolves channel metadata.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (Channel, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/channels/%s", channelID))
	if err != nil {
		return Channel{}, fmt.Errorf("fetch channel: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Channel{}, fmt.Errorf("fetch channel: status %d: %s", resp.StatusCode(), resp.String())
	}

	var wc wireChannel
	if err := json.Unmarshal(resp.Body(), &wc); err != nil {
		return Channel{}, fmt.Errorf("decode channel: %w", err)
	}
	return Channel{ID: wc.ID, Name: wc.Name}, nil
}

// CanManageChannel reports whether the user holds the Manage Channels
// permission on the channel.
func (c *Client) CanManageChannel(ctx context.Context, userID, channelID string) (bool, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/channels/%s/permissions/%s", channelID, userID))
	if err != nil {
		return false, fmt.Errorf("fetch permissions: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("fetch permissions: status %d: %s", resp.StatusCode(), resp.String())
	}

	var wp wirePermissions
	if err := json.Unmarshal(resp.Body(), &wp); err != nil {
		return false, fmt.Errorf("decode permissions: %w", err)
	}
	bits, err := strconv.ParseUint(wp.Permissions, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse permission bits: %w", err)
	}
	return bits&ManageChannelsBit != 0, nil
}

// Ping verifies API reachability, used by the startup probe.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/gateway")
	if err != nil {
		return fmt.Errorf("chat api ping: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("chat api ping: status %d", resp.StatusCode())
	}
	return nil
}
