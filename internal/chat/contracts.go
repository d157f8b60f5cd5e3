package chat

import "context"

// History pages through a channel's message history. Messages returns up to
// limit messages older than the before id (all messages when before is empty),
// ordered newest first. Transport errors propagate to the caller; there is no
// retry at this layer.
type History interface {
	Messages(ctx context.Context, channelID, before string, limit int) ([]Message, error)
}

// Channels resolves channel metadata.
type Channels interface {
	ChannelInfo(ctx context.Context, channelID string) (Channel, error)
}

// Permissions answers permission questions about a requester.
type Permissions interface {
	CanManageChannel(ctx context.Context, userID, channelID string) (bool, error)
}

// Control describes an interactive control attached to a reply. Token routes
// the activation event back to the registered handler.
type Control struct {
	Token string
	Label string
}

// Status is the single editable reply tied to one archival request. All texts
// are user-visible.
type Status interface {
	// Reply posts the initial public reply, optionally with controls attached.
	Reply(ctx context.Context, text string, controls ...Control) error
	// ReplyEphemeral posts a reply only the requester can see.
	ReplyEphemeral(ctx context.Context, text string) error
	// Edit replaces the text of the initial reply.
	Edit(ctx context.Context, text string) error
	// Delete removes the initial reply.
	Delete(ctx context.Context) error
	// FollowUp posts a separate public message after the initial reply.
	FollowUp(ctx context.Context, text string) error
}

// Ack is the deferred ephemeral acknowledgement created when an interactive
// control fires. Edit fills in its final text.
type Ack interface {
	Edit(ctx context.Context, text string) error
}
