package chat

import (
	"fmt"
	"strconv"
	"time"
)

// CDNBaseURL serves static assets (avatars) for the chat platform.
const CDNBaseURL = "https://cdn.discordapp.com"

// Channel is the subset of channel metadata the archiver needs.
type Channel struct {
	ID   string
	Name string
}

// Author identifies the sender of a message.
type Author struct {
	ID            string
	Username      string
	Discriminator string
	// AvatarURL is empty when the user has no custom avatar.
	AvatarURL string
}

// AvatarPNGURL returns the author's avatar as a PNG, falling back to the
// platform default avatar when none is set.
func (a Author) AvatarPNGURL() string {
	if a.AvatarURL != "" {
		return a.AvatarURL
	}
	n, _ := strconv.Atoi(a.Discriminator)
	return fmt.Sprintf("%s/embed/avatars/%d.png", CDNBaseURL, n%5)
}

// Attachment is a binary resource referenced by a message.
type Attachment struct {
	ID          string
	URL         string
	ContentType string
}

// Message is one element of a history batch.
type Message struct {
	ID          string
	Content     string
	Timestamp   time.Time
	Author      Author
	Attachments []Attachment
}
