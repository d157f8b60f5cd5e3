package model

// ArchivedChannel identifies the channel an archive was taken from.
type ArchivedChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArchivedUser is recorded the first time a message from the author is seen
// during a job and never mutated afterwards.
type ArchivedUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
}

// ArchivedAttachment pairs an attachment id with its reported content type.
// The binary itself lives under attachments/<id> next to the manifest.
type ArchivedAttachment struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
}

// ArchivedMessage is one retrieved message; immutable once constructed.
// UserID always references an ArchivedUser in the same manifest.
type ArchivedMessage struct {
	ID          string               `json:"id"`
	Content     string               `json:"content"`
	UserID      string               `json:"userId"`
	Attachments []ArchivedAttachment `json:"attachments,omitempty"`
}

// ArchiveManifest is the single persisted artifact (archive.json).
// Messages are ordered oldest-to-newest regardless of retrieval order.
type ArchiveManifest struct {
	Channel  ArchivedChannel   `json:"channel"`
	Users    []ArchivedUser    `json:"users"`
	Messages []ArchivedMessage `json:"messages"`
}
