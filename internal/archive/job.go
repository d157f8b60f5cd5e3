package archive

import "github.com/chatvault/chatvault/internal/model"

// Job is the transient in-memory state of one archival run. It exists only
// between registry acquisition and release; nothing survives a restart.
type Job struct {
	channelID string
	layout    *Layout

	seen     map[string]struct{}
	users    []model.ArchivedUser // first-seen order
	messages []model.ArchivedMessage
	count    int
}

func newJob(channelID string, layout *Layout) *Job {
	return &Job{
		channelID: channelID,
		layout:    layout,
		seen:      make(map[string]struct{}),
	}
}

// HasAuthor reports whether a message from this author was already archived.
func (j *Job) HasAuthor(userID string) bool {
	_, ok := j.seen[userID]
	return ok
}

// AddUser records an author the first time one of their messages is seen.
func (j *Job) AddUser(u model.ArchivedUser) {
	j.seen[u.ID] = struct{}{}
	j.users = append(j.users, u)
}

// Record appends a message in arrival order (newest first). Manifest reverses
// once so the persisted order is oldest first.
func (j *Job) Record(m model.ArchivedMessage) {
	j.messages = append(j.messages, m)
	j.count++
}

// Count returns the number of messages processed so far.
func (j *Job) Count() int { return j.count }

// Manifest builds the persisted artifact from the accumulated state.
func (j *Job) Manifest(channel model.ArchivedChannel) *model.ArchiveManifest {
	msgs := make([]model.ArchivedMessage, len(j.messages))
	for i, m := range j.messages {
		msgs[len(j.messages)-1-i] = m
	}
	users := make([]model.ArchivedUser, len(j.users))
	copy(users, j.users)
	return &model.ArchiveManifest{
		Channel:  channel,
		Users:    users,
		Messages: msgs,
	}
}
