package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chatvault/chatvault/internal/model"
)

const (
	dirTimestampLayout = "2006-01-02-15-04"
	manifestFilename   = "archive.json"
)

// Layout is the on-disk directory tree of one archival job. It is created
// before any data is fetched and owned exclusively by that job.
type Layout struct {
	dir            string
	avatarsDir     string
	attachmentsDir string
}

// NewLayout creates out/<channelID>-<timestamp>/ with its avatars/ and
// attachments/ subdirectories.
func NewLayout(root, channelID string, now time.Time) (*Layout, error) {
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", channelID, now.Format(dirTimestampLayout)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	l := &Layout{
		dir:            dir,
		avatarsDir:     filepath.Join(dir, "avatars"),
		attachmentsDir: filepath.Join(dir, "attachments"),
	}
	if err := os.Mkdir(l.attachmentsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachments directory: %w", err)
	}
	if err := os.Mkdir(l.avatarsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatars directory: %w", err)
	}
	return l, nil
}

// Dir returns the root of the job's output tree.
func (l *Layout) Dir() string { return l.dir }

// AvatarPath returns the destination for a user's avatar.
func (l *Layout) AvatarPath(userID string) string {
	return filepath.Join(l.avatarsDir, userID+".png")
}

// AttachmentPath returns the destination for an attachment. The original
// filename and extension are not preserved.
func (l *Layout) AttachmentPath(attachmentID string) string {
	return filepath.Join(l.attachmentsDir, attachmentID)
}

// WriteManifest serializes the manifest to archive.json, human readable.
func (l *Layout) WriteManifest(m *model.ArchiveManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, manifestFilename), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Discard removes the whole output tree. Used on user-requested cancellation.
func (l *Layout) Discard() error {
	return os.RemoveAll(l.dir)
}
