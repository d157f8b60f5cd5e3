package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chatvault/chatvault/internal/model"
)

// runInspect prints a summary of an archive directory and verifies that every
// message references a recorded user.
func runInspect(dir string, out io.Writer) error {
	data, err := os.ReadFile(filepath.Join(dir, "archive.json"))
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var m model.ArchiveManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	users := make(map[string]struct{}, len(m.Users))
	for _, u := range m.Users {
		users[u.ID] = struct{}{}
	}

	var attachments, dangling int
	for _, msg := range m.Messages {
		attachments += len(msg.Attachments)
		if _, ok := users[msg.UserID]; !ok {
			dangling++
		}
	}

	fmt.Fprintf(out, "channel:     %s (%s)\n", m.Channel.Name, m.Channel.ID)
	fmt.Fprintf(out, "users:       %d\n", len(m.Users))
	fmt.Fprintf(out, "messages:    %d\n", len(m.Messages))
	fmt.Fprintf(out, "attachments: %d\n", attachments)

	if dangling > 0 {
		return fmt.Errorf("%d messages reference unknown users", dangling)
	}
	fmt.Fprintln(out, "integrity:   ok")
	return nil
}
