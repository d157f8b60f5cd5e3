// Package fetch retrieves single binary resources by URL and persists them to
// disk.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// TransferError reports a non-success response while downloading a resource.
type TransferError struct {
	URL    string
	Status string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("error while downloading file: %s", e.Status)
}

// Fetcher streams remote resources to local files. Safe for concurrent use.
type Fetcher struct {
	client *resty.Client
}

// New creates a Fetcher. timeout bounds one transfer end to end; transfers are
// never retried.
func New(timeout time.Duration) *Fetcher {
	c := resty.New().
		SetTimeout(timeout).
		SetDoNotParseResponse(true)
	return &Fetcher{client: c}
}

// Fetch streams the resource at url to dest, creating or truncating it. A
// failed fetch makes no guarantee about partial content at dest; callers must
// treat the file as needing cleanup.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &TransferError{URL: url, Status: resp.Status()}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
