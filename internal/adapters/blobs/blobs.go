// Package blobs mirrors avatar images referenced by scrapes into a
// local directory.
//
// The mirror is a side store: the core only ever handles filenames, and
// a failed download is logged and skipped, never surfaced to the
// ingestion run. Files already present are not fetched again; avatar
// filenames are stable on the source site.
package blobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/scorevault/pkg/logger"
	"github.com/okian/scorevault/pkg/metrics"
)

// Default mirror configuration constants.
const (
	defaultFetchTimeout = 20 * time.Second
	dirPerm             = 0o755
	filePerm            = 0o644
)

// Mirror downloads avatar files by name.
type Mirror struct {
	dir    string
	client *http.Client
	logger logger.Logger
}

// NewMirror creates the avatar directory and a Mirror over it.
func NewMirror(dir string, opts ...Option) (*Mirror, error) {
	m := &Mirror{
		dir:    dir,
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return m, nil
}

// Dir returns the mirror directory, for static serving.
func (m *Mirror) Dir() string { return m.dir }

// Sync downloads every avatar in refs (filename -> absolute URL) that
// is not already mirrored. Individual failures are logged and counted,
// never returned.
func (m *Mirror) Sync(ctx context.Context, refs map[string]string) {
	for name, rawURL := range refs {
		clean := sanitize(name)
		if clean == "" {
			continue
		}
		dest := filepath.Join(m.dir, clean)
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := m.download(ctx, rawURL, dest); err != nil {
			metrics.RecordAvatarDownloadError()
			if m.logger != nil {
				m.logger.Warn(ctx, "avatar download failed",
					logger.String("file", clean), logger.Error(err))
			}
			continue
		}
		metrics.RecordAvatarDownload()
	}
}

func (m *Mirror) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(m.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// sanitize reduces a reference to a bare filename; anything traversing
// outside the mirror directory is dropped.
func sanitize(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}
