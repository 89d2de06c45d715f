package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ruleweave/ruleweave/pkg/errors"
)

// Sink persists generated artifacts: fix reports and derived
// configurations
type Sink interface {
	// Store writes data under name; the sink decides the final location
	Store(ctx context.Context, name string, data []byte) error
}

// FilesystemSink stores artifacts as files under a directory
type FilesystemSink struct {
	dir string
}

// NewFilesystemSink creates a sink rooted at dir
func NewFilesystemSink(dir string) *FilesystemSink {
	return &FilesystemSink{dir: dir}
}

// Store writes data to dir/name, creating the directory as needed
func (s *FilesystemSink) Store(ctx context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create sink directory %s", s.dir)
	}
	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot store %s", target)
	}
	return nil
}

// StoreJSON marshals v and stores it under name through sink,
// timestamping the payload
func StoreJSON(ctx context.Context, sink Sink, name string, v interface{}) error {
	payload := struct {
		GeneratedAt time.Time   `json:"generatedAt"`
		Data        interface{} `json:"data"`
	}{GeneratedAt: time.Now().UTC(), Data: v}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot marshal artifact")
	}
	return sink.Store(ctx, name, data)
}
