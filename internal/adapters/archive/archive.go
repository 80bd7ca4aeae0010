// Package archive persists fetched milpacs profiles as JSON documents and
// enumerates them for analysis runs.
//
// One document per member, named <memberID>.json. The archive is the
// boundary between acquisition and the pipeline: a run can work entirely
// from disk without touching the API.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/logger"
)

// failureLogName collects members whose profile fetch failed, for later
// review.
const failureLogName = "failed_requests.log"

// Archive stores and enumerates profile documents under one directory.
type Archive struct {
	dir    string
	logger logger.Logger
}

// New creates an Archive rooted at dir with configuration options.
func New(dir string, opts ...Option) *Archive {
	a := &Archive{
		dir:    dir,
		logger: logger.Get().Named("archive"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dir returns the archive root directory.
func (a *Archive) Dir() string {
	return a.dir
}

// Save writes one member's profile document.
func (a *Archive) Save(_ context.Context, p model.Profile) error {
	id := p.MemberID()
	if id == "" {
		return ErrNoMemberID
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", id, err)
	}
	path := filepath.Join(a.dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile %s: %w", id, err)
	}
	return nil
}

// Load decodes one profile document.
func (a *Archive) Load(_ context.Context, path string) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("read document: %w", err)
	}
	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, filepath.Base(path), err)
	}
	if p.MemberID() == "" {
		// Fall back to the file name, mirroring how documents are saved.
		p.User.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return p, nil
}

// Walk enumerates every profile document in the archive in file-name order
// and passes it to fn. Corrupt documents are skipped and counted; fn errors
// abort the walk.
func (a *Archive) Walk(ctx context.Context, fn func(model.Profile) error) (corrupt int, err error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, fmt.Errorf("read archive dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		select {
		case <-ctx.Done():
			return corrupt, ctx.Err()
		default:
		}

		p, err := a.Load(ctx, filepath.Join(a.dir, name))
		if err != nil {
			corrupt++
			a.logger.Warn(ctx, "skipping corrupt document",
				logger.String("file", name),
				logger.Error(err),
			)
			continue
		}
		if err := fn(p); err != nil {
			return corrupt, err
		}
	}
	return corrupt, nil
}

// FailureLog rewrites the failed-fetch log with one line per member.
func (a *Archive) FailureLog(_ context.Context, memberIDs []string) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	var b strings.Builder
	for _, id := range memberIDs {
		fmt.Fprintf(&b, "User ID %s - failed to fetch milpacs record\n", id)
	}
	path := filepath.Join(a.dir, failureLogName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write failure log: %w", err)
	}
	return nil
}
