package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONFileBackend keeps one JSON file per collection, shaped
// {"<key>": [...], "lastUpdated": "<RFC3339>"}.
//
// Writes are serialised inside this process only; there is no file locking,
// so one instance per data directory.
type JSONFileBackend struct {
	dir    string
	layout map[string]FileSpec
	now    func() time.Time
	log    *slog.Logger

	mu sync.Mutex
}

func NewJSONFileBackend(dir string, layout map[string]FileSpec, logger *slog.Logger) *JSONFileBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFileBackend{
		dir:    dir,
		layout: layout,
		now:    time.Now,
		log:    logger,
	}
}

func (b *JSONFileBackend) Source() Source { return Local }

func (b *JSONFileBackend) spec(collection string) (FileSpec, error) {
	spec, ok := b.layout[collection]
	if !ok {
		return FileSpec{}, fmt.Errorf("unknown collection %q", collection)
	}
	return spec, nil
}

func (b *JSONFileBackend) path(spec FileSpec) string {
	return filepath.Join(b.dir, spec.File)
}

// ensure creates the collection file with an empty default unless it exists.
func (b *JSONFileBackend) ensure(spec FileSpec) (created bool, err error) {
	p := b.path(spec)
	if _, err := os.Stat(p); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return false, fmt.Errorf("create data dir: %w", err)
	}
	doc := map[string]any{
		spec.Key:      []any{},
		"lastUpdated": b.now().UTC().Format(time.RFC3339),
	}
	if err := b.writeFile(p, doc); err != nil {
		return false, err
	}
	b.log.Info("initialised collection file", "file", p)
	return true, nil
}

func (b *JSONFileBackend) readDoc(spec FileSpec) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(b.path(spec))
	if err != nil {
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", spec.File, err)
	}
	return doc, nil
}

func (b *JSONFileBackend) writeFile(p string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (b *JSONFileBackend) Load(_ context.Context, collection string, out any) error {
	spec, err := b.spec(collection)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.ensure(spec); err != nil {
		return err
	}
	doc, err := b.readDoc(spec)
	if err != nil {
		return err
	}
	records, ok := doc[spec.Key]
	if !ok {
		return nil
	}
	return json.Unmarshal(records, out)
}

// Apply rewrites the collection from batch.Snapshot; other top-level keys in
// the file are kept as they are.
func (b *JSONFileBackend) Apply(_ context.Context, collection string, batch Batch) error {
	spec, err := b.spec(collection)
	if err != nil {
		return err
	}
	if batch.Snapshot == nil {
		return fmt.Errorf("%s: file backend needs a snapshot", collection)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.ensure(spec); err != nil {
		return err
	}
	doc, err := b.readDoc(spec)
	if err != nil {
		return err
	}
	records, err := json.Marshal(batch.Snapshot)
	if err != nil {
		return err
	}
	stamp, _ := json.Marshal(b.now().UTC().Format(time.RFC3339))
	doc[spec.Key] = records
	doc["lastUpdated"] = stamp
	return b.writeFile(b.path(spec), doc)
}
