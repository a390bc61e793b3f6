// Package store picks, per collection, between the remote document store and
// the local JSON files, falling back to the files when the remote fails.
package store

import (
	"context"
	"errors"
	"reflect"

	"restaurant/models"
)

type Source string

const (
	Remote Source = "remote"
	Local  Source = "local"
)

// Patch is a partial update of one record.
type Patch struct {
	ID     string
	Fields map[string]any
}

// Batch is every mutation of one collection in one logical write.
//
// Remote backends apply Upserts, Patches and Deletes as one batch. File
// backends rewrite the whole collection from Snapshot, which must be the
// full slice of records after the mutation.
type Batch struct {
	Upserts  []models.Record
	Patches  []Patch
	Deletes  []string
	Snapshot any
}

func (b Batch) Empty() bool {
	return len(b.Upserts) == 0 && len(b.Patches) == 0 && len(b.Deletes) == 0
}

func (b Batch) Size() int {
	return len(b.Upserts) + len(b.Patches) + len(b.Deletes)
}

// ErrPartialWrite marks a remote write that failed after part of its batch
// was committed. The selector does not fall back on it: the local file would
// get the whole batch while the remote holds only part of it.
var ErrPartialWrite = errors.New("batch partially applied")

type Backend interface {
	Source() Source
	// Load decodes every record of collection into out, a pointer to a slice.
	Load(ctx context.Context, collection string, out any) error
	Apply(ctx context.Context, collection string, batch Batch) error
}

// resetSlice zeroes *out so a failed remote decode leaves nothing behind.
func resetSlice(out any) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	e := v.Elem()
	e.Set(reflect.Zero(e.Type()))
}
