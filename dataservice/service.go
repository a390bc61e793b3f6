// Package dataservice is the typed data-access façade over the backend
// selector and the TTL cache. Handlers never talk to a backend directly.
package dataservice

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"restaurant/cache"
	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
)

// DefaultTTLs are the cache lifetimes per collection.
var DefaultTTLs = map[string]time.Duration{
	store.Menu:         10 * time.Minute,
	store.Availability: 2 * time.Minute,
	store.Orders:       2 * time.Minute,
	store.Analytics:    5 * time.Minute,
	store.Inventory:    5 * time.Minute,
	store.Combos:       15 * time.Minute,
	store.Offers:       15 * time.Minute,
	store.Specials:     15 * time.Minute,
	store.Tasks:        2 * time.Minute,
	store.Staff:        15 * time.Minute,
	store.Customers:    5 * time.Minute,
}

// Cached marks a read answered from the cache.
const Cached store.Source = "cache"

// StockAlerter is told when an inventory item drops into low or out of stock.
type StockAlerter interface {
	StockAlert(ctx context.Context, item models.InventoryItem) error
}

type Service struct {
	sel      *store.Selector
	cache    *cache.TTLCache
	ttls     map[string]time.Duration
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
	location *time.Location
	alerter  StockAlerter
	alerts   sync.WaitGroup

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// gens counts invalidations per collection; a read only fills the
	// cache if no write invalidated the collection while it was loading.
	gensMu sync.Mutex
	gens   map[string]uint64
}

type Option func(*Service)

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithIDs(newID func() string) Option { return func(s *Service) { s.newID = newID } }

// WithLocation sets the zone analytics partitions by.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.location = loc } }

func WithAlerter(a StockAlerter) Option { return func(s *Service) { s.alerter = a } }

func WithTTL(collection string, ttl time.Duration) Option {
	return func(s *Service) { s.ttls[collection] = ttl }
}

func New(sel *store.Selector, c *cache.TTLCache, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		sel:      sel,
		cache:    c,
		ttls:     map[string]time.Duration{},
		log:      logger,
		now:      time.Now,
		newID:    uuid.NewString,
		location: time.Local,
		locks:    map[string]*sync.Mutex{},
		gens:     map[string]uint64{},
	}
	for k, v := range DefaultTTLs {
		s.ttls[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Cache() *cache.TTLCache { return s.cache }

func (s *Service) ttl(collection string) time.Duration {
	if d, ok := s.ttls[collection]; ok {
		return d
	}
	return 2 * time.Minute
}

// lock serialises writers of one collection inside this process. Other
// processes can still interleave; last write wins at the store.
func (s *Service) lock(collection string) func() {
	s.locksMu.Lock()
	m, ok := s.locks[collection]
	if !ok {
		m = &sync.Mutex{}
		s.locks[collection] = m
	}
	s.locksMu.Unlock()
	m.Lock()
	return m.Unlock
}

func (s *Service) generation(collection string) uint64 {
	s.gensMu.Lock()
	defer s.gensMu.Unlock()
	return s.gens[collection]
}

func (s *Service) invalidate(collection string) {
	s.gensMu.Lock()
	defer s.gensMu.Unlock()
	s.gens[collection]++
	s.cache.Invalidate(collection)
}

// fill caches records unless collection was invalidated after gen was taken.
func (s *Service) fill(collection string, gen uint64, records any) bool {
	s.gensMu.Lock()
	defer s.gensMu.Unlock()
	if s.gens[collection] != gen {
		return false
	}
	s.cache.Set(collection, records, s.ttl(collection))
	return true
}

// WriteResult reports per-record outcome counts of one write.
type WriteResult struct {
	Success  bool         `json:"success"`
	Updated  int          `json:"updated"`
	Deleted  int          `json:"deleted"`
	Skipped  int          `json:"skipped"`
	Backend  store.Source `json:"backend,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
	Warning  string       `json:"warning,omitempty"`
}

// Partial is true when some records were written and some were skipped.
func (r WriteResult) Partial() bool {
	return r.Skipped > 0 && r.Updated+r.Deleted > 0
}

// Changes is what a mutation wants done to a collection.
type Changes[T models.Record] struct {
	// Put holds new or modified records.
	Put []T
	// Fields marks a Put record as a partial update: only these fields go to
	// the remote store. The record in Put must already carry the new values.
	Fields map[string]map[string]any
	Delete []string
	// Skipped counts input records the mutation rejected.
	Skipped int
}

func (c *Changes[T]) patch(rec T, fields map[string]any) {
	if c.Fields == nil {
		c.Fields = map[string]map[string]any{}
	}
	c.Put = append(c.Put, rec)
	c.Fields[rec.RecordID()] = fields
}

func (c Changes[T]) empty() bool {
	return len(c.Put) == 0 && len(c.Delete) == 0
}

// ReadCollection returns the records of collection, from the cache when fresh.
// The returned slice is a copy and safe to modify.
func ReadCollection[T models.Record](ctx context.Context, s *Service, collection string) ([]T, store.Result, error) {
	if cached, ok := cache.Lookup[[]T](s.cache, collection); ok {
		return slices.Clone(cached), store.Result{Backend: Cached}, nil
	}
	gen := s.generation(collection)
	records, res, err := readStore[T](ctx, s, collection)
	if err != nil {
		return nil, res, err
	}
	if !s.fill(collection, gen, slices.Clone(records)) {
		s.log.Debug("collection changed during read, not caching", "collection", collection)
	}
	return records, res, nil
}

func readStore[T models.Record](ctx context.Context, s *Service, collection string) ([]T, store.Result, error) {
	var records []T
	res, err := s.sel.Read(ctx, collection, &records)
	if err != nil {
		return nil, res, err
	}
	if records == nil {
		records = []T{}
	}
	return records, res, nil
}

func list[T models.Record](ctx context.Context, s *Service, collection string) ([]T, error) {
	records, _, err := ReadCollection[T](ctx, s, collection)
	return records, err
}

// WriteCollection runs mutate against the current records and writes the
// resulting changes as one batch. The cache entry is dropped before and
// after the write.
func WriteCollection[T models.Record](ctx context.Context, s *Service, collection string, mutate func([]T) (Changes[T], error)) (WriteResult, error) {
	unlock := s.lock(collection)
	defer unlock()

	current, _, err := readStore[T](ctx, s, collection)
	if err != nil {
		return WriteResult{}, err
	}
	changes, err := mutate(slices.Clone(current))
	if err != nil {
		return WriteResult{}, err
	}
	if changes.empty() {
		return WriteResult{Success: true, Skipped: changes.Skipped}, nil
	}

	batch := store.Batch{Snapshot: applyChanges(current, changes)}
	for _, rec := range changes.Put {
		if fields, ok := changes.Fields[rec.RecordID()]; ok {
			batch.Patches = append(batch.Patches, store.Patch{ID: rec.RecordID(), Fields: fields})
			continue
		}
		batch.Upserts = append(batch.Upserts, rec)
	}
	batch.Deletes = changes.Delete

	s.invalidate(collection)
	res, err := s.sel.Write(ctx, collection, batch)
	s.invalidate(collection)
	if err != nil {
		return WriteResult{}, err
	}

	if res.Fallback {
		s.log.Info("write served by local fallback", "collection", collection)
	}
	return WriteResult{
		Success:  true,
		Updated:  len(changes.Put),
		Deleted:  len(changes.Delete),
		Skipped:  changes.Skipped,
		Backend:  res.Backend,
		Fallback: res.Fallback,
	}, nil
}

// applyChanges replaces records in place, appends new ones in Put order and
// drops deleted ids.
func applyChanges[T models.Record](current []T, changes Changes[T]) []T {
	index := make(map[string]int, len(current))
	out := make([]T, 0, len(current)+len(changes.Put))
	for _, rec := range current {
		index[rec.RecordID()] = len(out)
		out = append(out, rec)
	}
	for _, rec := range changes.Put {
		if i, ok := index[rec.RecordID()]; ok {
			out[i] = rec
			continue
		}
		index[rec.RecordID()] = len(out)
		out = append(out, rec)
	}
	if len(changes.Delete) == 0 {
		return out
	}
	drop := make(map[string]bool, len(changes.Delete))
	for _, id := range changes.Delete {
		drop[id] = true
	}
	return slices.DeleteFunc(out, func(rec T) bool { return drop[rec.RecordID()] })
}

func find[T models.Record](records []T, id string) (T, int, bool) {
	for i, rec := range records {
		if rec.RecordID() == id {
			return rec, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// nameTaken reports a case-insensitive name collision with any record but exceptID.
func nameTaken[T models.Record](records []T, name, exceptID string, nameOf func(T) string) bool {
	for _, rec := range records {
		if rec.RecordID() != exceptID && strings.EqualFold(strings.TrimSpace(nameOf(rec)), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func get[T models.Record](ctx context.Context, s *Service, collection, id string) (T, error) {
	records, err := list[T](ctx, s, collection)
	if err != nil {
		var zero T
		return zero, err
	}
	rec, _, ok := find(records, id)
	if !ok {
		return rec, fault.Missing(collection, id)
	}
	return rec, nil
}

// replace loads the record with id, lets edit produce the new version and writes it.
func replace[T models.Record](ctx context.Context, s *Service, collection, id string, edit func(existing T, all []T) (T, error)) (T, WriteResult, error) {
	var updated T
	res, err := WriteCollection(ctx, s, collection, func(records []T) (Changes[T], error) {
		existing, _, ok := find(records, id)
		if !ok {
			return Changes[T]{}, fault.Missing(collection, id)
		}
		rec, err := edit(existing, records)
		if err != nil {
			return Changes[T]{}, err
		}
		updated = rec
		return Changes[T]{Put: []T{rec}}, nil
	})
	return updated, res, err
}

func insert[T models.Record](ctx context.Context, s *Service, collection string, build func(all []T) (T, error)) (T, WriteResult, error) {
	var created T
	res, err := WriteCollection(ctx, s, collection, func(records []T) (Changes[T], error) {
		rec, err := build(records)
		if err != nil {
			return Changes[T]{}, err
		}
		created = rec
		return Changes[T]{Put: []T{rec}}, nil
	})
	return created, res, err
}

func remove[T models.Record](ctx context.Context, s *Service, collection, id string) (WriteResult, error) {
	return WriteCollection(ctx, s, collection, func(records []T) (Changes[T], error) {
		if _, _, ok := find(records, id); !ok {
			return Changes[T]{}, fault.Missing(collection, id)
		}
		return Changes[T]{Delete: []string{id}}, nil
	})
}

// ReadNamed is the untyped read used by the generic collection endpoint.
func (s *Service) ReadNamed(ctx context.Context, collection string) (any, store.Result, error) {
	switch collection {
	case store.Menu:
		return ReadCollection[models.MenuItem](ctx, s, collection)
	case store.Availability:
		return ReadCollection[models.Availability](ctx, s, collection)
	case store.Orders:
		return ReadCollection[models.Order](ctx, s, collection)
	case store.Analytics:
		return ReadCollection[models.AnalyticsSnapshot](ctx, s, collection)
	case store.Inventory:
		return ReadCollection[models.InventoryItem](ctx, s, collection)
	case store.Combos:
		return ReadCollection[models.Combo](ctx, s, collection)
	case store.Offers:
		return ReadCollection[models.Offer](ctx, s, collection)
	case store.Specials:
		return ReadCollection[models.Special](ctx, s, collection)
	case store.Tasks:
		return ReadCollection[models.Task](ctx, s, collection)
	case store.Customers:
		return ReadCollection[models.CustomerProfile](ctx, s, collection)
	}
	// staff credentials are never exposed through the generic read
	return nil, store.Result{}, fault.New(fault.NotFound, "unknown collection %q", collection)
}

// CacheInfo exposes the cache diagnostics.
func (s *Service) CacheInfo() []cache.EntryInfo { return s.cache.Info() }
