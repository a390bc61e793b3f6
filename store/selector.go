package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"restaurant/fault"
)

var Fallbacks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "restaurant_backend_fallbacks_total",
		Help: "Remote store failures answered from the local files",
	},
	[]string{"collection", "op"},
)

type SelectorConfig struct {
	// PreferRemote is the deployment-wide choice; LocalOnly overrides it per collection.
	PreferRemote bool
	LocalOnly    []string
}

// Result says which backend served a call.
type Result struct {
	Backend  Source `json:"backend"`
	Fallback bool   `json:"fallback"`
}

type Selector struct {
	remote       Backend
	local        Backend
	preferRemote bool
	localOnly    map[string]bool
	log          *slog.Logger
}

// NewSelector builds a selector. remote may be nil, in which case every
// collection is served locally.
func NewSelector(remote, local Backend, cfg SelectorConfig, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	lo := make(map[string]bool, len(cfg.LocalOnly))
	for _, name := range cfg.LocalOnly {
		lo[name] = true
	}
	return &Selector{
		remote:       remote,
		local:        local,
		preferRemote: cfg.PreferRemote,
		localOnly:    lo,
		log:          logger,
	}
}

func (s *Selector) UsesRemote(collection string) bool {
	return s.remote != nil && s.preferRemote && !s.localOnly[collection]
}

// Read loads collection into out through exactly one backend.
func (s *Selector) Read(ctx context.Context, collection string, out any) (Result, error) {
	if !s.UsesRemote(collection) {
		if err := s.local.Load(ctx, collection, out); err != nil {
			return Result{}, fault.Wrap(fault.Persistence, err, "read %s", collection)
		}
		return Result{Backend: Local}, nil
	}

	remoteErr := s.remote.Load(ctx, collection, out)
	if remoteErr == nil {
		return Result{Backend: Remote}, nil
	}
	s.log.Warn("remote read failed, using local file", "collection", collection, "error", remoteErr)
	Fallbacks.WithLabelValues(collection, "read").Inc()

	resetSlice(out)
	if err := s.local.Load(ctx, collection, out); err != nil {
		return Result{}, fault.Wrap(fault.Persistence, multierror.Append(remoteErr, err), "read %s", collection)
	}
	return Result{Backend: Local, Fallback: true}, nil
}

// Write applies batch through exactly one backend. The file backend gets the
// whole snapshot, so a fallback write leaves the file consistent on its own.
func (s *Selector) Write(ctx context.Context, collection string, batch Batch) (Result, error) {
	if !s.UsesRemote(collection) {
		if err := s.local.Apply(ctx, collection, batch); err != nil {
			return Result{}, fault.Wrap(fault.Persistence, err, "write %s", collection)
		}
		return Result{Backend: Local}, nil
	}

	remoteErr := s.remote.Apply(ctx, collection, batch)
	if remoteErr == nil {
		return Result{Backend: Remote}, nil
	}
	if errors.Is(remoteErr, ErrPartialWrite) {
		s.log.Error("remote write partially applied, not falling back", "collection", collection, "ops", batch.Size(), "error", remoteErr)
		return Result{}, fault.Wrap(fault.Persistence, remoteErr, "write %s", collection)
	}
	s.log.Warn("remote write failed, using local file", "collection", collection, "ops", batch.Size(), "error", remoteErr)
	Fallbacks.WithLabelValues(collection, "write").Inc()

	if err := s.local.Apply(ctx, collection, batch); err != nil {
		return Result{}, fault.Wrap(fault.Persistence, multierror.Append(remoteErr, err), "write %s", collection)
	}
	return Result{Backend: Local, Fallback: true}, nil
}
