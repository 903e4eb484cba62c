package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage tracks project accessions the watcher has already announced.

// Store records which project accessions have been seen.
type Store interface {
	Close() error
	SeenProject(accession string) (bool, error)
	MarkProject(accession string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ProjectTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultProjectTTL      = 90 * 24 * time.Hour
	defaultCleanupInterval = 24 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ProjectTTL <= 0 {
		opts.ProjectTTL = defaultProjectTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) SeenProject(string) (bool, error) { return false, nil }
func (noopStore) MarkProject(string) error         { return nil }
