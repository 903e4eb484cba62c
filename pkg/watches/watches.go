package watches

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package watches loads the saved-search registry (YAML/JSON) the watcher
// polls against the archive.

type Watch struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Keywords       []string `json:"keywords" yaml:"keywords"`
	PageSize       int      `json:"page_size" yaml:"page_size"`
	Enrich         bool     `json:"enrich" yaml:"enrich"`
	RequestDelayMs int      `json:"request_delay_ms" yaml:"request_delay_ms"`
}

type registryFile struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

const (
	defaultPageSize       = 25
	defaultRequestDelayMs = 500
)

// Registry materializes watch definitions loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	watches []Watch
	idx     map[string]Watch
}

// LoadRegistry loads the watch registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watches file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watches file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watches file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Watches) == 0 {
		return nil, errors.New("watches file contains no watches entries")
	}

	reg := &Registry{
		watches: make([]Watch, len(parsed.Watches)),
		idx:     make(map[string]Watch, len(parsed.Watches)),
	}

	for i := range parsed.Watches {
		w := sanitizeWatch(parsed.Watches[i])
		if err := validateWatch(w); err != nil {
			return nil, fmt.Errorf("watches[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches[i] = w
		reg.idx[w.ID] = w
	}

	return reg, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed registryFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return registryFile{}, errors.New("watches file format not recognized (expected YAML or JSON)")
}

func sanitizeWatch(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)

	keywords := make([]string, 0, len(w.Keywords))
	for _, kw := range w.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	w.Keywords = keywords

	if w.PageSize <= 0 {
		w.PageSize = defaultPageSize
	}
	if w.RequestDelayMs <= 0 {
		w.RequestDelayMs = defaultRequestDelayMs
	}

	return w
}

func validateWatch(w Watch) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("name is required for watch %q", w.ID)
	}
	if len(w.Keywords) == 0 {
		return fmt.Errorf("keywords are required for watch %q", w.ID)
	}
	return nil
}

// ByID returns the watch entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Watch, bool) {
	if r == nil {
		return Watch{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Watch{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.idx[id]
	return w, ok
}

// All returns a copy of the loaded watches.
func (r *Registry) All() []Watch {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// RequestDelay returns the per-project throttle duration for the watch.
func (w Watch) RequestDelay() time.Duration {
	if w.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(w.RequestDelayMs) * time.Millisecond
}
