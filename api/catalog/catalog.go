// Package catalog defines catalog types: named, registered values such as
// block types and dimension types that are identified by a stable id.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Type is implemented by every catalogued value.
type Type interface {
	// ID is the namespaced identifier, e.g. "minecraft:stone".
	ID() string
	// Name is a human readable name.
	Name() string
}

var (
	ErrEmptyID     = errors.New("catalog: empty id")
	ErrDuplicateID = errors.New("catalog: duplicate id")
)

// Registry holds the catalog types of one kind. It is safe for concurrent use.
type Registry[T Type] struct {
	kind   string
	zeroID string

	mu   sync.RWMutex
	byID map[string]T
}

// NewRegistry creates an empty registry. zeroID, if not empty, always takes
// palette index 0.
func NewRegistry[T Type](kind, zeroID string) *Registry[T] {
	return &Registry[T]{kind: kind, zeroID: zeroID, byID: map[string]T{}}
}

func (r *Registry[T]) Kind() string { return r.kind }

func (r *Registry[T]) Register(v T) error {
	id := strings.TrimSpace(v.ID())
	if id == "" {
		return fmt.Errorf("%s: %w", r.kind, ErrEmptyID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("%s %q: %w", r.kind, id, ErrDuplicateID)
	}
	r.byID[id] = v
	return nil
}

func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byID[id]
	return v, ok
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// All returns every registered value sorted by id.
func (r *Registry[T]) All() []T {
	ids := r.Palette()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out
}

// Palette returns the sorted ids, with the zero id (when registered) moved to
// index 0.
func (r *Registry[T]) Palette() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.byID))
	_, hasZero := r.byID[r.zeroID]
	for id := range r.byID {
		if hasZero && id == r.zeroID {
			continue
		}
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	if hasZero {
		ids = append([]string{r.zeroID}, ids...)
	}
	return ids
}

// Digest is the hex SHA-256 of the JSON encoded palette. Two registries with
// the same ids share a digest.
func (r *Registry[T]) Digest() string {
	b, _ := json.Marshal(r.Palette())
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
