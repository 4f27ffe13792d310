package event

import (
	"errors"
	"fmt"
)

// ErrEmptyCause is returned when a cause has no root.
var ErrEmptyCause = errors.New("event: cause must have a root")

// Cause is the ordered chain of objects responsible for an event, the
// direct cause first.
type Cause struct {
	chain []any
}

func NewCause(root any, more ...any) (Cause, error) {
	if root == nil {
		return Cause{}, ErrEmptyCause
	}
	chain := make([]any, 0, 1+len(more))
	chain = append(chain, root)
	for i, m := range more {
		if m == nil {
			return Cause{}, fmt.Errorf("event: cause entry %d is nil", i+1)
		}
		chain = append(chain, m)
	}
	return Cause{chain: chain}, nil
}

// Root is the direct cause.
func (c Cause) Root() any {
	if len(c.chain) == 0 {
		return nil
	}
	return c.chain[0]
}

func (c Cause) All() []any { return append([]any(nil), c.chain...) }

// With returns a cause extended by more entries.
func (c Cause) With(more ...any) (Cause, error) {
	if len(c.chain) == 0 {
		if len(more) == 0 {
			return Cause{}, ErrEmptyCause
		}
		return NewCause(more[0], more[1:]...)
	}
	return NewCause(c.chain[0], append(c.chain[1:len(c.chain):len(c.chain)], more...)...)
}

// First returns the first entry of type T.
func First[T any](c Cause) (T, bool) {
	for _, e := range c.chain {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// PluginCause names a plugin in a cause chain.
type PluginCause struct {
	ID string
}

func (p PluginCause) String() string { return "plugin:" + p.ID }
