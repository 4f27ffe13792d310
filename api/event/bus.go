package event

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Order positions a listener relative to others for the same post.
type Order int

const (
	// OrderPre listeners run first and should only observe.
	OrderPre Order = iota
	OrderEarly
	OrderDefault
	OrderLate
	// OrderPost listeners see the final state, including cancellation.
	OrderPost
)

func (o Order) String() string {
	switch o {
	case OrderPre:
		return "pre"
	case OrderEarly:
		return "early"
	case OrderDefault:
		return "default"
	case OrderLate:
		return "late"
	case OrderPost:
		return "post"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder accepts the String form of an Order.
func ParseOrder(s string) (Order, error) {
	for o := OrderPre; o <= OrderPost; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	return OrderDefault, fmt.Errorf("event: unknown order %q", s)
}

// Manager posts events to listeners.
type Manager interface {
	// Post delivers e and reports whether it ended cancelled.
	Post(e Event) bool
}

// Option configures a listener.
type Option func(*listener)

func WithOrder(o Order) Option { return func(l *listener) { l.order = o } }

// Named labels the listener in panic reports.
func Named(name string) Option { return func(l *listener) { l.name = name } }

// IncludeCancelled delivers events even after a listener cancelled them.
func IncludeCancelled() Option { return func(l *listener) { l.includeCancelled = true } }

type listener struct {
	id               uint64
	name             string
	order            Order
	includeCancelled bool
	handle           func(Event) bool
}

// PanicHandler is told about recovered listener panics.
type PanicHandler func(listener string, e Event, recovered any)

// Bus is the default Manager. Listeners are matched by the dynamic type of
// the posted event, so a listener for WorldEvent also receives every
// WorldOnExplosionEvent.
type Bus struct {
	logger  *log.Logger
	onPanic PanicHandler

	mu        sync.RWMutex
	nextID    uint64
	listeners []*listener
}

func NewBus(logger *log.Logger) *Bus {
	return &Bus{logger: logger}
}

// OnPanic sets a handler for recovered listener panics, in addition to logging.
func (b *Bus) OnPanic(h PanicHandler) {
	b.mu.Lock()
	b.onPanic = h
	b.mu.Unlock()
}

// Registration removes a listener from its bus.
type Registration struct {
	bus *Bus
	id  uint64
}

// Unregister is idempotent.
func (r Registration) Unregister() {
	if r.bus == nil {
		return
	}
	r.bus.remove(r.id)
}

// Subscribe registers fn for every posted event assignable to E.
func Subscribe[E Event](b *Bus, fn func(E), opts ...Option) Registration {
	l := &listener{order: OrderDefault}
	for _, opt := range opts {
		opt(l)
	}
	if l.name == "" {
		l.name = fmt.Sprintf("%T", fn)
	}
	l.handle = func(e Event) bool {
		typed, ok := e.(E)
		if !ok {
			return false
		}
		fn(typed)
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	l.id = b.nextID
	b.listeners = append(b.listeners, l)
	sort.SliceStable(b.listeners, func(i, j int) bool { return b.listeners[i].order < b.listeners[j].order })
	return Registration{bus: b, id: l.id}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

func (b *Bus) Post(e Event) bool {
	b.mu.RLock()
	snapshot := append([]*listener(nil), b.listeners...)
	onPanic := b.onPanic
	b.mu.RUnlock()

	c, cancellable := e.(Cancellable)
	for _, l := range snapshot {
		if cancellable && c.IsCancelled() && !l.includeCancelled {
			continue
		}
		b.deliver(l, e, onPanic)
	}
	return cancellable && c.IsCancelled()
}

func (b *Bus) deliver(l *listener, e Event, onPanic PanicHandler) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Printf("listener %s (%s) panicked on %T: %v", l.name, l.order, e, r)
			}
			if onPanic != nil {
				onPanic(l.name, e, r)
			}
		}
	}()
	l.handle(e)
}

var _ Manager = (*Bus)(nil)
