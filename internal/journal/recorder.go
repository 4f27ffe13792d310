package journal

import (
	"log"
	"time"

	"github.com/google/uuid"

	"voxelapi.dev/api/event"
	"voxelapi.dev/internal/protocol"
)

// Sink receives every recorded explosion.
type Sink interface {
	WriteExplosion(protocol.ExplosionEvent) error
}

// Recorder listens for explosion events after all other listeners ran and
// hands the outcome to its sinks.
type Recorder struct {
	logger *log.Logger
	sinks  []Sink

	// OnSinkError, if set, is called for every failed sink write.
	OnSinkError func(err error)

	now   func() time.Time
	newID func() string
}

func NewRecorder(logger *log.Logger, sinks ...Sink) *Recorder {
	return &Recorder{
		logger: logger,
		sinks:  sinks,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Attach subscribes the recorder at OrderPost, cancelled events included.
func (r *Recorder) Attach(bus *event.Bus) event.Registration {
	return event.Subscribe(bus, r.Record, event.WithOrder(event.OrderPost), event.IncludeCancelled(), event.Named("journal.recorder"))
}

// Record captures ev and writes it to every sink. Sink failures are logged
// and do not stop the remaining sinks.
func (r *Recorder) Record(ev event.WorldOnExplosionEvent) {
	entry := protocol.NewExplosionEvent(r.newID(), r.now(), ev)
	for _, s := range r.sinks {
		if s == nil {
			continue
		}
		if err := s.WriteExplosion(entry); err != nil {
			if r.logger != nil {
				r.logger.Printf("journal: sink %T: %v", s, err)
			}
			if r.OnSinkError != nil {
				r.OnSinkError(err)
			}
		}
	}
}
