package notify

import (
	"sync"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// Emission is a single recorded transport call.
type Emission struct {
	ChannelID string
	Kind      entities.EventKind
	Payload   any
}

// Recorder is a Transport that keeps every emission in memory.
type Recorder struct {
	mu    sync.Mutex
	sent  []Emission
	fails map[string]error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{fails: map[string]error{}}
}

// FailChannel makes every emit to channelID return err.
func (r *Recorder) FailChannel(channelID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[channelID] = err
}

// Emit implements Transport.
func (r *Recorder) Emit(channelID string, kind entities.EventKind, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fails[channelID]; err != nil {
		return err
	}
	r.sent = append(r.sent, Emission{ChannelID: channelID, Kind: kind, Payload: payload})
	return nil
}

// Sent returns a copy of the recorded emissions.
func (r *Recorder) Sent() []Emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Emission(nil), r.sent...)
}

// KindsFor returns the event kinds delivered to channelID, in order.
func (r *Recorder) KindsFor(channelID string) []entities.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.EventKind
	for _, e := range r.sent {
		if e.ChannelID == channelID {
			out = append(out, e.Kind)
		}
	}
	return out
}
