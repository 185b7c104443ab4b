package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/domain"
)

// Router delivers addressed events to single target connections. It is
// stateless; target liveness is resolved through the Registry on every
// call, and a missing target is a silent no-op because signaling is
// expected to race with disconnects.
type Router struct {
	reg *Registry
}

func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg}
}

// Notify marshals {type, data} and hands it to the target's sender.
// Returns false when the target is no longer registered.
func (rt *Router) Notify(to domain.ConnID, event string, payload any) bool {
	s, ok := rt.reg.Lookup(to)
	if !ok {
		log.Debug().Str("module", "relay.router").Str("event", event).Str("to", string(to)).Msg("target gone, dropping")
		return false
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("module", "relay.router").Str("event", event).Msg("marshal payload")
		return false
	}
	frame, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "relay.router").Str("event", event).Msg("marshal envelope")
		return false
	}
	if err := s.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "relay.router").Str("event", event).Str("to", string(to)).Msg("send failed")
		return false
	}
	return true
}

// Relay forwards an opaque negotiation envelope to one target. The
// payload is never inspected beyond its type discriminant, and that
// only for logging.
func (rt *Router) Relay(signal json.RawMessage, to, from domain.ConnID) {
	var disc struct {
		Type string `json:"type"`
	}
	// Best effort: an unparseable discriminant still gets relayed.
	_ = json.Unmarshal(signal, &disc)
	log.Debug().
		Str("module", "relay.router").
		Str("signal_type", disc.Type).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("relaying signal")
	rt.Notify(to, EventReceiveSignal, ReceiveSignal{Signal: signal, From: string(from)})
}
