package app

import (
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Relay forwards opaque frames to the other members of a room.
// It reads membership from the store and never mutates it.
type Relay struct {
	rooms    core.RoomStore
	registry *Registry
	logger   zerolog.Logger
}

func NewRelay(rooms core.RoomStore, registry *Registry) *Relay {
	return &Relay{
		rooms:    rooms,
		registry: registry,
		logger:   log.With().Str("module", "app.relay").Logger(),
	}
}

// Relay delivers f to every member of room except from. An empty room name is
// a silent no-op. The sender does not have to be a member.
func (r *Relay) Relay(from core.SessionID, room domain.RoomName, f core.Frame) core.PublishResult {
	res := core.PublishResult{}
	if room == "" {
		return res
	}
	for _, sid := range r.rooms.MembersOf(room) {
		if sid == from {
			continue
		}
		conn, ok := r.registry.Get(sid)
		if !ok {
			continue
		}
		if err := conn.TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	r.logger.Debug().
		Str("from", string(from)).
		Str("room", string(room)).
		Int("sent_to", res.SendTo).
		Int("dropped", len(res.Dropped)).
		Msg("relay result")
	return res
}
