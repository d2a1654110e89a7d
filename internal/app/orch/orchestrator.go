// Package orch drives session lifecycle: it turns client events into store
// mutations and sends the resulting notifications.
package orch

import (
	"context"

	"github.com/dkeye/Arena/internal/app"
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/protocol"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomStore
	Relay    *app.Relay
	Policy   app.Policy
}

func New(registry *app.Registry, rooms core.RoomStore, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: registry,
		Rooms:    rooms,
		Relay:    app.NewRelay(rooms, registry),
		Policy:   policy,
	}
}

// Connect registers the session and broadcasts the new presence count.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	n := o.Registry.Bind(sid, conn, cancel)
	o.broadcast(protocol.NewOnlineCount(n))
}

// Disconnect is safe to call more than once; only the first call has effects.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	n, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	o.broadcast(protocol.NewOnlineCount(n))

	res := o.Rooms.RemoveConnection(sid)
	if !res.Found {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(res.Room)).Msg("disconnect closed room")
	o.notifyLeft(res)
	o.broadcastRooms()
}

func (o *Orchestrator) notifyLeft(res core.MutationResult) {
	msg := protocol.NewPlayerLeft(res.Room)
	for _, sid := range res.Remaining {
		o.send(sid, msg)
	}
}

// SendError reports a rejected request to its sender only.
func (o *Orchestrator) SendError(sid core.SessionID, err error) {
	log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("request rejected")
	o.send(sid, protocol.NewError(err))
}

// Send delivers one message to sid. Delivery is best effort.
func (o *Orchestrator) Send(sid core.SessionID, v any) {
	o.send(sid, v)
}

func (o *Orchestrator) send(sid core.SessionID, v any) {
	conn, ok := o.Registry.Get(sid)
	if !ok {
		return
	}
	f, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	if err := conn.TrySend(f); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("send dropped")
	}
}

func (o *Orchestrator) sendTo(sids []core.SessionID, v any) {
	f, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	for _, sid := range sids {
		if conn, ok := o.Registry.Get(sid); ok {
			_ = conn.TrySend(f)
		}
	}
}

func (o *Orchestrator) broadcast(v any) {
	f, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	for _, snap := range o.Registry.Snapshot() {
		_ = snap.Conn.TrySend(f)
	}
}

func (o *Orchestrator) broadcastRooms() {
	o.broadcast(protocol.NewRoomList(o.Rooms.ListPublic()))
}
