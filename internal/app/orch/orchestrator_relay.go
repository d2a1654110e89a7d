package orch

import (
	"github.com/dkeye/Arena/internal/app"
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
	"github.com/rs/zerolog/log"
)

// GameCommand relays the opaque command to the rest of the room. Membership
// of the sender is not checked.
func (o *Orchestrator) GameCommand(sid core.SessionID, cmd protocol.GameCommand) {
	if cmd.RoomName == "" {
		return
	}
	f, err := protocol.Encode(protocol.NewRemoteCommand(cmd.Raw))
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode remote command")
		return
	}
	room := domain.RoomName(cmd.RoomName)
	res := o.Relay.Relay(sid, room, f)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("sid", string(slow)).Str("room", string(room)).Msg("kicking slow member")
			o.Registry.Cancel(slow)
		case app.DropFrame, app.NoAction:
		}
	}
}
