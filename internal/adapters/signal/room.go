package signal

import (
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) allow(sid core.SessionID) bool {
	if ctl.Limiter == nil || ctl.Limiter.Allow(sid) {
		return true
	}
	ctl.Orch.SendError(sid, domain.ErrRateLimited)
	return false
}

func (ctl *SignalWSController) handleCreate(sid core.SessionID, p protocol.CreateRoom) {
	if !ctl.allow(sid) {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Name).Msg("create")
	_ = ctl.Orch.CreateRoom(sid, p)
}

func (ctl *SignalWSController) handleJoin(sid core.SessionID, p protocol.JoinRoom) {
	if !ctl.allow(sid) {
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Name).Msg("join")
	_ = ctl.Orch.JoinRoom(sid, p)
}

// handleLeave закрывает комнату целиком, но соединение остаётся живым.
func (ctl *SignalWSController) handleLeave(sid core.SessionID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	_ = ctl.Orch.LeaveRoom(sid)
}
