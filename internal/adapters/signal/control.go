package signal

import (
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/protocol"
)

func (ctl *SignalWSController) handlePing(sid core.SessionID) {
	ctl.Orch.Send(sid, protocol.NewPong())
}
