package orch

import (
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) SendRooms(sid core.SessionID) {
	o.send(sid, protocol.NewRoomList(o.Rooms.ListPublic()))
}

func (o *Orchestrator) CreateRoom(sid core.SessionID, req protocol.CreateRoom) error {
	res, err := o.Rooms.CreateRoom(sid, req.Name, req.Password, req.Settings.Input())
	if err != nil {
		o.SendError(sid, err)
		return err
	}
	o.send(sid, protocol.NewRoomCreated(res))
	o.broadcastRooms()
	return nil
}

// JoinRoom adds sid to a room; once it holds two or more members every
// member gets the start signal.
func (o *Orchestrator) JoinRoom(sid core.SessionID, req protocol.JoinRoom) error {
	res, err := o.Rooms.JoinRoom(sid, req.Name, req.Password)
	if err != nil {
		o.SendError(sid, err)
		return err
	}
	o.send(sid, protocol.NewRoomJoined(res))
	o.broadcastRooms()
	if len(res.Members) >= 2 {
		log.Info().Str("module", "orch").Str("room", string(res.Room)).Int("members", len(res.Members)).Msg("start signal")
		o.sendTo(res.Members, protocol.NewStartGame(res.Room, res.Settings))
	}
	return nil
}

// LeaveRoom applies the same room teardown as a disconnect but keeps the
// session registered.
func (o *Orchestrator) LeaveRoom(sid core.SessionID) error {
	res := o.Rooms.RemoveConnection(sid)
	if !res.Found {
		o.SendError(sid, domain.ErrNotInRoom)
		return domain.ErrNotInRoom
	}
	o.send(sid, protocol.NewLeft(res.Room))
	o.notifyLeft(res)
	o.broadcastRooms()
	return nil
}

func (o *Orchestrator) WhoAmI(sid core.SessionID) {
	room, role, _ := o.Rooms.RoomOf(sid)
	o.send(sid, protocol.NewIdentity(sid, room, role))
}
