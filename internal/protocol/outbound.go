package protocol

import (
	"errors"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/goccy/go-json"
)

const (
	TypeOnlineCount   = "online_count"
	TypeRoomList      = "room_list"
	TypeRoomCreated   = "room_created"
	TypeRoomJoined    = "room_joined"
	TypeStartGame     = "start_game_signal"
	TypeRemoteCommand = "remote_command"
	TypePlayerLeft    = "player_left"
	TypeLeft          = "left"
	TypeError         = "error_msg"
	TypePong          = "pong"
)

type OnlineCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type RoomList struct {
	Type  string             `json:"type"`
	Rooms []core.RoomSummary `json:"rooms"`
}

// RoomJoined is sent for both room_created and room_joined.
type RoomJoined struct {
	Type     string          `json:"type"`
	RoomName domain.RoomName `json:"roomName"`
	Side     domain.Role     `json:"side"`
	Settings domain.Settings `json:"settings"`
}

type StartGame struct {
	Type     string          `json:"type"`
	RoomName domain.RoomName `json:"roomName"`
	Settings domain.Settings `json:"settings"`
}

type RemoteCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type RoomEvent struct {
	Type     string          `json:"type"`
	RoomName domain.RoomName `json:"roomName"`
}

type ErrorMsg struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type Pong struct {
	Type string `json:"type"`
}

type Identity struct {
	Type     string          `json:"type"`
	SID      core.SessionID  `json:"sid"`
	RoomName domain.RoomName `json:"roomName,omitempty"`
	Side     domain.Role     `json:"side,omitempty"`
}

func NewOnlineCount(n int) OnlineCount {
	return OnlineCount{Type: TypeOnlineCount, Count: n}
}

func NewRoomList(rooms []core.RoomSummary) RoomList {
	if rooms == nil {
		rooms = []core.RoomSummary{}
	}
	return RoomList{Type: TypeRoomList, Rooms: rooms}
}

func NewRoomCreated(c core.RoomCreated) RoomJoined {
	return RoomJoined{Type: TypeRoomCreated, RoomName: c.Room, Side: c.Role, Settings: c.Settings}
}

func NewRoomJoined(a core.RoleAssignment) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, RoomName: a.Room, Side: a.Role, Settings: a.Settings}
}

func NewStartGame(room domain.RoomName, s domain.Settings) StartGame {
	return StartGame{Type: TypeStartGame, RoomName: room, Settings: s}
}

func NewRemoteCommand(raw json.RawMessage) RemoteCommand {
	return RemoteCommand{Type: TypeRemoteCommand, Data: raw}
}

func NewPlayerLeft(room domain.RoomName) RoomEvent {
	return RoomEvent{Type: TypePlayerLeft, RoomName: room}
}

func NewLeft(room domain.RoomName) RoomEvent {
	return RoomEvent{Type: TypeLeft, RoomName: room}
}

func NewPong() Pong {
	return Pong{Type: TypePong}
}

func NewIdentity(sid core.SessionID, room domain.RoomName, side domain.Role) Identity {
	return Identity{Type: TypeWhoAmI, SID: sid, RoomName: room, Side: side}
}

func NewError(err error) ErrorMsg {
	return ErrorMsg{Type: TypeError, Code: ErrorCode(err), Error: err.Error()}
}

// ErrorCode maps an error to its stable wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNameTaken):
		return "name_taken"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrBadPassword):
		return "bad_password"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, domain.ErrInvalidSettings):
		return "invalid_settings"
	case errors.Is(err, domain.ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, domain.ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrBadPayload):
		return "bad_payload"
	default:
		return "internal"
	}
}

func Encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}
