// Package protocol is the wire codec between websocket frames and hub events.
//
// Every frame is a JSON object whose "type" field selects the event. Decode
// turns it into one of the Inbound variants below.
package protocol

import (
	"errors"
	"fmt"

	"github.com/dkeye/Arena/internal/domain"
	"github.com/goccy/go-json"
)

var (
	ErrBadPayload  = errors.New("bad payload")
	ErrUnknownType = errors.New("unknown message type")
)

const (
	TypeGetRooms    = "get_rooms"
	TypeCreateRoom  = "create_room"
	TypeJoinRoom    = "join_room"
	TypeLeaveRoom   = "leave_room"
	TypeGameCommand = "game_command"
	TypePing        = "ping"
	TypeWhoAmI      = "whoami"

	typeGameCommandLegacy = "gameCommand"
)

// Inbound is one decoded client event.
type Inbound interface {
	inbound()
}

type GetRooms struct{}

type CreateRoom struct {
	Name     string           `json:"name"`
	Password string           `json:"password"`
	Settings *SettingsPayload `json:"settings"`
}

// SettingsPayload keeps absent fields nil so defaults can be told apart from zeros.
type SettingsPayload struct {
	MapSize    *int  `json:"mapSize"`
	IsIsland   *bool `json:"isIsland"`
	MaxPlayers *int  `json:"maxPlayers"`
}

func (p *SettingsPayload) Input() domain.SettingsInput {
	if p == nil {
		return domain.SettingsInput{}
	}
	return domain.SettingsInput{
		MapSize:    p.MapSize,
		IsIsland:   p.IsIsland,
		MaxPlayers: p.MaxPlayers,
	}
}

type JoinRoom struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LeaveRoom struct{}

// GameCommand is relayed as is. Raw holds the whole inbound object.
type GameCommand struct {
	RoomName string
	Raw      json.RawMessage
}

type Ping struct{}

type WhoAmI struct{}

func (GetRooms) inbound() {}
func (CreateRoom) inbound() {}
func (JoinRoom) inbound() {}
func (LeaveRoom) inbound() {}
func (GameCommand) inbound() {}
func (Ping) inbound() {}
func (WhoAmI) inbound() {}

func Decode(data []byte) (Inbound, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	switch env.Type {
	case TypeGetRooms:
		return GetRooms{}, nil
	case TypeCreateRoom:
		var p CreateRoom
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadPayload, env.Type, err)
		}
		return p, nil
	case TypeJoinRoom:
		var p JoinRoom
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadPayload, env.Type, err)
		}
		return p, nil
	case TypeLeaveRoom:
		return LeaveRoom{}, nil
	case TypeGameCommand, typeGameCommandLegacy:
		var p struct {
			RoomName string `json:"roomName"`
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadPayload, env.Type, err)
		}
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return GameCommand{RoomName: p.RoomName, Raw: raw}, nil
	case TypePing:
		return Ping{}, nil
	case TypeWhoAmI:
		return WhoAmI{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}
