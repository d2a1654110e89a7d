package core

import (
	"github.com/dkeye/Arena/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

// RoomSummary is the public lobby view of a room. It never carries the password.
type RoomSummary struct {
	Name        domain.RoomName `json:"name"`
	HasPassword bool            `json:"hasPassword"`
	PlayerCount int             `json:"playerCount"`
	MaxPlayers  int             `json:"maxPlayers"`
	Settings    domain.Settings `json:"settings"`
}

type RoomCreated struct {
	Room     domain.RoomName
	Role     domain.Role
	Settings domain.Settings
}

type RoleAssignment struct {
	Room     domain.RoomName
	Role     domain.Role
	Settings domain.Settings
	// Members in join order, including the joiner.
	Members []SessionID
}

// MutationResult describes what RemoveConnection did.
// Found is false when the session was in no room.
type MutationResult struct {
	Room      domain.RoomName
	Remaining []SessionID
	Found     bool
	Deleted   bool
}

// RoomStore is the single owner of room membership.
type RoomStore interface {
	CreateRoom(sid SessionID, name string, password string, in domain.SettingsInput) (RoomCreated, error)
	JoinRoom(sid SessionID, name string, password string) (RoleAssignment, error)
	RemoveConnection(sid SessionID) MutationResult

	ListPublic() []RoomSummary
	MembersOf(name domain.RoomName) []SessionID
	RoomOf(sid SessionID) (domain.RoomName, domain.Role, bool)
	Count() int
}
