package app

import (
	"crypto/subtle"
	"slices"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
)

// room is the mutable state behind one store entry.
// It is not threadsafe; RoomStore guards it.
type room struct {
	name     domain.RoomName
	password string
	settings domain.Settings
	// join order, index is the role position
	members []core.SessionID
}

func newRoom(name domain.RoomName, password string, settings domain.Settings, owner core.SessionID) *room {
	members := make([]core.SessionID, 1, min(settings.MaxPlayers, 8))
	members[0] = owner
	return &room{
		name:     name,
		password: password,
		settings: settings,
		members:  members,
	}
}

func (r *room) full() bool { return len(r.members) >= r.settings.MaxPlayers }

// admits reports whether password opens the room. Open rooms accept anything.
func (r *room) admits(password string) bool {
	if r.password == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(r.password), []byte(password)) == 1
}

func (r *room) add(sid core.SessionID) domain.Role {
	r.members = append(r.members, sid)
	return domain.RoleFor(len(r.members) - 1)
}

func (r *room) remove(sid core.SessionID) bool {
	i := slices.Index(r.members, sid)
	if i < 0 {
		return false
	}
	r.members = slices.Delete(r.members, i, i+1)
	return true
}

func (r *room) roleOf(sid core.SessionID) (domain.Role, bool) {
	i := slices.Index(r.members, sid)
	if i < 0 {
		return "", false
	}
	return domain.RoleFor(i), true
}

func (r *room) membersSnapshot() []core.SessionID {
	return slices.Clone(r.members)
}
