package app

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/rs/zerolog/log"
)

type StoreOptions struct {
	MaxNameLen      int
	MaxPlayersLimit int
}

// RoomStore maps room names to rooms and keeps a reverse index from
// session to room. Every mutation runs under one lock, so capacity,
// name uniqueness and the one-room-per-session rule hold atomically.
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomName]*room
	byConn map[core.SessionID]domain.RoomName
	opts   StoreOptions
}

var _ core.RoomStore = (*RoomStore)(nil)

func NewRoomStore(opts StoreOptions) *RoomStore {
	return &RoomStore{
		rooms:  make(map[domain.RoomName]*room),
		byConn: make(map[core.SessionID]domain.RoomName),
		opts:   opts,
	}
}

func (s *RoomStore) CreateRoom(sid core.SessionID, rawName string, password string, in domain.SettingsInput) (core.RoomCreated, error) {
	name, err := domain.NewRoomName(rawName, s.opts.MaxNameLen)
	if err != nil {
		return core.RoomCreated{}, err
	}
	settings, err := in.Resolve(s.opts.MaxPlayersLimit)
	if err != nil {
		return core.RoomCreated{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byConn[sid]; ok {
		return core.RoomCreated{}, domain.ErrAlreadyInRoom
	}
	if _, ok := s.rooms[name]; ok {
		return core.RoomCreated{}, domain.ErrNameTaken
	}
	s.rooms[name] = newRoom(name, password, settings, sid)
	s.byConn[sid] = name

	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(name)).
		Bool("password", password != "").Int("max_players", settings.MaxPlayers).Msg("room created")
	return core.RoomCreated{Room: name, Role: domain.RoleFor(0), Settings: settings}, nil
}

func (s *RoomStore) JoinRoom(sid core.SessionID, rawName string, password string) (core.RoleAssignment, error) {
	name := domain.RoomName(rawName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byConn[sid]; ok {
		return core.RoleAssignment{}, domain.ErrAlreadyInRoom
	}
	r, ok := s.rooms[name]
	if !ok {
		return core.RoleAssignment{}, domain.ErrNotFound
	}
	if !r.admits(password) {
		return core.RoleAssignment{}, domain.ErrBadPassword
	}
	if r.full() {
		return core.RoleAssignment{}, domain.ErrRoomFull
	}
	role := r.add(sid)
	s.byConn[sid] = name

	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(name)).
		Str("role", string(role)).Int("members", len(r.members)).Msg("member joined")
	return core.RoleAssignment{
		Room:     name,
		Role:     role,
		Settings: r.settings,
		Members:  r.membersSnapshot(),
	}, nil
}

// RemoveConnection takes sid out of its room and deletes that room outright,
// whatever is left in it. The remaining members lose their membership too and
// are returned so the caller can notify them. Unknown sessions are a no-op.
func (s *RoomStore) RemoveConnection(sid core.SessionID) core.MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.byConn[sid]
	if !ok {
		return core.MutationResult{}
	}
	delete(s.byConn, sid)
	r, ok := s.rooms[name]
	if !ok {
		return core.MutationResult{}
	}
	r.remove(sid)
	remaining := r.membersSnapshot()
	for _, other := range remaining {
		delete(s.byConn, other)
	}
	delete(s.rooms, name)

	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(name)).
		Int("remaining", len(remaining)).Msg("room deleted")
	return core.MutationResult{
		Room:      name,
		Remaining: remaining,
		Found:     true,
		Deleted:   true,
	}
}

// ListPublic returns lobby summaries sorted by name, computed on every call.
func (s *RoomStore) ListPublic() []core.RoomSummary {
	s.mu.RLock()
	out := make([]core.RoomSummary, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, project(r))
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b core.RoomSummary) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func (s *RoomStore) MembersOf(name domain.RoomName) []core.SessionID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[name]
	if !ok {
		return nil
	}
	return r.membersSnapshot()
}

func (s *RoomStore) RoomOf(sid core.SessionID) (domain.RoomName, domain.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.byConn[sid]
	if !ok {
		return "", "", false
	}
	r, ok := s.rooms[name]
	if !ok {
		return "", "", false
	}
	role, ok := r.roleOf(sid)
	return name, role, ok
}

func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
