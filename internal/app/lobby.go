package app

import (
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
)

// project builds the public summary of a room from its live state.
func project(r *room) core.RoomSummary {
	maxPlayers := r.settings.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = domain.DefaultMaxPlayers
	}
	return core.RoomSummary{
		Name:        r.name,
		HasPassword: r.password != "",
		PlayerCount: len(r.members),
		MaxPlayers:  maxPlayers,
		Settings:    r.settings,
	}
}
