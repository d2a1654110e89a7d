// Package domain contains room entities and their validation rules, no transport.
package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type RoomName string

const (
	DefaultMapSize    = 4000
	DefaultIsIsland   = false
	DefaultMaxPlayers = 2
)

// Settings is supplied at creation and never changes afterwards.
type Settings struct {
	MapSize    int  `json:"mapSize"`
	IsIsland   bool `json:"isIsland"`
	MaxPlayers int  `json:"maxPlayers"`
}

func DefaultSettings() Settings {
	return Settings{
		MapSize:    DefaultMapSize,
		IsIsland:   DefaultIsIsland,
		MaxPlayers: DefaultMaxPlayers,
	}
}

// SettingsInput holds the optional fields of a create request.
// A nil field means absent and gets the default.
type SettingsInput struct {
	MapSize    *int
	IsIsland   *bool
	MaxPlayers *int
}

// Resolve applies defaults and validates the present fields.
// maxPlayersLimit <= 0 disables the upper bound.
func (in SettingsInput) Resolve(maxPlayersLimit int) (Settings, error) {
	s := DefaultSettings()
	if in.MapSize != nil {
		if *in.MapSize <= 0 {
			return Settings{}, fmt.Errorf("%w: mapSize must be positive", ErrInvalidSettings)
		}
		s.MapSize = *in.MapSize
	}
	if in.IsIsland != nil {
		s.IsIsland = *in.IsIsland
	}
	if in.MaxPlayers != nil {
		if *in.MaxPlayers <= 0 {
			return Settings{}, fmt.Errorf("%w: maxPlayers must be positive", ErrInvalidSettings)
		}
		if maxPlayersLimit > 0 && *in.MaxPlayers > maxPlayersLimit {
			return Settings{}, fmt.Errorf("%w: maxPlayers above %d", ErrInvalidSettings, maxPlayersLimit)
		}
		s.MaxPlayers = *in.MaxPlayers
	}
	return s, nil
}

// NewRoomName validates a client supplied name. Names are case-sensitive
// and kept as sent; maxLen counts runes, <= 0 disables the check.
func NewRoomName(raw string, maxLen int) (RoomName, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if maxLen > 0 && utf8.RuneCountInString(raw) > maxLen {
		return "", fmt.Errorf("%w: longer than %d", ErrInvalidName, maxLen)
	}
	return RoomName(raw), nil
}
