package domain

import "errors"

var (
	ErrNameTaken   = errors.New("room name is taken")
	ErrNotFound    = errors.New("room not found")
	ErrBadPassword = errors.New("wrong room password")
	ErrRoomFull    = errors.New("room is full")

	ErrInvalidName     = errors.New("invalid room name")
	ErrInvalidSettings = errors.New("invalid room settings")
	ErrAlreadyInRoom   = errors.New("already in a room")
	ErrNotInRoom       = errors.New("not in a room")
	ErrRateLimited     = errors.New("too many room requests")
)
