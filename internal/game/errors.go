package game

import "errors"

var (
	ErrRoomFull         = errors.New("room is full")
	ErrInvalidTurn      = errors.New("not your turn")
	ErrUnknownRoom      = errors.New("room not found")
	ErrUnknownPlayer    = errors.New("player not found")
	ErrInvalidRoom      = errors.New("room code required")
	ErrInvalidName      = errors.New("player name required")
	ErrAlreadyJoined    = errors.New("already in room")
	ErrNotEnoughPlayers = errors.New("not enough players")
)
