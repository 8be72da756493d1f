package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrColumnFull       = errors.New("column is full")
	ErrColumnOutOfRange = errors.New("column is out of range")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrUnknownOpponent  = errors.New("unknown opponent kind")
	ErrSessionNotFound  = errors.New("session not found")
)
