package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds = errors.New("move is out of bounds")
	ErrOccupied    = errors.New("move is occupied")
	ErrFullBoard   = errors.New("entire board is filled")
)

// PlacingError reports why a stone could not be placed.
type PlacingError struct {
	Kind error // One of ErrOutOfBounds, ErrOccupied or ErrFullBoard
	Move Move
}

func (e *PlacingError) Error() string {
	if e.Kind == ErrFullBoard {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: (%d, %d)", e.Kind, e.Move.X, e.Move.Y)
}

func (e *PlacingError) Unwrap() error {
	return e.Kind
}
