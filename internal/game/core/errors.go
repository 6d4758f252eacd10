package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove        = errors.New("destination is not a legal slide destination")
	ErrEmptySource        = errors.New("no unit at source")
	ErrNotOwned           = errors.New("unit not owned by faction")
	ErrSummonNotCommander = errors.New("only a commander can deploy")
	ErrInvalidFaction     = errors.New("invalid faction")
)

// WrapMoveError adds the faction and move to err. Returns nil for a nil err.
func WrapMoveError(f Faction, m Move, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %s: %w", f, m, err)
}
